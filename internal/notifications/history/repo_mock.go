package history

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

var _ eventsRepo = (*repoMock)(nil)

type repoMock struct {
	Events map[int]*DeliveryEvent
	mutex  sync.Mutex
	nextID int
}

func newRepoMock() *repoMock {
	return &repoMock{
		Events: make(map[int]*DeliveryEvent),
		nextID: 1,
	}
}

func (r *repoMock) Add(_ context.Context, event DeliveryEvent) (*DeliveryEvent, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	event.ID = r.nextID
	r.nextID++
	r.Events[event.ID] = &event
	return &event, nil
}

func (r *repoMock) matching(params EventParams) []*DeliveryEvent {
	var events []*DeliveryEvent
	for _, e := range r.Events {
		if params.Type != nil && e.Type != *params.Type {
			continue
		}
		if params.From != nil && e.Timestamp.Before(*params.From) {
			continue
		}
		if params.To != nil && e.Timestamp.After(*params.To) {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	return events
}

func (r *repoMock) List(_ context.Context, params ListParams) ([]*DeliveryEvent, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	events := r.matching(params.EventParams)
	from := params.Page * params.Size
	if from >= len(events) {
		return []*DeliveryEvent{}, nil
	}
	to := from + params.Size
	if to > len(events) {
		to = len(events)
	}
	return events[from:to], nil
}

func (r *repoMock) Count(_ context.Context, params EventParams) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.matching(params)), nil
}

func (r *repoMock) DailyStats(_ context.Context, from, to time.Time) ([]DailyStat, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	counts := make(map[string]*DailyStat)
	for _, e := range r.Events {
		if e.Timestamp.Before(from) || e.Timestamp.After(to) {
			continue
		}
		day := e.Timestamp.Truncate(24 * time.Hour)
		key := day.String() + "::" + e.Type.String()
		if stat, ok := counts[key]; ok {
			stat.Count++
		} else {
			counts[key] = &DailyStat{Day: day, Type: e.Type, Count: 1}
		}
	}

	stats := make([]DailyStat, 0, len(counts))
	for _, stat := range counts {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Day.After(stats[j].Day)
	})
	return stats, nil
}

func (r *repoMock) DistinctTitles(_ context.Context) ([]string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	seen := make(map[string]bool)
	var titles []string
	for _, e := range r.Events {
		if e.Title == "" || seen[e.Title] {
			continue
		}
		seen[e.Title] = true
		titles = append(titles, e.Title)
	}
	sort.Slice(titles, func(i, j int) bool {
		return strings.Compare(titles[i], titles[j]) < 0
	})
	return titles, nil
}

func (r *repoMock) ListSince(_ context.Context, since time.Time) ([]*DeliveryEvent, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var events []*DeliveryEvent
	for _, e := range r.Events {
		if e.Timestamp.After(since) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}
