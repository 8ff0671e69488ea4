package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/liftlog-app/backend/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/sahilm/fuzzy"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	statsCacheSize      = 10 * 1024 * 1024
	statsCacheExpirySec = 300
)

type eventsRepo interface {
	Add(ctx context.Context, event DeliveryEvent) (*DeliveryEvent, error)
	List(ctx context.Context, params ListParams) ([]*DeliveryEvent, error)
	Count(ctx context.Context, params EventParams) (int, error)
	DailyStats(ctx context.Context, from, to time.Time) ([]DailyStat, error)
	DistinctTitles(ctx context.Context) ([]string, error)
	ListSince(ctx context.Context, since time.Time) ([]*DeliveryEvent, error)
}

var _ eventsRepo = (*Repo)(nil)

type Service struct {
	repo  eventsRepo
	cache *freecache.Cache
}

func NewService(repo eventsRepo) *Service {
	return &Service{
		repo:  repo,
		cache: freecache.NewCache(statsCacheSize),
	}
}

// Record stores a delivery event. Recording is best effort all the way
// through: callers log the returned error and move on.
func (s *Service) Record(ctx context.Context, event DeliveryEvent) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notifications.history.record")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if _, err := s.repo.Add(ctx, event); err != nil {
		return fmt.Errorf("record delivery event: %w", err)
	}
	return nil
}

// RecordFired records a natural local-path fire. Used by the display
// decorator, hence no error return - a failure is logged here and absorbed.
func (s *Service) RecordFired(ctx context.Context, handle int64, title string) {
	if err := s.Record(ctx, DeliveryEvent{
		Handle:    handle,
		Type:      EventTypeFired,
		Mode:      "local",
		Title:     title,
		Timestamp: time.Now(),
	}); err != nil {
		log.Errorf("record fired notification %d: %s", handle, err)
	}
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []*DeliveryEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notifications.history.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list delivery events: %w", err)
	}
	return events, nil
}

func (s *Service) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notifications.history.count")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	count, err := s.repo.Count(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("count delivery events: %w", err)
	}
	return count, nil
}

// DailyStats - per-day counts by event type, cached for a few minutes
// since the admin dashboard polls this endpoint aggressively.
func (s *Service) DailyStats(ctx context.Context, from, to time.Time) (_ []DailyStat, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notifications.history.dailystats")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	cacheKey := []byte(fmt.Sprintf("daily-stats::%d::%d", from.Unix(), to.Unix()))
	if cached, err := s.cache.Get(cacheKey); err == nil {
		var stats []DailyStat
		if err := json.Unmarshal(cached, &stats); err != nil {
			log.Errorf("unmarshal cached daily stats: %s", err)
		} else {
			return stats, nil
		}
	}

	stats, err := s.repo.DailyStats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get daily stats: %w", err)
	}

	if statsBytes, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(cacheKey, statsBytes, statsCacheExpirySec); err != nil {
			log.Errorf("cache daily stats: %s", err)
		}
	}

	return stats, nil
}

// Titles returns the distinct notification titles, ranked by fuzzy match
// against the query when one is given. Used for admin autocomplete.
func (s *Service) Titles(ctx context.Context, query string) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notifications.history.titles")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	titles, err := s.repo.DistinctTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("get distinct titles: %w", err)
	}

	if query == "" {
		return titles, nil
	}

	matches := fuzzy.Find(query, titles)
	sort.Stable(matches)

	ranked := make([]string, 0, len(matches))
	for _, match := range matches {
		ranked = append(ranked, match.Str)
	}
	return ranked, nil
}

// ListSince - all events newer than the given timestamp, for the backup
// service.
func (s *Service) ListSince(ctx context.Context, since time.Time) (_ []*DeliveryEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notifications.history.listsince")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	events, err := s.repo.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list delivery events since %s: %w", since, err)
	}
	return events, nil
}
