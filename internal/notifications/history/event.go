package history

import "time"

// EventType can be one of:
//   - scheduled
//   - fired
//   - cancelled
//   - failed
type EventType string

const (
	EventTypeScheduled EventType = "scheduled"
	EventTypeFired     EventType = "fired"
	EventTypeCancelled EventType = "cancelled"
	EventTypeFailed    EventType = "failed"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeScheduled,
		EventTypeFired,
		EventTypeCancelled,
		EventTypeFailed:
		return true
	default:
		return false
	}
}

// DeliveryEvent (DB level type) is one entry of the scheduler's operational
// audit log. Handle carries the scheduler handle the entry refers to; for
// failed scheduling attempts it is 0, since no handle was exposed.
type DeliveryEvent struct {
	ID        int               `json:"id"`
	Handle    int64             `json:"handle"`
	Type      EventType         `json:"type"`
	Mode      string            `json:"mode"`
	Title     string            `json:"title"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

// DailyStat - per-day count of delivery events of one type.
type DailyStat struct {
	Day   time.Time `json:"day"`
	Type  EventType `json:"type"`
	Count int       `json:"count"`
}
