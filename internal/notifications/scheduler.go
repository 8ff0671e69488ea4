package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/liftlog-app/backend/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Handle identifies a scheduled notification. Handles are unique
// process-wide, assigned monotonically starting at 1, and never reused -
// not even when scheduling fails after the handle was allocated.
type Handle int64

type Mode string

const (
	// ModePush - delivery delegated to the remote push gateway.
	ModePush Mode = "push"
	// ModeLocal - in-process timer plus the local display backend.
	ModeLocal Mode = "local"
)

// ModeFunc picks the delivery mode; queried on every call, never cached.
type ModeFunc func() Mode

// Scheduler arranges one-shot delayed notifications over one of two
// delivery modes and supports cancelling a still-pending one. Failure to
// notify never fails the caller: every backend fault collapses into the
// "no handle" return, logged at debug level.
type Scheduler struct {
	mu         sync.Mutex
	nextHandle Handle
	pending    map[Handle]TimerHandle

	modeFunc ModeFunc
	gateway  PushGateway
	display  Display
	metrics  *metrics.Manager

	// After arms the in-process timers; swappable in tests to control time.
	After AfterFunc
}

func NewScheduler(
	modeFunc ModeFunc,
	gateway PushGateway,
	display Display,
	metricsManager *metrics.Manager,
) *Scheduler {
	return &Scheduler{
		nextHandle: 1,
		pending:    make(map[Handle]TimerHandle),
		modeFunc:   modeFunc,
		gateway:    gateway,
		display:    display,
		metrics:    metricsManager,
		After:      stdAfterFunc,
	}
}

// Schedule arranges a notification to fire after delaySeconds. The second
// return value is false when no notification will fire - no cancellation
// needed then. Title and body are opaque to the scheduler.
func (s *Scheduler) Schedule(ctx context.Context, delaySeconds float64, title, body string) (Handle, bool) {
	// the handle is allocated before any scheduling attempt, so a handle
	// value is never reused even if scheduling fails below
	s.mu.Lock()
	handle := s.nextHandle
	s.nextHandle++
	s.mu.Unlock()

	mode := s.modeFunc()
	switch mode {
	case ModePush:
		if !s.schedulePush(ctx, handle, delaySeconds, title, body) {
			s.metrics.CounterNotificationsFailed.With(prometheus.Labels{"mode": string(mode)}).Inc()
			return 0, false
		}
	case ModeLocal:
		if !s.scheduleLocal(handle, delaySeconds, title, body) {
			s.metrics.CounterNotificationsFailed.With(prometheus.Labels{"mode": string(mode)}).Inc()
			return 0, false
		}
	default:
		log.Debugf("schedule notification %d: unknown delivery mode %q", handle, mode)
		return 0, false
	}

	s.metrics.CounterNotificationsScheduled.With(prometheus.Labels{"mode": string(mode)}).Inc()
	return handle, true
}

func (s *Scheduler) schedulePush(ctx context.Context, handle Handle, delaySeconds float64, title, body string) bool {
	// permission is requested lazily on every call, a prior grant is not cached
	granted, err := s.gateway.RequestPermission(ctx)
	if err != nil {
		log.Debugf("schedule notification %d (delay %.2fs): permission request: %s", handle, delaySeconds, err)
		return false
	}
	if !granted {
		log.Debugf("schedule notification %d (delay %.2fs): permission not granted", handle, delaySeconds)
		return false
	}

	fireAt := time.Now().Add(time.Duration(delaySeconds * float64(time.Second)))
	if err := s.gateway.ScheduleOne(ctx, handle, title, body, fireAt); err != nil {
		log.Debugf("schedule notification %d (delay %.2fs): gateway: %s", handle, delaySeconds, err)
		return false
	}

	return true
}

func (s *Scheduler) scheduleLocal(handle Handle, delaySeconds float64, title, body string) bool {
	if !s.display.Available() {
		log.Debugf("schedule notification %d (delay %.2fs): display unavailable", handle, delaySeconds)
		return false
	}

	permission := s.display.PermissionState()
	if permission == PermissionDefault {
		granted, err := s.display.RequestPermission()
		if err != nil {
			log.Debugf("schedule notification %d (delay %.2fs): permission request: %s", handle, delaySeconds, err)
			return false
		}
		if granted {
			permission = PermissionGranted
		} else {
			permission = PermissionDenied
		}
	}
	if permission != PermissionGranted {
		log.Debugf("schedule notification %d (delay %.2fs): permission %s", handle, delaySeconds, permission)
		return false
	}

	delay := time.Duration(delaySeconds * float64(time.Second))

	// holding the mutex across arming and insertion: a zero-delay callback
	// blocks on the same mutex until the pending entry exists
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := s.After(delay, func() {
		// the callback removes its own entry, a fired timer never leaves
		// stale bookkeeping behind; racing a concurrent Cancel is harmless
		// in both orders since delete and Stop are idempotent
		s.mu.Lock()
		_, present := s.pending[handle]
		delete(s.pending, handle)
		s.mu.Unlock()
		if !present {
			return // lost the race against Cancel
		}

		s.metrics.GaugeArmedTimers.Dec()
		s.metrics.CounterNotificationsFired.Inc()

		if err := s.display.Show(handle, title, body); err != nil {
			log.Debugf("show notification %d: %s", handle, err)
		}
	})
	s.pending[handle] = timer
	s.metrics.GaugeArmedTimers.Inc()

	return true
}

// Cancel stops a still-pending notification. It tolerates any value,
// including handles never returned by Schedule, and is idempotent.
func (s *Scheduler) Cancel(ctx context.Context, handle Handle) {
	mode := s.modeFunc()
	switch mode {
	case ModePush:
		// fire and forget, cancellation failure is logged only
		if err := s.gateway.Cancel(ctx, handle); err != nil {
			log.Debugf("cancel notification %d: %s", handle, err)
			return
		}
	case ModeLocal:
		s.mu.Lock()
		timer, present := s.pending[handle]
		if present {
			delete(s.pending, handle)
		}
		s.mu.Unlock()

		if !present {
			return
		}

		timer.Stop()
		s.metrics.GaugeArmedTimers.Dec()
	default:
		log.Debugf("cancel notification %d: unknown delivery mode %q", handle, mode)
		return
	}

	s.metrics.CounterNotificationsCancelled.With(prometheus.Labels{"mode": string(mode)}).Inc()
}

// Mode reports the currently selected delivery mode.
func (s *Scheduler) Mode() Mode {
	return s.modeFunc()
}

// PendingCount reports the number of armed local timers.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
