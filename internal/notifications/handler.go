package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/liftlog-app/backend/internal/notifications/history"
	"github.com/liftlog-app/backend/internal/telemetry/tracing"
	"github.com/liftlog-app/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=notifications_test

type scheduler interface {
	Schedule(ctx context.Context, delaySeconds float64, title, body string) (Handle, bool)
	Cancel(ctx context.Context, handle Handle)
	Mode() Mode
}

var _ scheduler = (*Scheduler)(nil)

type deliveryLog interface {
	Record(ctx context.Context, event history.DeliveryEvent) error
}

type Handler struct {
	scheduler   scheduler
	deliveryLog deliveryLog
}

func NewHandler(scheduler scheduler, deliveryLog deliveryLog) *Handler {
	return &Handler{
		scheduler:   scheduler,
		deliveryLog: deliveryLog,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/notifications", h.handleSchedule).
		Methods("POST", "OPTIONS").Name("schedule-notification")
	router.HandleFunc("/notifications/{handle}", h.handleCancel).
		Methods("DELETE", "OPTIONS").Name("cancel-notification")
}

type scheduleRequest struct {
	DelaySeconds float64 `json:"delay_seconds"`
	Title        string  `json:"title"`
	Body         string  `json:"body"`
}

type scheduleResponse struct {
	Handle *int64 `json:"handle"`
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notifications.schedule")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var scheduleReq scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&scheduleReq); err != nil {
		log.Errorf("schedule notification, unmarshal json params: %s", err)
		http.Error(w, "schedule notification failed", http.StatusBadRequest)
		return
	}

	if scheduleReq.DelaySeconds < 0 {
		http.Error(w, "error, negative delay", http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.Float64("delay.seconds", scheduleReq.DelaySeconds))

	mode := h.scheduler.Mode()
	handle, scheduled := h.scheduler.Schedule(ctx, scheduleReq.DelaySeconds, scheduleReq.Title, scheduleReq.Body)
	if !scheduled {
		h.record(ctx, history.DeliveryEvent{
			Type:  history.EventTypeFailed,
			Mode:  string(mode),
			Title: scheduleReq.Title,
			Data: map[string]string{
				"delay_seconds": strconv.FormatFloat(scheduleReq.DelaySeconds, 'f', -1, 64),
			},
		})
		// no notification will fire; the caller proceeds without one
		pkg.WriteJSONResponseOK(w, `{"handle": null}`)
		return
	}

	span.SetAttributes(attribute.Int64("handle", int64(handle)))

	h.record(ctx, history.DeliveryEvent{
		Handle: int64(handle),
		Type:   history.EventTypeScheduled,
		Mode:   string(mode),
		Title:  scheduleReq.Title,
		Data: map[string]string{
			"delay_seconds": strconv.FormatFloat(scheduleReq.DelaySeconds, 'f', -1, 64),
		},
	})

	handleValue := int64(handle)
	respBytes, err := json.Marshal(scheduleResponse{Handle: &handleValue})
	if err != nil {
		log.Errorf("marshal schedule response: %s", err)
		http.Error(w, "schedule notification failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusCreated)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notifications.cancel")
	defer span.End()

	vars := mux.Vars(r)
	handle, err := strconv.ParseInt(vars["handle"], 10, 64)
	if err != nil {
		// cancel tolerates any value; nothing to stop for a non-numeric one
		log.Tracef("cancel notification, non-numeric handle: %s", vars["handle"])
		pkg.WriteTextResponseOK(w, "ok")
		return
	}

	span.SetAttributes(attribute.Int64("handle", handle))

	h.scheduler.Cancel(ctx, Handle(handle))

	h.record(ctx, history.DeliveryEvent{
		Handle:    handle,
		Type:      history.EventTypeCancelled,
		Mode:      string(h.scheduler.Mode()),
		Timestamp: time.Now(),
	})

	pkg.WriteTextResponseOK(w, "ok")
}

func (h *Handler) record(ctx context.Context, event history.DeliveryEvent) {
	if h.deliveryLog == nil {
		return
	}
	if err := h.deliveryLog.Record(ctx, event); err != nil {
		log.Errorf("record delivery event [%s, handle %d]: %s", event.Type, event.Handle, err)
	}
}
