package history

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/liftlog-app/backend/internal/telemetry/tracing"
	"github.com/liftlog-app/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultPageSize  = 50
	defaultStatsDays = 30
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=history_test

type service interface {
	List(ctx context.Context, params ListParams) ([]*DeliveryEvent, error)
	Count(ctx context.Context, params EventParams) (int, error)
	DailyStats(ctx context.Context, from, to time.Time) ([]DailyStat, error)
	Titles(ctx context.Context, query string) ([]string, error)
}

var _ service = (*Service)(nil)

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/notifications/history", h.handleList).
		Methods("GET").Name("notifications-history")
	router.HandleFunc("/notifications/stats", h.handleStats).
		Methods("GET").Name("notifications-stats")
	router.HandleFunc("/notifications/titles", h.handleTitles).
		Methods("GET").Name("notifications-titles")
}

type listResponse struct {
	Events []*DeliveryEvent `json:"events"`
	Total  int              `json:"total"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notifications.history.list")
	defer span.End()

	params := ListParams{
		Page: 0,
		Size: defaultPageSize,
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 0 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		params.Page = page
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		params.Size = limit
	}
	if fromStr := query.Get("from"); fromStr != "" {
		fromUnix, err := strconv.ParseInt(fromStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid from", http.StatusBadRequest)
			return
		}
		from := time.Unix(fromUnix, 0)
		params.From = &from
	}
	if toStr := query.Get("to"); toStr != "" {
		toUnix, err := strconv.ParseInt(toStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid to", http.StatusBadRequest)
			return
		}
		to := time.Unix(toUnix, 0)
		params.To = &to
	}
	if typeStr := query.Get("type"); typeStr != "" {
		eventType := EventType(typeStr)
		if !eventType.IsValid() {
			http.Error(w, "invalid type", http.StatusBadRequest)
			return
		}
		params.Type = &eventType
	}

	events, err := h.service.List(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("list delivery events: %s", err)
		http.Error(w, "failed to list delivery events", http.StatusInternalServerError)
		return
	}

	total, err := h.service.Count(ctx, params.EventParams)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("count delivery events: %s", err)
		http.Error(w, "failed to list delivery events", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(listResponse{
		Events: events,
		Total:  total,
	})
	if err != nil {
		log.Errorf("marshal delivery events: %s", err)
		http.Error(w, "failed to list delivery events", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notifications.history.stats")
	defer span.End()

	days := defaultStatsDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsedDays, err := strconv.Atoi(daysStr)
		if err != nil || parsedDays <= 0 {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		days = parsedDays
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	stats, err := h.service.DailyStats(ctx, from, to)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("get delivery stats: %s", err)
		http.Error(w, "failed to get delivery stats", http.StatusInternalServerError)
		return
	}

	statsBytes, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("marshal delivery stats: %s", err)
		http.Error(w, "failed to get delivery stats", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, statsBytes)
}

func (h *Handler) handleTitles(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notifications.history.titles")
	defer span.End()

	titles, err := h.service.Titles(ctx, r.URL.Query().Get("q"))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("get notification titles: %s", err)
		http.Error(w, "failed to get titles", http.StatusInternalServerError)
		return
	}

	titlesBytes, err := json.Marshal(titles)
	if err != nil {
		log.Errorf("marshal notification titles: %s", err)
		http.Error(w, "failed to get titles", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, titlesBytes)
}
