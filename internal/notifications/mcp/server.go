package mcp

import (
	"github.com/liftlog-app/backend/internal/notifications/history"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with notifications tools: schema, delivery
// history, delivery stats. Used by the main backend when mounting MCP at
// /mcp (internal/server), and by the stdio binary (cmd/notifications_mcp).
func NewServer(pool *pgxpool.Pool, deliveryLog *history.Service) *mcp.Server {
	svc := NewContextService(NewPoolSchemaRepo(pool), deliveryLog)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "notifications-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_notifications_context",
		Description: "Returns the DB schema for the notification delivery log (delivery_event): table names, columns, types, nullable, default. Use when developing against the backend and you need the actual schema.",
	}, h.GetNotificationsContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_delivery_history",
		Description: "Returns notification delivery events (scheduled, fired, cancelled, failed) within the given date range. Args: from_date, to_date (YYYY-MM-DD); optional: event_type. Use when you need to see what the scheduler did in a period.",
	}, h.GetDeliveryHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_delivery_stats",
		Description: "Returns per-day counts of delivery events by type for a date range. Args: from_date, to_date (YYYY-MM-DD). Use when analyzing notification volume or failure rates over time.",
	}, h.GetDeliveryStatsTool())

	return s
}
