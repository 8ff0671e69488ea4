package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/liftlog-app/backend/internal/notifications/history"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const listPageSize = 200

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

// NewHandler builds a handler with the given service.
func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// GetNotificationsContextTool returns the MCP tool handler for get_notifications_context.
func (h *Handler) GetNotificationsContextTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching schema: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// DeliveryHistoryInput is the input for get_delivery_history.
type DeliveryHistoryInput struct {
	FromDate  string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate    string `json:"to_date" jsonschema:"End date (YYYY-MM-DD)"`
	EventType string `json:"event_type,omitempty" jsonschema:"Filter by event type (scheduled, fired, cancelled, failed)"`
}

// GetDeliveryHistoryTool returns the MCP tool handler for get_delivery_history.
func (h *Handler) GetDeliveryHistoryTool() func(context.Context, *mcp.CallToolRequest, DeliveryHistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DeliveryHistoryInput) (*mcp.CallToolResult, any, error) {
		from, err := time.Parse("2006-01-02", in.FromDate)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid from_date: use YYYY-MM-DD"}},
				IsError: true,
			}, nil, nil
		}
		to, err := time.Parse("2006-01-02", in.ToDate)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid to_date: use YYYY-MM-DD"}},
				IsError: true,
			}, nil, nil
		}
		to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())

		params := history.ListParams{
			EventParams: history.EventParams{
				From: &from,
				To:   &to,
			},
			Page: 0,
			Size: listPageSize,
		}
		if in.EventType != "" {
			eventType := history.EventType(in.EventType)
			if !eventType.IsValid() {
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: "Invalid event_type: use scheduled, fired, cancelled or failed"}},
					IsError: true,
				}, nil, nil
			}
			params.Type = &eventType
		}

		events, err := h.service.ListDeliveryEvents(ctx, params)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error listing delivery events: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}

// DeliveryStatsInput is the input for get_delivery_stats.
type DeliveryStatsInput struct {
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD)"`
}

// GetDeliveryStatsTool returns the MCP tool handler for get_delivery_stats.
func (h *Handler) GetDeliveryStatsTool() func(context.Context, *mcp.CallToolRequest, DeliveryStatsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DeliveryStatsInput) (*mcp.CallToolResult, any, error) {
		from, err := time.Parse("2006-01-02", in.FromDate)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid from_date: use YYYY-MM-DD"}},
				IsError: true,
			}, nil, nil
		}
		to, err := time.Parse("2006-01-02", in.ToDate)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid to_date: use YYYY-MM-DD"}},
				IsError: true,
			}, nil, nil
		}
		to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())

		stats, err := h.service.GetDeliveryStats(ctx, from, to)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching delivery stats: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}
