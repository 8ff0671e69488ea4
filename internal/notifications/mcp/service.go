package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/liftlog-app/backend/internal/notifications/history"
)

// DeliveryLogRepo provides delivery log list and stats (for dependency injection and testing).
type DeliveryLogRepo interface {
	List(ctx context.Context, params history.ListParams) ([]*history.DeliveryEvent, error)
	DailyStats(ctx context.Context, from, to time.Time) ([]history.DailyStat, error)
}

// contextService provides notifications context data (schema, history, stats).
// Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListDeliveryEvents(ctx context.Context, params history.ListParams) ([]*history.DeliveryEvent, error)
	GetDeliveryStats(ctx context.Context, from, to time.Time) ([]history.DailyStat, error)
}

// ContextService holds dependencies and implements the notifications context business logic.
type ContextService struct {
	schema      SchemaRepo
	deliveryLog DeliveryLogRepo
}

// NewContextService builds a ContextService with the given dependencies.
func NewContextService(schemaRepo SchemaRepo, deliveryLog DeliveryLogRepo) *ContextService {
	return &ContextService{
		schema:      schemaRepo,
		deliveryLog: deliveryLog,
	}
}

// GetSchema returns the DB schema (table names, columns, types) for the
// delivery log table: delivery_event.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetDeliveryLogColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatDeliveryLogSchema(cols), nil
}

func formatDeliveryLogSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Delivery Log DB Schema\n\nNo delivery log tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Delivery Log DB Schema\n\n")
	b.WriteString("Tables: delivery_event (schema: public).\n\n")

	for _, tableName := range tableOrder {
		tableCols := byTable[tableName]
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range tableCols {
			def := "—"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// ListDeliveryEvents returns delivery log events for the given params (time range, type filter).
func (s *ContextService) ListDeliveryEvents(ctx context.Context, params history.ListParams) ([]*history.DeliveryEvent, error) {
	return s.deliveryLog.List(ctx, params)
}

// GetDeliveryStats returns per-day counts of delivery events by type for the given period.
func (s *ContextService) GetDeliveryStats(ctx context.Context, from, to time.Time) ([]history.DailyStat, error) {
	return s.deliveryLog.DailyStats(ctx, from, to)
}
