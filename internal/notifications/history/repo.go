package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liftlog-app/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type EventParams struct {
	Type *EventType
	From *time.Time
	To   *time.Time
}

type ListParams struct {
	EventParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, event DeliveryEvent) (_ *DeliveryEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notifications.history.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO delivery_event (handle, type, mode, title, data, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		event.Handle,
		event.Type,
		event.Mode,
		event.Title,
		event.Data,
		event.Timestamp,
	).Scan(&event.ID)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *DeliveryEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notifications.history.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	event := &DeliveryEvent{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, handle, type, mode, title, data, timestamp
			FROM delivery_event
			WHERE id = $1
		`, id).
		Scan(&event.ID, &event.Handle, &event.Type, &event.Mode, &event.Title, &event.Data, &event.Timestamp)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []*DeliveryEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notifications.history.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	if params.Type != nil {
		span.SetAttributes(attribute.String("type", string(*params.Type)))
	}
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	events := make([]*DeliveryEvent, 0)
	rows, err := r.db.Query(ctx, `
		SELECT id, handle, type, mode, title, data, timestamp
		FROM delivery_event
		WHERE ($1::text IS NULL OR type = $1)
		  AND ($2::timestamp IS NULL OR timestamp >= $2)
		  AND ($3::timestamp IS NULL OR timestamp <= $3)
		ORDER BY timestamp DESC
		LIMIT $4 OFFSET $5;
	`,
		params.Type,
		params.From, params.To,
		params.Size, params.Size*params.Page,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for rows.Next() {
		event := &DeliveryEvent{}
		if err := rows.Scan(
			&event.ID, &event.Handle, &event.Type, &event.Mode,
			&event.Title, &event.Data, &event.Timestamp,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

func (r *Repo) Count(ctx context.Context, params EventParams) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notifications.history.count")
	defer span.End()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM delivery_event
			WHERE ($1::text IS NULL OR type = $1)
		  	AND ($2::timestamp IS NULL OR timestamp >= $2)
			AND ($3::timestamp IS NULL OR timestamp <= $3);
	`,
		params.Type,
		params.From, params.To,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get delivery events count")
}

func (r *Repo) DailyStats(ctx context.Context, from, to time.Time) (_ []DailyStat, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notifications.history.dailystats")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rows, err := r.db.Query(ctx, `
		SELECT date_trunc('day', timestamp) AS day, type, COUNT(*)
		FROM delivery_event
		WHERE timestamp >= $1 AND timestamp <= $2
		GROUP BY day, type
		ORDER BY day DESC;
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make([]DailyStat, 0)
	for rows.Next() {
		var stat DailyStat
		if err := rows.Scan(&stat.Day, &stat.Type, &stat.Count); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	return stats, nil
}

func (r *Repo) DistinctTitles(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notifications.history.distincttitles")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT title FROM delivery_event WHERE title != '' ORDER BY title;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	titles := make([]string, 0)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}

	return titles, nil
}

// ListSince returns all events newer than the given timestamp, oldest
// first, used by the backup service for incremental exports.
func (r *Repo) ListSince(ctx context.Context, since time.Time) (_ []*DeliveryEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notifications.history.listsince")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	events := make([]*DeliveryEvent, 0)
	rows, err := r.db.Query(ctx, `
		SELECT id, handle, type, mode, title, data, timestamp
		FROM delivery_event
		WHERE timestamp > $1
		ORDER BY timestamp ASC;
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for rows.Next() {
		event := &DeliveryEvent{}
		if err := rows.Scan(
			&event.ID, &event.Handle, &event.Type, &event.Mode,
			&event.Title, &event.Data, &event.Timestamp,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
