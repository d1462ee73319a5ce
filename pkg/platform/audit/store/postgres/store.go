// Package postgres is an audit sink backed by the audit_events table. It is
// the primary sink when a database is configured and Kafka is not.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"

	audit "dealchecker/pkg/platform/audit"
	txcontext "dealchecker/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate audit_events: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append inserts the event. Re-appending an event id is a no-op so retried
// deliveries do not duplicate rows.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	id := event.ID
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO audit_events (id, action, deal_id, task_id, actor_id, request_id, decision, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		id,
		string(event.Action),
		event.DealID,
		nullString(event.TaskID),
		nullString(event.ActorID),
		nullString(event.RequestID),
		nullString(event.Decision),
		nullString(event.Detail),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByDeal returns a deal's events in append order.
func (s *Store) ListByDeal(ctx context.Context, dealID string) ([]audit.Event, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, action, deal_id, task_id, actor_id, request_id, decision, detail, created_at
		FROM audit_events WHERE deal_id = $1 ORDER BY seq`, dealID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	events := []audit.Event{}
	for rows.Next() {
		var (
			e                                   audit.Event
			action                              string
			taskID, actorID, requestID, decided sql.NullString
			detail                              sql.NullString
		)
		if err := rows.Scan(&e.ID, &action, &e.DealID, &taskID, &actorID, &requestID, &decided, &detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = audit.Action(action)
		e.TaskID = taskID.String
		e.ActorID = actorID.String
		e.RequestID = requestID.String
		e.Decision = decided.String
		e.Detail = detail.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
