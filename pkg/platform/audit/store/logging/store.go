// Package logging is an audit sink that writes events to a structured logger.
// It is the sink of last resort when no broker is configured.
package logging

import (
	"context"
	"log/slog"

	audit "dealchecker/pkg/platform/audit"
)

type Store struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	s.logger.InfoContext(ctx, "audit",
		"event_id", event.ID,
		"action", string(event.Action),
		"deal_id", event.DealID,
		"task_id", event.TaskID,
		"actor_id", event.ActorID,
		"request_id", event.RequestID,
		"decision", event.Decision,
		"detail", event.Detail,
		"timestamp", event.Timestamp,
	)
	return nil
}
