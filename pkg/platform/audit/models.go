package audit

import (
	"context"
	"time"
)

// Action names what happened. Values are stable: downstream consumers key on them.
type Action string

const (
	ActionTaskCreated       Action = "task_created"
	ActionSystemTaskOpened  Action = "system_task_opened"
	ActionTaskResolved      Action = "task_resolved"
	ActionComplianceChecked Action = "compliance_checked"
)

// Event is emitted from domain logic to capture reviewer and system actions.
// Keep it transport-agnostic so sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	DealID    string    `json:"dealId"`
	TaskID    string    `json:"taskId,omitempty"`
	// ActorID is the reviewer's user id, empty for system-initiated events.
	ActorID   string `json:"actorId,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	// Decision carries the resolution type or check outcome.
	Decision string `json:"decision,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Store is a sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
