package task

import (
	"context"
	"time"

	audit "dealchecker/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Store,RegistryNotifier,IdempotencyGuard,AuditPublisher

// Store persists tasks. Tasks are never deleted; the only update is the
// OPEN->DONE resolution of a system task.
type Store interface {
	// Create fails with sentinel.ErrConflict when the id or the deal's
	// idempotency key already exists, or when an OPEN system task for the same
	// deal and category exists.
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	// ListByDeal returns tasks in creation order.
	ListByDeal(ctx context.Context, dealID string) ([]*Task, error)
	FindByIdempotencyKey(ctx context.Context, dealID, key string) (*Task, error)
	ListOpenSystemChecks(ctx context.Context, dealID string) ([]*Task, error)
	// Resolve moves an OPEN task to DONE, returning sentinel.ErrInvalidState
	// when the task is no longer OPEN.
	Resolve(ctx context.Context, id string, res Resolution, actorID string, at time.Time) (*Task, error)
}

// RegistryNotifier tells the deal registry about a reviewer decision. The
// caller's credentials travel in ctx.
type RegistryNotifier interface {
	AcceptDeal(ctx context.Context, dealID string) error
	RejectDeal(ctx context.Context, dealID, comment string) error
}

// IdempotencyGuard serializes concurrent requests carrying the same key.
type IdempotencyGuard interface {
	// Acquire returns false when another holder owns key. On success the
	// returned token identifies this holder to Release.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Release frees key only while token still owns it.
	Release(ctx context.Context, key, token string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
