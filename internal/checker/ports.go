package checker

import (
	"context"

	"dealchecker/internal/compliance"
	"dealchecker/internal/deal"
	"dealchecker/internal/files"
	"dealchecker/internal/task"
	audit "dealchecker/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks DealSource,FileSource,TaskService,AuditPublisher

// DealSource fetches deal snapshots from the deal registry.
type DealSource interface {
	FetchDeal(ctx context.Context, dealID string) (deal.Deal, error)
}

// FileSource lists and opens the documents uploaded for a deal.
type FileSource interface {
	ListDealFiles(ctx context.Context, dealID string) ([]compliance.File, error)
	Open(ctx context.Context, dealID, fileID string) (*files.Object, error)
}

// TaskService is the review task lifecycle.
type TaskService interface {
	List(ctx context.Context, dealID string) ([]*task.Task, error)
	Get(ctx context.Context, dealID, taskID string) (*task.Task, error)
	CreateHumanCheck(ctx context.Context, dealID string, res *task.Resolution, idempotencyKey string) (*task.Task, error)
	OpenSystemChecks(ctx context.Context, dealID string, categories []compliance.Category) ([]*task.Task, error)
	Resolve(ctx context.Context, dealID, taskID string, res *task.Resolution) (*task.Task, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
