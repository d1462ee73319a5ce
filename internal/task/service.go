package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"dealchecker/internal/compliance"
	"dealchecker/internal/task/metrics"
	dErrors "dealchecker/pkg/domain-errors"
	audit "dealchecker/pkg/platform/audit"
	"dealchecker/pkg/platform/sentinel"
	"dealchecker/pkg/requestcontext"
)

var tracer = otel.Tracer("dealchecker/internal/task")

const defaultLockTTL = 30 * time.Second

// Service owns the task lifecycle. Human checks notify the deal registry
// before anything is persisted; a registry failure leaves no local state.
type Service struct {
	store    Store
	registry RegistryNotifier
	guard    IdempotencyGuard
	auditor  AuditPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	lockTTL  time.Duration
	now      func(context.Context) time.Time
}

type Option func(*Service)

func WithIdempotencyGuard(g IdempotencyGuard) Option {
	return func(s *Service) { s.guard = g }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLockTTL bounds how long an in-flight idempotency key stays locked.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func New(store Store, registry RegistryNotifier, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:    store,
		registry: registry,
		logger:   logger,
		lockTTL:  defaultLockTTL,
		now:      requestcontext.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.guard == nil {
		s.guard = NewMemoryGuard()
	}
	return s
}

// List returns the deal's tasks in creation order.
func (s *Service) List(ctx context.Context, dealID string) ([]*Task, error) {
	tasks, err := s.store.ListByDeal(ctx, dealID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tasks")
	}
	return tasks, nil
}

// Get returns a task of the given deal.
func (s *Service) Get(ctx context.Context, dealID, taskID string) (*Task, error) {
	t, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "task not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load task")
	}
	if t.DealID != dealID {
		return nil, dErrors.New(dErrors.CodeNotFound, "task not found")
	}
	return t, nil
}

// CreateHumanCheck records a reviewer decision. With a non-empty
// idempotencyKey a repeated request returns the task created by the first one
// without notifying the registry again.
func (s *Service) CreateHumanCheck(ctx context.Context, dealID string, res *Resolution, idempotencyKey string) (*Task, error) {
	ctx, span := tracer.Start(ctx, "task.CreateHumanCheck")
	defer span.End()
	span.SetAttributes(attribute.String("deal.id", dealID))

	if err := res.Validate(); err != nil {
		return nil, err
	}
	if dealID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "deal id is required")
	}

	if idempotencyKey != "" {
		if existing, err := s.replay(ctx, dealID, idempotencyKey); existing != nil || err != nil {
			return existing, err
		}

		lockKey := dealID + ":" + idempotencyKey
		token, ok, err := s.guard.Acquire(ctx, lockKey, s.lockTTL)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire idempotency lock")
		}
		if !ok {
			s.metrics.IncrementIdempotencyConflict()
			return nil, dErrors.New(dErrors.CodeConflict, "a request with this idempotency key is in progress")
		}
		defer func() {
			if err := s.guard.Release(context.WithoutCancel(ctx), lockKey, token); err != nil {
				s.logger.WarnContext(ctx, "failed to release idempotency lock", "key", lockKey, "error", err)
			}
		}()

		// The previous holder may have finished between the lookup and the lock.
		if existing, err := s.replay(ctx, dealID, idempotencyKey); existing != nil || err != nil {
			return existing, err
		}
	}

	if err := s.notifyRegistry(ctx, dealID, res); err != nil {
		s.metrics.IncrementRegistryFailure(string(res.Type))
		span.RecordError(err)
		span.SetStatus(codes.Error, "registry")
		return nil, err
	}

	now := s.now(ctx)
	caller, _ := requestcontext.Identity(ctx)
	t := &Task{
		ID:             uuid.NewString(),
		DealID:         dealID,
		Status:         StatusDone,
		CheckType:      CheckTypeHuman,
		Resolution:     &Resolution{Type: res.Type, Comment: res.Comment},
		IdempotencyKey: idempotencyKey,
		ActorID:        caller.UserID,
		CreatedAt:      now,
		ResolvedAt:     &now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrConflict) && idempotencyKey != "" {
			if existing, lookupErr := s.replay(ctx, dealID, idempotencyKey); existing != nil {
				return existing, nil
			} else if lookupErr != nil {
				err = errors.Join(err, lookupErr)
			}
		}
		// The registry has already acknowledged; a retry with the same key
		// re-notifies it, which the registry tolerates.
		s.logger.ErrorContext(ctx, "registry notified but task not persisted",
			"deal_id", dealID,
			"resolution", string(res.Type),
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist task")
	}

	s.metrics.IncrementCreated(string(CheckTypeHuman), string(res.Type))
	s.logger.InfoContext(ctx, "human check recorded",
		"deal_id", dealID,
		"task_id", t.ID,
		"resolution", string(res.Type),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, audit.Event{
		Action:   audit.ActionTaskCreated,
		DealID:   dealID,
		TaskID:   t.ID,
		Decision: string(res.Type),
		Detail:   res.Comment,
	})
	return t, nil
}

func (s *Service) replay(ctx context.Context, dealID, key string) (*Task, error) {
	existing, err := s.store.FindByIdempotencyKey(ctx, dealID, key)
	switch {
	case err == nil:
		s.metrics.IncrementReplay()
		return existing, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, nil
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up idempotency key")
	}
}

func (s *Service) notifyRegistry(ctx context.Context, dealID string, res *Resolution) error {
	switch res.Type {
	case ResolutionAccept:
		return s.registry.AcceptDeal(ctx, dealID)
	case ResolutionReject:
		return s.registry.RejectDeal(ctx, dealID, res.Comment)
	default:
		return &InvalidResolutionError{Reason: "unknown resolution type " + string(res.Type)}
	}
}

// OpenSystemChecks opens a missing-documents task for each category that has
// no OPEN system task yet. It returns only the tasks it created.
func (s *Service) OpenSystemChecks(ctx context.Context, dealID string, categories []compliance.Category) ([]*Task, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	open, err := s.store.ListOpenSystemChecks(ctx, dealID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list open system checks")
	}
	alreadyOpen := make(map[compliance.Category]bool, len(open))
	for _, t := range open {
		alreadyOpen[t.Category] = true
	}

	var created []*Task
	for _, cat := range categories {
		if alreadyOpen[cat] {
			continue
		}
		t := &Task{
			ID:        uuid.NewString(),
			DealID:    dealID,
			Status:    StatusOpen,
			CheckType: CheckTypeSystem,
			Category:  cat,
			Issue:     IssueMissingDocuments,
			CreatedAt: s.now(ctx),
		}
		if err := s.store.Create(ctx, t); err != nil {
			// A concurrent check opened it first.
			if errors.Is(err, sentinel.ErrConflict) {
				continue
			}
			return created, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open system check")
		}
		created = append(created, t)
		s.metrics.IncrementCreated(string(CheckTypeSystem), "")
		s.emit(ctx, audit.Event{
			Action: audit.ActionSystemTaskOpened,
			DealID: dealID,
			TaskID: t.ID,
			Detail: fmt.Sprintf("%s:%s", IssueMissingDocuments, cat),
		})
	}
	return created, nil
}

// Resolve performs the OPEN->DONE transition on a system task.
func (s *Service) Resolve(ctx context.Context, dealID, taskID string, res *Resolution) (*Task, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, dealID, taskID)
	if err != nil {
		return nil, err
	}
	if t.CheckType != CheckTypeSystem {
		return nil, dErrors.New(dErrors.CodeConflict, "human checks are final and cannot be resolved")
	}
	if t.Status != StatusOpen {
		return nil, dErrors.New(dErrors.CodeConflict, "task is already resolved")
	}

	caller, _ := requestcontext.Identity(ctx)
	resolved, err := s.store.Resolve(ctx, taskID, Resolution{Type: res.Type, Comment: res.Comment}, caller.UserID, s.now(ctx))
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeConflict, "task is already resolved")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "task not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve task")
		}
	}

	s.metrics.IncrementResolved()
	s.emit(ctx, audit.Event{
		Action:   audit.ActionTaskResolved,
		DealID:   dealID,
		TaskID:   taskID,
		Decision: string(res.Type),
		Detail:   res.Comment,
	})
	return resolved, nil
}

// emit fills request metadata and publishes; failures are logged only.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if caller, ok := requestcontext.Identity(ctx); ok {
		event.ActorID = caller.UserID
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = s.now(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"action", string(event.Action),
			"deal_id", event.DealID,
			"error", err,
		)
	}
}
