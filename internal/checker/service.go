// Package checker assembles the reviewer-facing deal views from the deal
// registry, file storage, the compliance engine and review tasks.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"dealchecker/internal/compliance"
	"dealchecker/internal/deal"
	"dealchecker/internal/files"
	"dealchecker/internal/task"
	audit "dealchecker/pkg/platform/audit"
	"dealchecker/pkg/requestcontext"
)

type Service struct {
	deals      DealSource
	files      FileSource
	tasks      TaskService
	engine     *compliance.Engine
	auditor    AuditPublisher
	logger     *slog.Logger
	checkpoint deal.Status
}

type Option func(*Service)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func New(deals DealSource, fileSource FileSource, tasks TaskService, engine *compliance.Engine, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		deals:      deals,
		files:      fileSource,
		tasks:      tasks,
		engine:     engine,
		logger:     logger,
		checkpoint: deal.CheckpointFullCheck,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overview returns the deal with its tasks. It applies no status guard.
func (s *Service) Overview(ctx context.Context, dealID string) (*Overview, error) {
	var (
		d     deal.Deal
		tasks []*task.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d, err = s.deals.FetchDeal(gctx, dealID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.List(gctx, dealID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	o := newOverview(d, tasks)
	return &o, nil
}

// Compliance guards the deal status, runs the compliance check and opens a
// system check for every category that requires documents but has none.
func (s *Service) Compliance(ctx context.Context, dealID string) (*ComplianceView, error) {
	d, err := s.deals.FetchDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if err := deal.Guard(dealID, d.Status, s.checkpoint); err != nil {
		s.logger.WarnContext(ctx, "deal not ready for compliance check",
			"request_id", requestcontext.RequestID(ctx),
			"deal_id", dealID,
			"status", string(d.Status),
		)
		return nil, err
	}

	var (
		dealFiles []compliance.File
		tasks     []*task.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dealFiles, err = s.files.ListDealFiles(gctx, dealID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.List(gctx, dealID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := s.engine.Check(ctx, d, dealFiles)
	if err != nil {
		return nil, err
	}

	missing := result.MissingDocuments()
	opened, err := s.tasks.OpenSystemChecks(ctx, dealID, missing)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, opened...)

	s.logger.InfoContext(ctx, "compliance checked",
		"request_id", requestcontext.RequestID(ctx),
		"deal_id", dealID,
		"files", len(dealFiles),
		"missing_categories", len(missing),
		"opened_tasks", len(opened),
	)
	s.emit(ctx, audit.Event{
		Action: audit.ActionComplianceChecked,
		DealID: dealID,
		Detail: complianceDetail(result, missing),
	})

	return &ComplianceView{
		Overview: newOverview(d, tasks),
		Result:   result,
		Opened:   opened,
	}, nil
}

func (s *Service) GetTask(ctx context.Context, dealID, taskID string) (*task.Task, error) {
	return s.tasks.Get(ctx, dealID, taskID)
}

func (s *Service) CreateTask(ctx context.Context, dealID string, res *task.Resolution, idempotencyKey string) (*task.Task, error) {
	return s.tasks.CreateHumanCheck(ctx, dealID, res, idempotencyKey)
}

func (s *Service) ResolveTask(ctx context.Context, dealID, taskID string, res *task.Resolution) (*task.Task, error) {
	return s.tasks.Resolve(ctx, dealID, taskID, res)
}

// OpenFile streams a deal document.
func (s *Service) OpenFile(ctx context.Context, dealID, fileID string) (*files.Object, error) {
	return s.files.Open(ctx, dealID, fileID)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if caller, ok := requestcontext.Identity(ctx); ok {
		event.ActorID = caller.UserID
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"action", string(event.Action),
			"deal_id", event.DealID,
			"error", err,
		)
	}
}

func complianceDetail(result *compliance.Result, missing []compliance.Category) string {
	rules := 0
	for _, rs := range result.Rules {
		rules += len(rs)
	}
	names := make([]string, len(missing))
	for i, c := range missing {
		names[i] = string(c)
	}
	return fmt.Sprintf("rules=%d missing=%s", rules, strings.Join(names, ","))
}
