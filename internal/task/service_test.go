package task_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"dealchecker/internal/compliance"
	"dealchecker/internal/task"
	"dealchecker/internal/task/mocks"
	"dealchecker/internal/task/store"
	dErrors "dealchecker/pkg/domain-errors"
	audit "dealchecker/pkg/platform/audit"
	"dealchecker/pkg/platform/sentinel"
	"dealchecker/pkg/requestcontext"
)

const (
	testTimeout = time.Second
	testTick    = 5 * time.Millisecond
)

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	registry *mocks.MockRegistryNotifier
	auditor  *mocks.MockAuditPublisher
	store    *store.InMemoryStore
	service  *task.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.registry = mocks.NewMockRegistryNotifier(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.store = store.NewInMemoryStore()
	s.service = task.New(s.store, s.registry, slog.New(slog.NewTextHandler(io.Discard, nil)),
		task.WithAuditPublisher(s.auditor),
	)
	s.ctx = requestcontext.WithIdentity(context.Background(), requestcontext.Caller{UserID: "reviewer-1", Role: "EMPLOYEE"})
	s.ctx = requestcontext.WithRequestID(s.ctx, "req-1")
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestCreateHumanCheckAccept() {
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D3").Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		s.Equal(audit.ActionTaskCreated, e.Action)
		s.Equal("reviewer-1", e.ActorID)
		s.Equal("req-1", e.RequestID)
		s.Equal("ACCEPT", e.Decision)
		return nil
	})

	created, err := s.service.CreateHumanCheck(s.ctx, "D3", &task.Resolution{Type: task.ResolutionAccept}, "")
	s.Require().NoError(err)
	s.Equal(task.StatusDone, created.Status)
	s.Equal(task.CheckTypeHuman, created.CheckType)
	s.Equal(task.ResolutionAccept, created.Resolution.Type)
	s.Equal("reviewer-1", created.ActorID)
	s.NotNil(created.ResolvedAt)

	tasks, err := s.service.List(s.ctx, "D3")
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal(created.ID, tasks[0].ID)
}

func (s *ServiceSuite) TestTimestampsUseRequestTime() {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, at)
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D4").Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		s.True(at.Equal(e.Timestamp))
		return nil
	})

	created, err := s.service.CreateHumanCheck(ctx, "D4", &task.Resolution{Type: task.ResolutionAccept}, "")
	s.Require().NoError(err)
	s.True(at.Equal(created.CreatedAt))
	s.True(at.Equal(*created.ResolvedAt))
}

func (s *ServiceSuite) TestListPreservesCreationOrder() {
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D3").Return(nil)
	s.registry.EXPECT().RejectDeal(gomock.Any(), "D3", "wrong price").Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	first, err := s.service.CreateHumanCheck(s.ctx, "D3", &task.Resolution{Type: task.ResolutionAccept}, "")
	s.Require().NoError(err)
	second, err := s.service.CreateHumanCheck(s.ctx, "D3", &task.Resolution{Type: task.ResolutionReject, Comment: "wrong price"}, "")
	s.Require().NoError(err)

	tasks, err := s.service.List(s.ctx, "D3")
	s.Require().NoError(err)
	s.Require().Len(tasks, 2)
	s.Equal(first.ID, tasks[0].ID)
	s.Equal(second.ID, tasks[1].ID)
	s.Equal("wrong price", tasks[1].Resolution.Comment)
}

func (s *ServiceSuite) TestRejectFailureCreatesNoTask() {
	upstream := dErrors.New(dErrors.CodeUpstream, "registry unavailable")
	s.registry.EXPECT().RejectDeal(gomock.Any(), "D5", "missing stamp").Return(upstream)

	created, err := s.service.CreateHumanCheck(s.ctx, "D5",
		&task.Resolution{Type: task.ResolutionReject, Comment: "missing stamp"}, "")
	s.Nil(created)
	s.ErrorIs(err, upstream)

	tasks, err := s.service.List(s.ctx, "D5")
	s.Require().NoError(err)
	s.Empty(tasks)
}

func (s *ServiceSuite) TestInvalidResolution() {
	cases := map[string]*task.Resolution{
		"missing":         nil,
		"empty type":      {},
		"unknown type":    {Type: "MAYBE"},
		"accept comments": {Type: task.ResolutionAccept, Comment: "looks fine"},
	}
	for name, res := range cases {
		s.Run(name, func() {
			_, err := s.service.CreateHumanCheck(s.ctx, "D1", res, "")
			var invalid *task.InvalidResolutionError
			s.ErrorAs(err, &invalid)
			s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
		})
	}
}

func (s *ServiceSuite) TestIdempotencyKeyReplaysWithoutRenotifying() {
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D7").Return(nil).Times(1)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	res := &task.Resolution{Type: task.ResolutionAccept}
	first, err := s.service.CreateHumanCheck(s.ctx, "D7", res, "key-1")
	s.Require().NoError(err)
	second, err := s.service.CreateHumanCheck(s.ctx, "D7", res, "key-1")
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	tasks, _ := s.service.List(s.ctx, "D7")
	s.Len(tasks, 1)
}

func (s *ServiceSuite) TestIdempotencyKeyInFlightConflicts() {
	guard := mocks.NewMockIdempotencyGuard(s.ctrl)
	svc := task.New(s.store, s.registry, nil, task.WithIdempotencyGuard(guard))
	guard.EXPECT().Acquire(gomock.Any(), "D8:key-2", gomock.Any()).Return("", false, nil)

	_, err := svc.CreateHumanCheck(s.ctx, "D8", &task.Resolution{Type: task.ResolutionAccept}, "key-2")
	s.True(dErrors.Is(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestIdempotencyLockReleasedWithOwnToken() {
	guard := mocks.NewMockIdempotencyGuard(s.ctrl)
	svc := task.New(s.store, s.registry, nil,
		task.WithIdempotencyGuard(guard),
		task.WithAuditPublisher(s.auditor),
	)
	gomock.InOrder(
		guard.EXPECT().Acquire(gomock.Any(), "D9:key-3", gomock.Any()).Return("holder-token", true, nil),
		guard.EXPECT().Release(gomock.Any(), "D9:key-3", "holder-token").Return(nil),
	)
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D9").Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.CreateHumanCheck(s.ctx, "D9", &task.Resolution{Type: task.ResolutionAccept}, "key-3")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestConcurrentSameKeyNotifiesOnce() {
	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D9").DoAndReturn(func(context.Context, string) error {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return nil
	}).AnyTimes()
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res := &task.Resolution{Type: task.ResolutionAccept}
	errs := make(chan error, 2)
	go func() {
		_, err := s.service.CreateHumanCheck(s.ctx, "D9", res, "same")
		errs <- err
	}()
	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, testTimeout, testTick)

	_, err := s.service.CreateHumanCheck(s.ctx, "D9", res, "same")
	s.True(dErrors.Is(err, dErrors.CodeConflict))

	close(release)
	s.NoError(<-errs)
	mu.Lock()
	defer mu.Unlock()
	s.Equal(1, calls)
}

func (s *ServiceSuite) TestStoreFailureAfterNotification() {
	mockStore := mocks.NewMockStore(s.ctrl)
	svc := task.New(mockStore, s.registry, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D1").Return(nil)
	mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	_, err := svc.CreateHumanCheck(s.ctx, "D1", &task.Resolution{Type: task.ResolutionAccept}, "")
	s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestAuditFailureDoesNotFailCreation() {
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D2").Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	created, err := s.service.CreateHumanCheck(s.ctx, "D2", &task.Resolution{Type: task.ResolutionAccept}, "")
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
}

func (s *ServiceSuite) TestGet() {
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D1").Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	created, err := s.service.CreateHumanCheck(s.ctx, "D1", &task.Resolution{Type: task.ResolutionAccept}, "")
	s.Require().NoError(err)

	s.Run("found", func() {
		got, err := s.service.Get(s.ctx, "D1", created.ID)
		s.Require().NoError(err)
		s.Equal(created.ID, got.ID)
	})
	s.Run("unknown id", func() {
		_, err := s.service.Get(s.ctx, "D1", "nope")
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
	s.Run("other deal", func() {
		_, err := s.service.Get(s.ctx, "D2", created.ID)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestOpenSystemChecksSkipsAlreadyOpen() {
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		s.Equal(audit.ActionSystemTaskOpened, e.Action)
		return nil
	}).Times(2)

	cats := []compliance.Category{compliance.CategoryStamp, compliance.CategoryEGRN}
	opened, err := s.service.OpenSystemChecks(s.ctx, "D4", cats)
	s.Require().NoError(err)
	s.Require().Len(opened, 2)
	for _, t := range opened {
		s.Equal(task.StatusOpen, t.Status)
		s.Equal(task.CheckTypeSystem, t.CheckType)
		s.Equal(task.IssueMissingDocuments, t.Issue)
		s.Nil(t.Resolution)
	}

	again, err := s.service.OpenSystemChecks(s.ctx, "D4", cats)
	s.Require().NoError(err)
	s.Empty(again)

	tasks, _ := s.service.List(s.ctx, "D4")
	s.Len(tasks, 2)
}

func (s *ServiceSuite) TestResolve() {
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	opened, err := s.service.OpenSystemChecks(s.ctx, "D6", []compliance.Category{compliance.CategoryContract})
	s.Require().NoError(err)
	id := opened[0].ID

	resolved, err := s.service.Resolve(s.ctx, "D6", id, &task.Resolution{Type: task.ResolutionAccept})
	s.Require().NoError(err)
	s.Equal(task.StatusDone, resolved.Status)
	s.Equal("reviewer-1", resolved.ActorID)

	s.Run("done task cannot be resolved again", func() {
		_, err := s.service.Resolve(s.ctx, "D6", id, &task.Resolution{Type: task.ResolutionReject})
		s.True(dErrors.Is(err, dErrors.CodeConflict))
	})

	s.Run("category can be reopened once resolved", func() {
		reopened, err := s.service.OpenSystemChecks(s.ctx, "D6", []compliance.Category{compliance.CategoryContract})
		s.Require().NoError(err)
		s.Len(reopened, 1)
	})
}

func (s *ServiceSuite) TestResolveHumanCheckConflicts() {
	s.registry.EXPECT().AcceptDeal(gomock.Any(), "D1").Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	created, err := s.service.CreateHumanCheck(s.ctx, "D1", &task.Resolution{Type: task.ResolutionAccept}, "")
	s.Require().NoError(err)

	_, err = s.service.Resolve(s.ctx, "D1", created.ID, &task.Resolution{Type: task.ResolutionAccept})
	s.True(dErrors.Is(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestResolveLostRace() {
	mockStore := mocks.NewMockStore(s.ctrl)
	svc := task.New(mockStore, s.registry, nil)
	open := &task.Task{ID: "t1", DealID: "D1", Status: task.StatusOpen, CheckType: task.CheckTypeSystem}
	mockStore.EXPECT().FindByID(gomock.Any(), "t1").Return(open, nil)
	mockStore.EXPECT().Resolve(gomock.Any(), "t1", gomock.Any(), "reviewer-1", gomock.Any()).Return(nil, sentinel.ErrInvalidState)

	_, err := svc.Resolve(s.ctx, "D1", "t1", &task.Resolution{Type: task.ResolutionAccept})
	s.True(dErrors.Is(err, dErrors.CodeConflict))
}
