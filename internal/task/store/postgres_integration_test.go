//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"dealchecker/internal/compliance"
	"dealchecker/internal/task"
	"dealchecker/internal/task/store"
	"dealchecker/pkg/platform/sentinel"
	"dealchecker/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "review_tasks"))
}

func (s *PostgresStoreSuite) TestListByDealInCreationOrder() {
	ctx := context.Background()
	// Identical timestamps; order must come from insertion.
	created := time.Now().UTC().Truncate(time.Microsecond)
	var ids []string
	for i := 0; i < 3; i++ {
		t := &task.Task{
			ID:         uuid.NewString(),
			DealID:     "D1",
			Status:     task.StatusDone,
			CheckType:  task.CheckTypeHuman,
			Resolution: &task.Resolution{Type: task.ResolutionReject, Comment: "no stamp"},
			ActorID:    "u1",
			CreatedAt:  created,
			ResolvedAt: &created,
		}
		s.Require().NoError(s.store.Create(ctx, t))
		ids = append(ids, t.ID)
	}

	tasks, err := s.store.ListByDeal(ctx, "D1")
	s.Require().NoError(err)
	s.Require().Len(tasks, 3)
	for i, t := range tasks {
		s.Equal(ids[i], t.ID)
		s.Equal("no stamp", t.Resolution.Comment)
	}

	empty, err := s.store.ListByDeal(ctx, "D-none")
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *PostgresStoreSuite) TestFindByIDNotFound() {
	_, err := s.store.FindByID(context.Background(), uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByID(context.Background(), "not-a-uuid")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestIdempotencyKeyUnique() {
	ctx := context.Background()
	newHuman := func() *task.Task {
		return &task.Task{
			ID:             uuid.NewString(),
			DealID:         "D2",
			Status:         task.StatusDone,
			CheckType:      task.CheckTypeHuman,
			Resolution:     &task.Resolution{Type: task.ResolutionAccept},
			IdempotencyKey: "key-1",
			CreatedAt:      time.Now(),
		}
	}
	first := newHuman()
	s.Require().NoError(s.store.Create(ctx, first))
	s.ErrorIs(s.store.Create(ctx, newHuman()), sentinel.ErrConflict)

	found, err := s.store.FindByIdempotencyKey(ctx, "D2", "key-1")
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)
}

// Exactly one of many concurrent inserts of an open system task for the same
// category wins.
func (s *PostgresStoreSuite) TestConcurrentOpenSystemCheck() {
	ctx := context.Background()
	const goroutines = 20
	var wg sync.WaitGroup
	var ok, conflicts atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, &task.Task{
				ID:        uuid.NewString(),
				DealID:    "D3",
				Status:    task.StatusOpen,
				CheckType: task.CheckTypeSystem,
				Category:  compliance.CategoryStamp,
				Issue:     task.IssueMissingDocuments,
				CreatedAt: time.Now(),
			})
			switch {
			case err == nil:
				ok.Add(1)
			case err == sentinel.ErrConflict:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), ok.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *PostgresStoreSuite) TestResolveTransition() {
	ctx := context.Background()
	open := &task.Task{
		ID:        uuid.NewString(),
		DealID:    "D4",
		Status:    task.StatusOpen,
		CheckType: task.CheckTypeSystem,
		Category:  compliance.CategoryEGRN,
		Issue:     task.IssueMissingDocuments,
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.store.Create(ctx, open))

	at := time.Now().UTC().Truncate(time.Microsecond)
	resolved, err := s.store.Resolve(ctx, open.ID, task.Resolution{Type: task.ResolutionReject, Comment: "expired"}, "u2", at)
	s.Require().NoError(err)
	s.Equal(task.StatusDone, resolved.Status)

	reloaded, err := s.store.FindByID(ctx, open.ID)
	s.Require().NoError(err)
	s.Equal(task.StatusDone, reloaded.Status)
	s.Equal("expired", reloaded.Resolution.Comment)
	s.Equal("u2", reloaded.ActorID)
	s.True(at.Equal(*reloaded.ResolvedAt))

	_, err = s.store.Resolve(ctx, open.ID, task.Resolution{Type: task.ResolutionAccept}, "u2", at)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	openChecks, err := s.store.ListOpenSystemChecks(ctx, "D4")
	s.Require().NoError(err)
	s.Empty(openChecks)
}
