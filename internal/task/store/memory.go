package store

import (
	"context"
	"sync"
	"time"

	"dealchecker/internal/task"
	"dealchecker/pkg/platform/sentinel"
)

// InMemoryStore is a process-local task store used when no database is
// configured and in tests. Returned tasks are copies.
type InMemoryStore struct {
	mu          sync.RWMutex
	tasks       map[string]*task.Task
	byDeal      map[string][]string
	idempotency map[idemKey]string
}

type idemKey struct {
	dealID string
	key    string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tasks:       make(map[string]*task.Task),
		byDeal:      make(map[string][]string),
		idempotency: make(map[idemKey]string),
	}
}

func (s *InMemoryStore) Create(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; exists {
		return sentinel.ErrConflict
	}
	if t.IdempotencyKey != "" {
		if _, exists := s.idempotency[idemKey{t.DealID, t.IdempotencyKey}]; exists {
			return sentinel.ErrConflict
		}
	}
	if t.CheckType == task.CheckTypeSystem && t.Status == task.StatusOpen {
		for _, id := range s.byDeal[t.DealID] {
			other := s.tasks[id]
			if other.CheckType == task.CheckTypeSystem && other.Status == task.StatusOpen && other.Category == t.Category {
				return sentinel.ErrConflict
			}
		}
	}

	s.tasks[t.ID] = clone(t)
	s.byDeal[t.DealID] = append(s.byDeal[t.DealID], t.ID)
	if t.IdempotencyKey != "" {
		s.idempotency[idemKey{t.DealID, t.IdempotencyKey}] = t.ID
	}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(t), nil
}

func (s *InMemoryStore) ListByDeal(_ context.Context, dealID string) ([]*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*task.Task, 0, len(s.byDeal[dealID]))
	for _, id := range s.byDeal[dealID] {
		out = append(out, clone(s.tasks[id]))
	}
	return out, nil
}

func (s *InMemoryStore) FindByIdempotencyKey(_ context.Context, dealID, key string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.idempotency[idemKey{dealID, key}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.tasks[id]), nil
}

func (s *InMemoryStore) ListOpenSystemChecks(_ context.Context, dealID string) ([]*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*task.Task
	for _, id := range s.byDeal[dealID] {
		t := s.tasks[id]
		if t.CheckType == task.CheckTypeSystem && t.Status == task.StatusOpen {
			out = append(out, clone(t))
		}
	}
	return out, nil
}

func (s *InMemoryStore) Resolve(_ context.Context, id string, res task.Resolution, actorID string, at time.Time) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if t.Status != task.StatusOpen {
		return nil, sentinel.ErrInvalidState
	}
	t.Status = task.StatusDone
	t.Resolution = &task.Resolution{Type: res.Type, Comment: res.Comment}
	t.ActorID = actorID
	resolvedAt := at
	t.ResolvedAt = &resolvedAt
	return clone(t), nil
}

func clone(t *task.Task) *task.Task {
	cp := *t
	if t.Resolution != nil {
		r := *t.Resolution
		cp.Resolution = &r
	}
	if t.ResolvedAt != nil {
		at := *t.ResolvedAt
		cp.ResolvedAt = &at
	}
	return &cp
}
