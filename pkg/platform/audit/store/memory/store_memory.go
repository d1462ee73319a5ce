package memory

import (
	"context"
	"sync"

	audit "dealchecker/pkg/platform/audit"
)

// InMemoryStore keeps events per deal in append order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.DealID] = append(s.events[event.DealID], event)
	return nil
}

func (s *InMemoryStore) ListByDeal(_ context.Context, dealID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[dealID]...), nil
}

// Len returns the total number of events across deals.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, evs := range s.events {
		n += len(evs)
	}
	return n
}
