package files

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"dealchecker/internal/compliance"
	dErrors "dealchecker/pkg/domain-errors"
)

// MemoryStore keeps documents in process. It backs local runs without object
// storage and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	files   map[string][]compliance.File
	content map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files:   make(map[string][]compliance.File),
		content: make(map[string][]byte),
	}
}

// Put stores a document for the deal, replacing one with the same id.
func (s *MemoryStore) Put(dealID string, f compliance.File, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := objectKey(dealID, f.ID)
	if !ok {
		return
	}
	f.StorageKey = key
	f.Size = int64(len(content))
	existing := s.files[dealID]
	for i := range existing {
		if existing[i].ID == f.ID {
			existing = append(existing[:i], existing[i+1:]...)
			break
		}
	}
	s.files[dealID] = append(existing, f)
	s.content[key] = bytes.Clone(content)
}

// ListDealFiles returns documents in key order, like a bucket listing.
func (s *MemoryStore) ListDealFiles(_ context.Context, dealID string) ([]compliance.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]compliance.File(nil), s.files[dealID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].StorageKey < out[j].StorageKey })
	return out, nil
}

func (s *MemoryStore) Open(_ context.Context, dealID, fileID string) (*Object, error) {
	key, ok := objectKey(dealID, fileID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "file not found")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.content[key]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "file not found")
	}
	name := fileID
	for _, f := range s.files[dealID] {
		if f.ID == fileID && f.Name != "" {
			name = f.Name
		}
	}
	return &Object{
		Body:        io.NopCloser(bytes.NewReader(data)),
		Name:        name,
		ContentType: "application/octet-stream",
		Size:        int64(len(data)),
	}, nil
}
