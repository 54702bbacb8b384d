package store

import (
	"context"
	"sync"

	"github.com/karwash91/my-chatbot/internal/model"
)

type memoryStore struct {
	mu      sync.RWMutex
	index   map[string]int
	records []model.ChunkRecord
}

func init() {
	Register("memory", func(args interface{}) (Store, error) {
		_ = args
		return NewMemoryStore(), nil
	})
}

// NewMemoryStore keeps records in process, in insertion order. Intended for
// local development and tests.
func NewMemoryStore() Store {
	return &memoryStore{index: map[string]int{}}
}

func (s *memoryStore) Put(ctx context.Context, rec *model.ChunkRecord) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rec.DocID + "/" + rec.ChunkID
	if pos, ok := s.index[key]; ok {
		s.records[pos] = *rec
		return nil
	}
	s.index[key] = len(s.records)
	s.records = append(s.records, *rec)
	return nil
}

func (s *memoryStore) ScanAll(ctx context.Context) ([]model.ChunkRecord, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ChunkRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}
