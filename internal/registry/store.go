package registry

import (
	"context"
	"sync"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// Store maps keys to selections. Put inserts or overwrites and reports the
// value it replaced, so callers can tell a re-encode from a collision. Get
// returns domain.ErrKeyNotFound for unknown keys. Implementations must be
// safe for concurrent use.
type Store interface {
	Put(ctx context.Context, key domain.Key, sel domain.Selection) (prev domain.Selection, replaced bool, err error)
	Get(ctx context.Context, key domain.Key) (domain.Selection, error)
	Close() error
}

// MemoryStore is the process-lifetime map. It never evicts.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[domain.Key]domain.Selection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[domain.Key]domain.Selection)}
}

func (s *MemoryStore) Put(_ context.Context, key domain.Key, sel domain.Selection) (domain.Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.m[key]
	s.m[key] = sel
	return prev, ok, nil
}

func (s *MemoryStore) Get(_ context.Context, key domain.Key) (domain.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel, ok := s.m[key]
	if !ok {
		return domain.Selection{}, domain.ErrKeyNotFound
	}
	return sel, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *MemoryStore) Close() error { return nil }
