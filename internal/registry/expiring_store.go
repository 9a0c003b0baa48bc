package registry

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// ExpiringStore is an in-memory store whose entries expire ttl after their
// last encode. Re-encoding a selection refreshes its key.
type ExpiringStore struct {
	// serializes Put so the read of the previous value and the write are atomic
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewExpiringStore(ttl time.Duration) *ExpiringStore {
	cleanup := ttl
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &ExpiringStore{cache: gocache.New(ttl, cleanup)}
}

func (s *ExpiringStore) Put(_ context.Context, key domain.Key, sel domain.Selection) (domain.Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var prev domain.Selection
	v, ok := s.cache.Get(string(key))
	if ok {
		prev = v.(domain.Selection)
	}
	s.cache.SetDefault(string(key), sel)
	return prev, ok, nil
}

func (s *ExpiringStore) Get(_ context.Context, key domain.Key) (domain.Selection, error) {
	v, ok := s.cache.Get(string(key))
	if !ok {
		return domain.Selection{}, domain.ErrKeyNotFound
	}
	return v.(domain.Selection), nil
}

func (s *ExpiringStore) Len() int { return s.cache.ItemCount() }

func (s *ExpiringStore) Close() error {
	s.cache.Flush()
	return nil
}
