package registry

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// CachedStore fronts a remote Store with a process-local read cache. Misses
// are not cached, so a key written by another instance becomes visible on
// the next lookup. An overwrite by another instance may be served stale for
// up to ttl.
type CachedStore struct {
	next  Store
	cache *gocache.Cache
}

func NewCachedStore(next Store, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, cache: gocache.New(ttl, 2*ttl)}
}

func (s *CachedStore) Put(ctx context.Context, key domain.Key, sel domain.Selection) (domain.Selection, bool, error) {
	prev, replaced, err := s.next.Put(ctx, key, sel)
	if err != nil {
		s.cache.Delete(string(key))
		return domain.Selection{}, false, err
	}
	s.cache.SetDefault(string(key), sel)
	return prev, replaced, nil
}

func (s *CachedStore) Get(ctx context.Context, key domain.Key) (domain.Selection, error) {
	if v, ok := s.cache.Get(string(key)); ok {
		return v.(domain.Selection), nil
	}
	sel, err := s.next.Get(ctx, key)
	if err != nil {
		return domain.Selection{}, err
	}
	s.cache.SetDefault(string(key), sel)
	return sel, nil
}

func (s *CachedStore) Close() error {
	s.cache.Flush()
	return s.next.Close()
}
