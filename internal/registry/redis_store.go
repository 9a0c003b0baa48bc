package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// RedisStore keeps keys in Redis so every instance sharing it resolves the
// same keys and entries survive restarts. Values are the JSON selection.
type RedisStore struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore stores keys under prefix. A positive ttl expires keys that
// are not re-encoded within it. Requires Redis 6.2 or newer (SET ... GET).
func NewRedisStore(rdb goredis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) redisKey(key domain.Key) string { return s.prefix + string(key) }

func (s *RedisStore) Put(ctx context.Context, key domain.Key, sel domain.Selection) (domain.Selection, bool, error) {
	raw, err := json.Marshal(sel)
	if err != nil {
		return domain.Selection{}, false, err
	}
	args := goredis.SetArgs{Get: true}
	if s.ttl > 0 {
		args.TTL = s.ttl
	}
	old, err := s.rdb.SetArgs(ctx, s.redisKey(key), raw, args).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.Selection{}, false, nil
	}
	if err != nil {
		return domain.Selection{}, false, fmt.Errorf("redis set %s: %w", key, err)
	}
	prev, err := decodeSelection(old)
	if err != nil {
		// unreadable previous value; the write itself succeeded
		return domain.Selection{}, false, nil
	}
	return prev, true, nil
}

func (s *RedisStore) Get(ctx context.Context, key domain.Key) (domain.Selection, error) {
	raw, err := s.rdb.Get(ctx, s.redisKey(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.Selection{}, domain.ErrKeyNotFound
	}
	if err != nil {
		return domain.Selection{}, fmt.Errorf("redis get %s: %w", key, err)
	}
	sel, err := decodeSelection(raw)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("decode stored selection for %s: %w", key, err)
	}
	return sel, nil
}

// Close is a no-op; the client is owned by the caller.
func (s *RedisStore) Close() error { return nil }

func decodeSelection(raw string) (domain.Selection, error) {
	var sel domain.Selection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return domain.Selection{}, err
	}
	return sel, nil
}
