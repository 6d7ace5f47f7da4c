package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store wraps the redis client used for session-scoped caching.
type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error { return s.rdb.Close() }

const identityPrefix = "identity:"

// GetIdentity returns the cached subject id for a session key, or redis.Nil.
func (s *Store) GetIdentity(ctx context.Context, sessionKey string) (string, error) {
	return s.rdb.Get(ctx, identityPrefix+sessionKey).Result()
}

// SetIdentity caches a verified subject id. There is no explicit
// invalidation; entries just age out with the TTL.
func (s *Store) SetIdentity(ctx context.Context, sessionKey, subjectID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, identityPrefix+sessionKey, subjectID, ttl).Err()
}
