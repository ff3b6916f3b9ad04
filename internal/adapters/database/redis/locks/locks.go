package locks

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage holds short-lived run leases so overlapping scan triggers
// (scheduler tick vs manual HTTP call) cannot double-run.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

// Acquire takes the named lease for the given duration. Returns false if the
// lease is already held.
func (s *Storage) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return s.redis.SetNX(ctx, name, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// Release drops the named lease.
func (s *Storage) Release(ctx context.Context, name string) error {
	return s.redis.Del(ctx, name).Err()
}
