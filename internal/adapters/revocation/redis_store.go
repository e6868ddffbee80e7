package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

const keyPrefix = "revoked_refresh:"

// RedisStore keeps revoked refresh token ids in Redis until the token would
// have expired anyway.
type RedisStore struct {
	client redis.Cmdable
	cb     *gobreaker.CircuitBreaker
}

var _ ports.RevocationStore = (*RedisStore)(nil)

func NewRedisStore(client redis.Cmdable, cb *gobreaker.CircuitBreaker) *RedisStore {
	return &RedisStore{client: client, cb: cb}
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing left to revoke.
		return nil
	}
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	res, err := s.execute(func() (interface{}, error) {
		n, err := s.client.Exists(ctx, keyPrefix+tokenID).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, err
		}
		return n > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("check token %s: %w", tokenID, err)
	}
	return res.(bool), nil
}

func (s *RedisStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	if s.cb == nil {
		return fn()
	}
	return s.cb.Execute(fn)
}
