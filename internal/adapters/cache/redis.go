package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adpilot/marketops/internal/domain"
)

func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisAuthStateStore stores short-lived OAuth state envelopes.
type RedisAuthStateStore struct {
	client *redis.Client
}

func NewRedisAuthStateStore(client *redis.Client) *RedisAuthStateStore {
	return &RedisAuthStateStore{client: client}
}

func (s *RedisAuthStateStore) Put(ctx context.Context, state string, value domain.AuthState, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, "marketops:oauth:state:"+state, raw, ttl).Err()
}

func (s *RedisAuthStateStore) Get(ctx context.Context, state string) (*domain.AuthState, error) {
	raw, err := s.client.Get(ctx, "marketops:oauth:state:"+state).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out domain.AuthState
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisAuthStateStore) Delete(ctx context.Context, state string) error {
	return s.client.Del(ctx, "marketops:oauth:state:"+state).Err()
}

// RedisRateLimiter is a fixed-window counter per key. Approximate by design:
// the window resets on expiry, not on a sliding boundary.
type RedisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, threshold int, window time.Duration) (bool, error) {
	redisKey := "marketops:ratelimit:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		_ = l.client.Expire(ctx, redisKey, window).Err()
	}
	return count <= int64(threshold), nil
}
