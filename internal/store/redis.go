package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis server so that several machines
// can share one signed-in profile. Keys are written without expiry.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// NewRedisStore wraps an existing client. prefix is prepended to every key.
func NewRedisStore(rdb redis.UniversalClient, prefix string, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.With("component", "store", "backend", "redis"),
	}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, prefix string, logger *slog.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedisStore(rdb, prefix, logger), nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.logger.Debug("redis", "op", "get", "key", key)

	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	s.logger.Debug("redis", "op", "set", "key", key)

	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	s.logger.Debug("redis", "op", "del", "key", key)

	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
