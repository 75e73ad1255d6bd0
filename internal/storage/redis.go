package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kdquach/thetrois-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "tt3"

// RedisStore implements KV on top of a shared Redis deployment so several
// gateway instances can serve the same cached order lists.
type RedisStore struct {
	raw *redis.Client
}

// NewRedisStore bootstraps a Redis-backed KV and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if r.raw == nil {
		return "", errors.New("redis store not initialized")
	}
	val, err := r.raw.Get(ctx, buildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (r *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if r.raw == nil {
		return errors.New("redis store not initialized")
	}
	return r.raw.Set(ctx, buildKey(key), value, ttl).Err()
}

func (r *RedisStore) Remove(ctx context.Context, key string) error {
	if r.raw == nil {
		return errors.New("redis store not initialized")
	}
	return r.raw.Del(ctx, buildKey(key)).Err()
}

// Ping verifies the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	if r.raw == nil {
		return errors.New("redis store not initialized")
	}
	return r.raw.Ping(ctx).Err()
}

// Close shuts down the underlying client.
func (r *RedisStore) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}

func buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return keyNamespace
	}
	return keyNamespace + ":" + trimmed
}
