package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nneonya/Travel-app/internal/config"
	"github.com/nneonya/Travel-app/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or the
// cache is disabled.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a JSON cache over Redis. A nil *Cache, or one without a
// client, behaves as an always-empty cache.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis. If Redis is unreachable caching is
// disabled rather than failing startup.
func NewCache(ctx context.Context, cfg config.Config) *Cache {
	if cfg.RedisAddr == "" {
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, caching disabled")
		_ = client.Close()
		return &Cache{}
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	return &Cache{client: client}
}

// NewCacheWithClient wraps an existing client.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheMiss
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
