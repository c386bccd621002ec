// Package cache guarda en Redis qué alertas ya se enviaron.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "edgescan:seen:"
	defaultTTL    = 6 * time.Hour
)

// RedisConfig contiene los parámetros de conexión.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// RedisSeenCache implementa ports.SeenCache con SET NX + TTL.
type RedisSeenCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisSeenCache conecta y verifica con PING.
func NewRedisSeenCache(ctx context.Context, cfg RedisConfig) (*RedisSeenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache.NewRedisSeenCache: ping %s: %w", cfg.Addr, err)
	}
	return newRedisSeenCache(client, cfg.TTL, cfg.Prefix), nil
}

func newRedisSeenCache(client *redis.Client, ttl time.Duration, prefix string) *RedisSeenCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisSeenCache{client: client, ttl: ttl, prefix: prefix}
}

// MarkSeen devuelve true si la key no existía (y la registra con TTL).
func (c *RedisSeenCache) MarkSeen(ctx context.Context, key string) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.prefix+key, 1, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache.MarkSeen %s: %w", key, err)
	}
	return ok, nil
}

// Forget borra la key.
func (c *RedisSeenCache) Forget(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache.Forget %s: %w", key, err)
	}
	return nil
}

// Close cierra el cliente.
func (c *RedisSeenCache) Close() error {
	return c.client.Close()
}
