// Package cache stores computed dashboard results keyed by query window.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte cache. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MaxEntries    int
}

// New builds the cache selected by cfg.Backend: memory, redis or none.
func New(cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "memory", "":
		return NewLRUCache(cfg.MaxEntries), nil
	case "redis":
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "none":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) DeletePrefix(context.Context, string) error { return nil }
func (Noop) Ping(context.Context) error { return nil }
func (Noop) Close() error { return nil }
