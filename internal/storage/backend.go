package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/truthcheck/internal/model"
)

// ErrNotFound is returned by Get when the key has never been set or was removed
var ErrNotFound = errors.New("key not found")

// Backend is a durable key/value store holding serialized values under well-known keys
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open creates the backend selected by the storage configuration
func Open(cfg model.StorageConfig) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file backend requires storage.path")
		}
		return NewFileBackend(cfg.Path), nil

	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite backend requires storage.path")
		}
		return NewSQLiteBackend(cfg.Path)

	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis backend requires storage.redis_url")
		}
		return NewRedisBackend(cfg.RedisURL)

	case "memory":
		return NewMemoryBackend(0), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, sqlite, redis, memory)", cfg.Backend)
	}
}
