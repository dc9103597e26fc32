package storage

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryBackend keeps values in process memory. With a zero TTL values never expire,
// which makes it the backend of choice for tests and for `storage.backend: memory`.
type MemoryBackend struct {
	cache *gocache.Cache
}

// NewMemoryBackend creates a memory backend whose values expire after ttl (0 = never)
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	if ttl <= 0 {
		return &MemoryBackend{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryBackend{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns a copy of the stored value
func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, found := m.cache.Get(key)
	if !found {
		return nil, ErrNotFound
	}
	data := val.([]byte)
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Set stores a copy of value with the backend's default TTL
func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	data := make([]byte, len(value))
	copy(data, value)
	m.cache.Set(key, data, gocache.DefaultExpiration)
	return nil
}

// Remove deletes the key; removing a missing key is not an error
func (m *MemoryBackend) Remove(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// Close flushes all values
func (m *MemoryBackend) Close() error {
	m.cache.Flush()
	return nil
}
