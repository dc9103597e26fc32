package worker

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// KeyLimiter rate limits arbitrary keys, such as client IPs.
// A key's limiter is dropped after it has been idle for the configured TTL.
type KeyLimiter struct {
	limiters *gocache.Cache
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// NewKeyLimiter creates a limiter allowing requestsPerSecond per key with the given burst.
// Limiters idle for longer than idleTTL are evicted; a non-positive idleTTL means 10 minutes.
func NewKeyLimiter(requestsPerSecond float64, burst int, idleTTL time.Duration) *KeyLimiter {
	if burst <= 0 {
		burst = 5
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &KeyLimiter{
		limiters: gocache.New(idleTTL, idleTTL),
		rate:     limit,
		burst:    burst,
	}
}

// Allow reports whether key may make another request now
func (k *KeyLimiter) Allow(key string) bool {
	return k.limiter(key).Allow()
}

// Len returns the number of keys currently tracked
func (k *KeyLimiter) Len() int {
	return k.limiters.ItemCount()
}

// limiter returns the key's limiter and pushes its expiry back
func (k *KeyLimiter) limiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if v, ok := k.limiters.Get(key); ok {
		l := v.(*rate.Limiter)
		k.limiters.SetDefault(key, l)
		return l
	}

	l := rate.NewLimiter(k.rate, k.burst)
	k.limiters.SetDefault(key, l)
	return l
}
