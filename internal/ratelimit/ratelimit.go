package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces calls per key, e.g. per source platform.
type Limiter interface {
	Allow(key string) bool
	Wait(ctx context.Context, key string) error
}

// InMemoryLimiter keeps one token bucket per key.
type InMemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	r       rate.Limit
	b       int
}

// NewInMemoryLimiter allows perSecond events per key with the given burst.
// A non-positive rate disables limiting.
func NewInMemoryLimiter(perSecond float64, burst int) *InMemoryLimiter {
	r := rate.Limit(perSecond)
	if perSecond <= 0 {
		r = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &InMemoryLimiter{
		buckets: make(map[string]*rate.Limiter),
		r:       r,
		b:       burst,
	}
}

var _ Limiter = (*InMemoryLimiter)(nil)

func (l *InMemoryLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.buckets[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.buckets[key] = limiter
	}
	return limiter
}

func (l *InMemoryLimiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// Wait blocks until key has a token or ctx is done.
func (l *InMemoryLimiter) Wait(ctx context.Context, key string) error {
	return l.bucket(key).Wait(ctx)
}
