package ratelimit

import (
	"sync"
	"time"
)

// Config stores TokenBucketLimiter settings.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets are dropped after TTL; 0 disables
	MaxBuckets int           // at capacity the least recently seen bucket is evicted; 0 is unbounded
}

// TokenBucketLimiter is a per-key token bucket. One mutex guards every
// bucket; the critical section is a few float operations.
type TokenBucketLimiter struct {
	cfg   Config
	clock Clock

	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

type bucket struct {
	tokens  float64
	updated time.Time
}

// NewTokenBucketLimiter creates a limiter with an injected clock.
func NewTokenBucketLimiter(clock Clock, cfg Config) *TokenBucketLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucketLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// NewTokenBucketPerWindow allows limit requests per window with a burst of limit.
func NewTokenBucketPerWindow(clock Clock, limit int, window, ttl time.Duration, maxBuckets int) *TokenBucketLimiter {
	if window <= 0 {
		window = time.Second
	}
	if limit <= 0 {
		limit = 1
	}
	return NewTokenBucketLimiter(clock, Config{
		Rate:       float64(limit) / window.Seconds(),
		Burst:      limit,
		TTL:        ttl,
		MaxBuckets: maxBuckets,
	})
}

// Allow reports whether key may proceed and consumes a token if so.
func (l *TokenBucketLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepLocked(now)

	b, ok := l.buckets[key]
	if !ok {
		if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
			l.evictStalestLocked()
		}
		b = &bucket{tokens: float64(l.cfg.Burst), updated: now}
		l.buckets[key] = b
	}
	return b.take(now, l.cfg.Rate, float64(l.cfg.Burst))
}

// Len returns the number of tracked keys.
func (l *TokenBucketLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (b *bucket) take(now time.Time, rate, burst float64) bool {
	if elapsed := now.Sub(b.updated); elapsed > 0 {
		b.tokens = min(burst, b.tokens+elapsed.Seconds()*rate)
	}
	b.updated = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *TokenBucketLimiter) evictStalestLocked() {
	var (
		victim string
		oldest time.Time
	)
	for k, b := range l.buckets {
		if victim == "" || b.updated.Before(oldest) {
			victim, oldest = k, b.updated
		}
	}
	delete(l.buckets, victim)
}

// sweepLocked drops buckets idle for longer than TTL, at most once per
// max(TTL/2, 1m).
func (l *TokenBucketLimiter) sweepLocked(now time.Time) {
	if l.cfg.TTL <= 0 || now.Before(l.nextSweep) {
		return
	}
	l.nextSweep = now.Add(max(l.cfg.TTL/2, time.Minute))

	for k, b := range l.buckets {
		if now.Sub(b.updated) > l.cfg.TTL {
			delete(l.buckets, k)
		}
	}
}
