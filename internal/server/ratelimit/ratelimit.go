// Package ratelimit limits requests per client and endpoint with token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// bucket holds up to capacity tokens and refills at rate tokens per second.
type bucket struct {
	mu       sync.Mutex
	capacity float64
	rate     float64
	tokens   float64
	last     time.Time
	seen     time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{
		capacity: float64(capacity),
		rate:     rate,
		tokens:   float64(capacity),
		last:     now,
		seen:     now,
	}
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.last = now
}

// take consumes one token if available and reports the bucket state afterwards.
func (b *bucket) take(now time.Time) (allowed bool, remaining int, full time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(now)
	b.seen = now
	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	}

	full = now
	if b.tokens < b.capacity && b.rate > 0 {
		full = now.Add(time.Duration((b.capacity - b.tokens) / b.rate * float64(time.Second)))
	}
	return allowed, int(b.tokens), full
}

// nextToken returns how long until one token is available.
func (b *bucket) nextToken() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tokens >= 1 || b.rate <= 0 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
}

func (b *bucket) lastSeen() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seen
}

// Info describes the limit applied to one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks a bucket per client, endpoint and method.
type Limiter struct {
	config  *Config
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a limiter. A nil config gets DefaultConfig.
// A background goroutine evicts idle buckets until Stop is called.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow consumes a token for the request and reports whether it may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	endpoint := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if endpoint == nil {
		endpoint = &EndpointConfig{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if endpoint.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	// Prefix rules share one bucket across the paths they match.
	key := clientID + " " + method + " " + path
	if endpoint.Path != "" && endpoint.Path != path {
		key = clientID + " " + method + " " + endpoint.Path
	}

	now := l.now()
	b := l.bucketFor(key, endpoint, now)
	allowed, remaining, full := b.take(now)

	info := Info{Allowed: allowed, Limit: endpoint.Limit, Remaining: remaining, ResetTime: full}
	if !allowed {
		info.RetryAfter = b.nextToken()
	}
	return allowed, info
}

func (l *Limiter) bucketFor(key string, endpoint *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}
	capacity := endpoint.Burst
	if capacity <= 0 {
		capacity = endpoint.Limit
	}
	window := endpoint.Window
	if window <= 0 {
		window = time.Minute
	}
	b := newBucket(capacity, float64(endpoint.Limit)/window.Seconds(), now)
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle(l.now().Add(-l.config.IdleTTL()))
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets not used since cutoff.
func (l *Limiter) evictIdle(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, b := range l.buckets {
		if b.lastSeen().Before(cutoff) {
			delete(l.buckets, key)
			evicted++
		}
	}
	return evicted
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
