// Package ratelimit applies per-client token buckets to HTTP routes.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	limit    int
	lastSeen time.Time
}

// Limiter tracks one bucket per client, route and method.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter returns a limiter for config, or DefaultConfig when nil. A
// background sweep drops idle buckets until Stop is called.
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
		go l.sweepLoop(config.CleanupInterval)
	}
	return l
}

// Allow consumes a token for clientID on the given route.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	cfg := l.config
	switch {
	case !cfg.Enabled, cfg.Allowlist[clientID]:
		return true, Info{Allowed: true}
	case cfg.Blocklist[clientID]:
		return false, Info{}
	}

	ep := cfg.Match(path, method)
	if ep == nil {
		ep = &EndpointConfig{Limit: cfg.DefaultLimit, Window: cfg.DefaultWindow}
	}
	if ep.Limit <= 0 || ep.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucketFor(clientID+" "+method+" "+path, ep, now)

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	info := Info{
		Allowed:   allowed,
		Limit:     b.limit,
		Remaining: max(0, int(math.Floor(tokens))),
		ResetTime: now.Add(untilFull(b.limiter, tokens)),
	}
	if !allowed {
		info.RetryAfter = secondsFor(1-tokens, b.limiter.Limit())
	}
	return allowed, info
}

func (l *Limiter) bucketFor(key string, ep *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := ep.Burst
		if burst <= 0 {
			burst = ep.Limit
		}
		every := rate.Limit(float64(ep.Limit) / ep.Window.Seconds())
		// A new limiter starts with a full bucket.
		b = &bucket{limiter: rate.NewLimiter(every, burst), limit: ep.Limit}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

func untilFull(lim *rate.Limiter, tokens float64) time.Duration {
	missing := float64(lim.Burst()) - tokens
	if missing <= 0 {
		return 0
	}
	return secondsFor(missing, lim.Limit())
}

func secondsFor(tokens float64, r rate.Limit) time.Duration {
	if tokens <= 0 || r <= 0 {
		return 0
	}
	return time.Duration(tokens / float64(r) * float64(time.Second))
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets idle for longer than IdleTTL.
func (l *Limiter) sweep() {
	ttl := l.config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the background sweep. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
