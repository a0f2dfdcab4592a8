package ratelimit

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_DefaultBudget(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 3, DefaultWindow: time.Minute})

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", "/resume", http.MethodGet)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/resume", http.MethodGet)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, (20 * time.Second).Seconds(), info.RetryAfter.Seconds(), 0.01)
	assert.True(t, info.ResetTime.After(clock.Now()))

	clock.Advance(20 * time.Second)
	allowed, _ = l.Allow("10.0.0.1", "/resume", http.MethodGet)
	assert.True(t, allowed, "one token refills after a third of the window")
}

func TestLimiter_ClientsAndRoutesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("a", "/resume", http.MethodGet)
	require.True(t, allowed)
	allowed, _ = l.Allow("a", "/resume", http.MethodGet)
	require.False(t, allowed)

	allowed, _ = l.Allow("b", "/resume", http.MethodGet)
	assert.True(t, allowed, "other client")
	allowed, _ = l.Allow("a", "/resume/abc", http.MethodGet)
	assert.True(t, allowed, "other route")
	allowed, _ = l.Allow("a", "/resume", http.MethodPost)
	assert.True(t, allowed, "other method")
}

func TestLimiter_EndpointBudget(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Endpoints:     []EndpointConfig{{Path: "/enhance", Method: http.MethodPost, Limit: 10, Window: time.Hour, Burst: 2}},
	})

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("c", "/enhance", http.MethodPost)
		require.True(t, allowed)
		assert.Equal(t, 10, info.Limit)
	}
	allowed, info := l.Allow("c", "/enhance", http.MethodPost)
	assert.False(t, allowed)
	assert.InDelta(t, (6 * time.Minute).Seconds(), info.RetryAfter.Seconds(), 0.01)
}

func TestLimiter_Lists(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Allowlist:     map[string]bool{"127.0.0.1": true},
		Blocklist:     map[string]bool{"192.168.1.1": true},
	})

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("127.0.0.1", "/x", http.MethodGet)
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}

	allowed, _ := l.Allow("192.168.1.1", "/x", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_DisabledAndUnlimited(t *testing.T) {
	disabled, _ := newTestLimiter(t, &Config{Enabled: false})
	for i := 0; i < 50; i++ {
		allowed, _ := disabled.Allow("a", "/x", http.MethodGet)
		require.True(t, allowed)
	}

	unlimited, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, Endpoints: DefaultEndpoints()})
	for i := 0; i < 50; i++ {
		allowed, _ := unlimited.Allow("a", "/health", http.MethodGet)
		require.True(t, allowed)
	}
	assert.Zero(t, unlimited.size(), "unlimited routes keep no buckets")
}

func TestLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute, IdleTTL: time.Hour})

	l.Allow("old", "/x", http.MethodGet)
	clock.Advance(90 * time.Minute)
	l.Allow("new", "/x", http.MethodGet)
	require.Equal(t, 2, l.size())

	l.sweep()
	assert.Equal(t, 1, l.size())
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := l.Allow("shared", "/x", http.MethodGet); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowed.Load())
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	l.Stop()
}

func TestConfig_Match(t *testing.T) {
	cfg := &Config{Endpoints: []EndpointConfig{
		{Path: "/resume", Method: http.MethodPost, Limit: 1},
		{Path: "/resume/", Method: http.MethodGet, Limit: 2},
	}}

	assert.Equal(t, 1, cfg.Match("/resume", http.MethodPost).Limit)
	assert.Equal(t, 2, cfg.Match("/resume/123", http.MethodGet).Limit)
	assert.Nil(t, cfg.Match("/resume", http.MethodGet))
	assert.Nil(t, cfg.Match("/other", http.MethodPost))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_ALLOWLIST", "10.0.0.1, 10.0.0.2,")
	t.Setenv("RATE_LIMIT_BLOCKLIST", "")

	cfg := LoadConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Allowlist)
	assert.Empty(t, cfg.Blocklist)
	assert.Equal(t, DefaultEndpoints(), cfg.Endpoints)
}
