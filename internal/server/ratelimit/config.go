package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the budget for one route. Path ending in "/" matches by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // defaults to Limit
}

// Config holds limiter settings.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Allowlist       map[string]bool
	Blocklist       map[string]bool
	Endpoints       []EndpointConfig
}

// DefaultConfig returns the limits used when no environment overrides exist.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Allowlist:       map[string]bool{},
		Blocklist:       map[string]bool{},
		Endpoints:       DefaultEndpoints(),
	}
}

// DefaultEndpoints gives model-backed routes the strictest budget and
// leaves health checks unlimited.
func DefaultEndpoints() []EndpointConfig {
	model := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5}
	}
	return []EndpointConfig{
		{Path: "/health", Method: http.MethodGet, Limit: 0},
		model("/ats-score"),
		model("/analyze"),
		model("/report"),
		model("/enhance"),
		{Path: "/resume", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// LoadConfig reads RATE_LIMIT_* environment variables on top of DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	cfg.DefaultLimit = envInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = envDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = envDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Allowlist = parseIPList(os.Getenv("RATE_LIMIT_ALLOWLIST"))
	cfg.Blocklist = parseIPList(os.Getenv("RATE_LIMIT_BLOCKLIST"))
	return cfg
}

// Match returns the endpoint budget for a request, or nil to use the default.
func (c *Config) Match(path, method string) *EndpointConfig {
	for i := range c.Endpoints {
		ep := &c.Endpoints[i]
		if ep.Method == method && ep.Path == path {
			return ep
		}
	}
	for i := range c.Endpoints {
		ep := &c.Endpoints[i]
		if ep.Method == method && strings.HasSuffix(ep.Path, "/") && strings.HasPrefix(path, ep.Path) {
			return ep
		}
	}
	return nil
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

func parseIPList(list string) map[string]bool {
	out := map[string]bool{}
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			out[ip] = true
		}
	}
	return out
}
