package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one path and method. A Path ending in "/"
// matches every path under it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per Window
	Window time.Duration
	Burst  int // bucket capacity, Limit when zero
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// IdleTTL is how long an unused bucket is kept.
func (c *Config) IdleTTL() time.Duration {
	if c.IdleTimeout > 0 {
		return c.IdleTimeout
	}
	return time.Hour
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns stricter limits for the model-backed endpoints.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Every call runs two generation requests
		{Path: "/generate_documents", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/generate_documents/stream", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/feedback", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Scraping plus one extraction request
		{Path: "/new_application", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/extract", Method: "GET", Limit: 60, Window: time.Hour, Burst: 10},

		// One summary per uploaded file
		{Path: "/upload_assets", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
	}
}

// LoadConfig reads RATE_LIMIT_* environment variables on top of DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}
	cfg.DefaultLimit = envInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = envDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = envDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Whitelist = parseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST"))
	return cfg
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
