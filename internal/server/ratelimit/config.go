package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the bucket shape for one method and path. A Path ending in
// "/" matches every path under it. Burst falls back to Limit when zero.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config controls the limiter. Whitelisted clients bypass every bucket and
// blacklisted ones are always refused.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // buckets unused for longer are dropped by the sweeper
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads RATE_LIMIT_* variables over DefaultConfig. Unparseable
// values keep their default.
func LoadConfig() *Config {
	env := envReader(os.LookupEnv)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	cfg := DefaultConfig()
	cfg.DefaultLimit = env.integer("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = env.duration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = env.duration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.IdleTTL = env.duration("RATE_LIMIT_IDLE_TTL", cfg.IdleTTL)
	cfg.Whitelist = clientSet(env.str("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = clientSet(env.str("RATE_LIMIT_BLACKLIST"))
	return cfg
}

// DefaultEndpointConfigs tightens credential and write endpoints below the
// default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Credential endpoints
		{Path: "/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 10},
		{Path: "/me", Method: "PUT", Limit: 20, Window: time.Minute, Burst: 5},

		// Progress writes
		{Path: "/assessment/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/select-domain", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// User content
		{Path: "/suggest-video", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/resume", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
	}
}

// envReader resolves typed settings from a lookup such as os.LookupEnv.
type envReader func(key string) (string, bool)

func (e envReader) str(key string) string {
	v, _ := e(key)
	return strings.TrimSpace(v)
}

func (e envReader) integer(key string, fallback int) int {
	if n, err := strconv.Atoi(e.str(key)); err == nil {
		return n
	}
	return fallback
}

func (e envReader) boolean(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(e.str(key)); err == nil {
		return b
	}
	return fallback
}

func (e envReader) duration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.str(key)); err == nil {
		return d
	}
	return fallback
}

// clientSet turns "a, b,c" into a lookup set of client IDs.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
