package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Fetch     FetchConfig
	Extract   ExtractConfig
	Validate  ValidateConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls headless browser acquisition for the renderer.
//
// Acquisition order: ControlURL (remote CDP endpoint) > ServerlessBin
// (pre-provisioned binary in constrained environments) > Bin or a probe of
// standard installation paths.
type BrowserConfig struct {
	// ControlURL is a remote browser WebSocket endpoint. When set, the
	// renderer connects instead of launching a local process.
	ControlURL string

	// ServerlessBin is the path to a serverless-optimised browser binary.
	ServerlessBin string

	// Bin overrides the local browser binary path.
	Bin string

	// Headless controls whether a launched browser runs headless.
	Headless bool // default: true

	// NoSandbox disables the browser sandbox (needed in Docker/serverless).
	NoSandbox bool // default: false

	// SettleDelay is the fixed wait after DOM content loaded, giving
	// client-side rendering frameworks time to populate content.
	SettleDelay time.Duration // default: 2s

	// BlockedResourceTypes lists resource types aborted before navigation.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// FetchConfig controls the static fetcher and the redirect resolver.
type FetchConfig struct {
	// Timeout bounds every fetch, redirect probe, and browser navigation.
	Timeout time.Duration // default: 15s

	// MaxRedirects is the redirect hop budget for the resolver.
	MaxRedirects int // default: 10
}

// ExtractConfig controls the multi-strategy content extractor.
type ExtractConfig struct {
	// ExtraSelectors are additional CSS selectors tried by the
	// semantic-region strategy, after the built-in ones. Invalid
	// selectors are dropped at construction.
	ExtraSelectors []string
}

// ValidateConfig controls AI-backed job-signal validation.
type ValidateConfig struct {
	// APIKey authenticates against the completion endpoint. When empty,
	// validation rejects all candidates (conservative default).
	APIKey string

	// BaseURL is an OpenAI-compatible API root.
	// default: "https://api.groq.com/openai/v1"
	BaseURL string

	// Model is the classification model name.
	// default: "llama-3.3-70b-versatile"
	Model string

	// Timeout bounds the classification call.
	Timeout time.Duration // default: 15s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	Enabled bool // default: false
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 5
	Burst             int     // default: 10
}

// CacheConfig controls the extraction result cache.
type CacheConfig struct {
	// Backend selects "memory" (default) or "redis".
	Backend string

	// RedisAddr is the Redis host:port, used when Backend is "redis".
	RedisAddr string

	// MaxEntries caps the in-memory backend.
	MaxEntries int // default: 1000
}

// StorageConfig controls the optional extraction audit log.
type StorageConfig struct {
	// DatabaseURL is a Postgres connection string. Empty disables
	// audit logging.
	DatabaseURL string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("JDX_HOST", "0.0.0.0"),
			Port: envIntOr("JDX_PORT", 8080),
			Mode: envOr("JDX_MODE", "release"),
		},
		Browser: BrowserConfig{
			ControlURL:    os.Getenv("JDX_BROWSER_WS_ENDPOINT"),
			ServerlessBin: os.Getenv("JDX_SERVERLESS_BROWSER_BIN"),
			Bin:           os.Getenv("JDX_BROWSER_BIN"),
			Headless:      envBoolOr("JDX_HEADLESS", true),
			NoSandbox:     envBoolOr("JDX_NO_SANDBOX", false),
			SettleDelay:   envDurationOr("JDX_SETTLE_DELAY", 2*time.Second),
			BlockedResourceTypes: envSliceOr("JDX_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Fetch: FetchConfig{
			Timeout:      envDurationOr("JDX_FETCH_TIMEOUT", 15*time.Second),
			MaxRedirects: envIntOr("JDX_MAX_REDIRECTS", 10),
		},
		Extract: ExtractConfig{
			ExtraSelectors: envSliceOr("JDX_EXTRA_SELECTORS", nil),
		},
		Validate: ValidateConfig{
			APIKey:  os.Getenv("JDX_GROQ_API_KEY"),
			BaseURL: envOr("JDX_LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:   envOr("JDX_LLM_MODEL", "llama-3.3-70b-versatile"),
			Timeout: envDurationOr("JDX_LLM_TIMEOUT", 15*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("JDX_AUTH_ENABLED", false),
			APIKeys: envSliceOr("JDX_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("JDX_RATE_RPS", 5.0),
			Burst:             envIntOr("JDX_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			Backend:    envOr("JDX_CACHE_BACKEND", "memory"),
			RedisAddr:  envOr("JDX_REDIS_ADDR", "127.0.0.1:6379"),
			MaxEntries: envIntOr("JDX_CACHE_MAX_ENTRIES", 1000),
		},
		Storage: StorageConfig{
			DatabaseURL: os.Getenv("JDX_DATABASE_URL"),
		},
		Log: LogConfig{
			Level:  envOr("JDX_LOG_LEVEL", "info"),
			Format: envOr("JDX_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
