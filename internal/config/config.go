package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/erohshop/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFormat is json or text.
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Remote product and auth API
	RemoteBaseURL        string  `env:"REMOTE_BASE_URL" envDefault:"https://dummyjson.com"`
	RemoteTimeoutSeconds int     `env:"REMOTE_TIMEOUT_SECONDS" envDefault:"15"`
	RemoteMaxRetries     int     `env:"REMOTE_MAX_RETRIES" envDefault:"0"`
	BreakerFailureRatio  float64 `env:"REMOTE_BREAKER_FAILURE_RATIO" envDefault:"0.5"`

	// Persistent store: "memory" or "redis"
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	// Redis key TTL in hours; 0 keeps keys forever, like browser storage.
	StoreTTLHours int `env:"STORE_TTL_HOURS" envDefault:"0"`

	// Kafka; empty disables activity events.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Profiles
	ProfileIdleTTLMinutes int  `env:"PROFILE_IDLE_TTL_MINUTES" envDefault:"30"`
	CookieSecure          bool `env:"COOKIE_SECURE" envDefault:"false"`

	// Login throttling, per client IP
	LoginRateLimitRPS   float64 `env:"LOGIN_RATE_LIMIT_RPS" envDefault:"1"`
	LoginRateLimitBurst int     `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"5"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Debug; empty keeps /debug/pprof unmounted.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables, after applying an
// optional .env file in the working directory.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg, pkgconfig.WithEnvFiles(".env")); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RemoteTimeout returns the per-request timeout for the remote API.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSeconds) * time.Second
}

// StoreTTL returns the Redis key TTL; zero means no expiry.
func (c *Config) StoreTTL() time.Duration {
	return time.Duration(c.StoreTTLHours) * time.Hour
}

// ProfileIdleTTL returns how long an unused profile stays in memory.
func (c *Config) ProfileIdleTTL() time.Duration {
	return time.Duration(c.ProfileIdleTTLMinutes) * time.Minute
}

// EventsEnabled reports whether activity events go to Kafka.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.RemoteBaseURL == "" {
		return fmt.Errorf("REMOTE_BASE_URL is required")
	}
	if c.RemoteTimeoutSeconds < 1 {
		return fmt.Errorf("REMOTE_TIMEOUT_SECONDS must be positive, got %d", c.RemoteTimeoutSeconds)
	}
	if c.RemoteMaxRetries < 0 {
		return fmt.Errorf("REMOTE_MAX_RETRIES must not be negative, got %d", c.RemoteMaxRetries)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("REMOTE_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.BreakerFailureRatio)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	switch c.StoreBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("STORE_BACKEND must be memory or redis, got %q", c.StoreBackend)
	}
	if c.StoreTTLHours < 0 {
		return fmt.Errorf("STORE_TTL_HOURS must not be negative, got %d", c.StoreTTLHours)
	}
	if c.ProfileIdleTTLMinutes < 1 {
		return fmt.Errorf("PROFILE_IDLE_TTL_MINUTES must be positive, got %d", c.ProfileIdleTTLMinutes)
	}
	if c.LoginRateLimitRPS <= 0 || c.LoginRateLimitBurst < 1 {
		return fmt.Errorf("login rate limit must be positive, got rps=%v burst=%d", c.LoginRateLimitRPS, c.LoginRateLimitBurst)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate)
	}
	return nil
}
