// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

var (
	// ErrUnknownStoreDriver indicates STORE_DRIVER is not a supported value.
	ErrUnknownStoreDriver = errors.New("unknown store driver")
	// ErrDatabaseURLRequired indicates the postgres driver was selected without DATABASE_URL.
	ErrDatabaseURLRequired = errors.New("DATABASE_URL is required for the postgres store driver")
	// ErrSecretTooShort indicates JWT_SECRET is shorter than the HS256 key size.
	ErrSecretTooShort = errors.New("JWT_SECRET must be at least 32 bytes")
)

// minSecretLen is the HS256 key size in bytes.
const minSecretLen = 32

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Credential store
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// Cache (Redis). Empty disables the user cache.
	RedisURL       string        `env:"REDIS_URL"`
	RedisPoolSize  int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisOpTimeout time.Duration `env:"REDIS_OP_TIMEOUT" envDefault:"200ms"`
	UserCacheTTL   time.Duration `env:"USER_CACHE_TTL" envDefault:"1m"`

	// Session tokens
	JWTSecret      string        `env:"JWT_SECRET,required"`
	TokenHeader    string        `env:"TOKEN_HEADER" envDefault:"X-Auth"`
	TokenIATLeeway time.Duration `env:"TOKEN_IAT_LEEWAY" envDefault:"5s"`

	// Password hashing work factor (argon2id)
	Argon2Time     uint32 `env:"ARGON2_TIME" envDefault:"3"`
	Argon2MemoryKB uint32 `env:"ARGON2_MEMORY_KB" envDefault:"65536"`
	Argon2Threads  uint8  `env:"ARGON2_THREADS" envDefault:"4"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Metrics
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return ErrDatabaseURLRequired
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}

	if len(c.JWTSecret) < minSecretLen {
		return ErrSecretTooShort
	}

	return nil
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
