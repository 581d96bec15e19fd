package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080" validate:"required"`
	Env      string `env:"ENV,       default=development" validate:"oneof=development staging production"`
	LogLevel string `env:"LOG_LEVEL, default=info" validate:"oneof=trace debug info warn error"`

	// Secrets may stay empty during local development but are mandatory in
	// production.
	JWTSecret     string        `env:"JWT_SECRET" validate:"required_if=Env production"`
	SessionSecret string        `env:"SESSION_SECRET" validate:"required_if=Env production"`
	JWTTTL        time.Duration `env:"JWT_TTL,         default=24h"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE, default=168h"`

	Identity IdentityConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Limiter  LimiterConfig

	// PersistProfiles controls whether registration writes the profile
	// document. Off reproduces the legacy behavior where the write was
	// disabled.
	PersistProfiles bool `env:"PROFILE_PERSIST, default=true"`
}

type IdentityConfig struct {
	Backend string `env:"IDENTITY_BACKEND, default=local" validate:"oneof=local firebase"`
	APIKey  string `env:"FIREBASE_API_KEY" validate:"required_if=Backend firebase"`
	BaseURL string `env:"FIREBASE_BASE_URL"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017" validate:"required"`
	Database string `env:"MONGO_DB,  default=daily_kharcha" validate:"required"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379" validate:"hostname_port"`
	DB   int    `env:"REDIS_DB,   default=0" validate:"gte=0"`
}

type LimiterConfig struct {
	MaxFailures int           `env:"LOGIN_MAX_FAILURES,   default=10" validate:"gt=0"`
	Window      time.Duration `env:"LOGIN_FAILURE_WINDOW, default=15m" validate:"gt=0"`
}

// Load reads configuration from environment variables using go-envconfig
// and validates the result before anything connects with it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Production reports whether the service runs in the production environment.
func (c *Config) Production() bool {
	return c.Env == "production"
}
