package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Backend selects where credentials are verified.
const (
	BackendMongo = "mongo"
	BackendHTTP  = "http"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs session tokens. Required: there is no safe default.
	JWTSecret  string        `env:"JWT_SECRET, required"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=8h"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// Backend is "mongo" (local user collection) or "http" (remote identity
	// service at BackendURL).
	Backend    string        `env:"AUTH_BACKEND, default=mongo"`
	BackendURL string        `env:"AUTH_BACKEND_URL"`
	Timeout    time.Duration `env:"AUTH_TIMEOUT, default=5s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=trading_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.Backend == BackendHTTP && cfg.Auth.BackendURL == "" {
		return nil, fmt.Errorf("config: AUTH_BACKEND_URL required when AUTH_BACKEND=http")
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with production hardening
// (Secure cookies, JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
