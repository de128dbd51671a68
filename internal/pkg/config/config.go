package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is built once at process start and passed by reference into every
// component; nothing reads the environment after Load returns.
type Config struct {
	Port     string `env:"PORT,     default=8000"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWT
	SecretKey                string `env:"SECRET_KEY, required"`
	Algorithm                string `env:"ALGORITHM, default=HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`

	Supabase SupabaseConfig
	Redis    RedisConfig
}

type SupabaseConfig struct {
	URL        string `env:"SUPABASE_URL, required"`
	Key        string `env:"SUPABASE_KEY, required"`
	ServiceKey string `env:"SUPABASE_SERVICE_KEY"`
}

// RedisConfig is optional; an empty Addr disables the login throttle.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// AccessTokenTTL returns the configured token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
