package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs the session-pointer tokens handed to the dashboard.
	JWTSecret string `env:"JWT_SECRET, default=constructia-dev-secret"`

	// AdminPassphrase is the shared secret checked before the admin login
	// form is reachable.
	AdminPassphrase string `env:"ADMIN_PASSPHRASE, default=constructia2024"`

	// FallbackPassword is the shared literal accepted for any remote client
	// row. Empty disables it.
	FallbackPassword string `env:"FALLBACK_PASSWORD"`

	AuditBuffer int `env:"AUDIT_BUFFER, default=256"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=constructia"`
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
	return &cfg, nil
}
