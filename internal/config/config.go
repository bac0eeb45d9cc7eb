package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Autostock"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Store struct {
		SnapshotPath string `envconfig:"SNAPSHOT_PATH" default:"data/autostock.json"`
	}

	Auth struct {
		JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
		AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:"admin"`
	}

	Backup struct {
		Dir  string `envconfig:"BACKUP_DIR" default:"backups"`
		Keep int    `envconfig:"BACKUP_KEEP" default:"5"`
		// Optional Postgres mirror; backups stay local when unset.
		PostgresURL string `envconfig:"BACKUP_POSTGRES_URL"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
