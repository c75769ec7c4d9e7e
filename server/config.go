package server

import (
	"errors"
	"time"
)

// Config configures the reference backend
type Config struct {
	Port      string        `env:"PORT" envDefault:"8080"`
	DBPath    string        `env:"RBAC_DB_PATH"` // empty uses ~/.rbac-console/devserver.db
	JWTSecret string        `env:"RBAC_JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL  time.Duration `env:"RBAC_TOKEN_TTL" envDefault:"24h"`

	// Seeded on startup unless the email already exists
	AdminName     string `env:"RBAC_ADMIN_NAME" envDefault:"Super Admin"`
	AdminEmail    string `env:"RBAC_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"RBAC_ADMIN_PASSWORD" envDefault:"admin123"`

	// Echo request lines to stdout in addition to the log file
	Verbose bool `env:"RBAC_VERBOSE"`
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	return nil
}
