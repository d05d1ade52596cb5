// Package dbconfig resolves the Postgres connection string for every
// binary that touches the database (API server, seed tool).
package dbconfig

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the pieces of a Postgres connection string. A full
// DATABASE_URL wins over the individual DB_* variables.
type Config struct {
	URL string

	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewConfigFromEnv reads DATABASE_URL, falling back to DB_* variables with
// local-development defaults.
func NewConfigFromEnv() Config {
	cfg := Config{
		URL:      os.Getenv("DATABASE_URL"),
		Host:     envOr("DB_HOST", "localhost"),
		User:     envOr("DB_USER", "postgres"),
		Password: envOr("DB_PASSWORD", "postgres"),
		Database: envOr("DB_NAME", "wishwell"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),
	}

	cfg.Port = 5432
	if p, err := strconv.Atoi(envOr("DB_PORT", "5432")); err == nil {
		cfg.Port = p
	}
	return cfg
}

// DSN returns the connection URL: DATABASE_URL verbatim when set,
// otherwise assembled from the DB_* pieces.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
