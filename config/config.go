// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/creastat/espace-cours/session"
	"github.com/creastat/espace-cours/session/drivers"
)

// Config is the process configuration.
type Config struct {
	Store    drivers.StoreType `env:"ESPACE_STORE" envDefault:"memory"`
	BasePath string            `env:"ESPACE_BASE_PATH" envDefault:"/Activit-s-interactives_2nd-bac-pro"`
	LogLevel slog.Level        `env:"ESPACE_LOG_LEVEL" envDefault:"INFO"`

	SessionKey string `env:"ESPACE_SESSION_KEY" envDefault:"espace_cours_session"`
	RosterKey  string `env:"ESPACE_ROSTER_KEY" envDefault:"espace_cours_eleves"`

	Redis    RedisConfig
	Postgres PostgresConfig
	Supabase SupabaseConfig
	Sheets   SheetsConfig
}

// RedisConfig configures the redis store.
type RedisConfig struct {
	Addr      string        `env:"ESPACE_REDIS_ADDR" envDefault:"localhost:6379"`
	Password  string        `env:"ESPACE_REDIS_PASSWORD"`
	DB        int           `env:"ESPACE_REDIS_DB" envDefault:"0"`
	TTL       time.Duration `env:"ESPACE_REDIS_TTL" envDefault:"24h"`
	KeyPrefix string        `env:"ESPACE_REDIS_PREFIX" envDefault:"espace:"`
}

// PostgresConfig configures the postgres store.
type PostgresConfig struct {
	DSN   string `env:"ESPACE_POSTGRES_DSN"`
	Table string `env:"ESPACE_POSTGRES_TABLE" envDefault:"kv_records"`
}

// SupabaseConfig configures the Supabase roster source.
type SupabaseConfig struct {
	URL      string        `env:"ESPACE_SUPABASE_URL"`
	APIKey   string        `env:"ESPACE_SUPABASE_KEY"`
	Table    string        `env:"ESPACE_SUPABASE_TABLE" envDefault:"eleves"`
	CacheTTL time.Duration `env:"ESPACE_SUPABASE_CACHE_TTL" envDefault:"5m"`
}

// SheetsConfig configures the spreadsheet roster source.
type SheetsConfig struct {
	SpreadsheetID string `env:"ESPACE_SHEETS_ID"`
	APIKey        string `env:"ESPACE_SHEETS_KEY"`
	RosterSheet   string `env:"ESPACE_SHEETS_ROSTER_SHEET" envDefault:"ELEVES"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected store is usable.
func (c Config) Validate() error {
	var errs []error

	switch c.Store {
	case drivers.StoreTypeMemory:
	case drivers.StoreTypeRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("ESPACE_REDIS_ADDR is required for the redis store"))
		}
	case drivers.StoreTypePostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("ESPACE_POSTGRES_DSN is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("ESPACE_STORE %q: %w", c.Store, drivers.ErrInvalidStoreType))
	}

	if c.SessionKey == "" || c.RosterKey == "" {
		errs = append(errs, errors.New("session and roster keys must not be empty"))
	}
	if c.SessionKey == c.RosterKey {
		errs = append(errs, errors.New("session and roster keys must differ"))
	}

	return errors.Join(errs...)
}

// Paths returns the redirect targets for the configured base path.
func (c Config) Paths() session.Paths {
	return session.Paths{BasePath: c.BasePath}
}
