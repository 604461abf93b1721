// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds everything the intake server needs at startup.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"MEREDITH 2K26 Registration API"`
	WebDir      string `env:"WEB_DIR" envDefault:"./web"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"registrations.db"`
	DB          DB

	InitCategories bool `env:"INIT_CATEGORIES" envDefault:"true"`

	Mail Mail

	EventStartsAt time.Time `env:"EVENT_STARTS_AT" envDefault:"2026-03-10T09:00:00+05:30"`
	Timezone      string    `env:"TIMEZONE" envDefault:"Asia/Kolkata"`
}

// DB holds PostgreSQL connection settings.
type DB struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"symposium"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN builds a libpq-compatible connection string.
func (c DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Mail configures confirmation emails. Without an API key confirmations
// are only logged.
type Mail struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	EventName    string `env:"EVENT_NAME" envDefault:"MEREDITH 2K26"`
	From         string `env:"MAIL_FROM" envDefault:"MEREDITH 2K26 <noreply@ametuniv.ac.in>"`
	ReplyTo      string `env:"MAIL_REPLY_TO" envDefault:"office@ametuniv.ac.in"`
	Venue        string `env:"VENUE" envDefault:"JANAKIRAMAN AUDITORIUM"`
	VenueAddress string `env:"VENUE_ADDRESS" envDefault:"AMET Deemed to be University, ECR, Kanathur, Chennai."`
	ContactEmail string `env:"CONTACT_EMAIL" envDefault:"office@ametuniv.ac.in"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set take precedence over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

// Location resolves Timezone, falling back to UTC when the zone database
// has no entry for it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
