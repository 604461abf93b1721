package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// registrations is the master log; category_entries is the per-category
// log, one row per (category, registration).
const postgresSchema = `
CREATE TABLE IF NOT EXISTS categories (
	name       TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS registrations (
	id              UUID PRIMARY KEY,
	submitted_at    TEXT NOT NULL,
	full_name       TEXT NOT NULL,
	college_name    TEXT NOT NULL,
	age             INTEGER NOT NULL,
	email           TEXT NOT NULL,
	contact_number  TEXT NOT NULL,
	city_state      TEXT NOT NULL,
	selected_events TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS category_entries (
	category        TEXT NOT NULL REFERENCES categories(name),
	registration_id UUID NOT NULL REFERENCES registrations(id),
	created_at      TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (category, registration_id)
);

CREATE INDEX IF NOT EXISTS registrations_created_at_idx ON registrations (created_at);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS categories (
	name       TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS registrations (
	id              TEXT PRIMARY KEY,
	submitted_at    TEXT NOT NULL,
	full_name       TEXT NOT NULL,
	college_name    TEXT NOT NULL,
	age             INTEGER NOT NULL,
	email           TEXT NOT NULL,
	contact_number  TEXT NOT NULL,
	city_state      TEXT NOT NULL,
	selected_events TEXT NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS category_entries (
	category        TEXT NOT NULL REFERENCES categories(name),
	registration_id TEXT NOT NULL REFERENCES registrations(id),
	created_at      TEXT NOT NULL,
	PRIMARY KEY (category, registration_id)
);

CREATE INDEX IF NOT EXISTS registrations_created_at_idx ON registrations (created_at);
`

// MigratePostgres creates the ledger tables if they do not exist.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

// MigrateSQLite creates the ledger tables if they do not exist.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}
