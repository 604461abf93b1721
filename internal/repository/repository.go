// Package repository persists registrations into a master log and one log
// per event category. It uses pgx directly (no ORM) for PostgreSQL and
// database/sql for SQLite.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
)

// ErrNotFound is returned when a requested category log does not exist.
var ErrNotFound = errors.New("not found")

const entryColumns = `r.id::text, r.submitted_at, r.full_name, r.college_name, r.age, r.email,
	r.contact_number, r.city_state, r.selected_events, r.created_at`

// PostgresLedger stores registration logs in PostgreSQL.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a PostgresLedger.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// EnsureCategories creates the named category logs if they are missing.
func (l *PostgresLedger) EnsureCategories(ctx context.Context, names []string) error {
	now := time.Now().UTC()
	for _, name := range names {
		_, err := l.db.Exec(ctx,
			`INSERT INTO categories (name, created_at) VALUES ($1, $2)
			 ON CONFLICT (name) DO NOTHING`,
			name, now,
		)
		if err != nil {
			return fmt.Errorf("ensure category %q: %w", name, err)
		}
	}
	return nil
}

// Append writes one row to the master log and one to each selected
// category log inside a single transaction. Category logs that do not yet
// exist are created.
func (l *PostgresLedger) Append(ctx context.Context, rec model.RegistrationRecord) (*model.Entry, error) {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	entry := &model.Entry{
		ID:                 uuid.New().String(),
		RegistrationRecord: rec,
		CreatedAt:          time.Now().UTC(),
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, submitted_at, full_name, college_name, age, email,
		                            contact_number, city_state, selected_events, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, rec.Timestamp, rec.FullName, rec.CollegeName, int(rec.Age), rec.Email,
		rec.ContactNumber, rec.CityState, rec.EventList(), entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	for _, name := range rec.SelectedEvents {
		_, err = tx.Exec(ctx,
			`INSERT INTO categories (name, created_at) VALUES ($1, $2)
			 ON CONFLICT (name) DO NOTHING`,
			name, entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ensure category %q: %w", name, err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO category_entries (category, registration_id, created_at)
			 VALUES ($1, $2, $3)`,
			name, entry.ID, entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert category entry %q: %w", name, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return entry, nil
}

// List returns the master log, oldest first.
func (l *PostgresLedger) List(ctx context.Context) ([]model.Entry, error) {
	rows, err := l.db.Query(ctx,
		`SELECT `+entryColumns+`
		 FROM registrations r
		 ORDER BY r.created_at ASC, r.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return collectPgx(rows)
}

// ListByCategory returns one category's log, oldest first, or ErrNotFound
// when the category log has never been created.
func (l *PostgresLedger) ListByCategory(ctx context.Context, name string) ([]model.Entry, error) {
	var exists bool
	err := l.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := l.db.Query(ctx,
		`SELECT `+entryColumns+`
		 FROM category_entries ce
		 JOIN registrations r ON r.id = ce.registration_id
		 WHERE ce.category = $1
		 ORDER BY ce.created_at ASC, r.id ASC`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("list category %q: %w", name, err)
	}
	return collectPgx(rows)
}

// Categories returns every category log in name order.
func (l *PostgresLedger) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := l.db.Query(ctx, `SELECT name, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func collectPgx(rows pgx.Rows) ([]model.Entry, error) {
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var (
			e      model.Entry
			age    int
			events string
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.FullName, &e.CollegeName, &age, &e.Email,
			&e.ContactNumber, &e.CityState, &events, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		e.Age = model.Age(age)
		e.SelectedEvents = splitEvents(events)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
