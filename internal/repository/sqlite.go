package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
)

const sqliteEntryColumns = `r.id, r.submitted_at, r.full_name, r.college_name, r.age, r.email,
	r.contact_number, r.city_state, r.selected_events, r.created_at`

// SQLiteLedger stores registration logs in a SQLite database.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger constructs a SQLiteLedger.
func NewSQLiteLedger(db *sql.DB) *SQLiteLedger {
	return &SQLiteLedger{db: db}
}

// EnsureCategories creates the named category logs if they are missing.
func (l *SQLiteLedger) EnsureCategories(ctx context.Context, names []string) error {
	now := formatTime(time.Now())
	for _, name := range names {
		_, err := l.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (name, created_at) VALUES (?, ?)`,
			name, now,
		)
		if err != nil {
			return fmt.Errorf("ensure category %q: %w", name, err)
		}
	}
	return nil
}

// Append writes one row to the master log and one to each selected
// category log inside a single transaction.
func (l *SQLiteLedger) Append(ctx context.Context, rec model.RegistrationRecord) (*model.Entry, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	entry := &model.Entry{
		ID:                 uuid.New().String(),
		RegistrationRecord: rec,
		CreatedAt:          time.Now().UTC(),
	}
	created := formatTime(entry.CreatedAt)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO registrations (id, submitted_at, full_name, college_name, age, email,
		                            contact_number, city_state, selected_events, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, rec.Timestamp, rec.FullName, rec.CollegeName, int(rec.Age), rec.Email,
		rec.ContactNumber, rec.CityState, rec.EventList(), created,
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	for _, name := range rec.SelectedEvents {
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (name, created_at) VALUES (?, ?)`,
			name, created,
		)
		if err != nil {
			return nil, fmt.Errorf("ensure category %q: %w", name, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO category_entries (category, registration_id, created_at) VALUES (?, ?, ?)`,
			name, entry.ID, created,
		)
		if err != nil {
			return nil, fmt.Errorf("insert category entry %q: %w", name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return entry, nil
}

// List returns the master log, oldest first.
func (l *SQLiteLedger) List(ctx context.Context) ([]model.Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT `+sqliteEntryColumns+`
		 FROM registrations r
		 ORDER BY r.created_at ASC, r.rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return collectSQL(rows)
}

// ListByCategory returns one category's log, oldest first, or ErrNotFound.
func (l *SQLiteLedger) ListByCategory(ctx context.Context, name string) ([]model.Entry, error) {
	var n int
	if err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ?`, name,
	).Scan(&n); err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT `+sqliteEntryColumns+`
		 FROM category_entries ce
		 JOIN registrations r ON r.id = ce.registration_id
		 WHERE ce.category = ?
		 ORDER BY ce.created_at ASC, r.rowid ASC`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("list category %q: %w", name, err)
	}
	return collectSQL(rows)
}

// Categories returns every category log in name order.
func (l *SQLiteLedger) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT name, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var (
			c       model.Category
			created string
		)
		if err := rows.Scan(&c.Name, &created); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if c.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func collectSQL(rows *sql.Rows) ([]model.Entry, error) {
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var (
			e       model.Entry
			age     int
			events  string
			created string
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.FullName, &e.CollegeName, &age, &e.Email,
			&e.ContactNumber, &e.CityState, &events, &created); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		t, err := parseTime(created)
		if err != nil {
			return nil, err
		}
		e.CreatedAt = t
		e.Age = model.Age(age)
		e.SelectedEvents = splitEvents(events)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// sqliteTime is fixed width so that text ordering matches time ordering.
const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTime)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTime, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func splitEvents(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ", ")
}
