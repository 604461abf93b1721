package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/database"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
)

func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.MigrateSQLite(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLiteLedger(db)
}

func record(name string, events ...string) model.RegistrationRecord {
	return model.RegistrationRecord{
		Timestamp:      "19/10/2026, 3:04:05 pm",
		FullName:       name,
		CollegeName:    "XYZ College",
		Age:            20,
		Email:          "asha@example.com",
		ContactNumber:  "9876543210",
		CityState:      model.NotAvailable,
		SelectedEvents: events,
	}
}

func TestSQLiteLedger_AppendWritesMasterAndCategoryLogs(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	entry, err := l.Append(ctx, record("Asha Rao", "Technical Quiz", "UDYAT"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Fatalf("entry missing id or time: %+v", entry)
	}

	all, err := l.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("master log has %d rows, want 1", len(all))
	}
	got := all[0]
	if got.ID != entry.ID || got.FullName != "Asha Rao" || got.Age != 20 {
		t.Errorf("master row = %+v", got)
	}
	if len(got.SelectedEvents) != 2 || got.SelectedEvents[1] != "UDYAT" {
		t.Errorf("events = %v", got.SelectedEvents)
	}

	for _, cat := range []string{"Technical Quiz", "UDYAT"} {
		rows, err := l.ListByCategory(ctx, cat)
		if err != nil {
			t.Fatalf("ListByCategory(%s): %v", cat, err)
		}
		if len(rows) != 1 || rows[0].ID != entry.ID {
			t.Errorf("%s log = %+v", cat, rows)
		}
	}
}

func TestSQLiteLedger_UnknownCategoryCreatedOnDemand(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	if _, err := l.ListByCategory(ctx, "Chess"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("before append: err = %v, want ErrNotFound", err)
	}
	if _, err := l.Append(ctx, record("Ravi", "Chess")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	rows, err := l.ListByCategory(ctx, "Chess")
	if err != nil {
		t.Fatalf("after append: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Chess log has %d rows", len(rows))
	}
}

func TestSQLiteLedger_EnsureCategoriesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	names := []string{"Paper Presentation", "Technical Quiz"}
	for i := 0; i < 2; i++ {
		if err := l.EnsureCategories(ctx, names); err != nil {
			t.Fatalf("EnsureCategories pass %d: %v", i, err)
		}
	}
	cats, err := l.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Paper Presentation" {
		t.Errorf("categories = %+v", cats)
	}

	rows, err := l.ListByCategory(ctx, "Technical Quiz")
	if err != nil {
		t.Fatalf("empty category: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("empty category has %d rows", len(rows))
	}
}

func TestSQLiteLedger_AppendIsAtomic(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	// A duplicate category violates the category_entries primary key, so
	// the whole append must roll back.
	if _, err := l.Append(ctx, record("Dup", "UDYAT", "UDYAT")); err == nil {
		t.Fatal("expected error for duplicate category entry")
	}
	all, err := l.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("master log has %d rows after failed append", len(all))
	}
}

func TestSQLiteLedger_ListKeepsOrder(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	for _, name := range []string{"first", "second", "third"} {
		if _, err := l.Append(ctx, record(name, "UDYAT")); err != nil {
			t.Fatalf("Append %s: %v", name, err)
		}
	}
	rows, err := l.ListByCategory(ctx, "UDYAT")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].FullName != "first" || rows[2].FullName != "third" {
		t.Errorf("order = %v", rows)
	}
}
