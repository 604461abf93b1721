// Package service implements the registration intake: validation,
// persistence into the registration logs, and the best-effort confirmation
// email.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/catalog"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/form"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/notify"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/repository"
)

// ErrNotFound is returned when a requested category log does not exist.
var ErrNotFound = repository.ErrNotFound

// Ledger persists registrations into the master and category logs.
type Ledger interface {
	EnsureCategories(ctx context.Context, names []string) error
	Append(ctx context.Context, rec model.RegistrationRecord) (*model.Entry, error)
	List(ctx context.Context) ([]model.Entry, error)
	ListByCategory(ctx context.Context, name string) ([]model.Entry, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// Confirmer sends the registrant a confirmation.
type Confirmer interface {
	Confirm(ctx context.Context, rec model.RegistrationRecord) (notify.Receipt, error)
}

const confirmTimeout = 15 * time.Second

// RegistrationService orchestrates intake operations.
type RegistrationService struct {
	ledger    Ledger
	confirmer Confirmer
	now       func() time.Time
	loc       *time.Location
	logger    *slog.Logger
}

// NewRegistrationService constructs a RegistrationService. A nil confirmer
// disables confirmations.
func NewRegistrationService(ledger Ledger, confirmer Confirmer, loc *time.Location) *RegistrationService {
	if loc == nil {
		loc = form.IST
	}
	return &RegistrationService{
		ledger:    ledger,
		confirmer: confirmer,
		now:       time.Now,
		loc:       loc,
		logger:    slog.Default(),
	}
}

// Register validates rec, appends it to the master log and to each
// selected category's log, then sends a confirmation. The confirmation is
// best effort: its failure is logged and never undoes the append.
func (s *RegistrationService) Register(ctx context.Context, rec model.RegistrationRecord) (*model.Entry, error) {
	rec = s.normalize(rec)
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	entry, err := s.ledger.Append(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("append registration: %w", err)
	}
	s.logger.Info("registration_saved", "id", entry.ID, "events", rec.EventList())

	s.confirm(ctx, entry)
	return entry, nil
}

func (s *RegistrationService) confirm(ctx context.Context, entry *model.Entry) {
	if s.confirmer == nil {
		return
	}
	// The registration is already stored; a caller hanging up must not
	// cancel the email.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), confirmTimeout)
	defer cancel()

	receipt, err := s.confirmer.Confirm(ctx, entry.RegistrationRecord)
	if err != nil {
		s.logger.Error("confirmation_failed", "id", entry.ID, "error", err)
		return
	}
	s.logger.Info("confirmation_sent", "id", entry.ID, "message_id", receipt.MessageID)
}

// normalize sanitizes free text, trims and de-duplicates the event list,
// defaults city/state and stamps records that arrive without a timestamp.
// Sanitizing is idempotent, so records already cleaned by the form pass
// through unchanged.
func (s *RegistrationService) normalize(rec model.RegistrationRecord) model.RegistrationRecord {
	rec.Timestamp = strings.TrimSpace(rec.Timestamp)
	if rec.Timestamp == "" {
		rec.Timestamp = form.FormatTimestamp(s.now(), s.loc)
	}
	rec.FullName = form.Sanitize(rec.FullName)
	rec.CollegeName = form.Sanitize(rec.CollegeName)
	rec.Email = form.Sanitize(rec.Email)
	rec.ContactNumber = form.Sanitize(rec.ContactNumber)
	rec.CityState = form.Sanitize(rec.CityState)
	if rec.CityState == "" {
		rec.CityState = model.NotAvailable
	}

	seen := make(map[string]bool, len(rec.SelectedEvents))
	events := make([]string, 0, len(rec.SelectedEvents))
	for _, e := range rec.SelectedEvents {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		events = append(events, e)
	}
	rec.SelectedEvents = events
	return rec
}

// InitializeCategories creates a log for every catalog category so that
// empty categories are visible before the first registration.
func (s *RegistrationService) InitializeCategories(ctx context.Context) error {
	if err := s.ledger.EnsureCategories(ctx, catalog.Names()); err != nil {
		return fmt.Errorf("initialize categories: %w", err)
	}
	return nil
}

// ListEntries returns the master log.
func (s *RegistrationService) ListEntries(ctx context.Context) ([]model.Entry, error) {
	return s.ledger.List(ctx)
}

// ListCategory returns one category's log.
func (s *RegistrationService) ListCategory(ctx context.Context, name string) ([]model.Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotFound
	}
	entries, err := s.ledger.ListByCategory(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("list category: %w", err)
	}
	return entries, nil
}

// ListCategories returns every category log that exists.
func (s *RegistrationService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.ledger.Categories(ctx)
}
