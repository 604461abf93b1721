package form

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Banner texts.
const (
	SuccessMessage  = "Registration successful! See you at the symposium 🎉"
	FallbackMessage = "Something went wrong. Please try again."
)

// Outcome is the result of one submit trigger.
type Outcome int

const (
	// OutcomeIgnored means another submission was already in flight.
	OutcomeIgnored Outcome = iota
	// OutcomeInvalid means validation failed and nothing was sent.
	OutcomeInvalid
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Orchestrator drives a Form through validation and submission. It owns
// the in-flight guard: the guard is set only while a request is
// outstanding and is cleared on every exit path.
type Orchestrator struct {
	form      *Form
	transport Transport
	now       func() time.Time
	loc       *time.Location
	logger    *slog.Logger

	inFlight atomic.Bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithLocation sets the zone submission timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) { o.loc = loc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator constructs an Orchestrator for form sending through t.
func NewOrchestrator(form *Form, t Transport, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		form:      form,
		transport: t,
		now:       time.Now,
		loc:       IST,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// InFlight reports whether a submission is outstanding.
func (o *Orchestrator) InFlight() bool {
	return o.inFlight.Load()
}

// Submit handles one submit trigger.
//
// Validation always completes before any network call, and at most one
// request is in flight at a time. Repeated triggers while a request is
// outstanding are ignored.
func (o *Orchestrator) Submit(ctx context.Context) Outcome {
	if o.inFlight.Load() {
		o.logger.Debug("submit_ignored", "reason", "in_flight")
		return OutcomeIgnored
	}

	if !o.form.validateAll() {
		o.logger.Info("form_invalid")
		return OutcomeInvalid
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		o.logger.Debug("submit_ignored", "reason", "in_flight")
		return OutcomeIgnored
	}
	o.form.beginSubmit()
	defer func() {
		o.form.endSubmit()
		o.inFlight.Store(false)
	}()

	rec := o.form.record(FormatTimestamp(o.now(), o.loc))

	if err := o.transport.Send(ctx, rec); err != nil {
		msg := err.Error()
		if msg == "" {
			msg = FallbackMessage
		}
		o.logger.Error("registration_submit_failed", "error", err)
		o.form.showBanner(BannerError, msg)
		return OutcomeFailure
	}

	o.logger.Info("registration_submitted", "email", rec.Email, "events", len(rec.SelectedEvents))
	o.form.showBanner(BannerSuccess, SuccessMessage)
	o.form.Reset()
	return OutcomeSuccess
}
