// Package model defines the core domain types for symposium registration.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NotAvailable is stored for optional free-text fields left empty.
const NotAvailable = "N/A"

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusOK      = "ok"
)

// Headers names the columns of every registration log, in row order.
var Headers = []string{
	"Timestamp",
	"Full Name",
	"College Name",
	"Age",
	"Email ID",
	"Contact Number",
	"City / State",
	"Selected Events",
}

// Age is a registrant's age. Browsers submit it as a string while
// server-to-server callers send a number; both decode.
type Age int

// UnmarshalJSON accepts 20, "20" and "" (zero).
func (a *Age) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("age %q is not a number", s)
		}
		*a = Age(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("age: %w", err)
	}
	*a = Age(n)
	return nil
}

// RegistrationRecord is one registrant's submitted data bundle, exactly as it
// crosses the wire between the form and the intake.
type RegistrationRecord struct {
	Timestamp      string   `json:"timestamp"`
	FullName       string   `json:"fullName" validate:"required"`
	CollegeName    string   `json:"collegeName" validate:"required"`
	Age            Age      `json:"age" validate:"age"`
	Email          string   `json:"email" validate:"required,shallowemail"`
	ContactNumber  string   `json:"contactNumber" validate:"required,phone10"`
	CityState      string   `json:"cityState"`
	SelectedEvents []string `json:"selectedEvents" validate:"required,min=1,dive,required"`
}

// EventList joins the selected events the way the logs store them.
func (r RegistrationRecord) EventList() string {
	return strings.Join(r.SelectedEvents, ", ")
}

// Row returns the record as a log row matching Headers.
func (r RegistrationRecord) Row() []string {
	return []string{
		r.Timestamp,
		r.FullName,
		r.CollegeName,
		strconv.Itoa(int(r.Age)),
		r.Email,
		r.ContactNumber,
		r.CityState,
		r.EventList(),
	}
}

// Entry is a persisted registration in the master log.
type Entry struct {
	ID string `json:"id"`
	RegistrationRecord
	CreatedAt time.Time `json:"created_at"`
}

// Category is one per-event registration log.
type Category struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusResponse is the JSON status envelope returned by the intake.
type StatusResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	ID      string            `json:"id,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}
