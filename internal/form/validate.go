// Package form implements the registration form pipeline: field
// validation, sanitization, and a submission orchestrator that guards
// against duplicate in-flight submits.
package form

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind declares how a field's value is checked.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindPhone
	KindAge
)

func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindPhone:
		return "phone"
	case KindAge:
		return "age"
	default:
		return "text"
	}
}

// Messages shown next to an invalid field.
const (
	MsgRequired = "This field is required"
	MsgEmail    = "Please enter a valid email address"
	MsgPhone    = "Please enter a valid 10-digit phone number"
	MsgAge      = "Age must be between 16 and 99"
	MsgNoEvents = "Please select at least one event"
)

// Accepted age range, inclusive.
const (
	MinAge = 16
	MaxAge = 99
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Result is the outcome of checking one input.
type Result struct {
	Valid   bool
	Message string
}

var valid = Result{Valid: true}

func invalid(msg string) Result {
	return Result{Message: msg}
}

// Validate checks value against kind. The first failing rule wins:
// required, then the kind-specific format. Empty optional values are valid.
func Validate(kind Kind, required bool, value string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return invalid(MsgRequired)
		}
		return valid
	}

	switch kind {
	case KindEmail:
		if !ValidEmail(value) {
			return invalid(MsgEmail)
		}
	case KindPhone:
		if !ValidPhone(value) {
			return invalid(MsgPhone)
		}
	case KindAge:
		if _, ok := ParseAge(value); !ok {
			return invalid(MsgAge)
		}
	}
	return valid
}

// CheckEvents requires at least one selected event.
func CheckEvents(selected []string) Result {
	if len(selected) == 0 {
		return invalid(MsgNoEvents)
	}
	return valid
}

// ValidEmail reports whether s has the shape local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s is exactly ten ASCII digits.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidAge reports whether n is inside the accepted range.
func ValidAge(n int) bool {
	return n >= MinAge && n <= MaxAge
}

// ParseAge parses a base-10 age and checks its range.
func ParseAge(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !ValidAge(n) {
		return 0, false
	}
	return n, true
}
