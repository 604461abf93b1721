package form

import (
	"errors"
	"slices"
	"sync"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
)

// Registration form field names. They match the JSON keys of
// model.RegistrationRecord.
const (
	FieldFullName      = "fullName"
	FieldCollegeName   = "collegeName"
	FieldAge           = "age"
	FieldEmail         = "email"
	FieldContactNumber = "contactNumber"
	FieldCityState     = "cityState"
)

// ErrUnknownField is returned when a value is set on an undeclared field.
var ErrUnknownField = errors.New("unknown form field")

// Field declares one input of a form.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// RegistrationFields are the inputs of the symposium registration form.
var RegistrationFields = []Field{
	{Name: FieldFullName, Kind: KindText, Required: true},
	{Name: FieldCollegeName, Kind: KindText, Required: true},
	{Name: FieldAge, Kind: KindAge, Required: true},
	{Name: FieldEmail, Kind: KindEmail, Required: true},
	{Name: FieldContactNumber, Kind: KindPhone, Required: true},
	{Name: FieldCityState, Kind: KindText},
}

// FieldState is the validation state displayed next to one input.
// Flagged mirrors the input container's error styling.
type FieldState struct {
	Value   string
	Valid   bool
	Message string
	Flagged bool
}

// BannerKind classifies the result banner under the form.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerSuccess
	BannerError
)

// Banner is the form-level result message.
type Banner struct {
	Kind    BannerKind
	Message string
}

// Form is the view-model of the registration form: values, per-field
// validation state, checked events, the submit control and the result
// banner. It is safe for concurrent use.
type Form struct {
	mu sync.Mutex

	fields         []Field
	values         map[string]string
	states         map[string]FieldState
	checked        []string
	eventsErr      string
	submitDisabled bool
	banner         Banner
}

// NewForm builds a form over the given fields.
func NewForm(fields []Field) *Form {
	return &Form{
		fields: slices.Clone(fields),
		values: make(map[string]string, len(fields)),
		states: make(map[string]FieldState, len(fields)),
	}
}

// NewRegistrationForm builds the symposium registration form.
func NewRegistrationForm() *Form {
	return NewForm(RegistrationFields)
}

func (f *Form) field(name string) (Field, bool) {
	for _, fd := range f.fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Set stores the raw input value of a field.
func (f *Form) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.field(name); !ok {
		return ErrUnknownField
	}
	f.values[name] = value
	return nil
}

// Value returns the raw input value of a field.
func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Check ticks an event checkbox.
func (f *Form) Check(category string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !slices.Contains(f.checked, category) {
		f.checked = append(f.checked, category)
	}
}

// Uncheck clears an event checkbox.
func (f *Form) Uncheck(category string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = slices.DeleteFunc(f.checked, func(c string) bool { return c == category })
}

// Selected returns the checked events in the order they were ticked.
func (f *Form) Selected() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.checked)
}

// Blur validates a single field, as when focus leaves the input.
// Re-validating a valid field clears any stale error.
func (f *Form) Blur(name string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	fd, ok := f.field(name)
	if !ok {
		return valid
	}
	return f.applyLocked(fd)
}

func (f *Form) applyLocked(fd Field) Result {
	v := f.values[fd.Name]
	res := Validate(fd.Kind, fd.Required, v)
	f.states[fd.Name] = FieldState{
		Value:   v,
		Valid:   res.Valid,
		Message: res.Message,
		Flagged: !res.Valid,
	}
	return res
}

// validateAll checks every required field and the event selection without
// stopping at the first failure, so that every error is shown at once.
func (f *Form) validateAll() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	ok := true
	for _, fd := range f.fields {
		if !fd.Required {
			continue
		}
		if !f.applyLocked(fd).Valid {
			ok = false
		}
	}

	gate := CheckEvents(f.checked)
	f.eventsErr = gate.Message
	return ok && gate.Valid
}

// State returns the current validation state of a field.
func (f *Form) State(name string) FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[name]
}

// EventsError returns the message shown under the event checkboxes.
func (f *Form) EventsError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eventsErr
}

// SubmitEnabled reports whether the submit control accepts clicks.
func (f *Form) SubmitEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.submitDisabled
}

// Banner returns the current result banner.
func (f *Form) Banner() Banner {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner
}

// Reset clears every value, checked event and field state. The banner stays.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.values)
	clear(f.states)
	f.checked = nil
	f.eventsErr = ""
}

func (f *Form) beginSubmit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitDisabled = true
	f.banner = Banner{}
}

func (f *Form) endSubmit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitDisabled = false
}

func (f *Form) showBanner(kind BannerKind, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banner = Banner{Kind: kind, Message: msg}
}

// record assembles the sanitized wire record. Callers validate first.
func (f *Form) record(timestamp string) model.RegistrationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	age, _ := ParseAge(f.values[FieldAge])
	city := Sanitize(f.values[FieldCityState])
	if city == "" {
		city = model.NotAvailable
	}
	return model.RegistrationRecord{
		Timestamp:      timestamp,
		FullName:       Sanitize(f.values[FieldFullName]),
		CollegeName:    Sanitize(f.values[FieldCollegeName]),
		Age:            model.Age(age),
		Email:          Sanitize(f.values[FieldEmail]),
		ContactNumber:  Sanitize(f.values[FieldContactNumber]),
		CityState:      city,
		SelectedEvents: slices.Clone(f.checked),
	}
}
