package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/form"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
)

// ValidationError carries one message per invalid field, keyed by the
// field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// The same rules the form applies, so that server-to-server callers
	// get identical answers.
	_ = v.RegisterValidation("shallowemail", func(fl validator.FieldLevel) bool {
		return form.ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return form.ValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("age", func(fl validator.FieldLevel) bool {
		return form.ValidAge(int(fl.Field().Int()))
	})
	return v
}

func validateRecord(rec model.RegistrationRecord) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if strings.HasPrefix(name, "selectedEvents") {
			fields["selectedEvents"] = form.MsgNoEvents
			continue
		}
		fields[name] = messageFor(fe.Tag())
	}
	return &ValidationError{Fields: fields}
}

func messageFor(tag string) string {
	switch tag {
	case "shallowemail":
		return form.MsgEmail
	case "phone10":
		return form.MsgPhone
	case "age":
		return form.MsgAge
	default:
		return form.MsgRequired
	}
}
