// Package validation checks request DTOs with struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alovak/cardforge/internal/cardgen"
	"github.com/alovak/cardforge/internal/engine"
)

var ErrInvalid = errors.New("invalid request")

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// digits, separators allowed (they are stripped later)
	_ = v.RegisterValidation("bin", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(cardgen.StripNonDigits(s)) <= engine.MaxLength && strings.Trim(s, "0123456789 -") == ""
	})
	_ = v.RegisterValidation("randomordigits", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || strings.EqualFold(s, engine.Random) || cardgen.IsDigits(s)
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate validates a struct and wraps failures in ErrInvalid with a
// readable message.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", ErrorMessage(err), ErrInvalid)
	}
	return nil
}

// ErrorMessage converts a validator error into a human-readable message.
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}

	fe := validationErrs[0]
	field := fe.Field()
	if field == "" {
		field = fe.StructField()
	}

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "bin":
		return fmt.Sprintf("%s must be up to %d digits", field, engine.MaxLength)
	case "randomordigits":
		return fmt.Sprintf("%s must be %q or digits", field, engine.Random)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
