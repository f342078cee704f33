// Package form parses and validates the HTML form payloads.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wanderlust/wanderlust/internal/model"
)

// ValidationError lists every problem found in a submitted form.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ",")
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their HTML form name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("form")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).IsValid()
	})

	return v
}

// Struct validates s and converts failures into a *ValidationError.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return &ValidationError{Messages: msgs}
}

func message(fe validator.FieldError) string {
	field := fmt.Sprintf("%q", fe.Field())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte", "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte", "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must contain %s items", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "category":
		names := make([]string, len(model.Categories))
		for i, c := range model.Categories {
			names[i] = string(c)
		}
		return fmt.Sprintf("%s must be one of [%s]", field, strings.Join(names, ", "))
	default:
		return field + " is invalid"
	}
}
