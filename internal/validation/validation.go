// Package validation wraps go-playground/validator with messages suited to a
// terminal and with failures wrapped as models.ErrValidation.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/asteroid-belt/learnpath/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("singleline", singleLine)
	})
	return validate
}

// Struct validates s. The returned error wraps models.ErrValidation and lists
// every failing field.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	messages := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		messages[i] = message(fe)
	}
	return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(messages, "; "))
}

// singleLine rejects control characters, line breaks and tabs included.
func singleLine(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}

func message(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "alphanum":
		return field + " must contain only letters and digits"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "singleline":
		return field + " must be a single line without control characters"
	case "excludesall":
		return field + " contains characters that are not allowed"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
