package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrProductUnavailable = errors.New("product is not available")
)

// ValidationError carries per-field messages for a rejected form.
// Field keys are the form field names.
type ValidationError struct {
	Fields map[string]string
	cause  error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.cause }

func fieldError(field, msg string, cause error) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}, cause: cause}
}

// newValidationError converts validator output into field messages.
func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, e := range verrs {
		out.Fields[e.Field()] = describe(e)
	}
	return out
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "eqfield":
		return "Passwords must match."
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("Must be at least %s characters long.", e.Param())
		}
		return fmt.Sprintf("Must be at least %s.", e.Param())
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("Must be at most %s characters long.", e.Param())
		}
		return fmt.Sprintf("Must be at most %s.", e.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", e.Tag())
	}
}
