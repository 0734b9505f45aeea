package serrors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// BaseError is a structured error with a stable machine-readable code.
// Codes are part of the API contract and map to HTTP statuses at the edge.
type BaseError struct {
	Code      string
	Message   string
	LocaleKey string
	Details   map[string]string
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

// WithDetail returns a copy of the error carrying an extra detail entry.
// The receiver is not mutated so package-level sentinels stay immutable.
func (e *BaseError) WithDetail(key, value string) *BaseError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &BaseError{
		Code:      e.Code,
		Message:   e.Message,
		LocaleKey: e.LocaleKey,
		Details:   details,
	}
}

// Is makes sentinel comparisons with errors.Is work across WithDetail copies.
func (e *BaseError) Is(target error) bool {
	var be *BaseError
	if !errors.As(target, &be) {
		return false
	}
	return e.Code == be.Code && e.Message == be.Message
}

// CodeOf extracts the stable code from err, or "" when err carries none.
func CodeOf(err error) string {
	var be *BaseError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// ValidationErrors maps payload field names to their individual errors.
type ValidationErrors map[string]*BaseError

const ValidationCode = "VALIDATION_ERROR"

func NewFieldRequiredError(field, localeKey string) *BaseError {
	return &BaseError{
		Code:      ValidationCode,
		Message:   fmt.Sprintf("%s is required", field),
		LocaleKey: localeKey,
	}
}

func NewInvalidFieldError(field, rule, localeKey string) *BaseError {
	return &BaseError{
		Code:      ValidationCode,
		Message:   fmt.Sprintf("%s failed validation rule %q", field, rule),
		LocaleKey: localeKey,
	}
}

// ProcessValidatorErrors converts validator.ValidationErrors into per-field
// BaseErrors. localeKeyFn may be nil when the consumer does not localize.
func ProcessValidatorErrors(errs validator.ValidationErrors, localeKeyFn func(field string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fieldErr := range errs {
		localeKey := ""
		if localeKeyFn != nil {
			localeKey = localeKeyFn(fieldErr.Field())
		}
		if fieldErr.Tag() == "required" {
			out[fieldErr.Field()] = NewFieldRequiredError(fieldErr.Field(), localeKey)
			continue
		}
		out[fieldErr.Field()] = NewInvalidFieldError(fieldErr.Field(), fieldErr.Tag(), localeKey)
	}
	return out
}

// Fields flattens validation errors into a field -> message map for
// transport in an error envelope's details.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for field, err := range v {
		out[field] = err.Message
	}
	return out
}
