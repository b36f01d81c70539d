package services

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-erp/validation"
)

// Error kinds. Every error returned by the quote services wraps one of these,
// so callers can branch with errors.Is without parsing messages.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

// QuoteError carries the kind of failure plus the detail the UI shows to the
// user: which field failed and why.
type QuoteError struct {
	Kind    error
	Field   string
	Message string
	Fields  validation.Violations
}

func (e *QuoteError) Error() string {
	switch {
	case e.Message != "" && e.Field != "":
		return e.Field + ": " + e.Message
	case e.Message != "":
		return e.Message
	case !e.Fields.Empty():
		return e.Fields.Error()
	}
	return e.Kind.Error()
}

func (e *QuoteError) Unwrap() error { return e.Kind }

func notFound(entity string, id uint) error {
	return &QuoteError{Kind: ErrNotFound, Field: entity, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

func invalid(field, format string, args ...any) error {
	return &QuoteError{Kind: ErrValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func invalidFields(v validation.Violations) error {
	return &QuoteError{Kind: ErrValidation, Fields: v}
}

func forbidden(format string, args ...any) error {
	return &QuoteError{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &QuoteError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}
