// Package errors provides custom error types for the AI Flaw Report SDK.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Base Error Types
// =============================================================================

// Error is the base error type for all SDK errors.
type Error struct {
	// Kind indicates the category of error
	Kind Kind

	// Op is the operation being performed (e.g., "canonical.Build")
	Op string

	// Message is a human-readable description
	Message string

	// Err is the underlying error
	Err error
}

// Kind represents the kind/category of error.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindMalformedInput
	KindNotFound
	KindStorage
	KindNetwork
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMalformedInput:
		return "malformed_input"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	case KindNetwork:
		return "network"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// =============================================================================
// Validation Error
// =============================================================================

// ValidationError reports the full set of required fields a submission is
// missing. It is always reported as a list, never as a single first failure.
type ValidationError struct {
	// MissingFields lists every required field that is absent or empty.
	MissingFields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.MissingFields, ", "))
}

// =============================================================================
// Malformed Input Error
// =============================================================================

// MalformedInputError names a field (or input) whose value has the wrong
// container type, or an input that could not be parsed as a submission.
type MalformedInputError struct {
	// Field is the offending field name, or a description of the input.
	Field string

	// Message describes what was expected.
	Message string
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// =============================================================================
// Constructors
// =============================================================================

// E constructs an Error from the given arguments.
// Arguments can be: Kind, string (Op or Message), error.
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Kind:
			e.Kind = a
		case string:
			if e.Op == "" {
				e.Op = a
			} else {
				e.Message = a
			}
		case error:
			e.Err = a
		}
	}
	return e
}

// New creates a new simple error.
func New(message string) error {
	return &Error{Message: message}
}

// Wrap wraps an error with additional context.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Missing creates a ValidationError for the given field names.
func Missing(fields []string) error {
	return &ValidationError{MissingFields: fields}
}

// Malformed creates a MalformedInputError for the given field.
func Malformed(field, message string) error {
	return &MalformedInputError{Field: field, Message: message}
}

// =============================================================================
// Error Checkers
// =============================================================================

// GetKind returns the Kind of the error, or KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if IsValidation(err) {
		return KindValidation
	}
	if IsMalformedInput(err) {
		return KindMalformedInput
	}
	return KindUnknown
}

// IsValidation checks if err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidation returns the ValidationError wrapped in err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsMalformedInput checks if err is a MalformedInputError.
func IsMalformedInput(err error) bool {
	var me *MalformedInputError
	return errors.As(err, &me)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return GetKind(err) == KindNotFound
}

// =============================================================================
// Common Errors
// =============================================================================

var (
	// ErrReportNotFound is returned when a stored report cannot be located.
	ErrReportNotFound = &Error{Kind: KindNotFound, Message: "report not found"}

	// ErrEmptySubmission is returned when a submission has no fields at all.
	ErrEmptySubmission = &Error{Kind: KindValidation, Message: "submission is empty"}
)
