package util

import (
	"errors"
	"fmt"
)

// ErrInvalidValue is matched by every ValidationError.
var ErrInvalidValue = errors.New("invalid value")

// PathError represents an error related to a specific game or backup file.
type PathError struct {
	Op   string // Operation being performed
	Path string // Path that caused the error
	Err  error  // Underlying error
	Hint string // Optional hint for resolving the error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: <nil>", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// GetHint returns the hint for PathError
func (e *PathError) GetHint() string {
	return e.Hint
}

// ValidationError reports a form or flag value outside its allowed range.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Invalid value
	Message string // Error message
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidValue
}

// NewPathError creates a new PathError
func NewPathError(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// NewPathErrorWithHint creates a new PathError with a hint
func NewPathErrorWithHint(op, path string, err error, hint string) error {
	return &PathError{Op: op, Path: path, Err: err, Hint: hint}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, value, message string) error {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// HintableError is an interface for errors that can provide hints
type HintableError interface {
	error
	GetHint() string
}

// GetErrorHint extracts a hint from an error if it implements HintableError
func GetErrorHint(err error) string {
	if err == nil {
		return ""
	}
	var hintable HintableError
	if errors.As(err, &hintable) {
		return hintable.GetHint()
	}
	return ""
}
