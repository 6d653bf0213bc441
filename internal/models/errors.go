package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAlreadyRunning is returned when a dispatch is requested while another
// job is still active. The running job is left untouched.
var ErrAlreadyRunning = errors.New("already sending data")

// ErrorKind groups errors by how the caller should present them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindResource
	KindValidation
	KindConflict
	KindDispatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindDispatch:
		return "dispatch"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A nil error is KindUnknown.
func KindOf(err error) ErrorKind {
	var (
		resErr  *ResourceError
		valErr  *ValidationError
		dispErr *DispatchFailure
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrAlreadyRunning):
		return KindConflict
	case errors.As(err, &resErr):
		return KindResource
	case errors.As(err, &valErr):
		return KindValidation
	case errors.As(err, &dispErr):
		return KindDispatch
	default:
		return KindUnknown
	}
}

// ResourceError reports input text that could not be read.
type ResourceError struct {
	Path string
	Err  error
}

func NewResourceError(path string, err error) *ResourceError {
	return &ResourceError{Path: path, Err: err}
}

func (re *ResourceError) Error() string {
	return fmt.Sprintf("failed to read file %q: %v", re.Path, re.Err)
}

func (re *ResourceError) Unwrap() error {
	return re.Err
}

// ValidationError represents a rejected request or setting
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Error returns the error message
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for '%s' with value '%v': %s",
		ve.Field, ve.Value, ve.Message)
}

// DispatchFailure is raised when the keystroke backend fails mid-sequence.
// Index is the position of the item that could not be sent.
type DispatchFailure struct {
	Index int
	Value float64
	Err   error
}

func (df *DispatchFailure) Error() string {
	return fmt.Sprintf("sending item %d (%s) failed: %v", df.Index, FormatValue(df.Value), df.Err)
}

func (df *DispatchFailure) Unwrap() error {
	return df.Err
}
