package errors

import (
	stderrors "errors"
	"fmt"
)

// HarnessError is the structured error type for audparity.
// It carries a stable code so callers can branch on the failure class
// (load failure vs missing entry point) without string matching.
type HarnessError struct {
	// Code is the unique error code (e.g., "ERR_301_LOAD_FAILED").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Bind, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *HarnessError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with HarnessError.
func (e *HarnessError) Is(target error) bool {
	if t, ok := target.(*HarnessError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *HarnessError) WithDetail(key, value string) *HarnessError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new HarnessError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *HarnessError {
	return &HarnessError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a HarnessError from an existing error.
// The error's message becomes the HarnessError message.
func Wrap(code string, err error) *HarnessError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// LoadFailed creates a bind error for an unloadable library image.
func LoadFailed(path string, cause error) *HarnessError {
	return New(ErrCodeLoadFailed, fmt.Sprintf("cannot load library %s", path), cause).
		WithDetail("path", path)
}

// EntryPointMissing creates a bind error for an unresolvable mandatory
// entry point.
func EntryPointMissing(path, name string) *HarnessError {
	return New(ErrCodeEntryPointMissing,
		fmt.Sprintf("library %s is missing mandatory entry point %s", path, name), nil).
		WithDetail("path", path).
		WithDetail("entry_point", name)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *HarnessError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *HarnessError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *HarnessError {
	return New(ErrCodeInternal, message, cause)
}

// CodeOf returns the code of the first HarnessError in err's chain,
// or "" when there is none.
func CodeOf(err error) string {
	var he *HarnessError
	if stderrors.As(err, &he) {
		return he.Code
	}
	return ""
}
