package errors

import (
	"errors"
	"fmt"
)

// AlfsError is the structured error type for malfs.
// It carries enough context to decide whether the pipeline must abort and
// what to tell the operator.
type AlfsError struct {
	// Code is the unique error code (e.g., "ERR_302_NO_PARTITIONS").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Environment, Probe, Partition, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the operator.
	Suggestion string
}

// Error implements the error interface.
func (e *AlfsError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *AlfsError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with AlfsError.
func (e *AlfsError) Is(target error) bool {
	if t, ok := target.(*AlfsError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *AlfsError) WithDetail(key, value string) *AlfsError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the operator.
// Returns the error for method chaining.
func (e *AlfsError) WithSuggestion(suggestion string) *AlfsError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AlfsError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *AlfsError {
	return &AlfsError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an AlfsError from an existing error.
// The error's message becomes the AlfsError message.
func Wrap(code string, err error) *AlfsError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// EnvMissing creates the fatal error for an unset required environment variable.
func EnvMissing(name string) *AlfsError {
	return New(ErrCodeEnvMissing, fmt.Sprintf("need env variable %s!", name), nil).
		WithDetail("variable", name).
		WithSuggestion(fmt.Sprintf("export %s=/mnt/lfs (the mount point of the LFS partition)", name))
}

// Interrupted creates the fatal error for a run stopped by SIGINT or
// SIGTERM. cause is the context error.
func Interrupted(cause error) *AlfsError {
	return New(ErrCodeInterrupted, "interrupted", cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *AlfsError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IsFatal checks if an error has fatal severity anywhere in its chain.
// Fatal errors abort the whole process.
func IsFatal(err error) bool {
	var ae *AlfsError
	if errors.As(err, &ae) {
		return ae.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from an AlfsError in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var ae *AlfsError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// GetCategory extracts the category from an AlfsError in the chain.
// Returns empty string if there is none.
func GetCategory(err error) Category {
	var ae *AlfsError
	if errors.As(err, &ae) {
		return ae.Category
	}
	return ""
}
