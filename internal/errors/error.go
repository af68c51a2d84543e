package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRegistry  Category = "registry"
	CategoryConfig    Category = "config"
	CategoryWorkspace Category = "workspace"
	CategoryDeps      Category = "deps"
	CategoryFS        Category = "fs"
	CategoryCLI       Category = "cli"
)

// NoctaError is a structured error with a stable code, detail text, and a
// fix suggestion.
type NoctaError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (registry, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *NoctaError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NoctaError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *NoctaError) WithDetail(d string) *NoctaError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *NoctaError) WithDetailf(format string, args ...any) *NoctaError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *NoctaError) WithSuggestion(s string) *NoctaError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *NoctaError) Wrap(err error) *NoctaError {
	e.Wrapped = err
	if e.Detail == "" && err != nil {
		e.Detail = err.Error()
	}
	return e
}

// New creates a NoctaError from a registered error code.
func New(code string) *NoctaError {
	template, ok := registry[code]
	if !ok {
		return &NoctaError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &NoctaError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new NoctaError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *NoctaError {
	return &NoctaError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a NoctaError.
func FromError(err error, code string) *NoctaError {
	if err == nil {
		return nil
	}
	if ne, ok := err.(*NoctaError); ok {
		return ne
	}
	return New(code).Wrap(err)
}
