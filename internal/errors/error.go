package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryHooks   Category = "hooks"
	CategoryEffect  Category = "effect"
	CategoryRender  Category = "render"
	CategoryRuntime Category = "runtime"
	CategoryConfig  Category = "config"
	CategoryHost    Category = "host"
)

// ReactorError is a structured error with a code, explanation and hint.
type ReactorError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (hooks, effect, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Component names the component the error was raised in, if any.
	Component string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ReactorError) Error() string {
	msg := e.Message
	if e.Component != "" {
		msg = fmt.Sprintf("%s (in %s)", msg, e.Component)
	}
	if e.Wrapped != nil {
		msg = msg + ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ReactorError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ReactorError) WithSuggestion(s string) *ReactorError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *ReactorError) WithDetail(d string) *ReactorError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *ReactorError) WithDetailf(format string, args ...any) *ReactorError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithComponent records the component the error was raised in.
func (e *ReactorError) WithComponent(name string) *ReactorError {
	e.Component = name
	return e
}

// Wrap wraps another error.
func (e *ReactorError) Wrap(err error) *ReactorError {
	e.Wrapped = err
	return e
}

// New creates a ReactorError from a registered error code.
func New(code string) *ReactorError {
	template, ok := registry[code]
	if !ok {
		return &ReactorError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ReactorError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new ReactorError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ReactorError {
	return &ReactorError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ReactorError.
func FromError(err error, code string) *ReactorError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*ReactorError); ok {
		return re
	}
	return New(code).Wrap(err)
}

// As is errors.As from the standard library, re-exported so callers that
// import this package under the name errors do not need a second import.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is from the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
