package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeNotLoggedIn    ErrorCode = "SESSION-001"
	ErrCodeSessionExpired ErrorCode = "SESSION-002"
	ErrCodeSessionStore   ErrorCode = "SESSION-003"
	ErrCodeTokenMalformed ErrorCode = "SESSION-004"

	// API errors (API-001 to API-099)
	ErrCodeAPIUnreachable ErrorCode = "API-001"
	ErrCodeAPIStatus      ErrorCode = "API-002"
	ErrCodeAPIDecode      ErrorCode = "API-003"
	ErrCodeAPIEncode      ErrorCode = "API-004"
	ErrCodeAPIContract    ErrorCode = "API-005"

	// Form errors (FORM-001 to FORM-099)
	ErrCodeFormRequired      ErrorCode = "FORM-001"
	ErrCodeFormInvalidNumber ErrorCode = "FORM-002"
	ErrCodeFormInvalidChoice ErrorCode = "FORM-003"
	ErrCodeFormInvalidEmail  ErrorCode = "FORM-004"
	ErrCodeFormUnknownField  ErrorCode = "FORM-005"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigLoad    ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileReadFailed  ErrorCode = "IO-001"
	ErrCodeFileWriteFailed ErrorCode = "IO-002"
	ErrCodeDirectoryFailed ErrorCode = "IO-003"
)

// ConsoleError is an error with a code, recovery suggestions and an optional cause.
type ConsoleError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *ConsoleError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ConsoleError) Unwrap() error {
	return e.Cause
}

// Category returns the code prefix, e.g. "SESSION" for "SESSION-001".
func (e *ConsoleError) Category() string {
	prefix, _, _ := strings.Cut(string(e.Code), "-")
	return prefix
}

// New creates a new ConsoleError
func New(code ErrorCode, message string) *ConsoleError {
	return &ConsoleError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new ConsoleError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *ConsoleError {
	return &ConsoleError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *ConsoleError) WithSuggestion(suggestion string) *ConsoleError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *ConsoleError) WithSuggestions(suggestions ...string) *ConsoleError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors for frequently used errors

// NewNotLoggedInError is returned by authenticated commands when no token is stored.
func NewNotLoggedInError() *ConsoleError {
	return New(ErrCodeNotLoggedIn, "not logged in").
		WithSuggestion("Run 'eduplayctl login' to authenticate").
		WithSuggestion("Run 'eduplayctl seed' first if the backend has no admin accounts yet")
}

// NewSessionExpiredError is returned after the API rejected the stored token.
func NewSessionExpiredError(cause error) *ConsoleError {
	return Wrap(ErrCodeSessionExpired, "session expired or token rejected", cause).
		WithSuggestion("Run 'eduplayctl login' to log in again")
}

// NewUnreachableError reports that no response reached the client.
func NewUnreachableError(baseURL string, cause error) *ConsoleError {
	return Wrap(ErrCodeAPIUnreachable, fmt.Sprintf("admin API unreachable at %s", baseURL), cause).
		WithSuggestion("Check that the backend is running").
		WithSuggestion("Point the console at another backend with --api-url or EDUPLAY_API_URL")
}

// NewFieldRequiredError reports an empty required form field.
func NewFieldRequiredError(field string) *ConsoleError {
	return New(ErrCodeFormRequired, fmt.Sprintf("%s is required", field)).
		WithSuggestion("Provide a non-empty value")
}

// NewFieldNumberError reports numeric text that could not be coerced.
func NewFieldNumberError(field, value string) *ConsoleError {
	return New(ErrCodeFormInvalidNumber, fmt.Sprintf("%s must be a number, got %q", field, value))
}

// NewFieldChoiceError reports a value outside a closed set of options.
func NewFieldChoiceError(field, value string, options []string) *ConsoleError {
	return New(ErrCodeFormInvalidChoice, fmt.Sprintf("invalid %s %q", field, value)).
		WithSuggestion(fmt.Sprintf("Use one of: %s", strings.Join(options, ", ")))
}

// NewFieldEmailError reports a malformed email address.
func NewFieldEmailError(field, value string) *ConsoleError {
	return New(ErrCodeFormInvalidEmail, fmt.Sprintf("%s is not a valid email address: %q", field, value))
}

// NewUnknownFieldError reports a field key that is not part of the form.
func NewUnknownFieldError(field string, known []string) *ConsoleError {
	return New(ErrCodeFormUnknownField, fmt.Sprintf("unknown field %q", field)).
		WithSuggestion(fmt.Sprintf("Known fields: %s", strings.Join(known, ", ")))
}

// NewConfigLoadError reports a configuration file that could not be read.
func NewConfigLoadError(path string, cause error) *ConsoleError {
	return Wrap(ErrCodeConfigLoad, fmt.Sprintf("failed to load configuration: %s", path), cause).
		WithSuggestion("Check the YAML syntax of the configuration file").
		WithSuggestion("Run 'eduplayctl config path' to see which file is used")
}
