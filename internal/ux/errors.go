package ux

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError analyzes an error and adds contextual suggestions.
// Console errors already carry their own suggestions and pass through.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var ce *conerr.ConsoleError
	if errors.As(err, &ce) {
		return err
	}

	var te *api.TransportError
	if errors.As(err, &te) {
		return NewErrorWithSuggestion(err,
			"Check that the backend is running, or point the console elsewhere with --api-url or EDUPLAY_API_URL")
	}

	switch api.StatusCode(err) {
	case http.StatusUnauthorized:
		return NewErrorWithSuggestion(err,
			"Your session is missing or expired. Run 'eduplayctl login'")
	case http.StatusNotFound:
		return NewErrorWithSuggestion(err,
			"The record may have been deleted. List the entity again to see current ids")
	case http.StatusUnprocessableEntity:
		return NewErrorWithSuggestion(err,
			"Fix the listed fields and retry")
	}

	if errors.Is(err, resource.ErrReadOnly) {
		return NewErrorWithSuggestion(err,
			"This entity can only be listed")
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check the permissions of the console home directory (EDUPLAY_HOME, default ~/.eduplay)")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}

// Describe returns the single line a person should read for err, as shown
// in notifications: the API's detail, or the error text otherwise.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var ce *conerr.ConsoleError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return api.Message(err)
}
