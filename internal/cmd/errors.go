package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

// ErrorWithSuggestion wraps an error with actionable recovery suggestions
type ErrorWithSuggestion struct {
	Message     string
	Suggestions []string
	err         error
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}

	if e.err != nil {
		b.WriteString("\n\nDetails: ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.err
}

// NewErrorWithSuggestions creates an error with recovery suggestions
func NewErrorWithSuggestions(msg string, err error, suggestions ...string) error {
	return &ErrorWithSuggestion{
		Message:     msg,
		Suggestions: suggestions,
		err:         err,
	}
}

// apiFailure turns a failed API call into the error a command returns. A
// rejected token becomes a session error so the exit code and hint point at
// logging in again.
func apiFailure(baseURL, action string, err error) error {
	if err == nil {
		return nil
	}
	var te *api.TransportError
	if errors.As(err, &te) {
		return conerr.NewUnreachableError(baseURL, err)
	}
	if api.IsUnauthorized(err) {
		return conerr.NewSessionExpiredError(err)
	}
	return ux.FormatError(err, action)
}

// RecordNotFoundError reports a reference that matched no listed record.
func RecordNotFoundError(entity, ref string, err error) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("No %s matches %q", entity, ref),
		err,
		fmt.Sprintf("List current records: eduplayctl %s list", entity),
		"Refer to a record by its id or its first column",
	)
}

// SetFlagError reports a malformed --set value.
func SetFlagError(value string) error {
	return conerr.New(conerr.ErrCodeFormUnknownField, fmt.Sprintf("invalid --set value %q", value)).
		WithSuggestion("Use --set key=value, for example --set age=12")
}

// NotInteractiveError is returned when a command would prompt but cannot.
func NotInteractiveError(what string, flags ...string) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("Cannot prompt for %s: stdin is not a terminal", what),
		nil,
		"Pass the values as flags: "+strings.Join(flags, ", "),
	)
}
