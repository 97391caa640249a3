package exitcode

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	"github.com/felixgeelhaar/eduplay-console/internal/catalog"
	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage or form input
	UsageError = 2

	// Rejected indicates the API refused the request (4xx other than auth)
	Rejected = 3

	// NotFound indicates the addressed record does not exist
	NotFound = 4

	// AuthError indicates a missing, expired or rejected session
	AuthError = 5

	// NetworkError indicates the API could not be reached
	NetworkError = 6

	// Interrupted indicates the operator cancelled (Ctrl+C or declined a prompt)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, resource.ErrCancelled) {
		return Interrupted
	}

	var te *api.TransportError
	if errors.As(err, &te) {
		return NetworkError
	}

	var he *api.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden:
			return AuthError
		case he.StatusCode == http.StatusNotFound:
			return NotFound
		case he.StatusCode < http.StatusInternalServerError:
			return Rejected
		default:
			return GeneralError
		}
	}

	var ce *conerr.ConsoleError
	if errors.As(err, &ce) {
		switch ce.Category() {
		case "SESSION":
			return AuthError
		case "FORM", "CONFIG":
			return UsageError
		}
		if ce.Code == conerr.ErrCodeAPIUnreachable {
			return NetworkError
		}
	}

	if errors.Is(err, resource.ErrReadOnly) {
		return UsageError
	}
	if errors.Is(err, catalog.ErrRecordNotFound) {
		return NotFound
	}

	// cobra reports flag and argument problems as plain errors
	errMsg := strings.ToLower(err.Error())
	for _, marker := range []string{"unknown flag", "invalid argument", "unknown command", "required flag", "accepts ", "requires at least"} {
		if strings.Contains(errMsg, marker) {
			return UsageError
		}
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or field values)"
	case Rejected:
		return "Request rejected by the API"
	case NotFound:
		return "Record not found"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
