package ux

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

func TestNewErrorWithSuggestion(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
		wantNil    bool
	}{
		{
			name:       "nil error returns nil",
			err:        nil,
			suggestion: "some suggestion",
			wantNil:    true,
		},
		{
			name:       "error with suggestion",
			err:        errors.New("something failed"),
			suggestion: "try this fix",
			wantNil:    false,
		},
		{
			name:       "error without suggestion",
			err:        errors.New("something failed"),
			suggestion: "",
			wantNil:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewErrorWithSuggestion(tt.err, tt.suggestion)
			if tt.wantNil {
				if result != nil {
					t.Errorf("NewErrorWithSuggestion() = %v, want nil", result)
				}
				return
			}

			if result == nil {
				t.Fatal("NewErrorWithSuggestion() returned nil, want error")
			}

			errMsg := result.Error()
			if !strings.Contains(errMsg, tt.err.Error()) {
				t.Errorf("Error message %q does not contain original error %q", errMsg, tt.err.Error())
			}

			if tt.suggestion != "" && !strings.Contains(errMsg, tt.suggestion) {
				t.Errorf("Error message %q does not contain suggestion %q", errMsg, tt.suggestion)
			}
		})
	}
}

func TestErrorWithSuggestion_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
		wantMsg    string
	}{
		{
			name:       "with suggestion",
			err:        errors.New("test error"),
			suggestion: "do this",
			wantMsg:    "test error\n\n💡 Suggestion: do this",
		},
		{
			name:       "without suggestion",
			err:        errors.New("test error"),
			suggestion: "",
			wantMsg:    "test error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &ErrorWithSuggestion{
				Err:        tt.err,
				Suggestion: tt.suggestion,
			}

			if e.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", e.Error(), tt.wantMsg)
			}
		})
	}
}

func TestErrorWithSuggestion_Unwrap(t *testing.T) {
	origErr := errors.New("original error")
	e := &ErrorWithSuggestion{
		Err:        origErr,
		Suggestion: "some suggestion",
	}

	unwrapped := e.Unwrap()
	if unwrapped != origErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, origErr)
	}
}

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantSuggestion string
	}{
		{
			name:           "nil error",
			err:            nil,
			wantSuggestion: "",
		},
		{
			name:           "transport failure",
			err:            &api.TransportError{Method: "GET", URL: "http://localhost:8000/api/users", Err: errors.New("connection refused")},
			wantSuggestion: "--api-url",
		},
		{
			name:           "unauthorized",
			err:            &api.HTTPError{StatusCode: 401, Detail: "Not authenticated"},
			wantSuggestion: "eduplayctl login",
		},
		{
			name:           "not found",
			err:            fmt.Errorf("update: %w", &api.HTTPError{StatusCode: 404, Detail: "User not found"}),
			wantSuggestion: "List the entity again",
		},
		{
			name:           "validation",
			err:            &api.HTTPError{StatusCode: 422, Detail: "email: field required"},
			wantSuggestion: "Fix the listed fields",
		},
		{
			name:           "read-only entity",
			err:            resource.ErrReadOnly,
			wantSuggestion: "only be listed",
		},
		{
			name:           "permission denied",
			err:            errors.New("open /root/.eduplay/admin_token: permission denied"),
			wantSuggestion: "EDUPLAY_HOME",
		},
		{
			name:           "unknown error passes through",
			err:            errors.New("something else"),
			wantSuggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EnhanceError(tt.err)
			if tt.err == nil {
				if result != nil {
					t.Errorf("EnhanceError(nil) = %v, want nil", result)
				}
				return
			}

			var ews *ErrorWithSuggestion
			if tt.wantSuggestion == "" {
				if errors.As(result, &ews) {
					t.Errorf("EnhanceError() added suggestion %q, want none", ews.Suggestion)
				}
				return
			}
			if !errors.As(result, &ews) {
				t.Fatalf("EnhanceError() = %v, want ErrorWithSuggestion", result)
			}
			if !strings.Contains(ews.Suggestion, tt.wantSuggestion) {
				t.Errorf("suggestion %q does not contain %q", ews.Suggestion, tt.wantSuggestion)
			}
		})
	}
}

func TestEnhanceError_ConsoleErrorPassesThrough(t *testing.T) {
	err := conerr.NewNotLoggedInError()
	if got := EnhanceError(err); got != error(err) {
		t.Errorf("EnhanceError() = %v, want original console error", got)
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil, "ctx") != nil {
		t.Error("FormatError(nil) should be nil")
	}

	err := FormatError(&api.HTTPError{StatusCode: 401, Detail: "Not authenticated"}, "list users")
	if !strings.HasPrefix(err.Error(), "list users: ") {
		t.Errorf("FormatError() = %q, want context prefix", err.Error())
	}
	if !api.IsUnauthorized(err) {
		t.Error("FormatError() should preserve the error chain")
	}

	plain := FormatError(errors.New("boom"), "")
	if plain.Error() != "boom" {
		t.Errorf("FormatError() = %q, want %q", plain.Error(), "boom")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"api detail", &api.HTTPError{StatusCode: 400, Detail: "Admin already exists"}, "Admin already exists"},
		{"transport", &api.TransportError{Err: errors.New("connection refused")}, "cannot reach the API: connection refused"},
		{"form", conerr.NewFieldRequiredError("Email"), "Email is required"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
