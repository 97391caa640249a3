package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// TransportError reports a request that never produced an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError reports a response with status >= 400.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
	RequestID  string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// Message returns the text a person should see for err: the API's detail
// for HTTP errors, the underlying cause for transport errors.
func Message(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Detail
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "cannot reach the API: " + te.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// errorBody is the FastAPI error envelope. Detail is either a string or a
// list of validation issues.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func parseDetail(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil && s != "" {
			return s
		}

		var issues []validationIssue
		if err := json.Unmarshal(eb.Detail, &issues); err == nil && len(issues) > 0 {
			msgs := make([]string, 0, len(issues))
			for _, is := range issues {
				msgs = append(msgs, formatIssue(is))
			}
			return strings.Join(msgs, "; ")
		}
	}

	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("request failed: %s", strings.ToLower(text))
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func formatIssue(is validationIssue) string {
	parts := make([]string, 0, len(is.Loc))
	for _, l := range is.Loc {
		if s, ok := l.(string); ok && s == "body" {
			continue
		}
		parts = append(parts, fmt.Sprint(l))
	}
	if len(parts) == 0 {
		return is.Msg
	}
	return strings.Join(parts, ".") + ": " + is.Msg
}
