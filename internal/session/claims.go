package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
)

// Claims is the subset of token claims shown by `eduplayctl status`.
type Claims struct {
	Subject   string     `json:"subject" yaml:"subject"`
	IssuedAt  *time.Time `json:"issued_at,omitempty" yaml:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Expired reports whether the token carried an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Inspect decodes the claims of a JWT without verifying its signature.
//
// The console has no key to verify with and never uses the result to decide
// whether to send a request; the API stays the authority.
func Inspect(token string) (*Claims, error) {
	parser := jwt.NewParser()

	var rc jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(token, &rc); err != nil {
		return nil, conerr.Wrap(conerr.ErrCodeTokenMalformed, "session token is not a JWT", err).
			WithSuggestion("Run 'eduplayctl login' to obtain a fresh token")
	}

	c := &Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		t := rc.IssuedAt.Time
		c.IssuedAt = &t
	}
	if rc.ExpiresAt != nil {
		t := rc.ExpiresAt.Time
		c.ExpiresAt = &t
	}
	return c, nil
}
