package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	"github.com/felixgeelhaar/eduplay-console/internal/catalog"
	"github.com/felixgeelhaar/eduplay-console/internal/contract"
	"github.com/felixgeelhaar/eduplay-console/internal/model"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
	"github.com/felixgeelhaar/eduplay-console/internal/session"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestSessionChecker(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tests := []struct {
		name    string
		store   session.Store
		status  Status
		message string
	}{
		{"no token", session.NewMemoryStore(""), StatusDegraded, "not logged in"},
		{"malformed", session.NewMemoryStore("not-a-jwt"), StatusUnhealthy, "stored token is malformed"},
		{"valid", session.NewMemoryStore(signedToken(t, now.Add(time.Hour))), StatusHealthy, "logged in"},
		{"expired", session.NewMemoryStore(signedToken(t, now.Add(-time.Hour))), StatusDegraded, "session expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewSessionChecker(tt.store, clock).Check(context.Background())
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

type fakeStats struct {
	stats *model.DashboardStats
	err   error
}

func (f fakeStats) BaseURL() string { return "http://localhost:8000/api" }

func (f fakeStats) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return f.stats, f.err
}

func TestAPIChecker(t *testing.T) {
	tests := []struct {
		name   string
		client fakeStats
		status Status
	}{
		{"reachable", fakeStats{stats: &model.DashboardStats{TotalUsers: 5}}, StatusHealthy},
		{"unauthorized", fakeStats{err: &api.HTTPError{StatusCode: 401, Detail: "Not authenticated"}}, StatusDegraded},
		{"unreachable", fakeStats{err: &api.TransportError{Err: errors.New("connection refused")}}, StatusUnhealthy},
		{"server error", fakeStats{err: &api.HTTPError{StatusCode: 500, Detail: "boom"}}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewAPIChecker(tt.client).Check(context.Background())
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, "http://localhost:8000/api", res.Details["base_url"])
		})
	}
}

func TestContractChecker(t *testing.T) {
	c, err := contract.Load(context.Background())
	require.NoError(t, err)

	var endpoints []resource.Endpoint
	for _, d := range catalog.All() {
		endpoints = append(endpoints, d.Endpoint())
	}

	res := NewContractChecker(c, endpoints).Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status, res.Message)

	bogus := append(endpoints, resource.Endpoint{Name: "ghosts", ListPath: "/ghosts"})
	res = NewContractChecker(c, bogus).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.Contains(t, res.Details["missing"], "GET /ghosts")
}
