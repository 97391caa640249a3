package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	"github.com/felixgeelhaar/eduplay-console/internal/contract"
	"github.com/felixgeelhaar/eduplay-console/internal/model"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
	"github.com/felixgeelhaar/eduplay-console/internal/session"
)

// SessionChecker inspects the stored token without contacting the API.
type SessionChecker struct {
	store session.Store
	now   func() time.Time
}

// NewSessionChecker creates a session checker. now defaults to time.Now.
func NewSessionChecker(store session.Store, now func() time.Time) *SessionChecker {
	if now == nil {
		now = time.Now
	}
	return &SessionChecker{store: store, now: now}
}

func (c *SessionChecker) Name() string { return "session" }

// Check is degraded when no token is stored or it has expired, and
// unhealthy when the stored token is not a JWT.
func (c *SessionChecker) Check(ctx context.Context) *Result {
	token, ok := c.store.Token()
	if !ok {
		return Degraded("not logged in").
			WithDetail("suggestion", "Run 'eduplayctl login'")
	}

	claims, err := session.Inspect(token)
	if err != nil {
		return Unhealthy("stored token is malformed").
			WithDetail("error", err.Error())
	}

	res := Healthy("logged in").WithDetail("admin_id", claims.Subject)
	if claims.ExpiresAt != nil {
		res.WithDetail("expires_at", claims.ExpiresAt.UTC().Format(time.RFC3339))
		if claims.Expired(c.now()) {
			res.Status = StatusDegraded
			res.Message = "session expired"
		}
	}
	return res
}

// StatsFetcher is the slice of the API client the API checker needs.
type StatsFetcher interface {
	BaseURL() string
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

// APIChecker probes the admin API with an authenticated dashboard request.
type APIChecker struct {
	client StatsFetcher
}

// NewAPIChecker creates an API checker.
func NewAPIChecker(client StatsFetcher) *APIChecker {
	return &APIChecker{client: client}
}

func (c *APIChecker) Name() string { return "admin-api" }

// Check is healthy when the API answers the request, degraded when it
// answers but rejects the session, and unhealthy when it cannot be reached
// or fails.
func (c *APIChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	stats, err := c.client.DashboardStats(ctx)
	latency := time.Since(start)

	var res *Result
	var te *api.TransportError
	switch {
	case err == nil:
		res = Healthy("reachable and authenticated").
			WithDetail("total_users", stats.TotalUsers)
	case errors.As(err, &te):
		res = Unhealthy("unreachable").WithDetail("error", te.Err.Error())
	case api.IsUnauthorized(err):
		res = Degraded("reachable, session rejected")
	default:
		res = Unhealthy(fmt.Sprintf("request failed: %s", api.Message(err)))
	}
	return res.WithDetail("base_url", c.client.BaseURL()).WithLatency(latency)
}

// ContractChecker verifies that every endpoint the console calls is
// declared in the embedded API contract.
type ContractChecker struct {
	contract  *contract.Contract
	endpoints []resource.Endpoint
}

// NewContractChecker creates a contract checker.
func NewContractChecker(c *contract.Contract, endpoints []resource.Endpoint) *ContractChecker {
	return &ContractChecker{contract: c, endpoints: endpoints}
}

func (c *ContractChecker) Name() string { return "api-contract" }

func (c *ContractChecker) Check(ctx context.Context) *Result {
	findings := c.contract.CheckEndpoints(c.endpoints)
	if len(findings) == 0 {
		return Healthy(fmt.Sprintf("%d endpoints declared", len(c.endpoints))).
			WithDetail("version", c.contract.Version())
	}

	missing := make([]string, len(findings))
	for i, f := range findings {
		missing[i] = f.Method + " " + f.Path
	}
	return Unhealthy(fmt.Sprintf("%d operations missing from contract", len(findings))).
		WithDetail("missing", missing)
}
