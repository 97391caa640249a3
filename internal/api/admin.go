package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/felixgeelhaar/eduplay-console/internal/model"
)

// Login exchanges credentials for a token and stores it in the session.
// The request carries no bearer token, and a rejected login leaves the
// current session as it was.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Token, error) {
	var tok model.Token
	req := model.LoginRequest{Username: username, Password: password}
	if err := c.doAnon(ctx, http.MethodPost, "/admin/login", req, &tok); err != nil {
		return nil, err
	}
	if err := c.store.SetToken(tok.AccessToken); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Logout forgets the local token. The API keeps no server-side session.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// Me returns the admin the current token belongs to.
func (c *Client) Me(ctx context.Context) (*model.Admin, error) {
	var a model.Admin
	if err := c.Get(ctx, "/admin/me", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// RegisterAdmin creates a new admin account.
func (c *Client) RegisterAdmin(ctx context.Context, in model.AdminCreate) (*model.Admin, error) {
	var a model.Admin
	if err := c.Post(ctx, "/admin/register", in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SeedSampleData resets the backend to its demo data set.
func (c *Client) SeedSampleData(ctx context.Context) (*model.SeedResult, error) {
	var res model.SeedResult
	if err := c.doAnon(ctx, http.MethodPost, "/init-sample-data", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DashboardStats returns the home tab summary.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var s model.DashboardStats
	if err := c.Get(ctx, "/stats/dashboard", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SendLiveEffect pushes an effect to a connected player. A zero duration is
// replaced with the default.
func (c *Client) SendLiveEffect(ctx context.Context, effect model.LiveEffect) (*model.Message, error) {
	if effect.Duration <= 0 {
		effect.Duration = model.DefaultEffectDuration
	}
	var msg model.Message
	if err := c.Post(ctx, "/live-effects/send", effect, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetUser fetches a single user.
func (c *Client) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := c.Get(ctx, "/users/"+url.PathEscape(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
