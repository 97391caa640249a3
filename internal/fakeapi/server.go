// Package fakeapi is an in-memory implementation of the EduPlay admin API.
//
// It follows the embedded API contract, issues HS256 tokens for bcrypt-hashed
// admin passwords and answers errors in the {"detail": ...} shape of the real
// backend. Tests drive the console against it; `eduplayctl mock-server`
// serves it for demos.
package fakeapi

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/felixgeelhaar/eduplay-console/internal/contract"
	"github.com/felixgeelhaar/eduplay-console/internal/log"
	"github.com/felixgeelhaar/eduplay-console/internal/metrics"
	"github.com/felixgeelhaar/eduplay-console/internal/model"
)

// Prefix is the path under which the API is mounted.
const Prefix = "/api"

// DefaultTokenTTL matches the real backend's 24 hour tokens.
const DefaultTokenTTL = 24 * time.Hour

// Server is the fake admin API.
type Server struct {
	contract *contract.Contract
	store    *store
	logger   *log.Logger
	metrics  *metrics.Metrics
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	cost     int
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the token signing key.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records requests, logins and effects.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.ttl = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.cost = cost }
}

// New creates an empty server. Call Seed to load the demo data.
func New(ctx context.Context, opts ...Option) (*Server, error) {
	c, err := contract.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Server{
		contract: c,
		logger:   log.Discard(),
		secret:   []byte("eduplay-mock-secret"),
		ttl:      DefaultTokenTTL,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.store = newStore(s.cost, s.now)
	return s, nil
}

// Seed replaces all data with the demo data set.
func (s *Server) Seed() error {
	if err := s.store.seed(); err != nil {
		return err
	}
	s.metrics.RecordSeed()
	return nil
}

// SentEffects returns the live effects received so far.
func (s *Server) SentEffects() []model.LiveEffect {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return slices.Clone(s.store.effects)
}

// Handler returns the API mounted under Prefix.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID, s.recovery, s.logRequests)

	api := r.PathPrefix(Prefix).Subrouter()

	s.handle(api, "/admin/login", s.handleLogin, http.MethodPost)
	s.handle(api, "/init-sample-data", s.handleSeed, http.MethodPost)

	s.handleAuthed(api, "/admin/register", s.handleRegisterAdmin, http.MethodPost)
	s.handleAuthed(api, "/admin/me", s.handleMe, http.MethodGet)
	s.handleAuthed(api, "/admins", s.handleListAdmins, http.MethodGet)
	s.handleAuthed(api, "/admins/{id}", s.handleUpdateAdmin, http.MethodPut)
	s.handleAuthed(api, "/admins/{id}", s.handleDeleteAdmin, http.MethodDelete)

	s.handleAuthed(api, "/users", s.handleListUsers, http.MethodGet)
	s.handleAuthed(api, "/users", s.handleCreateUser, http.MethodPost)
	s.handleAuthed(api, "/users/{id}", s.handleGetUser, http.MethodGet)
	s.handleAuthed(api, "/users/{id}", s.handleUpdateUser, http.MethodPut)
	s.handleAuthed(api, "/users/{id}", s.handleDeleteUser, http.MethodDelete)

	s.handleAuthed(api, "/games", s.handleListGames, http.MethodGet)
	s.handleAuthed(api, "/games", s.handleCreateGame, http.MethodPost)
	s.handleAuthed(api, "/games/{id}", s.handleUpdateGame, http.MethodPut)
	s.handleAuthed(api, "/games/{id}", s.handleDeleteGame, http.MethodDelete)

	s.handleAuthed(api, "/builds", s.handleListBuilds, http.MethodGet)
	s.handleAuthed(api, "/updates", s.handleListUpdates, http.MethodGet)
	s.handleAuthed(api, "/revenue", s.handleListRevenue, http.MethodGet)
	s.handleAuthed(api, "/stats/dashboard", s.handleStats, http.MethodGet)
	s.handleAuthed(api, "/live-effects/send", s.handleLiveEffect, http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}

func (s *Server) handle(r *mux.Router, path string, h http.HandlerFunc, method string) {
	r.Handle(path, s.validate(h)).Methods(method)
}

func (s *Server) handleAuthed(r *mux.Router, path string, h http.HandlerFunc, method string) {
	r.Handle(path, s.authenticate(s.validate(h))).Methods(method)
}

// apiPath strips Prefix so the path can be matched against the contract.
func apiPath(p string) string {
	return "/" + strings.TrimLeft(strings.TrimPrefix(p, Prefix), "/")
}
