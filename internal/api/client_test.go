package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
	"github.com/felixgeelhaar/eduplay-console/internal/model"
	"github.com/felixgeelhaar/eduplay-console/internal/session"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(RequestIDHeader)
		writeJSON(w, http.StatusOK, []model.User{{ID: "1", Username: "emma_w"}})
	})

	c := NewClient(srv.URL, session.NewMemoryStore("tok-123"))

	var users []model.User
	require.NoError(t, c.Get(context.Background(), "/users", &users))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	require.Len(t, users, 1)
	assert.Equal(t, "emma_w", users[0].Username)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, model.SeedResult{Message: "Sample data initialized"})
	})

	c := NewClient(srv.URL, session.NewMemoryStore(""))
	res, err := c.SeedSampleData(context.Background())
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
	assert.Equal(t, "Sample data initialized", res.Message)
}

func TestDo_EncodesBody(t *testing.T) {
	var got map[string]any
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		writeJSON(w, http.StatusOK, map[string]string{"id": "new"})
	})

	c := NewClient(srv.URL, session.NewMemoryStore("tok"))
	payload := map[string]any{"username": "abuser", "age": 12}
	require.NoError(t, c.Post(context.Background(), "/users", payload, nil))

	assert.Equal(t, "abuser", got["username"])
	assert.Equal(t, float64(12), got["age"])
}

func TestDo_HTTPErrorStringDetail(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
	})

	c := NewClient(srv.URL, session.NewMemoryStore("tok"))
	err := c.Delete(context.Background(), "/users/missing", nil)
	require.Error(t, err)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
	assert.Equal(t, "User not found", he.Detail)
	assert.NotEmpty(t, he.RequestID)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "User not found", Message(err))
}

func TestDo_HTTPErrorValidationDetail(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{
				{"loc": []any{"body", "age"}, "msg": "value is not a valid integer", "type": "type_error.integer"},
				{"loc": []any{"body", "email"}, "msg": "value is not a valid email address", "type": "value_error.email"},
			},
		})
	})

	c := NewClient(srv.URL, session.NewMemoryStore("tok"))
	err := c.Post(context.Background(), "/users", map[string]any{"age": "x"}, nil)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "age: value is not a valid integer; email: value is not a valid email address", he.Detail)
}

func TestDo_HTTPErrorWithoutBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := NewClient(srv.URL, session.NewMemoryStore("tok"))
	err := c.Get(context.Background(), "/revenue", nil)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "request failed: internal server error", he.Detail)
}

func TestDo_UnauthorizedClearsSession(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid authentication"})
	})

	store := session.NewMemoryStore("expired")
	c := NewClient(srv.URL, store)

	err := c.Get(context.Background(), "/users", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, session.LoggedIn(store))
}

func TestLogin_BadCredentialsKeepsSessionEmpty(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
	})

	store := session.NewMemoryStore("")
	c := NewClient(srv.URL, store)

	_, err := c.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Incorrect username or password", Message(err))
	assert.False(t, session.LoggedIn(store))
}

func TestLogin_BadCredentialsKeepExistingSession(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
	})

	store := session.NewMemoryStore("valid")
	c := NewClient(srv.URL, store)

	_, err := c.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	tok, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "valid", tok)
}

func TestSeedSampleData_SendsNoToken(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
	})

	store := session.NewMemoryStore("valid")
	c := NewClient(srv.URL, store)

	_, err := c.SeedSampleData(context.Background())
	require.Error(t, err)
	assert.True(t, session.LoggedIn(store))
}

func TestDo_UnauthorizedKeepsTokenStoredMeanwhile(t *testing.T) {
	store := session.NewMemoryStore("old")
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer old", r.Header.Get("Authorization"))
		// A login elsewhere replaces the token while this request is in flight.
		assert.NoError(t, store.SetToken("fresh"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid authentication"})
	})
	c := NewClient(srv.URL, store)

	err := c.Get(context.Background(), "/users", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	tok, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "fresh", tok)
}

func TestLogin_StoresToken(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req.Username)
		assert.Equal(t, "admin123", req.Password)
		writeJSON(w, http.StatusOK, model.Token{AccessToken: "jwt", TokenType: "bearer"})
	})

	store := session.NewMemoryStore("")
	c := NewClient(srv.URL, store)

	tok, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok.AccessToken)

	stored, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "jwt", stored)

	require.NoError(t, c.Logout())
	assert.False(t, session.LoggedIn(store))
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, session.NewMemoryStore("tok"))
	err := c.Get(context.Background(), "/users", nil)
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.MethodGet, te.Method)
	assert.Equal(t, url+"/users", te.URL)
	assert.Equal(t, 0, StatusCode(err))
	assert.Contains(t, Message(err), "cannot reach the API")
}

func TestDo_ContextCancelled(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nil)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, session.NewMemoryStore("tok"))
	err := c.Get(ctx, "/users", nil)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDo_DecodeError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	c := NewClient(srv.URL, session.NewMemoryStore("tok"))
	var out []model.User
	err := c.Get(context.Background(), "/users", &out)

	var ce *conerr.ConsoleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, conerr.ErrCodeAPIDecode, ce.Code)
}

func TestSendLiveEffect_DefaultsDuration(t *testing.T) {
	var got model.LiveEffect
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/live-effects/send", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, model.Message{Message: "Effect sent", UserID: got.UserID})
	})

	c := NewClient(srv.URL, session.NewMemoryStore("tok"))
	msg, err := c.SendLiveEffect(context.Background(), model.LiveEffect{
		UserID:     "u1",
		EffectType: model.EffectText,
		Content:    "Great job!",
	})
	require.NoError(t, err)

	assert.Equal(t, model.DefaultEffectDuration, got.Duration)
	assert.Equal(t, "Effect sent", msg.Message)
	assert.Equal(t, "u1", msg.UserID)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", session.NewMemoryStore(""))
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = NewClient("http://example.test/api/", session.NewMemoryStore(""), WithUserAgent("x"))
	assert.Equal(t, "http://example.test/api", c.BaseURL())
	assert.Equal(t, "x", c.userAgent)
}
