package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/eduplay-console/internal/health"
)

func apiHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"path":"`+r.URL.Path+`"}`)
	})
}

func TestNewServerDefaults(t *testing.T) {
	s := NewServer(health.NewProbeManager("1.0.0"), apiHandler(), Config{Address: ":8000"})

	if s.shutdownTimeout != 30*time.Second {
		t.Errorf("default shutdown timeout: expected 30s, got %v", s.shutdownTimeout)
	}
	if s.httpServer.ReadTimeout != 10*time.Second {
		t.Errorf("default read timeout: expected 10s, got %v", s.httpServer.ReadTimeout)
	}
	if s.httpServer.WriteTimeout != 10*time.Second {
		t.Errorf("default write timeout: expected 10s, got %v", s.httpServer.WriteTimeout)
	}
	if s.httpServer.IdleTimeout != 60*time.Second {
		t.Errorf("default idle timeout: expected 60s, got %v", s.httpServer.IdleTimeout)
	}
}

func TestRoutesToHandler(t *testing.T) {
	s := NewServer(health.NewProbeManager("1.0.0"), apiHandler(), Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"path":"/api/users"}` {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "metrics")
	})

	tests := []struct {
		name    string
		metrics http.Handler
		want    string
	}{
		{name: "mounted", metrics: metricsHandler, want: "metrics"},
		{name: "falls through to handler", want: `{"path":"/metrics"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(health.NewProbeManager("1.0.0"), apiHandler(), Config{Metrics: tt.metrics})
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			if rec.Body.String() != tt.want {
				t.Errorf("GET /metrics: expected %q, got %q", tt.want, rec.Body.String())
			}
		})
	}
}

func TestReadinessLifecycle(t *testing.T) {
	pm := health.NewProbeManager("1.0.0")
	s := NewServer(pm, apiHandler(), Config{})

	readiness := func() (int, health.ProbeResult) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		var res health.ProbeResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode readiness: %v", err)
		}
		return rec.Code, res
	}

	if code, _ := readiness(); code != http.StatusServiceUnavailable {
		t.Errorf("before start: expected 503, got %d", code)
	}

	pm.MarkInitialized()
	code, res := readiness()
	if code != http.StatusOK || res.Status != health.StatusHealthy {
		t.Errorf("after start: expected 200 healthy, got %d %s", code, res.Status)
	}

	pm.AddChecker(health.CheckerFunc{CheckName: "store", Fn: func(context.Context) *health.Result {
		return health.Unhealthy("seed failed")
	}})
	if code, _ := readiness(); code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy check: expected 503, got %d", code)
	}
}

func TestProbeMethodNotAllowed(t *testing.T) {
	s := NewServer(health.NewProbeManager("1.0.0"), apiHandler(), Config{})

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: expected 405, got %d", path, rec.Code)
		}
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	pm := health.NewProbeManager("1.0.0")
	s := NewServer(pm, apiHandler(), Config{ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health/live"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from liveness, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if !s.IsShuttingDown() || !pm.IsShuttingDown() {
		t.Error("expected shutdown state to be recorded")
	}
}
