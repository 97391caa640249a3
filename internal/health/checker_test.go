package health

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestResultConstructors(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		status Status
		text   string
	}{
		{"healthy", Healthy("reachable and authenticated"), StatusHealthy, "healthy"},
		{"degraded", Degraded("not logged in"), StatusDegraded, "degraded"},
		{"unhealthy", Unhealthy("unreachable"), StatusUnhealthy, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Status != tt.status {
				t.Errorf("Status = %v, want %v", tt.result.Status, tt.status)
			}
			if got := tt.result.Status.String(); got != tt.text {
				t.Errorf("Status.String() = %q, want %q", got, tt.text)
			}
			if tt.result.Details == nil {
				t.Error("Details should be initialized")
			}
		})
	}
}

func TestResultChaining(t *testing.T) {
	result := Healthy("reachable and authenticated")

	if returned := result.WithDetail("total_users", 6); returned != result {
		t.Error("WithDetail should return the same result")
	}
	if returned := result.WithLatency(12 * time.Millisecond); returned != result {
		t.Error("WithLatency should return the same result")
	}
	result.WithDetail("base_url", "http://localhost:8000/api")

	if v, ok := result.Details["total_users"].(int); !ok || v != 6 {
		t.Errorf("Details[total_users] = %v, want 6", result.Details["total_users"])
	}
	if v, ok := result.Details["base_url"].(string); !ok || v != "http://localhost:8000/api" {
		t.Errorf("Details[base_url] = %v", result.Details["base_url"])
	}
	if result.Latency != 12*time.Millisecond {
		t.Errorf("Latency = %v, want 12ms", result.Latency)
	}
}

func TestResultEncoding(t *testing.T) {
	result := Degraded("reachable, session rejected").
		WithDetail("base_url", "http://localhost:8000/api").
		WithLatency(time.Millisecond)

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded["status"] != "degraded" {
		t.Errorf("json status = %v, want degraded", decoded["status"])
	}
	if decoded["latency_ns"] != float64(time.Millisecond) {
		t.Errorf("json latency_ns = %v", decoded["latency_ns"])
	}

	empty, err := json.Marshal(Healthy("ok"))
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(empty) != `{"status":"healthy","message":"ok","latency_ns":0}` {
		t.Errorf("empty details should be omitted, got %s", empty)
	}

	out, err := yaml.Marshal(result)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	var y map[string]interface{}
	if err := yaml.Unmarshal(out, &y); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if y["message"] != "reachable, session rejected" {
		t.Errorf("yaml message = %v", y["message"])
	}
}

func TestCheckerFunc(t *testing.T) {
	var c Checker = CheckerFunc{
		CheckName: "clock",
		Fn: func(ctx context.Context) *Result {
			if ctx.Err() != nil {
				return Unhealthy("cancelled")
			}
			return Healthy("ticking")
		},
	}

	if c.Name() != "clock" {
		t.Errorf("Name() = %q, want clock", c.Name())
	}
	if got := c.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("Check() = %v, want healthy", got.Status)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := c.Check(ctx); got.Status != StatusUnhealthy {
		t.Errorf("Check(cancelled) = %v, want unhealthy", got.Status)
	}
}
