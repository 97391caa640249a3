package health

import (
	"context"
	"sync/atomic"
	"time"
)

// ProbeManager extends Manager with liveness and readiness state for a
// long-running process such as the mock API server.
type ProbeManager struct {
	*Manager

	startTime   time.Time
	initialized atomic.Bool
	inShutdown  atomic.Bool
	version     string
}

// NewProbeManager creates a new health check manager with probe support.
func NewProbeManager(version string) *ProbeManager {
	return &ProbeManager{
		Manager:   NewManager(),
		startTime: time.Now(),
		version:   version,
	}
}

// MarkInitialized marks the process as ready to serve.
func (pm *ProbeManager) MarkInitialized() { pm.initialized.Store(true) }

// MarkShutdown makes readiness fail while connections drain.
func (pm *ProbeManager) MarkShutdown() { pm.inShutdown.Store(true) }

func (pm *ProbeManager) IsInitialized() bool  { return pm.initialized.Load() }
func (pm *ProbeManager) IsShuttingDown() bool { return pm.inShutdown.Load() }

// Uptime returns how long the process has been running.
func (pm *ProbeManager) Uptime() time.Duration { return time.Since(pm.startTime) }

// ProbeResult is the body of a probe endpoint.
type ProbeResult struct {
	Status    Status        `json:"status"`
	Version   string        `json:"version,omitempty"`
	Uptime    string        `json:"uptime,omitempty"`
	Checks    []NamedResult `json:"checks,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func (pm *ProbeManager) result(status Status, checks []NamedResult) *ProbeResult {
	return &ProbeResult{
		Status:    status,
		Version:   pm.version,
		Uptime:    pm.Uptime().Round(time.Second).String(),
		Checks:    checks,
		Timestamp: time.Now(),
	}
}

// CheckLiveness reports healthy while running and degraded during shutdown.
// It runs no dependency checks.
func (pm *ProbeManager) CheckLiveness(ctx context.Context) *ProbeResult {
	status := StatusHealthy
	if pm.IsShuttingDown() {
		status = StatusDegraded
	}
	return pm.result(status, nil)
}

// CheckReadiness is unhealthy before initialization and during shutdown;
// otherwise it aggregates every registered check.
func (pm *ProbeManager) CheckReadiness(ctx context.Context) *ProbeResult {
	if pm.IsShuttingDown() || !pm.IsInitialized() {
		return pm.result(StatusUnhealthy, nil)
	}

	report := pm.Manager.Check(ctx)
	return pm.result(report.Status, report.Checks)
}
