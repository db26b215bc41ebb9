package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthCheck is the health endpoint payload.
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// CheckResult is the result of a single health check.
type CheckResult struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// Pinger reports whether the platform API is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker serves the console health endpoints. The console holds
// no state, so the only dependency worth checking is the platform API.
type HealthChecker struct {
	platform  Pinger
	version   string
	gitCommit string
}

func NewHealthChecker(platform Pinger, version, gitCommit string) *HealthChecker {
	return &HealthChecker{
		platform:  platform,
		version:   version,
		gitCommit: gitCommit,
	}
}

// Health runs the dependency checks and reports overall status.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]CheckResult{
			"upstream": h.checkUpstream(ctx),
		}

		overallStatus := "healthy"
		statusCode := http.StatusOK
		for _, check := range checks {
			if check.Status == "fail" {
				overallStatus = "unhealthy"
				statusCode = http.StatusServiceUnavailable
				break
			}
		}

		response := HealthCheck{
			Status:    overallStatus,
			Version:   h.version,
			GitCommit: h.gitCommit,
			Checks:    checks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func (h *HealthChecker) checkUpstream(ctx context.Context) CheckResult {
	start := time.Now()

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err := h.platform.Ping(pingCtx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return CheckResult{
			Status:    "fail",
			Message:   "Platform API unreachable: " + err.Error(),
			LatencyMs: latency,
		}
	}
	return CheckResult{
		Status:    "pass",
		Message:   "Platform API reachable",
		LatencyMs: latency,
	}
}

// Healthz returns a lightweight liveness response.
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
	})
}

type healthResponse struct {
	Status string `json:"status"`
}
