package handlers

import (
	"context"
	"net/http"
	"time"

	"scamshield/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

// HealthHandler handles health check endpoints
type HealthHandler struct {
	scanner   ScanService
	checks    map[string]Pinger
	version   string
	logger    *logger.Logger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. checks may be empty.
func NewHealthHandler(scanner ScanService, checks map[string]Pinger, version string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		scanner:   scanner,
		checks:    checks,
		version:   version,
		logger:    log.WithComponent("health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string            `json:"status"`
	MLModelLoaded bool              `json:"ml_model_loaded"`
	Version       string            `json:"version,omitempty"`
	Uptime        string            `json:"uptime,omitempty"`
	Timestamp     string            `json:"timestamp,omitempty"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		MLModelLoaded: h.scanner.ModelReady(),
		Version:       h.version,
		Uptime:        time.Since(h.startTime).String(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready. It fails while the model is not loaded or any
// store is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(h.checks)+1)
	status := http.StatusOK
	overallStatus := "ready"

	modelLoaded := h.scanner.ModelReady()
	if modelLoaded {
		checks["ml_model"] = "healthy"
	} else {
		checks["ml_model"] = "not loaded"
		status = http.StatusServiceUnavailable
		overallStatus = "not ready"
	}

	for name, dep := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		err := dep.Ping(ctx)
		cancel()
		if err != nil {
			h.logger.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			checks[name] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
			overallStatus = "not ready"
			continue
		}
		checks[name] = "healthy"
	}

	respondJSON(w, status, HealthResponse{
		Status:        overallStatus,
		MLModelLoaded: modelLoaded,
		Version:       h.version,
		Uptime:        time.Since(h.startTime).String(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Checks:        checks,
	})
}
