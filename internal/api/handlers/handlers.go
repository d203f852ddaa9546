package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"scamshield/internal/domain/models"
	"scamshield/internal/streaming"
	"scamshield/pkg/logger"
)

// ScanService is the scoring pipeline as seen by the HTTP layer
type ScanService interface {
	Scan(ctx context.Context, req models.ScanRequest) (*models.ScanResult, error)
	History(ctx context.Context) ([]*models.ScanResult, error)
	Stats(ctx context.Context) (*models.ScanStats, error)
	ModelReady() bool
}

// Pinger is a dependency probed by the readiness endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Scan      *ScanHandler
	Streaming *StreamingHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Scanner ScanService
	Checks  map[string]Pinger
	WSHub   *streaming.WebSocketHub
	Version string
	Logger  *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Scanner, deps.Checks, deps.Version, deps.Logger),
		Scan:      NewScanHandler(deps.Scanner, deps.Logger),
		Streaming: NewStreamingHandler(deps.WSHub, deps.Logger),
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
