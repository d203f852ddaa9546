package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"scamshield/internal/domain/models"
	"scamshield/internal/domain/services"
	"scamshield/pkg/logger"
)

// maxScanBody bounds the POST /scan request body
const maxScanBody = 1 << 20

// ScanHandler handles the scan, history and stats endpoints
type ScanHandler struct {
	scanner ScanService
	logger  *logger.Logger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scanner ScanService, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanner: scanner,
		logger:  log.WithComponent("scan-handler"),
	}
}

// Scan handles POST /scan
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScanBody)).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.scanner.Scan(r.Context(), req)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, invalidInputMessage(req))
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("scan failed")
		respondError(w, http.StatusInternalServerError, "Internal server error during scan")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func invalidInputMessage(req models.ScanRequest) string {
	if req.ScanType != "" && !req.ScanType.Valid() {
		return "scan_type must be one of phone, url, text"
	}
	return "Content cannot be empty"
}

// History handles GET /history
func (h *ScanHandler) History(w http.ResponseWriter, r *http.Request) {
	results, err := h.scanner.History(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("history retrieval failed")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve scan history")
		return
	}
	if results == nil {
		results = []*models.ScanResult{}
	}
	respondJSON(w, http.StatusOK, results)
}

// Stats handles GET /stats
func (h *ScanHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.scanner.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("stats retrieval failed")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
