package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"scamshield/internal/domain/models"
	"scamshield/internal/domain/services"
	"scamshield/pkg/logger"
)

// fakeScanner returns canned results
type fakeScanner struct {
	result  *models.ScanResult
	scanErr error
	history []*models.ScanResult
	stats   *models.ScanStats
	readErr error
	ready   bool
	lastReq models.ScanRequest
}

func (f *fakeScanner) Scan(_ context.Context, req models.ScanRequest) (*models.ScanResult, error) {
	f.lastReq = req
	return f.result, f.scanErr
}

func (f *fakeScanner) History(context.Context) ([]*models.ScanResult, error) {
	return f.history, f.readErr
}

func (f *fakeScanner) Stats(context.Context) (*models.ScanStats, error) {
	return f.stats, f.readErr
}

func (f *fakeScanner) ModelReady() bool { return f.ready }

type pingFunc func(context.Context) error

func (p pingFunc) Ping(ctx context.Context) error { return p(ctx) }

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestScanHandlerStatusMapping(t *testing.T) {
	ok := &models.ScanResult{
		ID:        uuid.New(),
		Content:   "hello",
		ScanType:  models.ScanTypeText,
		Label:     models.RiskLabelSafe,
		Guidance:  models.GuidanceSafe,
		Triggers:  []string{},
		Timestamp: time.Now().UTC(),
	}

	tests := []struct {
		name       string
		body       string
		result     *models.ScanResult
		err        error
		wantStatus int
		wantError  string
	}{
		{"success", `{"content":"hello"}`, ok, nil, http.StatusOK, ""},
		{"malformed json", `{"content":`, nil, nil, http.StatusBadRequest, "Invalid request body"},
		{"empty content", `{"content":"   "}`, nil, fmt.Errorf("%w: empty", services.ErrInvalidInput), http.StatusBadRequest, "Content cannot be empty"},
		{"bad scan type", `{"content":"x","scan_type":"email"}`, nil, fmt.Errorf("%w: scan_type", services.ErrInvalidInput), http.StatusBadRequest, "scan_type must be one of phone, url, text"},
		{"internal", `{"content":"x"}`, nil, services.ErrInternal, http.StatusInternalServerError, "Internal server error during scan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewScanHandler(&fakeScanner{result: tt.result, scanErr: tt.err}, logger.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Scan(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantError != "" {
				if got := decodeError(t, rec); got != tt.wantError {
					t.Errorf("error = %q, want %q", got, tt.wantError)
				}
				return
			}

			var got models.ScanResult
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.ID != ok.ID || got.Label != models.RiskLabelSafe {
				t.Errorf("body = %+v, want %+v", got, ok)
			}
		})
	}
}

func TestScanHandlerPassesScanType(t *testing.T) {
	f := &fakeScanner{result: &models.ScanResult{}}
	h := NewScanHandler(f, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"content":"555-0123","scan_type":"phone"}`))
	h.Scan(httptest.NewRecorder(), req)

	if f.lastReq.Content != "555-0123" || f.lastReq.ScanType != models.ScanTypePhone {
		t.Errorf("request = %+v, want phone 555-0123", f.lastReq)
	}
}

func TestHistoryAndStatsHandlers(t *testing.T) {
	t.Run("empty history is an empty array", func(t *testing.T) {
		h := NewScanHandler(&fakeScanner{}, logger.NewNop())
		rec := httptest.NewRecorder()
		h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %s, want []", got)
		}
	})

	t.Run("stats field names", func(t *testing.T) {
		stats := &models.ScanStats{TotalScans: 4, SafeScans: 2, SuspiciousScans: 1, DangerousScans: 1}
		h := NewScanHandler(&fakeScanner{stats: stats}, logger.NewNop())
		rec := httptest.NewRecorder()
		h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

		var body map[string]int
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		want := map[string]int{"total_scans": 4, "safe_scans": 2, "suspicious_scans": 1, "dangerous_scans": 1}
		for k, v := range want {
			if body[k] != v {
				t.Errorf("%s = %d, want %d", k, body[k], v)
			}
		}
	})

	t.Run("store failures are 500", func(t *testing.T) {
		h := NewScanHandler(&fakeScanner{readErr: services.ErrStoreUnavailable}, logger.NewNop())

		rec := httptest.NewRecorder()
		h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
		if rec.Code != http.StatusInternalServerError || decodeError(t, rec) != "Failed to retrieve scan history" {
			t.Errorf("history: status %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
		if rec.Code != http.StatusInternalServerError || decodeError(t, rec) != "Failed to retrieve statistics" {
			t.Errorf("stats: status %d", rec.Code)
		}
	})
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		pingErr    error
		wantStatus int
		wantState  string
	}{
		{"ready", true, nil, http.StatusOK, "ready"},
		{"model not loaded", false, nil, http.StatusServiceUnavailable, "not ready"},
		{"store down", true, errors.New("connection refused"), http.StatusServiceUnavailable, "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := map[string]Pinger{
				"postgres": pingFunc(func(context.Context) error { return tt.pingErr }),
			}
			h := NewHealthHandler(&fakeScanner{ready: tt.ready}, checks, "1.0.0", logger.NewNop())

			rec := httptest.NewRecorder()
			h.Check(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			var live HealthResponse
			json.NewDecoder(rec.Body).Decode(&live)
			if rec.Code != http.StatusOK || live.Status != "healthy" || live.MLModelLoaded != tt.ready {
				t.Errorf("health = %d %+v", rec.Code, live)
			}

			rec = httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
			var ready HealthResponse
			json.NewDecoder(rec.Body).Decode(&ready)
			if rec.Code != tt.wantStatus || ready.Status != tt.wantState {
				t.Errorf("ready = %d %q, want %d %q", rec.Code, ready.Status, tt.wantStatus, tt.wantState)
			}
		})
	}
}

func TestStreamingHandlerWithoutHub(t *testing.T) {
	h := NewStreamingHandler(nil, logger.NewNop())
	rec := httptest.NewRecorder()
	h.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/api/scans/live", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
