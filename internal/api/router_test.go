package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scamshield/internal/api/handlers"
	"scamshield/internal/config"
	"scamshield/internal/domain/models"
	"scamshield/internal/domain/services"
	"scamshield/internal/domain/services/ml"
	"scamshield/internal/infrastructure/memstore"
	"scamshield/pkg/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *services.Scanner) {
	t.Helper()
	log := logger.NewNop()
	ctx := context.Background()

	store := memstore.New()
	if _, err := services.SeedDenylists(ctx, store, services.DefaultDenylistSeed(), log); err != nil {
		t.Fatal(err)
	}
	classifier := ml.NewClassifier(log)
	if err := classifier.Initialize(ml.SeedCorpus); err != nil {
		t.Fatal(err)
	}

	scanner := services.NewScanner(
		services.NewRuleEngine(),
		services.NewDenylistChecker(store, services.DenylistConfig{}, log),
		classifier,
		store,
		nil,
		services.ScannerConfig{},
		log,
	)

	cfg := config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"https://app.example"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		},
		Scan: config.ScanConfig{APIPrefix: "/api"},
	}
	h := handlers.NewHandlers(handlers.Dependencies{
		Scanner: scanner,
		Checks:  map[string]handlers.Pinger{"store": store},
		Logger:  log,
	})

	srv := httptest.NewServer(NewRouter(cfg, h, log).Setup())
	t.Cleanup(srv.Close)
	return srv, scanner
}

func TestRouterScanFlow(t *testing.T) {
	srv, scanner := newTestServer(t)

	post := func(body string) *http.Response {
		t.Helper()
		resp, err := http.Post(srv.URL+"/api/scan", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	resp := post(`{"content":"555-0123"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/scan status = %d, want 200", resp.StatusCode)
	}
	var result models.ScanResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.ScanType != models.ScanTypePhone {
		t.Errorf("scan_type = %s, want phone", result.ScanType)
	}
	found := false
	for _, tr := range result.Triggers {
		found = found || tr == "Blacklist: known_scam_number"
	}
	if !found {
		t.Errorf("triggers = %v, want Blacklist: known_scam_number", result.Triggers)
	}

	empty := post(`{"content":"  "}`)
	empty.Body.Close()
	if empty.StatusCode != http.StatusBadRequest {
		t.Errorf("empty content status = %d, want 400", empty.StatusCode)
	}

	scanner.Wait()

	hist, err := http.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatal(err)
	}
	defer hist.Body.Close()
	var history []models.ScanResult
	if err := json.NewDecoder(hist.Body).Decode(&history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].ID != result.ID {
		t.Errorf("history = %+v, want the single scan", history)
	}

	st, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Body.Close()
	var stats models.ScanStats
	if err := json.NewDecoder(st.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalScans != 1 {
		t.Errorf("total_scans = %d, want 1", stats.TotalScans)
	}
}

func TestRouterHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/health", "/api/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		var body handlers.HealthResponse
		json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		if !body.MLModelLoaded {
			t.Errorf("GET %s ml_model_loaded = false, want true", path)
		}
	}
}

func TestRouterCORSAndUnknownRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/health", nil)
	req.Header.Set("Origin", "https://app.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("Access-Control-Allow-Origin = %q, want https://app.example", got)
	}

	resp, err = http.Get(srv.URL + "/scan")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /scan status = %d, want 404", resp.StatusCode)
	}
}
