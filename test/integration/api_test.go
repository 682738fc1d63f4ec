package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/awiw642/dmp-packing-service/internal/api"
	"github.com/awiw642/dmp-packing-service/internal/catalog"
	"github.com/awiw642/dmp-packing-service/internal/history"
	"github.com/awiw642/dmp-packing-service/internal/packing"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	cat := catalog.NewMemoryCatalog()
	calc := packing.New(cat)
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() {
		_ = hist.Close()
	})

	handler := api.NewHandler(calc, cat, hist)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/containers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from containers, got %d", rec.Code)
	}

	packBody, _ := json.Marshal(map[string]any{
		"containerType": "20ft",
		"items": []map[string]any{
			{
				"itemId": 1, "name": "machinery", "quantity": 30,
				"widthCm": 100, "heightCm": 100, "depthCm": 100, "weightKg": 500,
			},
			{
				"itemId": 2, "name": "ingots", "quantity": 30,
				"widthCm": 50, "heightCm": 50, "depthCm": 50, "weightKg": 800,
			},
		},
	})

	rec = performRequest(t, handler, http.MethodPost, "/api/validate", packBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from validate, got %d", rec.Code)
	}
	var validation struct {
		Valid    bool     `json:"valid"`
		Warnings []string `json:"warnings"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&validation); err != nil {
		t.Fatalf("decode validation: %v", err)
	}
	if validation.Valid {
		t.Fatalf("expected combined demand to be flagged infeasible")
	}

	rec = performRequest(t, handler, http.MethodPost, "/api/pack", packBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from pack, got %d", rec.Code)
	}
	var result struct {
		Success       bool `json:"success"`
		TotalFitted   int  `json:"totalFitted"`
		TotalUnfitted int  `json:"totalUnfitted"`
		Items         []struct {
			Fitted int `json:"fitted"`
		} `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode pack result: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected calculation to succeed")
	}
	if result.Items[0].Fitted != 20 || result.Items[1].Fitted != 19 {
		t.Fatalf("unexpected allocation: %+v", result.Items)
	}
	if result.TotalFitted != 39 || result.TotalUnfitted != 21 {
		t.Fatalf("unexpected totals: %+v", result)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from history, got %d", rec.Code)
	}
	var hist struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if hist.Count != 1 {
		t.Fatalf("expected one history entry, got %d", hist.Count)
	}
}
