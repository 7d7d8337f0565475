package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"rangeland-forage/internal/api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func simulateRouter() *gin.Engine {
	r := gin.New()
	h := NewSimulateHandler(nil)
	r.POST("/api/v1/simulate", h.Simulate)
	return r
}

const simulateBody = `{
	"run": {"start_year": 2013, "start_month": 1, "months": 3},
	"grasses": [{
		"name": "themeda", "habit": "C4",
		"green_kg_ha": 2000, "dead_kg_ha": 500,
		"dmd_green": 0.62, "dmd_dead": 0.45,
		"cp_green": 0.11, "cp_dead": 0.04,
		"growth_rate": 0.3, "carrying_kg_ha": 4000,
		"senescence_rate": 0.1, "decay_rate": 0.05
	}],
	"herbivores": [{
		"name": "cattle", "breed": "B_taurus",
		"srw_kg": 550, "birth_weight_kg": 35,
		"weight_kg": 300, "age_days": 1095, "density_per_ha": 1
	}]
}`

func TestSimulateEndpoint(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(simulateBody))
	req.Header.Set("Content-Type", "application/json")
	simulateRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp models.SimulateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	// Spin-up plus three monthly rows.
	if len(resp.Herbivores) != 4 {
		t.Errorf("got %d herbivore rows, want 4", len(resp.Herbivores))
	}
	if len(resp.Forage) != 8 {
		t.Errorf("got %d forage rows, want 8", len(resp.Forage))
	}
	if len(resp.Sufficiency) != 1 || resp.Sufficiency[0].Herbivore != "cattle" {
		t.Errorf("unexpected sufficiency summary: %+v", resp.Sufficiency)
	}
	if resp.RunID != 0 {
		t.Errorf("no store configured, run id should be 0, got %d", resp.RunID)
	}
}

func TestSimulateEndpointCSVFormat(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate?format=csv", strings.NewReader(simulateBody))
	req.Header.Set("Content-Type", "application/json")
	simulateRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "step,year,month,herbivore,") {
		t.Errorf("unexpected csv header: %q", strings.SplitN(w.Body.String(), "\n", 2)[0])
	}
}

func TestSimulateEndpointRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"run":`, "INVALID_REQUEST"},
		{"missing herbivores", `{"run": {"start_year": 2013, "start_month": 1, "months": 3},
			"grasses": [{"name": "themeda"}], "herbivores": []}`, "INVALID_REQUEST"},
		{"unknown breed", strings.Replace(simulateBody, "B_taurus", "B_bogus", 1), "INVALID_INPUT"},
		{"bad preference", simulateBody[:len(simulateBody)-1] +
			`, "preferences": {"cattle": {"themeda": 2}}}`, "INVALID_INPUT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			simulateRouter().ServeHTTP(w, req)

			if w.Code < 400 {
				t.Fatalf("status = %d, want an error, body = %s", w.Code, w.Body.String())
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding error response: %v", err)
			}
			if resp.Error.Code != tc.code {
				t.Errorf("error code = %q, want %q", resp.Error.Code, tc.code)
			}
		})
	}
}
