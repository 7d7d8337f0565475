package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"rangeland-forage/internal/api/models"
)

func TestListBreeds(t *testing.T) {
	r := gin.New()
	r.GET("/api/v1/breeds", NewBreedHandler().ListBreeds)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/breeds", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Breeds []models.BreedInfo `json:"breeds"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Breeds) != 3 {
		t.Fatalf("got %d breeds, want 3", len(resp.Breeds))
	}
	for _, b := range resp.Breeds {
		if b.Description == "" {
			t.Errorf("breed %s has no description", b.Name)
		}
	}
}

func TestRunsWithoutStore(t *testing.T) {
	r := gin.New()
	h := NewRunsHandler(nil)
	r.GET("/api/v1/runs", h.ListRuns)
	r.GET("/api/v1/runs/:id/records", h.GetRunRecords)

	for _, path := range []string{"/api/v1/runs", "/api/v1/runs/1/records"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, w.Code)
		}
		var resp models.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding error response: %v", err)
		}
		if resp.Error.Code != "NO_STORE" {
			t.Errorf("%s: error code = %q, want NO_STORE", path, resp.Error.Code)
		}
	}
}
