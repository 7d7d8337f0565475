package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rangeland-forage/internal/api/models"
	"rangeland-forage/internal/results"
)

// RunsHandler serves persisted run history.
type RunsHandler struct {
	store *results.Store
}

func NewRunsHandler(store *results.Store) *RunsHandler {
	return &RunsHandler{store: store}
}

// ListRuns handles GET /api/v1/runs.
func (h *RunsHandler) ListRuns(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NO_STORE", Message: "results database not configured"},
		})
		return
	}
	runs, err := h.store.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()},
		})
		return
	}
	infos := make([]models.RunInfo, 0, len(runs))
	for _, r := range runs {
		infos = append(infos, models.RunInfo{
			ID:         r.ID,
			StartedAt:  r.StartedAt.Format(time.RFC3339),
			Months:     r.Months,
			Herbivores: r.Herbivores,
			Grasses:    r.Grasses,
		})
	}
	c.JSON(http.StatusOK, gin.H{"runs": infos})
}

// GetRunRecords handles GET /api/v1/runs/:id/records.
func (h *RunsHandler) GetRunRecords(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NO_STORE", Message: "results database not configured"},
		})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: "run id must be an integer"},
		})
		return
	}
	records, err := h.store.HerbivoreRecords(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
