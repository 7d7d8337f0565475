package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rangeland-forage/internal/api/models"
	"rangeland-forage/internal/model"
)

// BreedHandler serves the supported breed catalogue.
type BreedHandler struct{}

func NewBreedHandler() *BreedHandler {
	return &BreedHandler{}
}

var breedDescriptions = map[string]string{
	"B_indicus":        "Zebu cattle: lower basal metabolism and maintenance protein, tolerant of protein-poor diets.",
	"B_taurus":         "European cattle: higher basal metabolism, strongest intake response to protein deficit.",
	"indicus_x_taurus": "Indicus-taurus cross, intermediate between the parent types.",
}

// ListBreeds handles GET /api/v1/breeds.
func (h *BreedHandler) ListBreeds(c *gin.Context) {
	breeds := make([]models.BreedInfo, 0, len(model.BreedNames()))
	for _, name := range model.BreedNames() {
		breeds = append(breeds, models.BreedInfo{Name: name, Description: breedDescriptions[name]})
	}
	c.JSON(http.StatusOK, gin.H{"breeds": breeds})
}
