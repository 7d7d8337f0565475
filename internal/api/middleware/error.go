package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rangeland-forage/internal/growth"
	"rangeland-forage/internal/model"
)

// Recovery handles panics with a uniform error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "An unexpected error occurred",
			},
		})
		c.Abort()
	})
}

// StatusForError maps the engine's error kinds to HTTP codes and stable
// error codes for the envelope.
func StatusForError(err error) (int, string) {
	var validation *model.ValidationError
	var allocation *model.AllocationError
	var balance *model.NutrientBalanceError
	var collaborator *growth.CollaboratorError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.As(err, &allocation):
		return http.StatusUnprocessableEntity, "ALLOCATION_INFEASIBLE"
	case errors.As(err, &balance):
		return http.StatusUnprocessableEntity, "NUTRIENT_BALANCE"
	case errors.As(err, &collaborator):
		return http.StatusBadGateway, "GROWTH_MODEL"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
