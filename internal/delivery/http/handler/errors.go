package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

// respondError mappe la taxonomie d'erreurs du coeur vers les statuts HTTP.
// Le message est remonté tel quel : il est destiné à l'utilisateur final.
func respondError(c *gin.Context, err error) {
	switch {
	case entity.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case entity.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
