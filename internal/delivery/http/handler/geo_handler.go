package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/geo"
)

// GeoHandler expose la table canonique des communes et leurs emprises
type GeoHandler struct{}

func NewGeoHandler() *GeoHandler {
	return &GeoHandler{}
}

func (h *GeoHandler) ListCommunes(c *gin.Context) {
	communes := geo.Communes()
	c.JSON(http.StatusOK, gin.H{"communes": communes, "total": len(communes)})
}

func (h *GeoHandler) GetBounds(c *gin.Context) {
	name := c.Param("nom")
	bounds, ok := geo.BoundsOf(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "commune introuvable: " + name})
		return
	}
	c.JSON(http.StatusOK, bounds)
}
