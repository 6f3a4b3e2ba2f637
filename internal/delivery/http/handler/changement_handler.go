package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/service"
)

type ChangementHandler struct {
	changementService service.ChangementService
}

func NewChangementHandler(cs service.ChangementService) *ChangementHandler {
	return &ChangementHandler{changementService: cs}
}

func (h *ChangementHandler) List(c *gin.Context) {
	changements, err := h.changementService.GetAllChangements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changements": changements, "total": len(changements)})
}

func (h *ChangementHandler) Create(c *gin.Context) {
	var input struct {
		Type      string   `json:"type" binding:"required"`
		Commune   string   `json:"commune" binding:"required"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changement := entity.Changement{
		Type:    entity.ChangementType(input.Type),
		Commune: input.Commune,
	}
	if input.Latitude != nil && input.Longitude != nil {
		changement.Geometry = entity.NewPoint(*input.Longitude, *input.Latitude)
	}

	if err := h.changementService.CreateChangement(c.Request.Context(), &changement); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, changement)
}

func (h *ChangementHandler) GetDetails(c *gin.Context) {
	id := c.Param("id")
	changement, err := h.changementService.GetChangementByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if changement == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "changement introuvable"})
		return
	}
	c.JSON(http.StatusOK, changement)
}

// UpdateStatut : passage administratif en TRAITE (DSI/gouverneur). La
// transition vers EN_TRAITEMENT appartient au moteur d'actions, jamais ici.
func (h *ChangementHandler) UpdateStatut(c *gin.Context) {
	id := c.Param("id")

	var input struct {
		Statut string `json:"statut" binding:"required,oneof=EN_TRAITEMENT TRAITE"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	statut := entity.ChangementStatut(input.Statut)
	changement, err := h.changementService.UpdateChangement(c.Request.Context(), id, entity.ChangementUpdate{Statut: &statut})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, changement)
}

func (h *ChangementHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.changementService.DeleteChangement(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "changement supprimé", "id": id})
}
