package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/document"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/service"
)

type PVHandler struct {
	pvService     service.PVService
	actionService service.ActionService
}

func NewPVHandler(ps service.PVService, as service.ActionService) *PVHandler {
	return &PVHandler{
		pvService:     ps,
		actionService: as,
	}
}

func (h *PVHandler) List(c *gin.Context) {
	pvs, err := h.pvService.GetAllPVs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pvs)
}

func (h *PVHandler) GetDetails(c *gin.Context) {
	id := c.Param("id")
	pv, err := h.pvService.GetPVByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if pv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "PV introuvable"})
		return
	}

	c.JSON(http.StatusOK, pv)
}

// CreatePVRequest : création explicite, dédupliquée sur l'action
type CreatePVRequest struct {
	ActionID      string `json:"action_id"`
	Type          string `json:"type" binding:"required"`
	Constatations string `json:"constatations"`
	Decisions     string `json:"decisions"`
}

func (h *PVHandler) Create(c *gin.Context) {
	var req CreatePVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pv := &entity.PV{
		ActionID:  req.ActionID,
		Type:      entity.ActionType(req.Type),
		CreatedBy: c.GetString("userID"),
		Contenu: entity.PVContenu{
			Constatations: req.Constatations,
			Decisions:     req.Decisions,
		},
	}

	created, err := h.pvService.CreatePV(c.Request.Context(), pv)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdatePVRequest : champs absents = inchangés
type UpdatePVRequest struct {
	Type          *string             `json:"type"`
	Titre         *string             `json:"titre"`
	Constatations *string             `json:"constatations"`
	Decisions     *string             `json:"decisions"`
	Photos        *entity.PVPhotos    `json:"photos"`
	Coordonnees   *entity.Coordonnees `json:"coordonnees"`
}

func (h *PVHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req UpdatePVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := entity.PVUpdate{
		Contenu: &entity.PVContenuUpdate{
			Titre:         req.Titre,
			Constatations: req.Constatations,
			Decisions:     req.Decisions,
			Photos:        req.Photos,
			Coordonnees:   req.Coordonnees,
		},
	}
	if req.Type != nil {
		t := entity.ActionType(*req.Type)
		patch.Type = &t
	}

	pv, err := h.pvService.UpdatePV(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pv)
}

func (h *PVHandler) Validate(c *gin.Context) {
	id := c.Param("id")
	validatorID := c.GetString("userID")

	pv, err := h.pvService.ValidatePV(c.Request.Context(), id, validatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "PV validé",
		"pv":      pv,
	})
}

// Preview rend le bloc texte bilingue du PV (prévisualisation à l'écran)
func (h *PVHandler) Preview(c *gin.Context) {
	pv, action, ok := h.loadPair(c)
	if !ok {
		return
	}

	c.String(http.StatusOK, document.FormatPV(pv, action))
}

// Document sert l'artefact imprimable en téléchargement
func (h *PVHandler) Document(c *gin.Context) {
	pv, action, ok := h.loadPair(c)
	if !ok {
		return
	}

	artifact, err := document.GeneratePVDocument(pv, action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s.html", pv.Numero)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", artifact)
}

func (h *PVHandler) loadPair(c *gin.Context) (*entity.PV, *entity.Action, bool) {
	id := c.Param("id")
	pv, err := h.pvService.GetPVByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	if pv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "PV introuvable"})
		return nil, nil, false
	}

	action, err := h.actionService.GetActionByID(c.Request.Context(), pv.ActionID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return pv, action, true
}
