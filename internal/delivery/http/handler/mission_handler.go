package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/service"
)

type MissionHandler struct {
	missionService service.MissionService
}

func NewMissionHandler(ms service.MissionService) *MissionHandler {
	return &MissionHandler{missionService: ms}
}

func (h *MissionHandler) List(c *gin.Context) {
	missions, err := h.missionService.GetAllMissions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": missions, "total": len(missions)})
}

func (h *MissionHandler) Create(c *gin.Context) {
	var input struct {
		Titre       string            `json:"titre" binding:"required"`
		Description string            `json:"description"`
		Commune     string            `json:"commune" binding:"required"`
		AgentIDs    []string          `json:"agent_ids"`
		Metadata    map[string]string `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mission := entity.Mission{
		Titre:       input.Titre,
		Description: input.Description,
		Commune:     input.Commune,
		AgentIDs:    input.AgentIDs,
		Metadata:    input.Metadata,
		CreatedBy:   c.GetString("userID"),
	}

	if err := h.missionService.CreateMission(c.Request.Context(), &mission); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mission)
}

func (h *MissionHandler) GetDetails(c *gin.Context) {
	id := c.Param("id")
	mission, err := h.missionService.GetMissionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if mission == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mission introuvable"})
		return
	}
	c.JSON(http.StatusOK, mission)
}

func (h *MissionHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var input struct {
		Titre       *string            `json:"titre"`
		Description *string            `json:"description"`
		Statut      *string            `json:"statut"`
		Commune     *string            `json:"commune"`
		AgentIDs    *[]string          `json:"agent_ids"`
		Metadata    *map[string]string `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := entity.MissionUpdate{
		Titre:       input.Titre,
		Description: input.Description,
		Commune:     input.Commune,
		AgentIDs:    input.AgentIDs,
		Metadata:    input.Metadata,
	}
	if input.Statut != nil {
		s := entity.MissionStatut(*input.Statut)
		patch.Statut = &s
	}

	mission, err := h.missionService.UpdateMission(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mission)
}

func (h *MissionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.missionService.DeleteMission(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "mission supprimée", "id": id})
}
