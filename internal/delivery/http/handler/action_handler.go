package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/service"
)

type ActionHandler struct {
	actionService  service.ActionService
	storageService service.StorageService
}

func NewActionHandler(as service.ActionService, ss service.StorageService) *ActionHandler {
	return &ActionHandler{
		actionService:  as,
		storageService: ss,
	}
}

// CreateActionRequest DTO for binding
type CreateActionRequest struct {
	Type         string         `json:"type" binding:"required"`
	Date         string         `json:"date"`
	Observations string         `json:"observations"`
	Commune      string         `json:"commune" binding:"required"`
	MissionID    string         `json:"mission_id"`
	DouarID      string         `json:"douar_id"`
	ChangementID string         `json:"changement_id"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	Photos       []entity.Photo `json:"photos"`
}

func (h *ActionHandler) Create(c *gin.Context) {
	var req CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			date, err = time.Parse("2006-01-02", req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Format de date invalide (YYYY-MM-DD ou RFC3339)"})
				return
			}
		}
	}

	// Mapping DTO -> Entity. La géolocalisation navigateur arrive en champs
	// lat/lng simples ; absente, le store synthétise depuis la commune.
	action := entity.Action{
		Type:         entity.ActionType(req.Type),
		Date:         date,
		Observations: req.Observations,
		Commune:      req.Commune,
		MissionID:    req.MissionID,
		DouarID:      req.DouarID,
		ChangementID: req.ChangementID,
		UserID:       userID,
		Photos:       req.Photos,
	}
	if req.Latitude != nil && req.Longitude != nil {
		action.Geometry = entity.NewPoint(*req.Longitude, *req.Latitude)
	}

	if err := h.actionService.CreateAction(c.Request.Context(), &action); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"action": action,
		"pv_id":  action.PVID,
	})
}

func (h *ActionHandler) List(c *gin.Context) {
	actions, err := h.actionService.GetAllActions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, actions)
}

func (h *ActionHandler) GetDetails(c *gin.Context) {
	id := c.Param("id")
	action, err := h.actionService.GetActionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if action == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "action introuvable"})
		return
	}

	c.JSON(http.StatusOK, action)
}

// UpdateActionRequest DTO : champs absents = inchangés
type UpdateActionRequest struct {
	Type         *string         `json:"type"`
	Date         *string         `json:"date"`
	Observations *string         `json:"observations"`
	Commune      *string         `json:"commune"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	Photos       *[]entity.Photo `json:"photos"`
}

func (h *ActionHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req UpdateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := entity.ActionUpdate{
		Observations: req.Observations,
		Commune:      req.Commune,
		Photos:       req.Photos,
	}
	if req.Type != nil {
		t := entity.ActionType(*req.Type)
		patch.Type = &t
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			date, err = time.Parse("2006-01-02", *req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Format de date invalide (YYYY-MM-DD ou RFC3339)"})
				return
			}
		}
		patch.Date = &date
	}
	if req.Latitude != nil && req.Longitude != nil {
		patch.Geometry = entity.NewPoint(*req.Longitude, *req.Latitude)
	}

	action, err := h.actionService.UpdateAction(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, action)
}

func (h *ActionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.actionService.DeleteAction(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "action et PV associé supprimés", "id": id})
}

func (h *ActionHandler) GetUploadURL(c *gin.Context) {
	fileName := c.Query("file_name")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_name query param is required"})
		return
	}

	url, err := h.storageService.GenerateUploadURL(c.Request.Context(), fileName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URL: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": url,
	})
}
