package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/service"
)

type DouarHandler struct {
	douarService service.DouarService
}

func NewDouarHandler(ds service.DouarService) *DouarHandler {
	return &DouarHandler{douarService: ds}
}

func (h *DouarHandler) List(c *gin.Context) {
	douars, err := h.douarService.GetAllDouars(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"douars": douars, "total": len(douars)})
}

func (h *DouarHandler) Create(c *gin.Context) {
	var input struct {
		Nom        string   `json:"nom" binding:"required"`
		Commune    string   `json:"commune" binding:"required"`
		Population int      `json:"population"`
		Latitude   *float64 `json:"latitude"`
		Longitude  *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	douar := entity.Douar{
		Nom:        input.Nom,
		Commune:    input.Commune,
		Population: input.Population,
	}
	if input.Latitude != nil && input.Longitude != nil {
		douar.Geometry = entity.NewPoint(*input.Longitude, *input.Latitude)
	}

	if err := h.douarService.CreateDouar(c.Request.Context(), &douar); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, douar)
}

func (h *DouarHandler) GetDetails(c *gin.Context) {
	id := c.Param("id")
	douar, err := h.douarService.GetDouarByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if douar == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "douar introuvable"})
		return
	}
	c.JSON(http.StatusOK, douar)
}

func (h *DouarHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var input struct {
		Nom        *string `json:"nom"`
		Commune    *string `json:"commune"`
		Population *int    `json:"population"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	douar, err := h.douarService.UpdateDouar(c.Request.Context(), id, entity.DouarUpdate{
		Nom:        input.Nom,
		Commune:    input.Commune,
		Population: input.Population,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, douar)
}

func (h *DouarHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.douarService.DeleteDouar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "douar supprimé", "id": id})
}
