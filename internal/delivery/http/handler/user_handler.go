package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/service"
)

// UserHandler : administration des comptes, réservée à la DSI et au gouverneur
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(us service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

func (h *UserHandler) Create(c *gin.Context) {
	var input struct {
		Nom       string `json:"nom" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=6"`
		Role      string `json:"role" binding:"required"`
		Commune   string `json:"commune"`
		Telephone string `json:"telephone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := entity.User{
		Nom:       input.Nom,
		Email:     input.Email,
		Role:      entity.UserRole(input.Role),
		Commune:   input.Commune,
		Telephone: input.Telephone,
	}

	if err := h.userService.CreateUser(c.Request.Context(), &user, input.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetDetails(c *gin.Context) {
	id := c.Param("id")
	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "utilisateur introuvable"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var input struct {
		Nom       *string `json:"nom"`
		Email     *string `json:"email"`
		Telephone *string `json:"telephone"`
		Role      *string `json:"role"`
		Commune   *string `json:"commune"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := entity.UserUpdate{
		Nom:       input.Nom,
		Email:     input.Email,
		Telephone: input.Telephone,
		Commune:   input.Commune,
	}
	if input.Role != nil {
		r := entity.UserRole(*input.Role)
		patch.Role = &r
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "utilisateur supprimé", "id": id})
}
