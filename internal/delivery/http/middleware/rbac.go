package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

// RoleMiddleware vérifie que l'utilisateur a l'un des rôles autorisés.
// Hiérarchie des rôles : GOUVERNEUR > MEMBRE_DSI > AGENT_AUTORITE.
// Ce filtrage est une commodité d'interface, pas une frontière de sécurité.
func RoleMiddleware(allowedRoles ...entity.UserRole) gin.HandlerFunc {
	roleSet := make(map[entity.UserRole]bool)
	for _, r := range allowedRoles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "rôle non trouvé dans le contexte"})
			c.Abort()
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "format de rôle invalide"})
			c.Abort()
			return
		}

		userRole := entity.UserRole(roleStr)

		// Le gouverneur a accès à tout
		if userRole == entity.RoleGouverneur {
			c.Next()
			return
		}

		// Vérification directe
		if !roleSet[userRole] {
			c.JSON(http.StatusForbidden, gin.H{
				"error":         "permissions insuffisantes",
				"required_role": allowedRoles,
				"current_role":  userRole,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// DSIOnly autorise uniquement le bureau central (et le gouverneur)
func DSIOnly() gin.HandlerFunc {
	return RoleMiddleware(entity.RoleMembreDSI)
}

// AgentAndAbove autorise les agents de terrain et au-dessus
func AgentAndAbove() gin.HandlerFunc {
	return RoleMiddleware(entity.RoleMembreDSI, entity.RoleAgentAutorite)
}
