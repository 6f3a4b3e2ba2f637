package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/service"
)

func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Injection des infos utilisateur dans le contexte Gin
		if sub, ok := (*claims)["sub"].(string); ok {
			c.Set("userID", sub)
		}
		if role, ok := (*claims)["role"].(string); ok {
			c.Set("role", role)
		}
		if commune, ok := (*claims)["commune"].(string); ok {
			c.Set("commune", commune)
		}
		if prefecture, ok := (*claims)["prefecture"].(string); ok {
			c.Set("prefecture", prefecture)
		}

		c.Next()
	}
}
