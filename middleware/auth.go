package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/vermils/paydesk/config"
	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// AdminAuthMiddleware authenticates operators via a Bearer JWT and places
// the admin record in the request context.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.LogError("Missing Authorization header")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Extract token from Bearer header
		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
		if tokenString == authHeader {
			utils.LogError("Invalid Bearer token format")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			utils.LogError("Invalid token: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.LogError("Invalid token claims")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		adminIDValue, ok := claims["admin_id"].(float64)
		if !ok {
			utils.LogError("Token missing admin_id claim")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		adminID := uint(adminIDValue)
		utils.LogDebug("Authenticating admin ID: %d", adminID)

		var admin models.Admin
		if err := config.DB.First(&admin, adminID).Error; err != nil {
			utils.LogError("Admin not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin not found"})
			c.Abort()
			return
		}

		if !admin.IsActive {
			utils.LogError("Inactive admin attempted access: %d", adminID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin account is inactive"})
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Next()
	}
}
