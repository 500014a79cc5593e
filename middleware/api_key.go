package middleware

import (
	"context"
	"errors"

	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/services"
	"github.com/vermils/paydesk/utils"

	"github.com/gin-gonic/gin"
)

// APIKeyValidator validates a presented integration key
type APIKeyValidator interface {
	Validate(ctx context.Context, value string) (*models.APIKey, error)
}

// APIKeyAuth authenticates integration requests via the apikey header and
// places the owning merchant ID in the request context. Rejections carry no
// side effects.
func APIKeyAuth(validator APIKeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := validator.Validate(c.Request.Context(), c.GetHeader("apikey"))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAPIKeyRequired),
				errors.Is(err, services.ErrAPIKeyInvalid),
				errors.Is(err, services.ErrAPIKeyInactive),
				errors.Is(err, services.ErrAPIKeyExpired):
				utils.LogError("API key rejected: %v", err)
				utils.Unauthorized(c, err.Error())
			default:
				utils.LogError("API key validation failed: %v", err)
				utils.InternalServerError(c, "Failed to validate API key", nil)
			}
			c.Abort()
			return
		}

		c.Set("api_key", *key)
		c.Set("user_id", key.UserID)
		c.Next()
	}
}
