package controllers

import (
	"errors"
	"strconv"

	"github.com/vermils/paydesk/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateAPIKey issues a new integration key for the merchant
func CreateAPIKey(c *gin.Context) {
	utils.LogInfo("CreateAPIKey called")

	var req struct {
		Label  string `json:"label"`
		UserID uint   `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	key, err := apiKeyService().Issue(c.Request.Context(), req.UserID, req.Label)
	if err != nil {
		utils.LogError("Failed to issue API key: %v", err)
		utils.InternalServerError(c, "Failed to issue API key", nil)
		return
	}

	utils.LogInfo("API key %d issued for user %d", key.ID, key.UserID)
	utils.Created(c, "API key issued", gin.H{"api_key": key})
}

// ListAPIKeys returns issued keys for a merchant
func ListAPIKeys(c *gin.Context) {
	userID, _ := strconv.Atoi(c.DefaultQuery("user_id", "0"))

	keys, err := apiKeyService().List(c.Request.Context(), uint(userID))
	if err != nil {
		utils.LogError("Failed to list API keys: %v", err)
		utils.InternalServerError(c, "Failed to list API keys", nil)
		return
	}

	utils.Success(c, "API keys retrieved", gin.H{"api_keys": keys})
}

// RevokeAPIKey deactivates an issued key
func RevokeAPIKey(c *gin.Context) {
	utils.LogInfo("RevokeAPIKey called")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid API key ID", nil)
		return
	}

	if err := apiKeyService().Revoke(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "API key not found")
			return
		}
		utils.LogError("Failed to revoke API key %d: %v", id, err)
		utils.InternalServerError(c, "Failed to revoke API key", nil)
		return
	}

	utils.Success(c, "API key revoked", nil)
}
