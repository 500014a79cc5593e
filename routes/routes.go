package routes

import (
	"github.com/vermils/paydesk/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()

	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	// Integration surface, authenticated by merchant API key
	initAPIRoutes(router)

	// API version group
	api := router.Group("/v1")
	{
		// Payer-facing order routes
		initPayerRoutes(api)

		// Initialize admin routes
		initAdminRoutes(api)
	}

	return router
}
