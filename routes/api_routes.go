package routes

import (
	"github.com/vermils/paydesk/config"
	"github.com/vermils/paydesk/controllers"
	"github.com/vermils/paydesk/middleware"
	"github.com/vermils/paydesk/repositories"
	"github.com/vermils/paydesk/services"

	"github.com/gin-gonic/gin"
)

// initAPIRoutes initializes the merchant integration surface. Every route
// here requires a valid API key in the apikey header.
func initAPIRoutes(router *gin.Engine) {
	validator := services.NewAPIKeyService(repositories.NewAPIKeyRepository(config.DB))

	api := router.Group("/api")
	api.Use(middleware.APIKeyAuth(validator))
	{
		api.POST("/orders", controllers.CreateOrderAPI)
		api.GET("/orders/:orderNumber/status", controllers.GetOrderStatusAPI)
		api.GET("/payments/:orderNumber", controllers.GetPaymentAPI)
	}
}

// initPayerRoutes initializes the unauthenticated payer-facing routes used
// by the hosted payment page.
func initPayerRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("/:orderNumber", controllers.GetOrderView)
		orders.POST("/:orderNumber/utr", controllers.SubmitUTR)
	}
}
