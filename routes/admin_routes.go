package routes

import (
	"github.com/vermils/paydesk/controllers"
	"github.com/vermils/paydesk/middleware"

	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", controllers.AdminLogin)

		// Protected admin routes
		admin.Use(middleware.AdminAuthMiddleware())
		{
			// Payment review
			admin.GET("/orders", controllers.ListOrders)
			admin.GET("/payments/processing", controllers.ListProcessingPayments)
			admin.GET("/payments", controllers.ListPayments)
			admin.POST("/payments/:orderNumber/review", controllers.ReviewPayment)
			admin.GET("/payments/export/excel", controllers.DownloadPaymentsExcel)
			admin.GET("/payments/:orderNumber/receipt", controllers.DownloadPaymentReceipt)

			// Payment method management
			admin.POST("/methods", controllers.CreatePaymentMethod)
			admin.GET("/methods", controllers.ListPaymentMethods)
			admin.PUT("/methods/:id", controllers.UpdatePaymentMethod)
			admin.DELETE("/methods/:id", controllers.DeletePaymentMethod)

			// API key management
			admin.POST("/api-keys", controllers.CreateAPIKey)
			admin.GET("/api-keys", controllers.ListAPIKeys)
			admin.DELETE("/api-keys/:id", controllers.RevokeAPIKey)
		}
	}
}
