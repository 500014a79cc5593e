package main

import (
	"context"
	"log"
	"time"

	"github.com/vermils/paydesk/config"
	"github.com/vermils/paydesk/controllers"
	"github.com/vermils/paydesk/repositories"
	"github.com/vermils/paydesk/routes"
	"github.com/vermils/paydesk/services"
	"github.com/vermils/paydesk/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Create sample admin
	if err := controllers.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	// Start the background expiry sweeper; per-order watchers share the
	// same lifetime
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	controllers.SetWatcherContext(ctx)

	svc := services.NewOrderService(
		repositories.NewOrderRepository(config.DB),
		repositories.NewPaymentRepository(config.DB),
		repositories.NewPaymentMethodRepository(config.DB),
	)
	sweeper := services.NewExpirySweeper(svc, 30*time.Second)
	go sweeper.Start(ctx)

	// Set up router
	router := routes.SetupRouter()

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	utils.LogInfo("Server starting on port %s", port)
	// Start server
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
