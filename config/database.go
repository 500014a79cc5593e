package config

import (
	"fmt"

	"github.com/vermils/paydesk/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	// TranslateError lets the stores detect unique-constraint violations
	// via gorm.ErrDuplicatedKey instead of driver-specific error codes
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	// Auto-migrate the schema
	err = DB.AutoMigrate(
		&models.Admin{},
		&models.Order{},
		&models.Payment{},
		&models.PaymentMethod{},
		&models.APIKey{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}
