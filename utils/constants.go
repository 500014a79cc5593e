package utils

// Application constants
const (
	// Application name
	AppName = "PayDesk"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// Default database host
	DefaultDBHost = "localhost"

	// Default database port
	DefaultDBPort = "5432"

	// Default database name
	DefaultDBName = "paydesk"

	// Default database user
	DefaultDBUser = "postgres"

	// Default payment window (minutes) when a method defines no time limit
	DefaultTimeLimit = 7

	// JWT token expiration (24 hours)
	JWTExpiration = "24h"
)
