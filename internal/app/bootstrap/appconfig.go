// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for TaskDeck.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, and request body size limits.
// AppConfig is where everything specific to this application lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Token authentication configuration
	JWTSecret string        // Secret key for signing bearer tokens (must be strong in production)
	TokenTTL  time.Duration // Lifetime of issued tokens

	// File storage configuration
	UploadDir string // Local directory for uploaded task documents

	// Admin bootstrap
	AdminEmail string // Email of a user to promote/create as admin on startup (blank disables)
}
