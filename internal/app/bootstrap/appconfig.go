// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, log
// level); AppConfig is everything specific to Commune.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session token configuration
	AuthSecret   string        // HMAC signing secret for session tokens (required)
	AuthCookie   string        // Session cookie name (default: commune_token)
	AuthTokenTTL time.Duration // Token lifetime (default: 1h); tokens are not revocable before expiry
}
