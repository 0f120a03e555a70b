// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Commune. They are loaded
// via WAFFLE's config system from config files, COMMUNE_* environment
// variables, or command-line flags.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "commune", Desc: "MongoDB database name"},

	{Name: "auth_secret", Default: "", Desc: "HMAC signing secret for session tokens (required)"},
	{Name: "auth_cookie", Default: "commune_token", Desc: "Session cookie name"},
	{Name: "auth_token_ttl", Default: "1h", Desc: "Session token lifetime (e.g., 1h, 30m)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COMMUNE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		AuthSecret:   appValues.String("auth_secret"),
		AuthCookie:   appValues.String("auth_cookie"),
		AuthTokenTTL: appValues.Duration("auth_token_ttl", time.Hour),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. A missing signing
// secret aborts startup here; the process must never come up issuing
// unsigned or guessably signed tokens.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AuthSecret == "" {
		logger.Error("auth_secret is not set")
		return fmt.Errorf("auth_secret is required (set COMMUNE_AUTH_SECRET)")
	}
	if appCfg.AuthTokenTTL <= 0 {
		return fmt.Errorf("auth_token_ttl must be positive, got %s", appCfg.AuthTokenTTL)
	}

	return nil
}
