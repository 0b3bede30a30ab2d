package config

import (
	"os"

	"lmshub/internal/lmserrors"
	"lmshub/internal/models"
)

var Config *ServerConfig

// ServerConfig is a struct that contains configuration values for the
// gateway server.
type ServerConfig struct {
	// AllowedOrigins is a list of URLs that the server will accept requests from.
	AllowedOrigins []string
	// Port is the port the server should run on.
	Port int
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		Port:           8080,
	}
}

func init() {
	Config = DefaultConfig()
}

// LoadProviders builds one ProviderConfig per backend found in the
// environment, in a fixed moodle, canvas, blackboard order. A backend is
// considered configured when its *_API_URL variable is set. Fails with
// NoProvidersConfiguredError when none is.
func LoadProviders() ([]models.ProviderConfig, error) {
	var configs []models.ProviderConfig

	if baseURL := os.Getenv("MOODLE_API_URL"); baseURL != "" {
		configs = append(configs, models.ProviderConfig{
			Name:    "moodle",
			Kind:    models.KindMoodle,
			BaseURL: baseURL,
			APIKey:  os.Getenv("MOODLE_API_KEY"),
			Options: map[string]interface{}{
				"tokenService": os.Getenv("MOODLE_TOKEN_SERVICE"),
				"restFormat":   getEnv("MOODLE_REST_FORMAT", "json"),
			},
		})
	}

	if baseURL := os.Getenv("CANVAS_API_URL"); baseURL != "" {
		configs = append(configs, models.ProviderConfig{
			Name:    "canvas",
			Kind:    models.KindCanvas,
			BaseURL: baseURL,
			APIKey:  os.Getenv("CANVAS_TOKEN"),
			Options: map[string]interface{}{
				"apiVersion": getEnv("CANVAS_API_VERSION", "v1"),
				"accountId":  os.Getenv("CANVAS_ACCOUNT_ID"),
			},
		})
	}

	if baseURL := os.Getenv("BLACKBOARD_API_URL"); baseURL != "" {
		configs = append(configs, models.ProviderConfig{
			Name:    "blackboard",
			Kind:    models.KindBlackboard,
			BaseURL: baseURL,
			APIKey:  os.Getenv("BLACKBOARD_APP_KEY"),
			Options: map[string]interface{}{
				"apiVersion": getEnv("BLACKBOARD_API_VERSION", "v1"),
				"domain":     os.Getenv("BLACKBOARD_DOMAIN"),
				"appKey":     os.Getenv("BLACKBOARD_APP_KEY"),
				"appSecret":  os.Getenv("BLACKBOARD_APP_SECRET"),
			},
		})
	}

	if len(configs) == 0 {
		return nil, lmserrors.NoProvidersConfiguredError
	}

	return configs, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
