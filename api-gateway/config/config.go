package config

import (
	"os"
	"strings"
	"time"

	"github.com/luckyfood/stockpilot/internal/auth"
)

// ServiceConfig holds configuration for a backend service.
type ServiceConfig struct {
	Name        string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration.
type GatewayConfig struct {
	Port           string
	Services       map[string]ServiceConfig
	Google         auth.GoogleConfig
	AllowedDomains []string
}

// LoadConfig loads the gateway configuration from the environment.
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Services: map[string]ServiceConfig{
			"stockpilot": {
				Name:        "stockpilot",
				Instances:   splitList(getEnv("STOCKPILOT_SERVICE_URLS", "http://localhost:8080")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
		Google: auth.GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8000/auth/google/callback"),
		},
		AllowedDomains: splitList(getEnv("ALLOWED_EMAIL_DOMAINS", strings.Join(auth.DefaultAllowedDomains, ","))),
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
