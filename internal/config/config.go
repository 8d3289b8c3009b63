package config

import (
	"os"
	"strings"
)

// Config keeps runtime settings for the server.
type Config struct {
	Port           string
	Environment    string
	DatabaseURL    string
	XMLPath        string
	AllowedOrigins []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	cfg := Config{
		Port:        strings.TrimSpace(os.Getenv("PORT")),
		Environment: strings.TrimSpace(os.Getenv("ENVIRONMENT")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		XMLPath:     strings.TrimSpace(os.Getenv("XML_PATH")),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskmaster.db"
	}
	if cfg.XMLPath == "" {
		cfg.XMLPath = "data/tasks.xml"
	}

	cfg.AllowedOrigins = loadAllowedOrigins()

	return cfg
}

// Development reports whether internal error detail may be exposed to
// clients.
func (c Config) Development() bool {
	return c.Environment == "development"
}

func loadAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
