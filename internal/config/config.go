package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment. Every field has
// a sensible default so the server starts with no configuration at all.
type Config struct {
	Port          string
	DBPath        string
	LogLevel      string
	LogFormat     string
	SecureCookies bool
}

// Load reads a .env file when one is present, then resolves each setting
// from the environment. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          getenv("LARDER_PORT", "8080"),
		DBPath:        getenv("LARDER_DB_PATH", "larder.db"),
		LogLevel:      getenv("LARDER_LOG_LEVEL", "info"),
		LogFormat:     getenv("LARDER_LOG_FORMAT", "text"),
		SecureCookies: getbool("LARDER_SECURE_COOKIES"),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getbool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
