package config

import (
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"resume-viewer/internal/shared/telemetry"
)

const (
	defaultPort       = 3000
	defaultWebPort    = 5173
	defaultCORSOrigin = "http://localhost:5173"
	defaultAPIURL     = "http://localhost:3000"
)

// Config holds application configuration.
type Config struct {
	Port        string
	CORSOrigin  string
	DatabaseURL string
	Env         string
	LogLevel    string
	AutoMigrate bool
	APIURL      string
	WebPort     string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience. Values
	// already present in the environment win.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ORIGIN", defaultCORSOrigin)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_URL", defaultAPIURL)

	env := normalizeEnv(v.GetString("ENV"))
	v.SetDefault("AUTO_MIGRATE", env != "production")

	cfg := Config{
		Port:        portOrDefault(v.GetString("PORT"), defaultPort),
		CORSOrigin:  strings.TrimSpace(v.GetString("CORS_ORIGIN")),
		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		Env:         env,
		LogLevel:    v.GetString("LOG_LEVEL"),
		AutoMigrate: v.GetBool("AUTO_MIGRATE"),
		APIURL:      strings.TrimRight(strings.TrimSpace(v.GetString("API_URL")), "/"),
		WebPort:     portOrDefault(v.GetString("WEB_PORT"), defaultWebPort),
	}

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": cfg.Env})
	}
	return cfg
}

// portOrDefault keeps raw when it is a valid TCP port number.
func portOrDefault(raw string, def int) string {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port <= 0 || port > 65535 {
		return strconv.Itoa(def)
	}
	return strconv.Itoa(port)
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

// IsDevLike reports whether env permits dev fallbacks such as the in-memory store.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
