package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
// All variables are optional; defaults suit a local single-user run.
type Config struct {
	Env           string // "development" or "production"
	Addr          string // HTTP listen address
	DBPath        string // sqlite file path
	StaticDir     string // directory served at /
	ResendKey     string // empty disables email delivery
	EmailFrom     string
	EmailTo       string
	Notifications bool // master switch for the notification gate
}

// Load reads .env (if present) and the GYMTRACK_* environment variables.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("config_event", "event", "no_dotenv", "error", err)
	}

	return Config{
		Env:           envOrDefault("GYMTRACK_ENV", "development"),
		Addr:          envOrDefault("GYMTRACK_ADDR", ":8080"),
		DBPath:        envOrDefault("GYMTRACK_DB", "gymtrack.db"),
		StaticDir:     envOrDefault("GYMTRACK_STATIC_DIR", "static"),
		ResendKey:     os.Getenv("GYMTRACK_RESEND_KEY"),
		EmailFrom:     envOrDefault("GYMTRACK_EMAIL_FROM", "GymTrack <noreply@localhost>"),
		EmailTo:       os.Getenv("GYMTRACK_EMAIL_TO"),
		Notifications: envOrDefault("GYMTRACK_NOTIFICATIONS", "on") != "off",
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
