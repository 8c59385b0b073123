package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config carries everything read from the environment. Precedence:
// explicit env var > .env file (loaded by the caller via godotenv) > default.
type Config struct {
	// DatabaseDSN selects the store: a postgres:// URL or a sqlite file path.
	DatabaseDSN string
	// AuthSecret signs session tokens. No default outside development.
	AuthSecret string
	// SessionTTL is the fixed session lifetime. 8 hours by default.
	SessionTTL time.Duration
	// TokenFile is where the session token persists between invocations.
	TokenFile string
	// CascadeDelete: when true, deleting a client removes its contracts and
	// their events; when false, deletes with dependents are blocked.
	CascadeDelete bool
	Env           string
}

// Load reads configuration from the environment with sensible defaults.
func Load() Config {
	cfg := Config{}
	cfg.DatabaseDSN = getEnv("CRM_DATABASE_DSN", defaultDatabasePath())
	cfg.AuthSecret = getEnv("CRM_AUTH_SECRET", "")
	cfg.SessionTTL = parseDuration("CRM_SESSION_TTL", 8*time.Hour)
	cfg.TokenFile = getEnv("CRM_TOKEN_FILE", defaultTokenPath())
	cfg.CascadeDelete = ParseBool("CRM_CASCADE_DELETE", true)
	cfg.Env = getEnv("CRM_ENV", "development")
	if cfg.AuthSecret == "" && cfg.Env == "development" {
		cfg.AuthSecret = "devsessionsecret"
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Printf("invalid duration for %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".epicevents-session"
	}
	return filepath.Join(home, ".config", "epicevents", "session")
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "epicevents.db"
	}
	return filepath.Join(home, ".config", "epicevents", "epicevents.db")
}
