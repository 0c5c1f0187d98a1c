package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultRelayEndpoint is the form-relay service that forwards contact
// submissions to the site owner's inbox.
const DefaultRelayEndpoint = "https://api.web3forms.com/submit"

type Config struct {
	Port         string
	GinMode      string
	DatabasePath string
	LogLevel     string

	// Form relay
	RelayEndpoint  string
	RelayAccessKey string
	RelayFromName  string
	RelayTimeout   time.Duration

	// Notification banners
	AutoDismiss time.Duration
	Fade        time.Duration

	SessionIdle time.Duration

	AdminUsername string
	AdminPassword string
	TrackVisitors bool
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	// Missing .env is fine in production.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", ""),
		DatabasePath:   getEnv("DATABASE_PATH", "portfolio.db"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		RelayEndpoint:  strings.TrimSpace(getEnv("RELAY_ENDPOINT", DefaultRelayEndpoint)),
		RelayAccessKey: getEnv("RELAY_ACCESS_KEY", "de45b2eb-5989-44f2-9885-696cff8aec7c"),
		RelayFromName:  getEnv("RELAY_FROM_NAME", "Portfolio Contact Form"),
		RelayTimeout:   Duration("RELAY_TIMEOUT", 0),
		AutoDismiss:    Duration("NOTIFY_AUTO_DISMISS", 5*time.Second),
		Fade:           Duration("NOTIFY_FADE", 300*time.Millisecond),
		SessionIdle:    Duration("SESSION_IDLE", 30*time.Minute),
		AdminUsername:  getEnv("ADMIN_USERNAME", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		TrackVisitors:  Bool("TRACK_VISITORS", true),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Duration parses a Go duration ("5s", "300ms") or a bare integer of
// milliseconds. Negative or malformed values yield the default.
func Duration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(value); err == nil {
		if ms < 0 {
			return defaultValue
		}
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}

// Bool reads an environment variable and returns a boolean value.
// Only "true" or "false" (case-insensitive) are recognised; any other
// value results in the provided default.
func Bool(key string, defaultValue bool) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch val {
	case "":
		return defaultValue
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}
