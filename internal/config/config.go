// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/fleetdash/backend/internal/tripcode"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// AuthEntryPoint is where unauthenticated clients are sent to sign in.
	AuthEntryPoint string

	// SessionTTL is the lifetime of an issued session token.
	SessionTTL time.Duration

	// DefaultLocale is used for expiry labels when Accept-Language matches nothing.
	DefaultLocale language.Tag

	// TripCodePrefix and TripCodeAttempts configure trip code generation.
	TripCodePrefix   string
	TripCodeAttempts int

	// KafkaBrokers lists the brokers for change notifications. Empty means
	// events are logged instead of published.
	KafkaBrokers []string
	KafkaTopic   string

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or
// naming the first variable whose value cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		AuthEntryPoint: getEnv("AUTH_ENTRY_POINT", "/login"),
		TripCodePrefix: getEnv("TRIP_CODE_PREFIX", tripcode.DefaultPrefix),
		KafkaBrokers:   splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "fleet.changes"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "24h")); err != nil || cfg.SessionTTL <= 0 {
		return Config{}, invalid("SESSION_TTL", "a positive duration such as 24h")
	}
	if cfg.DefaultLocale, err = language.Parse(getEnv("DEFAULT_LOCALE", "en")); err != nil {
		return Config{}, invalid("DEFAULT_LOCALE", "a BCP 47 language tag")
	}
	if !tripcode.ValidPrefix(cfg.TripCodePrefix) {
		return Config{}, invalid("TRIP_CODE_PREFIX", "1-10 uppercase letters or digits, starting with a letter")
	}
	if cfg.TripCodeAttempts, err = strconv.Atoi(getEnv("TRIP_CODE_ATTEMPTS", "5")); err != nil || cfg.TripCodeAttempts < 1 {
		return Config{}, invalid("TRIP_CODE_ATTEMPTS", "a positive integer")
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes < 1 {
		return Config{}, invalid("MAX_BODY_BYTES", "a positive integer")
	}
	if cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "false")); err != nil {
		return Config{}, invalid("MIGRATE_ON_START", "a boolean")
	}
	if !strings.HasPrefix(cfg.AuthEntryPoint, "/") && !strings.HasPrefix(cfg.AuthEntryPoint, "http") {
		return Config{}, invalid("AUTH_ENTRY_POINT", "a path or absolute URL")
	}

	return cfg, nil
}

// ErrInvalid is wrapped by every parse failure Load reports.
var ErrInvalid = errors.New("invalid environment variable")

func invalid(key, want string) error {
	return fmt.Errorf("%w %s: must be %s", ErrInvalid, key, want)
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
