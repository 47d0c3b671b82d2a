// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// JWT captures access token signing configuration.
type JWT struct {
	SigningKey string
	Issuer     string
	Audience   string
	TTL        time.Duration
}

// Registry captures the external citizen registry endpoint.
type Registry struct {
	URL     string
	Timeout time.Duration
}

// Lockout captures the login throttling knobs.
type Lockout struct {
	MaxAttempts int
	Window      time.Duration
}

// SeedAdmin is the bootstrap super-admin created on startup when the store is
// empty. Password left blank disables seeding.
type SeedAdmin struct {
	Username string
	Password string
}

// Config is everything the server needs to start.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	JWT         JWT
	Registry    Registry
	Lockout     Lockout
	Seed        SeedAdmin
}

// FromEnv reads configuration from the environment, with development
// defaults for everything except production credentials.
func FromEnv() Config {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Addr:        envOr("VAXADMIN_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWT: JWT{
			SigningKey: jwtSigningKey,
			Issuer:     envOr("JWT_ISSUER", "vaxadmin"),
			Audience:   envOr("JWT_AUDIENCE", "vaxadmin-api"),
			TTL:        envDuration("JWT_TTL", 24*time.Hour),
		},
		Registry: Registry{
			URL:     os.Getenv("CITIZEN_REGISTRY_URL"),
			Timeout: envDuration("CITIZEN_REGISTRY_TIMEOUT", 10*time.Second),
		},
		Lockout: Lockout{
			MaxAttempts: envInt("LOGIN_MAX_ATTEMPTS", 5),
			Window:      envDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
		},
		Seed: SeedAdmin{
			Username: envOr("SEED_ADMIN_USERNAME", "superadmin"),
			Password: os.Getenv("SEED_ADMIN_PASSWORD"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
