// Package config loads service configuration from environment variables
// using github.com/caarlos0/env, with optional .env support for local
// development via github.com/joho/godotenv.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the main application configuration.
type Config struct {
	HTTP  HTTPConfig  `envPrefix:"HTTP_"`
	Auth  AuthConfig  `envPrefix:"AUTH_"`
	Store StoreConfig `envPrefix:"STORE_"`

	// RateLimitPerSecond and RateLimitBurst configure the per-client token
	// bucket. Zero disables rate limiting.
	RateLimitPerSecond int `env:"RATE_LIMIT_PER_SECOND" envDefault:"20"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"40"`
}

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// AllowedOrigins lists browser origins permitted by CORS.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
}

// AuthConfig contains credential and token configuration.
type AuthConfig struct {
	// Secret signs session tokens. Required.
	Secret string `env:"SECRET"`

	// TokenTTL is the session token validity window.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"2h"`

	// TicketTTL is the password reset ticket validity window.
	TicketTTL time.Duration `env:"TICKET_TTL" envDefault:"1h"`

	// BcryptCost overrides the password hashing cost. Zero means the bcrypt
	// default.
	BcryptCost int `env:"BCRYPT_COST"`

	// AllowAdminSignup honors a caller-supplied admin role at registration.
	// Turn off to require out-of-band admin provisioning.
	AllowAdminSignup bool `env:"ALLOW_ADMIN_SIGNUP" envDefault:"true"`
}

// StoreConfig selects the persistence backend. A non-empty PGDSN wins over
// the JSON file path.
type StoreConfig struct {
	Path  string `env:"PATH" envDefault:"data/collab.json"`
	PGDSN string `env:"PG_DSN"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "ACADCOLLAB_"}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to values loaded from the environment.
func (c *Config) Sanitize() {
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 1 << 20
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.RateLimitPerSecond < 0 {
		c.RateLimitPerSecond = 0
	}
	if c.RateLimitBurst < c.RateLimitPerSecond {
		c.RateLimitBurst = c.RateLimitPerSecond
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 2 * time.Hour
	}
	if c.Auth.TicketTTL <= 0 {
		c.Auth.TicketTTL = time.Hour
	}
}
