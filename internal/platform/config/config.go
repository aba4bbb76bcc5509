// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vivisews/vivisews/pkg/convert"
)

// # Signup Policies

// SignupPolicy decides the role and status assigned to a freshly registered account.
type SignupPolicy string

const (
	// SignupApproval places every new account in the pending state.
	SignupApproval SignupPolicy = "approval"

	// SignupFirstAdmin promotes the very first account to an active admin;
	// every later signup is pending.
	SignupFirstAdmin SignupPolicy = "first_admin"

	// SignupOpen activates every new account immediately.
	SignupOpen SignupPolicy = "open"
)

// Valid reports whether the policy is one of the known values.
func (p SignupPolicy) Valid() bool {
	switch p {
	case SignupApproval, SignupFirstAdmin, SignupOpen:
		return true
	}
	return false
}

// # Configuration Schema

// Config holds all runtime configuration for the vivi.sews API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"3001"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis), used for token revocation
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Token signing. RS256 when both key paths are set, HS256 with JWTSecret otherwise.
	JWTSecret      string        `env:"JWT_SECRET"`
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Account policy
	SignupPolicy     SignupPolicy  `env:"SIGNUP_POLICY"      envDefault:"approval"`
	AllowSignups     bool          `env:"ALLOW_SIGNUPS"      envDefault:"true"`
	MaxLoginAttempts int           `env:"MAX_LOGIN_ATTEMPTS" envDefault:"5"`
	LockoutDuration  time.Duration `env:"LOCKOUT_DURATION"   envDefault:"15m"`

	// Image uploads (local disk)
	UploadDir      string `env:"UPLOAD_DIR"       envDefault:"./uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL"`

	// Account events (RabbitMQ). Publishing is disabled when AMQPURL is empty.
	AMQPURL     string `env:"AMQP_URL"`
	EventsQueue string `env:"EVENTS_QUEUE" envDefault:"account.events"`

	// Cross-Origin Resource Sharing, comma separated
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	if !c.SignupPolicy.Valid() {
		return fmt.Errorf("config: unknown SIGNUP_POLICY %q", c.SignupPolicy)
	}

	if c.JWTSecret == "" && !c.UsesRSAKeys() {
		return errors.New("config: JWT_SECRET or both JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set")
	}

	if c.MaxLoginAttempts < 1 {
		return fmt.Errorf("config: MAX_LOGIN_ATTEMPTS must be positive, got %d", c.MaxLoginAttempts)
	}

	if c.LockoutDuration <= 0 || c.TokenTTL <= 0 {
		return errors.New("config: LOCKOUT_DURATION and TOKEN_TTL must be positive")
	}

	return nil
}

// UsesRSAKeys reports whether tokens are signed with an RSA key pair.
func (c *Config) UsesRSAKeys() bool {
	return c.JWTPrivKeyPath != "" && c.JWTPubKeyPath != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the configured CORS origins.
func (c *Config) Origins() []string {
	return convert.SplitList(c.AllowedOrigins)
}
