package api

import "time"

// AuthConfig configures JWT issuance for the admin API.
type AuthConfig struct {
	// Secret is the HMAC signing key. Must be at least 32 characters.
	Secret string `mapstructure:"secret" yaml:"secret"`

	// Issuer is the token issuer claim.
	// Default: "foxbox"
	Issuer string `mapstructure:"issuer" yaml:"issuer"`

	// AccessTokenDuration is the access token lifetime.
	// Default: 15m
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration" yaml:"access_token_duration"`

	// RefreshTokenDuration is the refresh token lifetime.
	// Default: 168h (7 days)
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" yaml:"refresh_token_duration"`
}

// AdminConfig is the single operator account the API authenticates.
type AdminConfig struct {
	// Username of the operator account.
	// Default: "admin"
	Username string `mapstructure:"username" yaml:"username"`

	// PasswordHash is the bcrypt hash of the operator password. When empty,
	// login is disabled and every authenticated route answers 401.
	PasswordHash string `mapstructure:"password_hash" yaml:"password_hash"`
}

// APIConfig configures the admin REST API HTTP server.
//
// When Enabled is false, no API server is started (zero overhead).
type APIConfig struct {
	// Enabled controls whether the API server is started.
	// Default: true
	// Use a pointer to distinguish "not set" from "explicitly false"
	Enabled *bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port for the API endpoints.
	// Default: 8081
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 10s
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 10s
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle limit.
	// Default: 60s
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// Auth configures JWT issuance.
	Auth AuthConfig `mapstructure:"auth" yaml:"auth"`

	// Admin is the operator account.
	Admin AdminConfig `mapstructure:"admin" yaml:"admin"`
}

// IsEnabled returns whether the API server is enabled.
// Defaults to true if not explicitly set.
func (c *APIConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// applyDefaults fills in zero values with sensible defaults.
func (c *APIConfig) applyDefaults() {
	if c.Port <= 0 {
		c.Port = 8081
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "foxbox"
	}
	if c.Auth.AccessTokenDuration == 0 {
		c.Auth.AccessTokenDuration = 15 * time.Minute
	}
	if c.Auth.RefreshTokenDuration == 0 {
		c.Auth.RefreshTokenDuration = 7 * 24 * time.Hour
	}
	if c.Admin.Username == "" {
		c.Admin.Username = "admin"
	}
}
