// Manages server configuration stored in server_config.json.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maruel/portfolio/internal/auth"
	"github.com/maruel/portfolio/internal/server/ratelimit"
)

// ConfigFile is the name of the server configuration file in the data directory.
const ConfigFile = "server_config.json"

// ServerConfig stores the server-wide settings.
// Loaded from server_config.json, created with defaults if missing.
type ServerConfig struct {
	// AdminPassword unlocks the admin gate.
	AdminPassword string `json:"admin_password"`

	// SessionTTL is a Go duration string. Empty or "0" keeps sessions until
	// logout or restart.
	SessionTTL string `json:"session_ttl"`

	// AllowedOrigins lists the origins allowed by CORS. Empty disables CORS.
	AllowedOrigins []string `json:"allowed_origins"`

	// MaxRequestBodyBytes limits the size of any single HTTP request body.
	// 0 means unlimited.
	MaxRequestBodyBytes int64 `json:"max_request_body_bytes"`

	// RateLimits defines rate limiting configuration.
	RateLimits ratelimit.Limits `json:"rate_limits"`
}

// DefaultServerConfig returns the configuration written on first start.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		AdminPassword:       auth.DefaultPassword,
		SessionTTL:          "24h",
		AllowedOrigins:      []string{},
		MaxRequestBodyBytes: 10 * 1024 * 1024,
		RateLimits:          ratelimit.DefaultLimits(),
	}
}

// TTL returns the parsed session lifetime.
func (c *ServerConfig) TTL() time.Duration {
	d, _ := time.ParseDuration(c.ttl())
	return d
}

func (c *ServerConfig) ttl() string {
	if c.SessionTTL == "" {
		return "0"
	}
	return c.SessionTTL
}

// Validate checks that the configuration is valid.
func (c *ServerConfig) Validate() error {
	if c.AdminPassword == "" {
		return errors.New("admin_password is required")
	}
	d, err := time.ParseDuration(c.ttl())
	if err != nil {
		return fmt.Errorf("session_ttl: %w", err)
	}
	if d < 0 {
		return errors.New("session_ttl must be non-negative")
	}
	if c.MaxRequestBodyBytes < 0 {
		return errors.New("max_request_body_bytes must be non-negative")
	}
	r := c.RateLimits
	if r.ReadPerMin < 0 || r.WritePerMin < 0 || r.LoginPerMin < 0 {
		return errors.New("rate_limits must be non-negative")
	}
	return nil
}

// LoadServerConfig loads configuration from dataDir/server_config.json.
// Creates the file with defaults if it doesn't exist.
func LoadServerConfig(dataDir string) (*ServerConfig, error) {
	path := filepath.Join(dataDir, ConfigFile)
	cfg := DefaultServerConfig()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir, not user input
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
		}
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return &cfg, nil
}

// Save saves configuration to dataDir/server_config.json.
func (c *ServerConfig) Save(dataDir string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dataDir, ConfigFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigFile, err)
	}
	return nil
}
