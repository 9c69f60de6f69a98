// Package config assembles runtime settings for the storefront client.
//
// Sources, later ones overriding earlier ones:
//  1. built-in defaults
//  2. environment variables (a .env file is loaded first if present)
//  3. a JSON config file named via -c/-config
//  4. command-line flags
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the ShopKE CLI.
type Config struct {
	// APIBaseURL is the base URL of the commerce REST API, including the
	// /api prefix.
	APIBaseURL string `env:"SHOPKE_API_URL"`

	// SessionDBPath is the session database file shared by all client
	// instances. Empty means the per-user default location.
	SessionDBPath string `env:"SHOPKE_SESSION_DB"`

	// CartPollInterval is how often the badge poller refetches the cart
	// while a customer is logged in.
	CartPollInterval time.Duration `env:"SHOPKE_CART_POLL_INTERVAL"`

	// SessionWatchInterval is how often the session watcher checks for
	// writes made by other client instances.
	SessionWatchInterval time.Duration `env:"SHOPKE_SESSION_WATCH_INTERVAL"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"SHOPKE_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.SessionDBPath = ""
	c.CartPollInterval = 30 * time.Second
	c.SessionWatchInterval = 2 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config from all sources in precedence order.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := applyJSONFromFlags(cfg); err != nil {
		return nil, err
	}
	applyFlags(cfg, os.Args[1:])
	return cfg, nil
}

// ResolveSessionDBPath returns the configured session database path, or the
// per-user default, creating its directory if needed.
func (c *Config) ResolveSessionDBPath() (string, error) {
	path := c.SessionDBPath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "shopke", "session.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	return path, nil
}
