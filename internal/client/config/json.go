package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BraisonWabwire/shopke-cli/internal/flagx"
	"github.com/BraisonWabwire/shopke-cli/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given as strings like "30s" or as integer nanoseconds.
type jsonConfig struct {
	APIBaseURL           *string         `json:"api_base_url"`
	SessionDBPath        *string         `json:"session_db_path"`
	CartPollInterval     *timex.Duration `json:"cart_poll_interval"`
	SessionWatchInterval *timex.Duration `json:"session_watch_interval"`
	LogLevel             *string         `json:"log_level"`
}

// applyJSONFromFlags overlays cfg with the JSON file named by -c/-config,
// if any.
func applyJSONFromFlags(cfg *Config) error {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return nil
	}
	return applyJSON(cfg, path)
}

// applyJSON overlays cfg with values from the JSON file at path. Only keys
// present in the file override earlier sources.
func applyJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.SessionDBPath != nil {
		cfg.SessionDBPath = *jc.SessionDBPath
	}
	if jc.CartPollInterval != nil {
		cfg.CartPollInterval = jc.CartPollInterval.Duration
	}
	if jc.SessionWatchInterval != nil {
		cfg.SessionWatchInterval = jc.SessionWatchInterval.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
