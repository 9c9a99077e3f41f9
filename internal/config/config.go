// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Meta source configuration
	Meta MetaConfig `toml:"meta"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// Tournament simulation configuration
	Simulator SimulatorConfig `toml:"simulator"`

	// Chart export configuration
	Charts ChartsConfig `toml:"charts"`
}

// MetaConfig contains meta-game data source settings.
type MetaConfig struct {
	SourceURL   string `toml:"source_url"`    // Snapshot endpoint; empty uses built-in data
	CacheTTL    string `toml:"cache_ttl"`     // Snapshot freshness window (e.g., "30m")
	RateLimitMs int    `toml:"rate_limit_ms"` // Minimum milliseconds between requests
}

// StorageConfig contains persistence settings.
type StorageConfig struct {
	Enabled bool   `toml:"enabled"` // Persist practice history and meta snapshots
	Path    string `toml:"path"`    // SQLite database path; empty uses the default location
}

// SimulatorConfig contains tournament simulation settings.
type SimulatorConfig struct {
	BestOf      int     `toml:"best_of"`       // Games per round (default 3)
	OnPlayBonus float64 `toml:"on_play_bonus"` // Win-probability bump on the play, in percentage points
	RoundCount  int     `toml:"round_count"`   // Default bracket rounds
}

// ChartsConfig contains chart export settings.
type ChartsConfig struct {
	OutputDir string `toml:"output_dir"` // Directory for exported HTML charts
	Theme     string `toml:"theme"`      // Chart theme
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Meta: MetaConfig{
			SourceURL:   "",
			CacheTTL:    "30m",
			RateLimitMs: 1000,
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "",
		},
		Simulator: SimulatorConfig{
			BestOf:      3,
			OnPlayBonus: 4.0,
			RoundCount:  4,
		},
		Charts: ChartsConfig{
			OutputDir: "",
			Theme:     "light",
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".deckforge")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if the
// file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Meta.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Meta.CacheTTL, err)
	}

	if c.Meta.RateLimitMs < 0 {
		return fmt.Errorf("rate limit cannot be negative: %d", c.Meta.RateLimitMs)
	}

	if c.Simulator.BestOf < 1 {
		return fmt.Errorf("best-of must be at least 1: %d", c.Simulator.BestOf)
	}

	if c.Simulator.RoundCount < 1 {
		return fmt.Errorf("round count must be at least 1: %d", c.Simulator.RoundCount)
	}

	return nil
}

// GetCacheTTL returns the meta cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Meta.CacheTTL)
}
