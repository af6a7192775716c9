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
	// Card data source configuration
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Cache configuration
	Cache CacheConfig `toml:"cache"`

	// Simulator configuration
	Simulator SimulatorConfig `toml:"simulator"`

	// Analysis defaults
	Analysis AnalysisConfig `toml:"analysis"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ScryfallConfig contains card lookup settings.
type ScryfallConfig struct {
	UserAgent string `toml:"user_agent"` // User-Agent sent with API requests
	BaseURL   string `toml:"base_url"`   // Override API base URL (empty = default)
}

// CacheConfig contains card cache settings.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"` // Enable caching
	Path    string `toml:"path"`    // SQLite database path (empty = default)
	TTL     string `toml:"ttl"`     // Cache TTL (e.g., "720h", "0" = never expire)
}

// SimulatorConfig contains the external simulator settings.
type SimulatorConfig struct {
	Binary    string   `toml:"binary"`     // Path to the simulator binary
	ExtraArgs []string `toml:"extra_args"` // Additional arguments passed through
}

// AnalysisConfig contains default analysis parameters.
type AnalysisConfig struct {
	Sims        int    `toml:"sims"`         // Simulations per candidate
	Turns       int    `toml:"turns"`        // Turns per simulation
	XValue      int    `toml:"x_value"`      // Value substituted for X in mana costs
	MinLands    int    `toml:"min_lands"`    // Land sweep lower bound
	MaxLands    int    `toml:"max_lands"`    // Land sweep upper bound
	LandStep    int    `toml:"land_step"`    // Land sweep step
	Concurrency int    `toml:"concurrency"`  // Parallel simulator invocations
	OutputDir   string `toml:"output_dir"`   // Where reports and charts land
	Debounce    string `toml:"debounce"`     // Watch-mode debounce (e.g., "500ms")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scryfall: ScryfallConfig{
			UserAgent: "manatuner/1.0",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "720h",
		},
		Simulator: SimulatorConfig{
			Binary: "manasim",
		},
		Analysis: AnalysisConfig{
			Sims:        2000,
			Turns:       10,
			XValue:      2,
			MinLands:    35,
			MaxLands:    41,
			LandStep:    1,
			Concurrency: 4,
			OutputDir:   ".",
			Debounce:    "500ms",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".manatuner")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// DefaultCachePath returns the default SQLite cache location.
func DefaultCachePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".manatuner", "cards.db"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the configuration from an explicit path. A missing file
// yields the defaults.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
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
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Cache.TTL, err)
	}

	if _, err := time.ParseDuration(c.Analysis.Debounce); err != nil {
		return fmt.Errorf("invalid debounce %q: %w", c.Analysis.Debounce, err)
	}

	if c.Analysis.Sims <= 0 {
		return fmt.Errorf("sims must be positive: %d", c.Analysis.Sims)
	}
	if c.Analysis.Turns <= 0 {
		return fmt.Errorf("turns must be positive: %d", c.Analysis.Turns)
	}
	if c.Analysis.XValue < 0 {
		return fmt.Errorf("x value cannot be negative: %d", c.Analysis.XValue)
	}
	if c.Analysis.MinLands > c.Analysis.MaxLands {
		return fmt.Errorf("min lands %d exceeds max lands %d", c.Analysis.MinLands, c.Analysis.MaxLands)
	}
	if c.Analysis.LandStep <= 0 {
		return fmt.Errorf("land step must be positive: %d", c.Analysis.LandStep)
	}
	if c.Analysis.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1: %d", c.Analysis.Concurrency)
	}

	return nil
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// GetDebounce returns the watch-mode debounce as a duration.
func (c *Config) GetDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Analysis.Debounce)
}
