// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for campaign configuration.
	DefaultConfigDir = ".campaign"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default storage database file name.
	DefaultDatabaseFile = "campaign.db"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Discord  DiscordConfig  `yaml:"discord,omitempty"`
	Resolver ResolverConfig `yaml:"resolver,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite key-value store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// DiscordSourceConfig declares one channel to sync messages from.
type DiscordSourceConfig struct {
	ID        string `yaml:"id"`
	ChannelID string `yaml:"channel_id"`
	GuildID   string `yaml:"guild_id,omitempty"`
	Enabled   bool   `yaml:"enabled"`
}

// DiscordConfig holds the bot token and the configured message sources.
type DiscordConfig struct {
	Token   string                `yaml:"token,omitempty"`
	Sources []DiscordSourceConfig `yaml:"sources,omitempty"`
}

// ResolverConfig holds the identity-resolution confidence thresholds. Zero
// values fall back to the built-in defaults.
type ResolverConfig struct {
	AutoAcceptThreshold float64 `yaml:"auto_accept_threshold,omitempty"`
	AliasReuseThreshold float64 `yaml:"alias_reuse_threshold,omitempty"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Empty disables logging.
	Level string `yaml:"level,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Resolver: ResolverConfig{
			AutoAcceptThreshold: 0.9,
			AliasReuseThreshold: 0.5,
		},
	}
}

// Load loads configuration from the .campaign directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'campaign init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DatabasePath(basePath)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" && c.Discord.Token == "" {
		c.Discord.Token = token
	}
}

// ConfigDir returns the path to the .campaign config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// DatabasePath returns the path to the storage database file.
func DatabasePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
}

// Exists checks if a campaign config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
