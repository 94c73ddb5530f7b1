// Package config provides configuration management for the bhav copy toolkit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Download DownloadConfig `mapstructure:"download"`
	Database DatabaseConfig `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DownloadConfig holds downloader configuration.
type DownloadConfig struct {
	OutputDir      string        `mapstructure:"output_dir"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig holds the durable store configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// APIConfig holds the read API configuration.
type APIConfig struct {
	Addr string `mapstructure:"addr"`
}

// WatchConfig holds the scheduled-download daemon configuration.
type WatchConfig struct {
	// Schedule is a cron expression. The default fires at 18:30 IST on
	// weekdays, after the exchange publishes EOD data.
	Schedule string `mapstructure:"schedule"`
	Series   string `mapstructure:"series"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/nse-bhav"
	}
	return filepath.Join(home, ".config", "nse-bhav")
}

// DefaultDataDir returns the default artifact output directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data/nse_bhav"
	}
	return filepath.Join(home, "data", "nse_bhav")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("download.output_dir", DefaultDataDir())
	v.SetDefault("download.request_timeout", 30*time.Second)
	v.SetDefault("database.path", filepath.Join(DefaultConfigDir(), "bhav.db"))
	v.SetDefault("api.addr", "localhost:8000")
	v.SetDefault("watch.schedule", "30 18 * * 1-5")
	v.SetDefault("watch.series", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("creating config template: %w", err)
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	cfg.Download.OutputDir = expandHome(cfg.Download.OutputDir)
	cfg.Database.Path = expandHome(cfg.Database.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandHome resolves a leading ~ against the user's home directory, so
// hand-edited config paths behave the same as the defaults.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NSE_BHAV_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("NSE_BHAV_OUTPUT_DIR"); v != "" {
		cfg.Download.OutputDir = v
	}
	if v := os.Getenv("NSE_BHAV_API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Download.RequestTimeout <= 0 {
		return fmt.Errorf("download.request_timeout must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.API.Addr == "" {
		return fmt.Errorf("api.addr must not be empty")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	return nil
}
