package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Forgeline configuration
type Config struct {
	Backend     BackendConfig     `mapstructure:"backend"`
	User        UserConfig        `mapstructure:"user"`
	TUI         TUIConfig         `mapstructure:"tui"`
	Attachments AttachmentsConfig `mapstructure:"attachments"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Paths       PathsConfig       `mapstructure:"paths"`
}

// BackendConfig controls how the client reaches the generation service
type BackendConfig struct {
	// BaseURL is the root URL of the generation service (default: http://localhost:8000)
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds is the per-request timeout. Generation calls can run
	// for minutes, so the default is deliberately generous (default: 120)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// UserConfig identifies the user to the backend
type UserConfig struct {
	// ID is the stable user identifier sent with every request.
	// If empty, a random ID is generated per session.
	ID string `mapstructure:"id"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// MaxOutputLines limits how many rendered lines the transcript keeps
	MaxOutputLines int `mapstructure:"max_output_lines"`
	// Theme is the color theme for the TUI (default: "default")
	// Options: "default", "monokai", "dracula", "nord"
	Theme string `mapstructure:"theme"`
	// ShowTimestamps displays message timestamps in the transcript
	ShowTimestamps bool `mapstructure:"show_timestamps"`
}

// AttachmentsConfig controls attachment handling
type AttachmentsConfig struct {
	// MaxSizeMB is the largest file accepted as an attachment (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// PathsConfig controls where Forgeline stores data
type PathsConfig struct {
	// DataDir holds logs and downloaded project packages.
	// If empty, defaults to ~/.local/share/forgeline.
	// Supports ~ for home directory expansion.
	DataDir string `mapstructure:"data_dir"`
}

// Timeout returns the request timeout as a time.Duration
func (b *BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// ResolveDataDir returns the resolved data directory path, expanding ~ and
// falling back to the XDG data home when unset.
func (p *PathsConfig) ResolveDataDir() string {
	path := p.DataDir
	if path == "" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "forgeline")
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return ".forgeline"
		}
		return filepath.Join(home, ".local", "share", "forgeline")
	}

	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	} else if len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// LogDir returns the directory where log files are written.
func (p *PathsConfig) LogDir() string {
	return filepath.Join(p.ResolveDataDir(), "logs")
}

// DownloadDir returns the directory where project packages are saved.
func (p *PathsConfig) DownloadDir() string {
	return filepath.Join(p.ResolveDataDir(), "downloads")
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 120, // Generation calls are slow
		},
		User: UserConfig{
			ID: "",
		},
		TUI: TUIConfig{
			MaxOutputLines: 1000,
			Theme:          "default",
			ShowTimestamps: false,
		},
		Attachments: AttachmentsConfig{
			MaxSizeMB: 10,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Paths: PathsConfig{
			DataDir: "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Backend defaults
	viper.SetDefault("backend.base_url", defaults.Backend.BaseURL)
	viper.SetDefault("backend.timeout_seconds", defaults.Backend.TimeoutSeconds)

	// User defaults
	viper.SetDefault("user.id", defaults.User.ID)

	// TUI defaults
	viper.SetDefault("tui.max_output_lines", defaults.TUI.MaxOutputLines)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.show_timestamps", defaults.TUI.ShowTimestamps)

	// Attachments defaults
	viper.SetDefault("attachments.max_size_mb", defaults.Attachments.MaxSizeMB)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Paths defaults
	viper.SetDefault("paths.data_dir", defaults.Paths.DataDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "forgeline")
	}
	// Fall back to ~/.config/forgeline
	home, err := os.UserHomeDir()
	if err != nil {
		return ".forgeline"
	}
	return filepath.Join(home, ".config", "forgeline")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
