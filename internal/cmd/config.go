package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forgeline-ai/forgeline/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify Forgeline configuration",
	Long: `View or modify Forgeline configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  forgeline config set backend.base_url http://localhost:8000
  forgeline config set user.id my-user
  forgeline config set logging.level debug

Valid keys:
  backend.base_url        - Root URL of the generation service
  backend.timeout_seconds - Per-request timeout in seconds
  user.id                 - Stable user identifier
  tui.max_output_lines    - Max transcript lines to keep
  tui.theme               - Color theme (default, monokai, dracula, nord)
  tui.show_timestamps     - Show message timestamps (true/false)
  attachments.max_size_mb - Largest accepted attachment in MB
  logging.enabled         - Enable debug logging (true/false)
  logging.level           - Log level (debug, info, warn, error)
  paths.data_dir          - Directory for logs and downloads`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/forgeline/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("backend:")
	fmt.Printf("  base_url: %s\n", cfg.Backend.BaseURL)
	fmt.Printf("  timeout_seconds: %d\n", cfg.Backend.TimeoutSeconds)

	fmt.Println("user:")
	if cfg.User.ID != "" {
		fmt.Printf("  id: %s\n", cfg.User.ID)
	} else {
		fmt.Printf("  id: (generated per session)\n")
	}

	fmt.Println("tui:")
	fmt.Printf("  max_output_lines: %d\n", cfg.TUI.MaxOutputLines)
	fmt.Printf("  theme: %s\n", cfg.TUI.Theme)
	fmt.Printf("  show_timestamps: %v\n", cfg.TUI.ShowTimestamps)

	fmt.Println("attachments:")
	fmt.Printf("  max_size_mb: %d\n", cfg.Attachments.MaxSizeMB)

	fmt.Println("logging:")
	fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Printf("  level: %s\n", cfg.Logging.Level)

	fmt.Println("paths:")
	fmt.Printf("  data_dir: %s\n", cfg.Paths.ResolveDataDir())

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"backend.base_url":        "string",
		"backend.timeout_seconds": "int",
		"user.id":                 "string",
		"tui.max_output_lines":    "int",
		"tui.theme":               "string",
		"tui.show_timestamps":     "bool",
		"attachments.max_size_mb": "int",
		"logging.enabled":         "bool",
		"logging.level":           "string",
		"paths.data_dir":          "string",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'forgeline config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue interface{}
	switch keyType {
	case "string":
		switch key {
		case "tui.theme":
			if !contains(config.ValidThemes(), value) {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.ValidThemes(), ", "))
			}
		case "logging.level":
			if !contains(config.ValidLogLevels(), strings.ToLower(value)) {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.ValidLogLevels(), ", "))
			}
		}
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'forgeline config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# Forgeline Configuration

# Generation service settings
backend:
  # Root URL of the generation service
  base_url: http://localhost:8000
  # Per-request timeout in seconds (generation calls are slow)
  timeout_seconds: 120

# User identity
user:
  # Stable user identifier sent with every request.
  # Leave empty to generate a random ID per session.
  id: ""

# TUI (terminal user interface) settings
tui:
  # Maximum number of transcript lines to keep
  max_output_lines: 1000
  # Color theme: default, monokai, dracula, nord
  theme: default
  # Show message timestamps in the transcript
  show_timestamps: false

# Attachment settings
attachments:
  # Largest accepted attachment in megabytes
  max_size_mb: 10

# Debug logging
logging:
  enabled: true
  # Log level: debug, info, warn, error
  level: info
  # Maximum log file size in megabytes before rotation
  max_size_mb: 10
  # Number of backup log files to keep
  max_backups: 3

# Storage locations
paths:
  # Directory for logs and downloaded project packages.
  # Empty means ~/.local/share/forgeline
  data_dir: ""
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(config.ConfigFile())
	return nil
}
