package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/forgeline-ai/forgeline/internal/attach"
	"github.com/forgeline-ai/forgeline/internal/backend"
	"github.com/forgeline-ai/forgeline/internal/config"
	"github.com/forgeline-ai/forgeline/internal/conversation"
	"github.com/forgeline-ai/forgeline/internal/dispatch"
	"github.com/forgeline-ai/forgeline/internal/logging"
	"github.com/forgeline-ai/forgeline/internal/notify"
	"github.com/forgeline-ai/forgeline/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a conversation session",
	Long: `Start an interactive conversation session.
The session begins in the documentation stage: describe what you want to
build and the assistant produces Jira-style stories, then offers Modify
and Continue actions to walk through diagram and code generation.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Close()

	userID := cfg.User.ID
	if userID == "" {
		userID = uuid.NewString()
		log.Info("no configured user id, generated one for this session", "user_id", userID)
	}

	client := backend.New(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout()),
		backend.WithLogger(log),
	)

	sink := notify.NewSink(16)
	dispatcher := dispatch.New(client, sink, dispatch.WithLogger(log))
	attachments := attach.NewRegistry(attach.PlainText{}, attach.WithLogger(log))

	conv := conversation.New(userID, dispatcher, attachments,
		conversation.WithLogger(log.WithUser(userID)),
	)

	app := tui.New(conv, attachments, sink, tui.Config{
		Theme:          cfg.TUI.Theme,
		MaxOutputLines: cfg.TUI.MaxOutputLines,
		ShowTimestamps: cfg.TUI.ShowTimestamps,
	})
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Let in-flight package downloads land before tearing down the logger.
	dispatcher.WaitForDownloads()
	return nil
}

// newLogger builds the session logger from config. Logging can be disabled
// entirely, in which case everything goes to a nop logger.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewWithRotation(cfg.Paths.LogDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}
