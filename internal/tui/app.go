// Package tui implements the interactive conversation interface.
//
// The model is a single full-screen view: a transcript viewport, an input
// line, and a footer that surfaces background notifications such as
// finished project package downloads.
package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/forgeline-ai/forgeline/internal/attach"
	"github.com/forgeline-ai/forgeline/internal/conversation"
	"github.com/forgeline-ai/forgeline/internal/notify"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	sink    *notify.Sink
}

// New creates a new TUI application
func New(conv *conversation.Conversation, attachments *attach.Registry, sink *notify.Sink, cfg Config) *App {
	return &App{
		model: NewModel(conv, attachments, cfg),
		sink:  sink,
	}
}

// Run starts the TUI application
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Graceful shutdown on termination signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	// Forward background notifications (package downloads) into the UI loop
	done := make(chan struct{})
	if a.sink != nil {
		go func() {
			for {
				select {
				case n, ok := <-a.sink.Events():
					if !ok {
						return
					}
					a.program.Send(notificationMsg(n))
				case <-done:
					return
				}
			}
		}()
	}

	_, err := a.program.Run()

	close(done)
	signal.Stop(sigChan)

	return err
}
