// Package dispatch selects and invokes exactly one backend action per user
// turn, based on the current stage pair.
//
// The selection table is closed: every (artifact, sub-stage) combination maps
// to one backend call, and anything outside the table is a programming error
// that fails loudly rather than being silently swallowed.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/forgeline-ai/forgeline/internal/backend"
	"github.com/forgeline-ai/forgeline/internal/logging"
	"github.com/forgeline-ai/forgeline/internal/notify"
	"github.com/forgeline-ai/forgeline/internal/protocol"
	"github.com/forgeline-ai/forgeline/internal/stage"
)

// ErrInvalidStagePair is returned when no backend action exists for the
// requested stage combination.
var ErrInvalidStagePair = fmt.Errorf("no backend action for stage pair")

// Actions is the slice of the backend client the dispatcher needs. The
// concrete implementation is backend.Client.
type Actions interface {
	GenerateDocumentation(ctx context.Context, userID, requirement string, files []backend.FilePayload) (map[string]any, error)
	ModifyDocumentation(ctx context.Context, userID, prompt string) (map[string]any, error)
	GenerateDiagram(ctx context.Context, userID, diagramType string) (map[string]any, error)
	ModifyDiagram(ctx context.Context, userID, prompt string) (map[string]any, error)
	GenerateCode(ctx context.Context, userID, prompt string) (map[string]any, error)
	ModifyCode(ctx context.Context, userID, prompt string) (map[string]any, error)
	Converse(ctx context.Context, userID, content string) (map[string]any, error)
	DownloadPackage(ctx context.Context, projectID string) (*backend.PackageResult, error)
}

// Result is the outcome of a dispatched turn.
type Result struct {
	Reply protocol.Reply
	// Bundle is set when the code generator returned a whole project. The
	// packaged archive retrieval runs in the background; Reply already
	// carries the human-readable summary.
	Bundle *protocol.ProjectBundle
}

// Dispatcher routes user turns to backend actions.
type Dispatcher struct {
	actions  Actions
	notifier notify.Notifier
	log      *logging.Logger

	downloads sync.WaitGroup
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithLogger attaches a logger.
func WithLogger(log *logging.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// New creates a dispatcher. The notifier receives background download
// outcomes; pass notify.Nop{} when no UI is attached.
func New(actions Actions, notifier notify.Notifier, opts ...Option) *Dispatcher {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	d := &Dispatcher{
		actions:  actions,
		notifier: notifier,
		log:      logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch performs the backend action for the given stage pair and returns
// the normalized reply.
//
// Selection table:
//
//	Documentation/Creating  → generate documentation (with attachments)
//	Documentation/Modifying → modify documentation
//	Diagram/Creating        → generate diagram
//	Diagram/Modifying       → modify diagram
//	Code/Creating           → generate code
//	Code/Modifying          → modify code
//	Conversation/(any)      → converse
func (d *Dispatcher) Dispatch(ctx context.Context, artifact stage.ArtifactStage, generation stage.GenerationStage, userID, text string, files []backend.FilePayload) (Result, error) {
	payload, err := d.invoke(ctx, artifact, generation, userID, text, files)
	if err != nil {
		return Result{}, err
	}

	if artifact == stage.Code && generation == stage.Creating {
		if bundle, ok := protocol.ParseProjectBundle(payload); ok {
			d.startPackageRetrieval(bundle.ProjectID)
			return Result{
				Reply:  protocol.Reply{Text: bundle.Summary(), Kind: protocol.FieldMatch, Field: "project_id"},
				Bundle: bundle,
			}, nil
		}
	}

	return Result{Reply: protocol.Normalize(payload)}, nil
}

func (d *Dispatcher) invoke(ctx context.Context, artifact stage.ArtifactStage, generation stage.GenerationStage, userID, text string, files []backend.FilePayload) (map[string]any, error) {
	if artifact == stage.Conversation {
		return d.actions.Converse(ctx, userID, text)
	}

	switch artifact {
	case stage.Documentation:
		switch generation {
		case stage.Creating:
			return d.actions.GenerateDocumentation(ctx, userID, text, files)
		case stage.Modifying:
			return d.actions.ModifyDocumentation(ctx, userID, text)
		}
	case stage.Diagram:
		switch generation {
		case stage.Creating:
			return d.actions.GenerateDiagram(ctx, userID, text)
		case stage.Modifying:
			return d.actions.ModifyDiagram(ctx, userID, text)
		}
	case stage.Code:
		switch generation {
		case stage.Creating:
			return d.actions.GenerateCode(ctx, userID, text)
		case stage.Modifying:
			return d.actions.ModifyCode(ctx, userID, text)
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrInvalidStagePair, artifact, generation)
}

// startPackageRetrieval fetches the packaged archive in the background. The
// outcome only feeds the notification sink; it never fails the foreground
// turn and never re-opens the waiting gate.
func (d *Dispatcher) startPackageRetrieval(projectID string) {
	d.downloads.Add(1)
	go func() {
		defer d.downloads.Done()

		// Detached from the foreground turn: the turn's context may be
		// done long before the archive is packaged.
		result, err := d.actions.DownloadPackage(context.Background(), projectID)
		if err != nil {
			d.log.Warn("project package retrieval failed", "project_id", projectID, "error", err)
			d.notifier.Notify(notify.Notification{
				Level:     notify.LevelError,
				Message:   fmt.Sprintf("Project package download failed: %v", err),
				ActionRef: projectID,
			})
			return
		}

		n := notify.Notification{
			Level:     notify.LevelSuccess,
			Message:   "Project package is ready.",
			ActionRef: projectID,
		}
		if result.URL != "" {
			n.Message = "Project package is ready to download."
			n.ActionRef = result.URL
		}
		d.log.Info("project package retrieved", "project_id", projectID, "url", result.URL, "bytes", len(result.Data))
		d.notifier.Notify(n)
	}()
}

// WaitForDownloads blocks until all background package retrievals have
// finished. Used on shutdown and in tests.
func (d *Dispatcher) WaitForDownloads() {
	d.downloads.Wait()
}
