package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/forgeline-ai/forgeline/internal/attach"
	"github.com/forgeline-ai/forgeline/internal/classify"
	"github.com/forgeline-ai/forgeline/internal/stage"
)

// Sender identifies who produced a message.
type Sender string

const (
	// SenderUser is the human participant.
	SenderUser Sender = "user"
	// SenderBot is the assistant.
	SenderBot Sender = "bot"
)

// Message is one entry in the conversation log. Messages are immutable once
// appended; the log is append-only and never reordered.
type Message struct {
	ID         string
	Sender     Sender
	Text       string
	RenderKind classify.RenderKind
	Artifact   stage.ArtifactStage
	Generation stage.GenerationStage
	// Attachments are shown alongside the message in their original,
	// un-inlined form.
	Attachments []attach.Ref
	// IsError marks synthetic bot messages emitted when a dispatch failed.
	IsError   bool
	Timestamp time.Time
}

func newMessage(sender Sender, text string, kind classify.RenderKind, artifact stage.ArtifactStage, generation stage.GenerationStage, now time.Time) Message {
	return Message{
		ID:         uuid.NewString(),
		Sender:     sender,
		Text:       text,
		RenderKind: kind,
		Artifact:   artifact,
		Generation: generation,
		Timestamp:  now,
	}
}
