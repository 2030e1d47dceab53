// Package attach tracks uploaded attachments and their extracted text.
//
// Binary content extraction (PDF, Word, audio transcription) is delegated to
// an external collaborator; this package only records the outcome. A turn
// that references an attachment is gated until extraction has resolved one
// way or the other.
package attach

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/forgeline-ai/forgeline/internal/logging"
)

// State is the extraction lifecycle of an attachment.
type State string

const (
	// StatePending means extraction has not finished yet.
	StatePending State = "pending"
	// StateReady means the extracted text is available.
	StateReady State = "ready"
	// StateFailed means extraction failed; the failure marker is stored in
	// place of the text.
	StateFailed State = "failed"
)

// Ref describes one attachment.
type Ref struct {
	ID            string
	Name          string
	MimeType      string
	SizeBytes     int64
	ExtractedText string
	State         State
}

// Extractor turns a raw file payload into text. Implementations live outside
// the core; the registry only consumes the resulting string or error.
type Extractor interface {
	Extract(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// PlainText extracts text/plain payloads by passthrough and rejects
// everything else.
type PlainText struct{}

// Extract returns the payload verbatim for plain text.
func (PlainText) Extract(_ context.Context, name, mimeType string, data []byte) (string, error) {
	if !strings.HasPrefix(mimeType, "text/") {
		return "", fmt.Errorf("no extractor for %s (%s)", name, mimeType)
	}
	return string(data), nil
}

// failureMarker replaces the extracted text when extraction fails.
const failureMarker = "[content could not be extracted]"

// Registry owns the attachment set for one conversation.
type Registry struct {
	mu        sync.Mutex
	refs      map[string]*Ref
	order     []string
	extractor Extractor
	log       *logging.Logger
}

// Option customizes a registry.
type Option func(*Registry)

// WithLogger attaches a logger.
func WithLogger(log *logging.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry creates a registry using the given extractor.
func NewRegistry(extractor Extractor, opts ...Option) *Registry {
	r := &Registry{
		refs:      make(map[string]*Ref),
		extractor: extractor,
		log:       logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a payload and runs extraction. The returned ref reflects the
// final state: ready with text, or failed with the failure marker.
func (r *Registry) Add(ctx context.Context, name, mimeType string, data []byte) Ref {
	ref := &Ref{
		ID:        uuid.NewString(),
		Name:      name,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
		State:     StatePending,
	}
	r.mu.Lock()
	r.refs[ref.ID] = ref
	r.order = append(r.order, ref.ID)
	r.mu.Unlock()

	text, err := r.extractor.Extract(ctx, name, mimeType, data)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		ref.State = StateFailed
		ref.ExtractedText = failureMarker
		r.log.Warn("attachment extraction failed", "name", name, "error", err)
	} else {
		ref.State = StateReady
		ref.ExtractedText = text
	}
	return *ref
}

// Get returns a copy of the ref with the given id.
func (r *Registry) Get(id string) (Ref, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.refs[id]
	if !ok {
		return Ref{}, false
	}
	return *ref, true
}

// Remove deletes an attachment. Unknown ids are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.refs[id]; !ok {
		return
	}
	delete(r.refs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// List returns all attachments in upload order.
func (r *Registry) List() []Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Ref, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.refs[id])
	}
	return out
}

// Ready reports whether every referenced attachment exists and has finished
// extraction (successfully or not). Pending attachments gate the turn.
func (r *Registry) Ready(ids []string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		ref, ok := r.refs[id]
		if !ok || ref.State == StatePending {
			return false
		}
	}
	return true
}

// Resolve returns copies of the referenced attachments, in the given order.
// Unknown ids are skipped.
func (r *Registry) Resolve(ids []string) []Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Ref, 0, len(ids))
	for _, id := range ids {
		if ref, ok := r.refs[id]; ok {
			out = append(out, *ref)
		}
	}
	return out
}

// Inline renders the referenced attachments as delimited text blocks for the
// dispatch payload. The user-visible message keeps its original form; only
// the backend sees the inlined content.
func Inline(refs []Ref) string {
	var sb strings.Builder
	for i, ref := range refs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "--- FILE: %s ---\n%s\n--- END ---", ref.Name, ref.ExtractedText)
	}
	return sb.String()
}
