// Package conversation owns the ordered message log and orchestrates a full
// user turn: gate, disable stale affordances, dispatch, classify, append.
//
// All state lives behind one mutex; there is a single logical actor per
// conversation. The only asynchronous boundary is the dispatch call itself
// (and, for project generation, the dispatcher's detached package
// retrieval).
package conversation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/forgeline-ai/forgeline/internal/attach"
	"github.com/forgeline-ai/forgeline/internal/backend"
	"github.com/forgeline-ai/forgeline/internal/classify"
	"github.com/forgeline-ai/forgeline/internal/dispatch"
	"github.com/forgeline-ai/forgeline/internal/logging"
	"github.com/forgeline-ai/forgeline/internal/stage"
)

// Sentinel errors surfaced to the UI layer.
var (
	// ErrBusy is returned when a turn is already in flight.
	ErrBusy = fmt.Errorf("a turn is already in flight")
	// ErrEmptyMessage is returned for blank user input.
	ErrEmptyMessage = fmt.Errorf("message text is empty")
	// ErrAttachmentPending is returned when a referenced attachment has
	// not finished extraction.
	ErrAttachmentPending = fmt.Errorf("attachment extraction still pending")
)

// Dispatcher is the slice of the action dispatcher the conversation needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, artifact stage.ArtifactStage, generation stage.GenerationStage, userID, text string, files []backend.FilePayload) (dispatch.Result, error)
}

// Conversation is the dialogue orchestrator: stage machine, message log,
// in-flight gate, and action-eligibility bookkeeping.
type Conversation struct {
	mu sync.Mutex

	userID      string
	stages      *stage.Manager
	classifier  *classify.Classifier
	dispatcher  Dispatcher
	attachments *attach.Registry
	log         *logging.Logger
	now         func() time.Time

	messages []Message
	waiting  bool
	// disabled holds indexes of bot messages whose Modify/Continue
	// affordances were switched off. It only ever grows.
	disabled map[int]struct{}
}

// Option customizes a Conversation.
type Option func(*Conversation)

// WithClassifier swaps the content classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(conv *Conversation) {
		if c != nil {
			conv.classifier = c
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *logging.Logger) Option {
	return func(conv *Conversation) {
		if log != nil {
			conv.log = log
		}
	}
}

// WithClock overrides the message timestamp source (tests).
func WithClock(clock func() time.Time) Option {
	return func(conv *Conversation) {
		if clock != nil {
			conv.now = clock
		}
	}
}

// New creates a conversation for the given user.
func New(userID string, dispatcher Dispatcher, attachments *attach.Registry, opts ...Option) *Conversation {
	conv := &Conversation{
		userID:      userID,
		stages:      stage.NewManager(),
		classifier:  classify.New(),
		dispatcher:  dispatcher,
		attachments: attachments,
		log:         logging.NopLogger(),
		now:         time.Now,
		disabled:    make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(conv)
	}
	return conv
}

// Artifact returns the current artifact stage.
func (c *Conversation) Artifact() stage.ArtifactStage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stages.Artifact()
}

// Generation returns the current generation sub-stage.
func (c *Conversation) Generation() stage.GenerationStage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stages.Generation()
}

// IsWaitingResponse reports whether a dispatch is outstanding.
func (c *Conversation) IsWaitingResponse() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting
}

// Messages returns a copy of the message log.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// DisabledActionIndexes returns the sorted set of bot-message indexes whose
// actions were disabled.
func (c *Conversation) DisabledActionIndexes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, 0, len(c.disabled))
	for idx := range c.disabled {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// ActionEligible reports whether Modify/Continue may act on the message at
// index: it must be the highest-indexed bot message, not disabled, and the
// conversation must not be in the terminal stage.
func (c *Conversation) ActionEligible(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actionEligibleLocked(index)
}

func (c *Conversation) actionEligibleLocked(index int) bool {
	if c.stages.Artifact().Terminal() {
		return false
	}
	if _, off := c.disabled[index]; off {
		return false
	}
	return index == c.lastBotIndexLocked() && index >= 0
}

// lastBotIndexLocked returns the index of the highest-indexed bot message,
// or -1.
func (c *Conversation) lastBotIndexLocked() int {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Sender == SenderBot {
			return i
		}
	}
	return -1
}

// SendUserTurn runs one full turn: gate, disable stale affordances, append
// the user message, dispatch, classify and append the reply. On dispatch
// failure a synthetic error bot message is appended and stage state is left
// untouched. The waiting flag is cleared on every exit path.
func (c *Conversation) SendUserTurn(ctx context.Context, text string, attachmentIDs []string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.waiting {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.attachments != nil && !c.attachments.Ready(attachmentIDs) {
		c.mu.Unlock()
		return ErrAttachmentPending
	}

	artifact := c.stages.Artifact()
	generation := c.stages.Generation()

	// The previous bot message may no longer be acted on once a new turn
	// starts.
	if !artifact.Terminal() {
		if last := c.lastBotIndexLocked(); last >= 0 {
			c.disabled[last] = struct{}{}
		}
	}
	c.waiting = true

	var refs []attach.Ref
	if c.attachments != nil {
		refs = c.attachments.Resolve(attachmentIDs)
	}

	userMsg := newMessage(SenderUser, text, c.classifier.Classify(classify.Input{
		Text:     text,
		FromBot:  false,
		Artifact: artifact,
	}), artifact, generation, c.now())
	userMsg.Attachments = refs
	c.messages = append(c.messages, userMsg)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.waiting = false
		c.mu.Unlock()
	}()

	dispatchText := text
	if inlined := attach.Inline(refs); inlined != "" {
		dispatchText = text + "\n\n" + inlined
	}
	files := filePayloads(refs)

	result, err := c.dispatcher.Dispatch(ctx, artifact, generation, c.userID, dispatchText, files)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warn("dispatch failed", "artifact", artifact, "generation", generation, "error", err)
		errMsg := newMessage(SenderBot, ApologyText, c.classifier.Classify(classify.Input{
			Text:     ApologyText,
			FromBot:  true,
			Artifact: artifact,
		}), artifact, generation, c.now())
		errMsg.IsError = true
		c.messages = append(c.messages, errMsg)
		return nil
	}

	botMsg := newMessage(SenderBot, result.Reply.Text, c.classifier.Classify(classify.Input{
		Text:     result.Reply.Text,
		FromBot:  true,
		Artifact: artifact,
	}), artifact, generation, c.now())
	c.messages = append(c.messages, botMsg)
	c.log.Debug("turn completed", "artifact", artifact, "generation", generation, "reply_kind", result.Reply.Kind)
	return nil
}

// HandleModify switches the current artifact into the Modifying sub-stage
// and prompts for the change request. Stale indexes and the terminal stage
// are ignored idempotently.
func (c *Conversation) HandleModify(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Terminal stage and stale indexes are both covered by eligibility.
	if !c.actionEligibleLocked(index) {
		return
	}

	if !c.stages.SetGeneration(stage.Modifying) {
		return
	}
	// Edge-triggered prompt: emitted once, after the sub-stage change has
	// taken effect.
	c.appendBotPromptLocked(ModifyPrompt)
	c.log.Info("entered modify sub-stage", "artifact", c.stages.Artifact())
}

// HandleContinue disables the acted-on message, advances to the next
// artifact stage, resets the sub-stage to Creating, and appends the entry
// prompt for the stage just entered. Stale indexes and the terminal stage
// are ignored idempotently.
func (c *Conversation) HandleContinue(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actionEligibleLocked(index) {
		return
	}

	c.disabled[index] = struct{}{}
	if !c.stages.Advance() {
		return
	}
	c.stages.SetGeneration(stage.Creating)

	// Edge-triggered: the prompt depends on the stage just entered and
	// fires exactly once per transition.
	if prompt := stageEntryPrompt(c.stages.Artifact()); prompt != "" {
		c.appendBotPromptLocked(prompt)
	}
	c.log.Info("advanced artifact stage", "artifact", c.stages.Artifact())
}

// Reset clears the stage machine back to (Documentation, Creating). The
// message log is preserved; gating state is kept monotonic.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stages.Reset()
}

func (c *Conversation) appendBotPromptLocked(text string) {
	artifact := c.stages.Artifact()
	generation := c.stages.Generation()
	msg := newMessage(SenderBot, text, c.classifier.Classify(classify.Input{
		Text:     text,
		FromBot:  true,
		Artifact: artifact,
	}), artifact, generation, c.now())
	c.messages = append(c.messages, msg)
}

func filePayloads(refs []attach.Ref) []backend.FilePayload {
	if len(refs) == 0 {
		return nil
	}
	out := make([]backend.FilePayload, 0, len(refs))
	for _, ref := range refs {
		out = append(out, backend.FilePayload{
			Name:    ref.Name,
			Content: ref.ExtractedText,
			Type:    ref.MimeType,
			Size:    ref.SizeBytes,
		})
	}
	return out
}
