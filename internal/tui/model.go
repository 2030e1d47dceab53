package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forgeline-ai/forgeline/internal/attach"
	"github.com/forgeline-ai/forgeline/internal/conversation"
	"github.com/forgeline-ai/forgeline/internal/notify"
	"github.com/forgeline-ai/forgeline/internal/tui/styles"
)

// Config carries the UI-relevant configuration into the model.
type Config struct {
	Theme          string
	MaxOutputLines int
	ShowTimestamps bool
}

// Model holds the TUI application state
type Model struct {
	conv        *conversation.Conversation
	attachments *attach.Registry
	cfg         Config
	styles      styles.Set

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	// staged holds attachment IDs added via /attach, consumed by the next
	// sent turn.
	staged []string

	width    int
	height   int
	ready    bool
	quitting bool

	// statusMsg is a transient one-line message under the input (gate
	// rejections, command feedback).
	statusMsg string

	// notif is the most recent background notification; notifSeq guards
	// expiry of stale ones.
	notif    *notify.Notification
	notifSeq int
}

// NewModel creates a new TUI model
func NewModel(conv *conversation.Conversation, attachments *attach.Registry, cfg Config) Model {
	set := styles.NewSet(styles.ForTheme(cfg.Theme))

	ti := textinput.New()
	ti.Placeholder = "Describe what you want to build..."
	ti.Prompt = "> "
	ti.PromptStyle = set.InputPrompt
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = set.Spinner

	return Model{
		conv:        conv,
		attachments: attachments,
		cfg:         cfg,
		styles:      set,
		input:       ti,
		spin:        sp,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// lastBotIndex returns the index of the newest bot message, or -1.
func (m Model) lastBotIndex() int {
	msgs := m.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == conversation.SenderBot {
			return i
		}
	}
	return -1
}
