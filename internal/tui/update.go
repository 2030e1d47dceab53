package tui

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forgeline-ai/forgeline/internal/conversation"
	"github.com/forgeline-ai/forgeline/internal/notify"
)

// notificationDisplayTime is how long a background notification stays in
// the footer.
const notificationDisplayTime = 8 * time.Second

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case turnDoneMsg:
		if msg.err != nil {
			m.statusMsg = gateMessage(msg.err)
		}
		m.refreshTranscript()
		return m, nil

	case notificationMsg:
		n := notify.Notification(msg)
		m.notif = &n
		m.notifSeq++
		seq := m.notifSeq
		return m, tea.Tick(notificationDisplayTime, func(time.Time) tea.Msg {
			return notificationExpiredMsg{seq: seq}
		})

	case notificationExpiredMsg:
		if msg.seq == m.notifSeq {
			m.notif = nil
		}
		return m, nil

	case spinner.TickMsg:
		if !m.conv.IsWaitingResponse() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	// Header (2) + input (1) + status (1) + footer (2)
	contentHeight := msg.Height - 6
	if contentHeight < 1 {
		contentHeight = 1
	}
	if !m.ready {
		m.viewport = newTranscriptViewport(msg.Width, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = contentHeight
	}
	m.input.Width = msg.Width - 4
	m.refreshTranscript()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		return m.handleSubmit()

	case "ctrl+e":
		// Modify the current artifact
		if idx := m.lastBotIndex(); m.conv.ActionEligible(idx) {
			m.conv.HandleModify(idx)
			m.refreshTranscript()
		}
		return m, nil

	case "ctrl+n":
		// Continue to the next stage
		if idx := m.lastBotIndex(); m.conv.ActionEligible(idx) {
			m.conv.HandleContinue(idx)
			m.refreshTranscript()
		}
		return m, nil

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.handleCommand(text), nil
	}

	if m.conv.IsWaitingResponse() {
		m.statusMsg = "Still working on the previous request..."
		return m, nil
	}

	m.input.SetValue("")
	m.statusMsg = ""
	ids := m.staged
	m.staged = nil

	conv := m.conv
	send := func() tea.Msg {
		return turnDoneMsg{err: conv.SendUserTurn(context.Background(), text, ids)}
	}

	// Refresh immediately so the user message and the waiting state show up
	// before the reply lands.
	return m, tea.Batch(send, m.spin.Tick, func() tea.Msg { return turnDoneMsg{} })
}

// handleCommand processes slash commands typed into the input line.
func (m Model) handleCommand(text string) Model {
	parts := strings.Fields(text)
	switch parts[0] {
	case "/attach":
		if len(parts) < 2 {
			m.statusMsg = "Usage: /attach <path>"
			return m
		}
		return m.attachFile(strings.Join(parts[1:], " "))

	case "/attachments":
		refs := m.attachments.List()
		if len(refs) == 0 {
			m.statusMsg = "No attachments."
			return m
		}
		names := make([]string, 0, len(refs))
		for _, ref := range refs {
			names = append(names, ref.Name)
		}
		m.statusMsg = "Attachments: " + strings.Join(names, ", ")
		return m

	case "/reset":
		m.conv.Reset()
		m.statusMsg = "Back to the documentation stage."
		m.refreshTranscript()
		return m

	default:
		m.statusMsg = fmt.Sprintf("Unknown command %s (try /attach, /attachments, /reset)", parts[0])
		return m
	}
}

func (m Model) attachFile(path string) Model {
	data, err := os.ReadFile(path)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Cannot read %s: %v", path, err)
		return m
	}

	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "text/plain"
	}

	ref := m.attachments.Add(context.Background(), name, mimeType, data)
	m.staged = append(m.staged, ref.ID)
	m.statusMsg = fmt.Sprintf("Attached %s (%d bytes), sent with your next message.", name, len(data))
	return m
}

// updateComponents routes remaining messages to the focused components.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// gateMessage maps turn gate errors to user-facing text.
func gateMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, conversation.ErrBusy):
		return "Still working on the previous request..."
	case errors.Is(err, conversation.ErrAttachmentPending):
		return conversation.AttachmentPendingText
	case errors.Is(err, conversation.ErrEmptyMessage):
		return ""
	default:
		return err.Error()
	}
}
