package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/forgeline-ai/forgeline/internal/classify"
	"github.com/forgeline-ai/forgeline/internal/conversation"
	"github.com/forgeline-ai/forgeline/internal/notify"
	"github.com/forgeline-ai/forgeline/internal/stage"
	"github.com/forgeline-ai/forgeline/internal/util"
)

func newTranscriptViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("Forgeline")
	status := stage.StatusLine(m.conv.Artifact(), m.conv.Generation(), m.conv.IsWaitingResponse())
	if m.conv.IsWaitingResponse() {
		status = m.spin.View() + " " + status
	}
	line := title + "  " + m.styles.HelpText.Render(status)
	return util.TruncateANSI(line, m.width)
}

func (m Model) renderStatus() string {
	if m.statusMsg != "" {
		return util.TruncateANSI(m.styles.ErrorText.Render(m.statusMsg), m.width)
	}
	if m.notif != nil {
		var style lipgloss.Style
		switch m.notif.Level {
		case notify.LevelSuccess:
			style = m.styles.NotifySuccess
		case notify.LevelWarning:
			style = m.styles.NotifyWarning
		case notify.LevelError:
			style = m.styles.NotifyError
		default:
			style = m.styles.NotifyInfo
		}
		text := m.notif.Message
		if m.notif.ActionRef != "" {
			text += "  " + m.notif.ActionRef
		}
		return util.TruncateANSI(style.Render(text), m.width)
	}
	return ""
}

func (m Model) renderFooter() string {
	keys := []struct{ key, desc string }{
		{"enter", "send"},
		{"ctrl+e", "modify"},
		{"ctrl+n", "continue"},
		{"/attach <path>", "attach file"},
		{"esc", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, m.styles.HelpKey.Render(k.key)+" "+m.styles.HelpText.Render(k.desc))
	}
	return util.TruncateANSI(strings.Join(parts, m.styles.HelpText.Render(" • ")), m.width)
}

// refreshTranscript re-renders the message log into the viewport and keeps
// the view pinned to the newest message.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	content := m.renderTranscript()
	content = util.TailLines(content, m.cfg.MaxOutputLines)
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	msgs := m.conv.Messages()
	if len(msgs) == 0 {
		greeting := stage.Greeting(m.conv.Artifact())
		return m.styles.BotLabel.Render("Forgeline") + "\n" + m.styles.PlainText.Render(greeting) + "\n"
	}

	lastBot := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == conversation.SenderBot {
			lastBot = i
			break
		}
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		if i == lastBot && m.conv.ActionEligible(i) {
			b.WriteString("\n")
			b.WriteString(m.styles.ActionHint.Render("[ctrl+e] Modify   [ctrl+n] Continue"))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderMessage(msg conversation.Message) string {
	var b strings.Builder

	label := m.styles.UserLabel.Render("You")
	if msg.Sender == conversation.SenderBot {
		label = m.styles.BotLabel.Render("Forgeline")
	}
	b.WriteString(label)
	if m.cfg.ShowTimestamps {
		b.WriteString("  " + m.styles.Timestamp.Render(msg.Timestamp.Format("15:04:05")))
	}
	b.WriteString("\n")

	width := m.viewport.Width - 2
	if width < 10 {
		width = 10
	}
	body := msg.Text

	switch {
	case msg.IsError:
		b.WriteString(m.styles.ErrorText.Width(width).Render(body))
	case msg.RenderKind == classify.Code:
		b.WriteString(m.styles.CodeBlock.Width(width).Render(body))
	case msg.RenderKind == classify.Diagram,
		msg.RenderKind == classify.Markup && classify.IsDiagramSource(body):
		b.WriteString(m.styles.DiagramHint.Render("mermaid diagram source:"))
		b.WriteString("\n")
		b.WriteString(m.styles.CodeBlock.Width(width).Render(body))
	default:
		b.WriteString(m.styles.PlainText.Width(width).Render(body))
	}

	for _, ref := range msg.Attachments {
		b.WriteString("\n")
		b.WriteString(m.styles.HelpText.Render(fmt.Sprintf("📎 %s (%d bytes)", ref.Name, ref.SizeBytes)))
	}

	b.WriteString("\n")
	return b.String()
}
