package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/forgeline-ai/forgeline/internal/attach"
	"github.com/forgeline-ai/forgeline/internal/backend"
	"github.com/forgeline-ai/forgeline/internal/conversation"
	"github.com/forgeline-ai/forgeline/internal/dispatch"
	"github.com/forgeline-ai/forgeline/internal/notify"
	"github.com/forgeline-ai/forgeline/internal/protocol"
	"github.com/forgeline-ai/forgeline/internal/stage"
)

type stubDispatcher struct {
	reply protocol.Reply
	err   error
}

func (s *stubDispatcher) Dispatch(_ context.Context, _ stage.ArtifactStage, _ stage.GenerationStage, _, _ string, _ []backend.FilePayload) (dispatch.Result, error) {
	return dispatch.Result{Reply: s.reply}, s.err
}

func newTestModel(d conversation.Dispatcher) Model {
	reg := attach.NewRegistry(attach.PlainText{})
	conv := conversation.New("u1", d, reg)
	m := NewModel(conv, reg, Config{Theme: "default", MaxOutputLines: 1000})
	m = m.handleResize(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestHandleResize(t *testing.T) {
	m := newTestModel(&stubDispatcher{})
	if !m.ready {
		t.Fatal("model should be ready after the first resize")
	}
	if m.viewport.Width != 80 {
		t.Errorf("viewport width = %d, want 80", m.viewport.Width)
	}
	if m.viewport.Height >= 24 {
		t.Errorf("viewport height = %d, should leave room for chrome", m.viewport.Height)
	}
}

func TestRenderTranscript_GreetingWhenEmpty(t *testing.T) {
	m := newTestModel(&stubDispatcher{})
	out := m.renderTranscript()
	if !strings.Contains(out, "What are we developing today?") {
		t.Errorf("empty transcript should show the greeting, got:\n%s", out)
	}
}

func TestRenderTranscript_ActionHintOnEligibleMessage(t *testing.T) {
	m := newTestModel(&stubDispatcher{reply: protocol.Reply{Text: "stories", Kind: protocol.FieldMatch}})
	if err := m.conv.SendUserTurn(context.Background(), "an app", nil); err != nil {
		t.Fatal(err)
	}

	out := m.renderTranscript()
	for _, want := range []string{"stories", "Modify", "Continue"} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q:\n%s", want, out)
		}
	}

	// Terminal stage: hint disappears
	m.conv.HandleContinue(1)
	msgs := m.conv.Messages()
	m.conv.HandleContinue(len(msgs) - 1)
	msgs = m.conv.Messages()
	m.conv.HandleContinue(len(msgs) - 1)
	if m.conv.Artifact() != stage.Conversation {
		t.Fatalf("Artifact = %s", m.conv.Artifact())
	}
	out = m.renderTranscript()
	if strings.Contains(out, "[ctrl+e] Modify") {
		t.Error("terminal stage should not offer actions")
	}
}

func TestHandleKey_ContinueAdvancesStage(t *testing.T) {
	m := newTestModel(&stubDispatcher{reply: protocol.Reply{Text: "stories", Kind: protocol.FieldMatch}})
	if err := m.conv.SendUserTurn(context.Background(), "an app", nil); err != nil {
		t.Fatal(err)
	}

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = next.(Model)

	if m.conv.Artifact() != stage.Diagram {
		t.Errorf("Artifact = %s, want Diagram", m.conv.Artifact())
	}
}

func TestHandleCommand_Attach(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("details"), 0644); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(&stubDispatcher{})
	m = m.handleCommand("/attach " + path)

	if len(m.staged) != 1 {
		t.Fatalf("staged = %v, want one id", m.staged)
	}
	refs := m.attachments.List()
	if len(refs) != 1 || refs[0].Name != "notes.txt" {
		t.Errorf("attachments = %+v", refs)
	}
	if !strings.Contains(m.statusMsg, "notes.txt") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestHandleCommand_Errors(t *testing.T) {
	m := newTestModel(&stubDispatcher{})

	m = m.handleCommand("/attach")
	if !strings.Contains(m.statusMsg, "Usage") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}

	m = m.handleCommand("/attach /no/such/file")
	if !strings.Contains(m.statusMsg, "Cannot read") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}

	m = m.handleCommand("/frobnicate")
	if !strings.Contains(m.statusMsg, "Unknown command") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestUpdate_NotificationLifecycle(t *testing.T) {
	m := newTestModel(&stubDispatcher{})

	next, cmd := m.Update(notificationMsg{Level: notify.LevelSuccess, Message: "Package ready"})
	m = next.(Model)
	if m.notif == nil || m.notif.Message != "Package ready" {
		t.Fatalf("notif = %+v", m.notif)
	}
	if cmd == nil {
		t.Fatal("expected an expiry tick command")
	}

	// Stale expiry is ignored
	next, _ = m.Update(notificationExpiredMsg{seq: m.notifSeq - 1})
	m = next.(Model)
	if m.notif == nil {
		t.Error("stale expiry must not clear a newer notification")
	}

	next, _ = m.Update(notificationExpiredMsg{seq: m.notifSeq})
	m = next.(Model)
	if m.notif != nil {
		t.Error("matching expiry should clear the notification")
	}
}

func TestGateMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"busy", conversation.ErrBusy, "Still working"},
		{"pending attachment", conversation.ErrAttachmentPending, "attachments are still being processed"},
		{"empty input swallowed", conversation.ErrEmptyMessage, ""},
		{"other error passes through", fmt.Errorf("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gateMessage(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("gateMessage = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("gateMessage = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

func TestView_ContainsChrome(t *testing.T) {
	m := newTestModel(&stubDispatcher{})
	out := m.View()
	for _, want := range []string{"Forgeline", "modify", "continue"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q", want)
		}
	}
}
