// Package internal contains integration tests that verify the packages work
// together: a conversation backed by the real dispatcher and HTTP client
// against a scripted backend.
package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/forgeline-ai/forgeline/internal/attach"
	"github.com/forgeline-ai/forgeline/internal/backend"
	"github.com/forgeline-ai/forgeline/internal/classify"
	"github.com/forgeline-ai/forgeline/internal/conversation"
	"github.com/forgeline-ai/forgeline/internal/dispatch"
	"github.com/forgeline-ai/forgeline/internal/notify"
	"github.com/forgeline-ai/forgeline/internal/protocol"
	"github.com/forgeline-ai/forgeline/internal/stage"
)

// newBackend starts a scripted generation service and returns a conversation
// wired through the real client and dispatcher.
func newBackend(t *testing.T, handler http.Handler) (*conversation.Conversation, *dispatch.Dispatcher, *notify.Sink) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := backend.New(srv.URL, backend.WithTimeout(5*time.Second))
	sink := notify.NewSink(8)
	d := dispatch.New(client, sink)
	conv := conversation.New("u1", d, attach.NewRegistry(attach.PlainText{}))
	return conv, d, sink
}

func respond(t *testing.T, w http.ResponseWriter, payload map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// TestFullStageWalk drives a conversation from documentation through code
// generation against a scripted backend, checking routing, normalization,
// and classification at each step.
func TestFullStageWalk(t *testing.T) {
	var gotPaths []string
	mux := http.NewServeMux()
	mux.HandleFunc("/documentation/generate", func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		respond(t, w, map[string]any{"jira_stories": "## Stories\n\n- login"})
	})
	mux.HandleFunc("/documentation/modify", func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		respond(t, w, map[string]any{"modified_content": "## Stories\n\n- login\n- signup"})
	})
	mux.HandleFunc("/diagram/generate", func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		respond(t, w, map[string]any{"diagram": "flowchart TD\n  A --> B"})
	})
	mux.HandleFunc("/code/generate-project", func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		respond(t, w, map[string]any{
			"project_id":   "proj-1",
			"technologies": []string{"React", "FastAPI"},
			"files": []any{
				map[string]any{"path": "src/App.jsx", "language": "javascript"},
				map[string]any{"path": "api/main.py", "language": "python"},
			},
		})
	})
	mux.HandleFunc("/code/download-zip/proj-1", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, map[string]any{"download_url": "https://cdn.example.com/proj-1.zip"})
	})

	conv, d, sink := newBackend(t, mux)
	ctx := context.Background()

	// Documentation / Creating
	if err := conv.SendUserTurn(ctx, "an inventory tracker", nil); err != nil {
		t.Fatalf("documentation turn failed: %v", err)
	}
	msgs := conv.Messages()
	reply := msgs[len(msgs)-1]
	if !strings.Contains(reply.Text, "- login") {
		t.Errorf("documentation reply = %q", reply.Text)
	}
	if reply.RenderKind != classify.Markup {
		t.Errorf("documentation RenderKind = %s", reply.RenderKind)
	}

	// Modify documentation
	conv.HandleModify(len(msgs) - 1)
	if err := conv.SendUserTurn(ctx, "add a signup story", nil); err != nil {
		t.Fatalf("modify turn failed: %v", err)
	}

	// Continue to diagram
	msgs = conv.Messages()
	conv.HandleContinue(len(msgs) - 1)
	if conv.Artifact() != stage.Diagram || conv.Generation() != stage.Creating {
		t.Fatalf("stage = %s/%s", conv.Artifact(), conv.Generation())
	}
	if err := conv.SendUserTurn(ctx, "sequence diagram", nil); err != nil {
		t.Fatalf("diagram turn failed: %v", err)
	}
	msgs = conv.Messages()
	if msgs[len(msgs)-1].RenderKind != classify.Markup {
		t.Errorf("diagram RenderKind = %s", msgs[len(msgs)-1].RenderKind)
	}
	if !classify.IsDiagramSource(msgs[len(msgs)-1].Text) {
		t.Errorf("reply should be detectable as diagram source: %q", msgs[len(msgs)-1].Text)
	}

	// Continue to code; generation returns a project bundle
	conv.HandleContinue(len(msgs) - 1)
	if err := conv.SendUserTurn(ctx, "react frontend, fastapi backend", nil); err != nil {
		t.Fatalf("code turn failed: %v", err)
	}
	msgs = conv.Messages()
	summary := msgs[len(msgs)-1].Text
	for _, want := range []string{"proj-1", "React", "📁 src/", "📜 App.jsx", "🐍 main.py"} {
		if !strings.Contains(summary, want) {
			t.Errorf("bundle summary missing %q:\n%s", want, summary)
		}
	}

	d.WaitForDownloads()
	select {
	case n := <-sink.Events():
		if n.Level != notify.LevelSuccess {
			t.Errorf("download notification level = %s", n.Level)
		}
		if n.ActionRef != "https://cdn.example.com/proj-1.zip" {
			t.Errorf("download ActionRef = %q", n.ActionRef)
		}
	default:
		t.Error("expected a package-ready notification")
	}

	wantPaths := []string{
		"/documentation/generate",
		"/documentation/modify",
		"/diagram/generate",
		"/code/generate-project",
	}
	if len(gotPaths) != len(wantPaths) {
		t.Fatalf("backend saw %v, want %v", gotPaths, wantPaths)
	}
	for i := range wantPaths {
		if gotPaths[i] != wantPaths[i] {
			t.Errorf("call %d = %s, want %s", i, gotPaths[i], wantPaths[i])
		}
	}
}

// TestValidationRejectionRoundTrip checks the requirement-validation shapes
// end to end: a rejection keeps the stage and preserves the rewrite text.
func TestValidationRejectionRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/documentation/generate", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, map[string]any{
			"validation_result": false,
			"rewritten_requirements": "Build a web application that tracks " +
				"warehouse inventory with user accounts.",
		})
	})

	conv, _, _ := newBackend(t, mux)

	if err := conv.SendUserTurn(context.Background(), "make app", nil); err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	msgs := conv.Messages()
	reply := msgs[len(msgs)-1]
	if !strings.HasPrefix(reply.Text, protocol.RewritePrefix) {
		t.Errorf("reply = %q, want rewrite preamble", reply.Text)
	}
	if conv.Artifact() != stage.Documentation {
		t.Errorf("stage advanced on rejection: %s", conv.Artifact())
	}
}

// TestBackendFailureRoundTrip checks that a 500 becomes an in-transcript
// apology without breaking the session.
func TestBackendFailureRoundTrip(t *testing.T) {
	fail := true
	mux := http.NewServeMux()
	mux.HandleFunc("/documentation/generate", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		respond(t, w, map[string]any{"response": "recovered"})
	})

	conv, _, _ := newBackend(t, mux)
	ctx := context.Background()

	if err := conv.SendUserTurn(ctx, "an app", nil); err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	msgs := conv.Messages()
	if !msgs[len(msgs)-1].IsError {
		t.Fatal("expected an error bot message")
	}

	// The next turn goes through on the same conversation.
	fail = false
	if err := conv.SendUserTurn(ctx, "an app, again", nil); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	msgs = conv.Messages()
	if msgs[len(msgs)-1].Text != "recovered" {
		t.Errorf("retry reply = %q", msgs[len(msgs)-1].Text)
	}
}
