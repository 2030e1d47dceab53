package classify

import (
	"testing"

	"github.com/forgeline-ai/forgeline/internal/stage"
)

func TestClassify_OverrideBeatsEverything(t *testing.T) {
	c := New()
	override := Diagram

	// Content that would otherwise classify as markup in every stage.
	in := Input{
		Text:     "# Heading\n\n- item",
		FromBot:  true,
		Artifact: stage.Documentation,
		Override: &override,
	}
	if got := c.Classify(in); got != Diagram {
		t.Errorf("Override should win, got %s", got)
	}

	override = Plain
	in.Artifact = stage.Code
	in.Text = "function main() {\n  return 1;\n}"
	if got := c.Classify(in); got != Plain {
		t.Errorf("Override should win in Code stage too, got %s", got)
	}
}

func TestClassify_ConversationStage(t *testing.T) {
	c := New()

	got := c.Classify(Input{Text: "just plain words", FromBot: true, Artifact: stage.Conversation})
	if got != Plain {
		t.Errorf("Plain conversation text classified as %s", got)
	}

	got = c.Classify(Input{Text: "**bold** statement", FromBot: true, Artifact: stage.Conversation})
	if got != Markup {
		t.Errorf("Markdown conversation text classified as %s", got)
	}

	// Code-looking text in Conversation stage without markdown stays plain:
	// the conversation rule claims the input before the code heuristic runs.
	got = c.Classify(Input{Text: "x = 1\ny = 2", FromBot: true, Artifact: stage.Conversation})
	if got != Plain {
		t.Errorf("Conversation stage should not fall through, got %s", got)
	}
}

func TestClassify_BotCodeStage(t *testing.T) {
	c := New()

	code := "function add(a, b) {\n  return a + b;\n}"
	got := c.Classify(Input{Text: code, FromBot: true, Artifact: stage.Code})
	if got != Code {
		t.Errorf("Dense code classified as %s", got)
	}

	// Low-density text falls through; with no markdown it ends up plain.
	prose := "Here is a description of the project.\nIt has several parts.\nNothing code-like at all."
	got = c.Classify(Input{Text: prose, FromBot: true, Artifact: stage.Code})
	if got != Plain {
		t.Errorf("Prose in Code stage classified as %s", got)
	}

	// User messages never hit the code rule.
	got = c.Classify(Input{Text: code, FromBot: false, Artifact: stage.Code})
	if got != Plain {
		t.Errorf("User code message classified as %s", got)
	}
}

func TestClassify_BotDocumentationAndDiagramAlwaysMarkup(t *testing.T) {
	c := New()

	for _, s := range []stage.ArtifactStage{stage.Documentation, stage.Diagram} {
		got := c.Classify(Input{Text: "no markup here", FromBot: true, Artifact: s})
		if got != Markup {
			t.Errorf("Bot message in %s stage classified as %s, want %s", s, got, Markup)
		}
	}
}

func TestClassify_MarkdownFallback(t *testing.T) {
	c := New()

	got := c.Classify(Input{Text: "see [docs](https://example.com)", FromBot: false, Artifact: stage.Documentation})
	if got != Markup {
		t.Errorf("User markdown classified as %s", got)
	}

	got = c.Classify(Input{Text: "nothing special", FromBot: false, Artifact: stage.Documentation})
	if got != Plain {
		t.Errorf("Plain user text classified as %s", got)
	}
}

func TestNewWithRules(t *testing.T) {
	always := Rule{
		Name: "always-code",
		Apply: func(Input) (RenderKind, bool) {
			return Code, true
		},
	}
	c := NewWithRules([]Rule{always})

	got := c.Classify(Input{Text: "# markdown", FromBot: true, Artifact: stage.Documentation})
	if got != Code {
		t.Errorf("Custom rule list ignored, got %s", got)
	}
	if len(c.Rules()) != 1 {
		t.Errorf("Expected 1 rule, got %d", len(c.Rules()))
	}
}

func TestClassify_EmptyRuleListDefaultsPlain(t *testing.T) {
	c := NewWithRules(nil)
	if got := c.Classify(Input{Text: "# markdown"}); got != Plain {
		t.Errorf("Expected Plain with no rules, got %s", got)
	}
}
