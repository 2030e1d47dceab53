// Package classify decides how a conversation message should be rendered.
//
// Classification is intentionally shallow: ordered pattern heuristics over
// the message text combined with who sent it and which artifact stage the
// conversation is in. The precedence is expressed as a rule list rather than
// nested conditionals so callers can inspect, extend, or replace individual
// rules without touching the others.
package classify

import "github.com/forgeline-ai/forgeline/internal/stage"

// RenderKind is the classification that determines how the rendering
// collaborator presents a message.
type RenderKind string

const (
	// Plain renders the text verbatim.
	Plain RenderKind = "plain"
	// Markup renders the text as rich markup (markdown).
	Markup RenderKind = "markup"
	// Diagram renders the text as diagram source.
	Diagram RenderKind = "diagram"
	// Code renders the text as source code.
	Code RenderKind = "code"
)

// Input carries everything a rule may consult when classifying a message.
type Input struct {
	Text     string
	FromBot  bool
	Artifact stage.ArtifactStage
	// Override, when set, is a render-kind decision already attached to the
	// message. It beats every heuristic.
	Override *RenderKind
}

// Rule inspects an input and either claims it with a render kind or passes.
type Rule struct {
	Name  string
	Apply func(Input) (RenderKind, bool)
}

// Classifier runs an ordered rule list, first claim wins.
type Classifier struct {
	rules []Rule
}

// New returns a classifier with the default rule order:
//
//  1. explicit per-message override
//  2. Conversation stage: markup iff generic markdown patterns match
//  3. bot messages in Code stage: code-density heuristic
//  4. bot messages in Documentation or Diagram stage: always markup
//  5. generic markdown pattern fallback
func New() *Classifier {
	return &Classifier{rules: defaultRules()}
}

// NewWithRules returns a classifier using exactly the given rules, in order.
// Heuristic policy is swappable on purpose: false positives here silently
// change which affordances the UI shows.
func NewWithRules(rules []Rule) *Classifier {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return &Classifier{rules: out}
}

// Rules returns a copy of the active rule list.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify returns the render kind for the given input. When no rule claims
// the input, the result is Plain.
func (c *Classifier) Classify(in Input) RenderKind {
	for _, rule := range c.rules {
		if kind, ok := rule.Apply(in); ok {
			return kind
		}
	}
	return Plain
}

func defaultRules() []Rule {
	return []Rule{
		{
			Name: "explicit-override",
			Apply: func(in Input) (RenderKind, bool) {
				if in.Override != nil {
					return *in.Override, true
				}
				return "", false
			},
		},
		{
			Name: "conversation-stage",
			Apply: func(in Input) (RenderKind, bool) {
				if in.Artifact != stage.Conversation {
					return "", false
				}
				if HasMarkdownPatterns(in.Text) {
					return Markup, true
				}
				return Plain, true
			},
		},
		{
			Name: "bot-code-stage",
			Apply: func(in Input) (RenderKind, bool) {
				if in.FromBot && in.Artifact == stage.Code && IsCodeContent(in.Text) {
					return Code, true
				}
				return "", false
			},
		},
		{
			Name: "bot-document-stages",
			Apply: func(in Input) (RenderKind, bool) {
				if in.FromBot && (in.Artifact == stage.Documentation || in.Artifact == stage.Diagram) {
					return Markup, true
				}
				return "", false
			},
		},
		{
			Name: "markdown-fallback",
			Apply: func(in Input) (RenderKind, bool) {
				if HasMarkdownPatterns(in.Text) {
					return Markup, true
				}
				return "", false
			},
		},
	}
}
