// Package protocol normalizes heterogeneous backend payloads into a single
// canonical reply.
//
// The generation service grew one action family at a time and each family
// names its answer differently (jira_stories, diagram, code, response, ...).
// Normalization reconstructs a tagged union by trying fields in a fixed
// order, so callers never special-case by artifact stage when reading a
// reply.
package protocol

import (
	"encoding/json"
	"strings"
)

// Reply templates, kept verbatim so the client wording is stable across
// releases.
const (
	// AffirmationPrefix introduces requirements the backend validated.
	AffirmationPrefix = "Based on your input, I understand that you need:\n\n"
	// RewritePrefix introduces requirements the backend rewrote.
	RewritePrefix = "I re-wrote your requirements to make them robust. Let me know if they are what you wanted:\n\n"
	// ValidationFallback is used when a validation error arrives with no
	// rewritten text at all.
	ValidationFallback = "Your requirements need to be more detailed. Please provide additional information."
)

// validationErrorMarker identifies the error string the requirements
// validator emits.
const validationErrorMarker = "Requirement validation failed"

// Kind discriminates how a reply was reconstructed from the raw payload.
type Kind string

const (
	// Validated means the payload carried a validation_result verdict.
	Validated Kind = "validated"
	// ErrorEnvelope means the payload carried a recognized error field.
	ErrorEnvelope Kind = "error_envelope"
	// FieldMatch means one of the known answer fields was present.
	FieldMatch Kind = "field_match"
	// RawFallback means no known field matched and the whole payload was
	// serialized.
	RawFallback Kind = "raw_fallback"
)

// Reply is the canonical form of a backend response.
type Reply struct {
	// Text is the single normalized reply string.
	Text string
	// Kind records which branch of the precedence produced Text.
	Kind Kind
	// Field is the payload field that supplied Text, when Kind is
	// FieldMatch.
	Field string
	// Validation is the backend's verdict when Kind is Validated.
	Validation *bool
}

// answerFields is the fixed probe order for plain answer payloads.
var answerFields = []string{
	"jira_stories", "diagram", "code", "modified_content",
	"response", "stories", "content", "data",
}

// Normalize maps an arbitrary decoded payload to its canonical reply. It
// never fails: unknown shapes fall back to a pretty-printed dump of the
// whole payload.
func Normalize(payload map[string]any) Reply {
	if verdict, ok := payload["validation_result"].(bool); ok {
		if verdict {
			text := firstText(payload, "requirements", "jira_stories", "content")
			return Reply{
				Text:       AffirmationPrefix + text,
				Kind:       Validated,
				Validation: &verdict,
			}
		}
		text := firstText(payload, "rewritten_requirements", "requirements", "content")
		return Reply{
			Text:       RewritePrefix + text,
			Kind:       Validated,
			Validation: &verdict,
		}
	}

	if errText, ok := payload["error"].(string); ok && strings.Contains(errText, validationErrorMarker) {
		text := firstText(payload, "rewritten_requirements", "requirements")
		if text == "" {
			text = ValidationFallback
		}
		return Reply{Text: text, Kind: ErrorEnvelope}
	}

	for _, field := range answerFields {
		if value, ok := payload[field]; ok {
			if text := stringify(value); text != "" {
				return Reply{Text: text, Kind: FieldMatch, Field: field}
			}
		}
	}

	return Reply{Text: dump(payload), Kind: RawFallback}
}

// NormalizeBytes decodes raw JSON and normalizes it. Non-object payloads
// and malformed JSON fall back to the raw text.
func NormalizeBytes(raw []byte) Reply {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		return Reply{Text: string(raw), Kind: RawFallback}
	}
	return Normalize(payload)
}

// firstText returns the stringified value of the first present field.
func firstText(payload map[string]any, fields ...string) string {
	for _, field := range fields {
		if value, ok := payload[field]; ok {
			if text := stringify(value); text != "" {
				return text
			}
		}
	}
	return ""
}

// stringify renders a payload value as reply text. Strings pass through;
// structured values are pretty-printed.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return dump(v)
	}
}

func dump(value any) string {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		// Map values decoded from JSON always re-marshal; this guards
		// hand-constructed payloads containing unsupported types.
		return ""
	}
	return string(out)
}
