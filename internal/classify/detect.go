package classify

import (
	"regexp"
	"strings"
)

// markdownPatterns are the generic rich-text signals: headers, emphasis,
// inline and fenced code, lists, block quotes, links.
var markdownPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#+\s`),
	regexp.MustCompile(`\*\*.*\*\*`),
	regexp.MustCompile(`\*.*\*`),
	regexp.MustCompile("`.*`"),
	regexp.MustCompile("(?s)```.*```"),
	regexp.MustCompile(`(?m)^\s*[-*+]\s`),
	regexp.MustCompile(`(?m)^\s*\d+\.\s`),
	regexp.MustCompile(`(?m)^\s*>`),
	regexp.MustCompile(`\[.*\]\(.*\)`),
}

// HasMarkdownPatterns reports whether the text contains any generic
// rich-text markup signal.
func HasMarkdownPatterns(text string) bool {
	if text == "" {
		return false
	}
	for _, pattern := range markdownPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// codeIndicators match a single line that looks like source code: function,
// class and import signatures, brace or semicolon line endings, markup tags,
// CSS selectors and properties.
var codeIndicators = []*regexp.Regexp{
	regexp.MustCompile(`function\s+\w+\s*\(`),
	regexp.MustCompile(`def\s+\w+\s*\(`),
	regexp.MustCompile(`public\s+\w+\s+\w+\s*\(`),
	regexp.MustCompile(`private\s+\w+\s+\w+\s*\(`),
	regexp.MustCompile(`func\s+\w+\s*\(`),
	regexp.MustCompile(`class\s+\w+`),
	regexp.MustCompile(`import\s+`),
	regexp.MustCompile(`from\s+\w+\s+import`),
	regexp.MustCompile(`#include\s*<`),
	regexp.MustCompile(`\{\s*$`),
	regexp.MustCompile(`^\s*\}`),
	regexp.MustCompile(`;\s*$`),
	regexp.MustCompile(`<[^>]+>`),
	regexp.MustCompile(`\.[a-zA-Z-]+\s*\{`),
	regexp.MustCompile(`#[a-zA-Z-]+\s*\{`),
	regexp.MustCompile(`[a-zA-Z-]+\s*:\s*[^;]+;`),
}

// codeDensityThreshold is the fraction of non-blank lines that must look
// like code before a message is classified as code.
const codeDensityThreshold = 0.3

// IsCodeContent reports whether more than 30% of the non-blank lines in the
// text match a code-like pattern.
func IsCodeContent(text string) bool {
	if text == "" {
		return false
	}

	var nonEmpty, codeLike int
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nonEmpty++
		for _, pattern := range codeIndicators {
			if pattern.MatchString(line) {
				codeLike++
				break
			}
		}
	}
	if nonEmpty == 0 {
		return false
	}
	return float64(codeLike)/float64(nonEmpty) > codeDensityThreshold
}

// diagramKeywords are the leading tokens of known diagram syntaxes.
var diagramKeywords = []string{
	"graph", "flowchart", "sequencediagram", "classdiagram", "statediagram",
	"erdiagram", "gantt", "pie", "gitgraph", "mindmap", "timeline",
	"journey", "quadrantchart", "requirementdiagram", "c4context",
}

var (
	fenceOpen  = regexp.MustCompile("^```(?:mermaid)?\\s*\n?")
	fenceClose = regexp.MustCompile("\n?```\\s*$")
)

// IsDiagramSource reports whether the text looks like diagram source: after
// stripping fence markers, some line starts with a known diagram keyword.
//
// This detector is consulted by the rendering collaborator to decide how to
// draw markup-classified content that embeds diagram blocks; it is not part
// of the stage-based classification precedence.
func IsDiagramSource(text string) bool {
	if text == "" {
		return false
	}

	clean := fenceOpen.ReplaceAllString(text, "")
	clean = fenceClose.ReplaceAllString(clean, "")
	for _, line := range strings.Split(strings.TrimSpace(clean), "\n") {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		for _, keyword := range diagramKeywords {
			if strings.HasPrefix(trimmed, keyword) {
				return true
			}
		}
	}
	return false
}

// knownLanguages is the fixed vocabulary for language extraction, checked
// in order.
var knownLanguages = []string{
	"Python", "JavaScript", "Java", "C++", "C#", "PHP", "Ruby", "Go",
	"Swift", "Kotlin", "SQL", "HTML", "CSS",
}

// ProgrammingLanguage returns the first known language mentioned as a whole
// word in the input, or the empty string.
func ProgrammingLanguage(text string) string {
	for _, lang := range knownLanguages {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(lang) + `\b`)
		if pattern.MatchString(text) {
			return lang
		}
	}
	return ""
}
