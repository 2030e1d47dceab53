// Package styles centralizes lipgloss styling for the TUI.
package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeMonokai ThemeName = "monokai" // Classic Monokai editor colors
	ThemeDracula ThemeName = "dracula" // Dracula theme colors
	ThemeNord    ThemeName = "nord"    // Nord theme - cool blue-gray
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeMonokai),
		string(ThemeDracula),
		string(ThemeNord),
	}
}

// IsValidTheme checks if a theme name is valid.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// Palette holds the raw colors of a theme.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color
}

// ForTheme returns the palette for a theme name, falling back to the
// default palette for unknown names.
func ForTheme(name string) Palette {
	switch ThemeName(name) {
	case ThemeMonokai:
		return Palette{
			Primary:   lipgloss.Color("#F92672"), // Pink
			Secondary: lipgloss.Color("#A6E22E"), // Green
			Warning:   lipgloss.Color("#E6DB74"), // Yellow
			Error:     lipgloss.Color("#F92672"), // Pink
			Muted:     lipgloss.Color("#75715E"), // Brown-gray
			Surface:   lipgloss.Color("#272822"), // Dark olive
			Text:      lipgloss.Color("#F8F8F2"), // Off-white
			Border:    lipgloss.Color("#75715E"),
		}
	case ThemeDracula:
		return Palette{
			Primary:   lipgloss.Color("#BD93F9"), // Purple
			Secondary: lipgloss.Color("#50FA7B"), // Green
			Warning:   lipgloss.Color("#F1FA8C"), // Yellow
			Error:     lipgloss.Color("#FF5555"), // Red
			Muted:     lipgloss.Color("#6272A4"), // Comment blue
			Surface:   lipgloss.Color("#282A36"), // Background
			Text:      lipgloss.Color("#F8F8F2"), // Foreground
			Border:    lipgloss.Color("#6272A4"),
		}
	case ThemeNord:
		return Palette{
			Primary:   lipgloss.Color("#88C0D0"), // Frost cyan
			Secondary: lipgloss.Color("#A3BE8C"), // Aurora green
			Warning:   lipgloss.Color("#EBCB8B"), // Aurora yellow
			Error:     lipgloss.Color("#BF616A"), // Aurora red
			Muted:     lipgloss.Color("#4C566A"), // Polar night
			Surface:   lipgloss.Color("#2E3440"), // Polar night base
			Text:      lipgloss.Color("#ECEFF4"), // Snow storm
			Border:    lipgloss.Color("#4C566A"),
		}
	default:
		// Colors meet WCAG AA contrast (4.5:1) on dark surfaces
		return Palette{
			Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
			Secondary: lipgloss.Color("#10B981"), // Green
			Warning:   lipgloss.Color("#F59E0B"), // Amber
			Error:     lipgloss.Color("#F87171"), // Red (red-400)
			Muted:     lipgloss.Color("#9CA3AF"), // Gray
			Surface:   lipgloss.Color("#1F2937"), // Dark surface
			Text:      lipgloss.Color("#F9FAFB"), // Light text
			Border:    lipgloss.Color("#6B7280"), // Gray (gray-500)
		}
	}
}

// Set bundles the derived styles the TUI renders with.
type Set struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	HelpKey  lipgloss.Style
	HelpText lipgloss.Style

	UserLabel lipgloss.Style
	BotLabel  lipgloss.Style
	Timestamp lipgloss.Style

	PlainText   lipgloss.Style
	MarkupText  lipgloss.Style
	CodeBlock   lipgloss.Style
	DiagramHint lipgloss.Style
	ErrorText   lipgloss.Style

	ActionHint     lipgloss.Style
	ActionDisabled lipgloss.Style
	InputPrompt    lipgloss.Style
	Spinner        lipgloss.Style

	NotifyInfo    lipgloss.Style
	NotifySuccess lipgloss.Style
	NotifyWarning lipgloss.Style
	NotifyError   lipgloss.Style
}

// NewSet derives the style set from a palette.
func NewSet(p Palette) Set {
	return Set{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Header: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 1),
		HelpKey:  lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		HelpText: lipgloss.NewStyle().Foreground(p.Muted),

		UserLabel: lipgloss.NewStyle().Foreground(p.Secondary).Bold(true),
		BotLabel:  lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Timestamp: lipgloss.NewStyle().Foreground(p.Muted),

		PlainText:  lipgloss.NewStyle().Foreground(p.Text),
		MarkupText: lipgloss.NewStyle().Foreground(p.Text),
		CodeBlock: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Background(p.Surface).
			Padding(0, 1),
		DiagramHint: lipgloss.NewStyle().Foreground(p.Warning).Italic(true),
		ErrorText:   lipgloss.NewStyle().Foreground(p.Error),

		ActionHint:     lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		ActionDisabled: lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true),
		InputPrompt:    lipgloss.NewStyle().Foreground(p.Primary),
		Spinner:        lipgloss.NewStyle().Foreground(p.Primary),

		NotifyInfo:    lipgloss.NewStyle().Foreground(p.Text),
		NotifySuccess: lipgloss.NewStyle().Foreground(p.Secondary).Bold(true),
		NotifyWarning: lipgloss.NewStyle().Foreground(p.Warning),
		NotifyError:   lipgloss.NewStyle().Foreground(p.Error).Bold(true),
	}
}
