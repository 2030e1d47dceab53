package styles

import "testing"

func TestIsValidTheme(t *testing.T) {
	for _, name := range BuiltinThemes() {
		if !IsValidTheme(name) {
			t.Errorf("IsValidTheme(%q) = false", name)
		}
	}
	if IsValidTheme("solarized") {
		t.Error("IsValidTheme should reject unknown themes")
	}
}

func TestForTheme(t *testing.T) {
	tests := []struct {
		name        string
		wantPrimary string
	}{
		{"default", "#A78BFA"},
		{"monokai", "#F92672"},
		{"dracula", "#BD93F9"},
		{"nord", "#88C0D0"},
		{"unknown-falls-back", "#A78BFA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ForTheme(tt.name)
			if string(p.Primary) != tt.wantPrimary {
				t.Errorf("Primary = %s, want %s", p.Primary, tt.wantPrimary)
			}
			if p.Text == "" || p.Error == "" {
				t.Error("palette has empty colors")
			}
		})
	}
}

func TestNewSet(t *testing.T) {
	set := NewSet(ForTheme("default"))

	// Spot-check a few derived styles carry the palette through.
	if got := set.Title.GetForeground(); got != ForTheme("default").Primary {
		t.Errorf("Title foreground = %v", got)
	}
	if !set.UserLabel.GetBold() {
		t.Error("UserLabel should be bold")
	}
	if !set.ActionDisabled.GetStrikethrough() {
		t.Error("ActionDisabled should be struck through")
	}
}
