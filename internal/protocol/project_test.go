package protocol

import (
	"strings"
	"testing"
)

func TestParseProjectBundle(t *testing.T) {
	payload := map[string]any{
		"project_id":   "abc123",
		"technologies": []any{"React", "Node"},
		"files": []any{
			map[string]any{"path": "src/index.js", "language": "javascript"},
			map[string]any{"path": "package.json", "language": "json"},
		},
		"message": "Generated 2 files.",
	}

	bundle, ok := ParseProjectBundle(payload)
	if !ok {
		t.Fatal("ParseProjectBundle should recognize the envelope")
	}
	if bundle.ProjectID != "abc123" {
		t.Errorf("ProjectID = %q", bundle.ProjectID)
	}
	if len(bundle.Technologies) != 2 || bundle.Technologies[0] != "React" {
		t.Errorf("Technologies = %v", bundle.Technologies)
	}
	if len(bundle.Files) != 2 {
		t.Errorf("Files = %v", bundle.Files)
	}
}

func TestParseProjectBundle_NotABundle(t *testing.T) {
	if _, ok := ParseProjectBundle(map[string]any{"code": "x = 1"}); ok {
		t.Error("Payload without project_id should not parse as bundle")
	}
	if _, ok := ParseProjectBundle(map[string]any{"project_id": ""}); ok {
		t.Error("Empty project_id should not parse as bundle")
	}
}

func TestProjectBundle_Summary(t *testing.T) {
	bundle := &ProjectBundle{
		ProjectID:    "abc123",
		Technologies: []string{"React", "Node"},
		Files: []ProjectFile{
			{Path: "src/index.js", Language: "javascript"},
		},
	}

	summary := bundle.Summary()

	for _, want := range []string{
		"abc123",
		"React, Node",
		"📁 src/",
		"📜 index.js",
		"download it manually",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary missing %q:\n%s", want, summary)
		}
	}
}

func TestProjectBundle_Tree(t *testing.T) {
	bundle := &ProjectBundle{
		ProjectID: "p1",
		Files: []ProjectFile{
			{Path: "src/app/main.py"},
			{Path: "src/app/util.py"},
			{Path: "src/index.js"},
			{Path: "README.md"},
		},
	}

	tree := bundle.Tree()
	lines := strings.Split(strings.TrimRight(tree, "\n"), "\n")

	want := []string{
		"📁 src/",
		"  📁 app/",
		"    🐍 main.py",
		"    🐍 util.py",
		"  📜 index.js",
		"📖 README.md",
	}
	if len(lines) != len(want) {
		t.Fatalf("Tree has %d lines, want %d:\n%s", len(lines), len(want), tree)
	}
	for i, line := range want {
		if lines[i] != line {
			t.Errorf("Tree line %d = %q, want %q", i, lines[i], line)
		}
	}
}

func TestFileIcon(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"index.js", "📜"},
		{"app.tsx", "📜"},
		{"main.py", "🐍"},
		{"Main.java", "☕"},
		{"index.html", "🌐"},
		{"style.css", "🎨"},
		{"config.json", "📋"},
		{"README.md", "📖"},
		{"schema.sql", "🗄️"},
		{"binary.bin", "📄"},
	}
	for _, tt := range tests {
		if got := FileIcon(tt.name); got != tt.want {
			t.Errorf("FileIcon(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
