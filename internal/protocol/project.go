package protocol

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// ProjectFile is one generated file inside a project bundle.
type ProjectFile struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

// ProjectBundle is the asynchronous envelope the code generator returns when
// it produced a whole project instead of an inline snippet. The packaged
// archive is retrieved separately in the background.
type ProjectBundle struct {
	ProjectID    string        `json:"project_id"`
	Technologies []string      `json:"technologies"`
	Files        []ProjectFile `json:"files"`
	Readme       string        `json:"readme"`
	Message      string        `json:"message"`
}

// ParseProjectBundle extracts a project bundle from a decoded payload. It
// reports false when the payload is not a bundle envelope.
func ParseProjectBundle(payload map[string]any) (*ProjectBundle, bool) {
	id, ok := payload["project_id"].(string)
	if !ok || id == "" {
		return nil, false
	}

	bundle := &ProjectBundle{ProjectID: id}
	if techs, ok := payload["technologies"].([]any); ok {
		for _, t := range techs {
			if s, ok := t.(string); ok {
				bundle.Technologies = append(bundle.Technologies, s)
			}
		}
	}
	if files, ok := payload["files"].([]any); ok {
		for _, f := range files {
			entry, ok := f.(map[string]any)
			if !ok {
				continue
			}
			file := ProjectFile{}
			file.Path, _ = entry["path"].(string)
			file.Language, _ = entry["language"].(string)
			if file.Path != "" {
				bundle.Files = append(bundle.Files, file)
			}
		}
	}
	bundle.Readme, _ = payload["readme"].(string)
	bundle.Message, _ = payload["message"].(string)
	return bundle, true
}

// fileIcons maps file extensions to the icon shown in the project tree.
var fileIcons = map[string]string{
	".js":   "📜",
	".jsx":  "📜",
	".ts":   "📜",
	".tsx":  "📜",
	".py":   "🐍",
	".java": "☕",
	".html": "🌐",
	".css":  "🎨",
	".json": "📋",
	".md":   "📖",
	".sql":  "🗄️",
	".yml":  "⚙️",
	".yaml": "⚙️",
}

const (
	dirIcon         = "📁"
	defaultFileIcon = "📄"
)

// FileIcon returns the tree icon for a file name.
func FileIcon(name string) string {
	if icon, ok := fileIcons[strings.ToLower(path.Ext(name))]; ok {
		return icon
	}
	return defaultFileIcon
}

// Summary renders the bundle as a human-readable bot reply: project id,
// technologies, the directory tree, and a manual-download reference. The
// summary is returned immediately; the archive download happens in the
// background.
func (b *ProjectBundle) Summary() string {
	var sb strings.Builder
	sb.WriteString("🎉 **Project generated successfully!**\n\n")
	fmt.Fprintf(&sb, "**Project ID:** %s\n\n", b.ProjectID)
	if len(b.Technologies) > 0 {
		fmt.Fprintf(&sb, "**Technologies:** %s\n\n", strings.Join(b.Technologies, ", "))
	}
	if len(b.Files) > 0 {
		sb.WriteString("**Project structure:**\n")
		sb.WriteString(b.Tree())
		sb.WriteString("\n")
	}
	if b.Message != "" {
		sb.WriteString(b.Message + "\n\n")
	}
	if b.Readme != "" {
		sb.WriteString(b.Readme + "\n\n")
	}
	fmt.Fprintf(&sb, "Your project package is being prepared and will download automatically. "+
		"If it does not, use project ID `%s` to download it manually.", b.ProjectID)
	return sb.String()
}

// treeNode is one directory level of the rendered project tree.
type treeNode struct {
	dirs  map[string]*treeNode
	files []string
}

func newTreeNode() *treeNode {
	return &treeNode{dirs: map[string]*treeNode{}}
}

// Tree renders the bundle's files as indented lines, directories first,
// sorted at every level.
func (b *ProjectBundle) Tree() string {
	root := newTreeNode()
	for _, file := range b.Files {
		parts := strings.Split(path.Clean(file.Path), "/")
		node := root
		for _, part := range parts[:len(parts)-1] {
			if part == "" || part == "." {
				continue
			}
			child, ok := node.dirs[part]
			if !ok {
				child = newTreeNode()
				node.dirs[part] = child
			}
			node = child
		}
		if name := parts[len(parts)-1]; name != "" && name != "." {
			node.files = append(node.files, name)
		}
	}

	var sb strings.Builder
	writeTree(&sb, root, 0)
	return sb.String()
}

func writeTree(sb *strings.Builder, node *treeNode, depth int) {
	indent := strings.Repeat("  ", depth)

	names := make([]string, 0, len(node.dirs))
	for name := range node.dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sb, "%s%s %s/\n", indent, dirIcon, name)
		writeTree(sb, node.dirs[name], depth+1)
	}

	files := append([]string{}, node.files...)
	sort.Strings(files)
	for _, name := range files {
		fmt.Fprintf(sb, "%s%s %s\n", indent, FileIcon(name), name)
	}
}
