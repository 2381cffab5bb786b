package workspace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseFileTree extracts the planned repository layout from a plan document.
// It reads the first fenced code block that looks like a file tree and
// returns the file paths it declares, in order. Two layouts are accepted:
// plain relative paths, one per line, or an ASCII tree with box-drawing
// glyphs where entries ending in "/" are directories.
func ParseFileTree(plan string) []string {
	block, ok := treeBlock(plan)
	if !ok {
		return nil
	}

	var (
		files []string
		stack []string // directory names by depth
	)

	scanner := bufio.NewScanner(strings.NewReader(block))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		depth, name := parseTreeLine(line)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}

		// The root directory line restarts the stack.
		if depth == 0 && strings.HasSuffix(name, "/") && len(files) == 0 {
			stack = stack[:0]
			continue
		}

		if depth < len(stack) {
			stack = stack[:depth]
		}

		if strings.HasSuffix(name, "/") {
			stack = append(stack, strings.TrimSuffix(name, "/"))
			continue
		}

		parts := append(append([]string{}, stack...), name)
		files = append(files, filepath.Join(parts...))
	}

	return files
}

// treeBlock returns the first fenced block containing either tree glyphs or
// path-like lines.
func treeBlock(plan string) (string, bool) {
	rest := plan
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			return "", false
		}
		rest = rest[start+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:] // drop the fence info string
		}
		end := strings.Index(rest, "```")
		if end < 0 {
			return "", false
		}
		block := rest[:end]
		if strings.ContainsAny(block, "├└│") || strings.Contains(block, "/") || strings.Contains(block, ".") {
			return block, true
		}
		rest = rest[end+3:]
	}
}

// parseTreeLine strips tree glyphs and returns the nesting depth and the
// entry name. Each glyph group or 4-space indent counts as one level.
func parseTreeLine(line string) (int, string) {
	depth := 0
	for {
		trimmed := false
		for _, prefix := range []string{"│   ", "    ", "│ ", "\t"} {
			if strings.HasPrefix(line, prefix) {
				line = line[len(prefix):]
				depth++
				trimmed = true
				break
			}
		}
		if !trimmed {
			break
		}
	}
	for _, prefix := range []string{"├── ", "└── ", "├─ ", "└─ "} {
		if strings.HasPrefix(line, prefix) {
			line = line[len(prefix):]
			break
		}
	}
	name := strings.TrimSpace(line)
	// Drop trailing comments like "model.py  # transformer blocks".
	if idx := strings.Index(name, "  "); idx > 0 {
		name = strings.TrimSpace(name[:idx])
	}
	return depth, name
}

// Bootstrap creates the planned files under repoRoot: parent directories
// plus empty placeholder files for anything that does not exist yet.
// Existing files are left untouched. It returns the paths it created.
func Bootstrap(repoRoot string, files []string) ([]string, error) {
	var created []string
	for _, rel := range files {
		abs := filepath.Join(repoRoot, rel)
		cleanRoot := filepath.Clean(repoRoot)
		if !strings.HasPrefix(filepath.Clean(abs), cleanRoot+string(filepath.Separator)) {
			return created, fmt.Errorf("planned path %s escapes repository root", rel)
		}

		if _, err := os.Stat(abs); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return created, fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(abs, nil, 0644); err != nil {
			return created, fmt.Errorf("failed to create %s: %w", rel, err)
		}
		created = append(created, rel)
	}
	return created, nil
}
