package filesystem

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

const maxReadBytes = 256 * 1024

func readFileImpl(fs FileSystem, repoRoot, path string, startLine, endLine int) (string, error) {
	abs, err := resolve(repoRoot, path)
	if err != nil {
		return "", err
	}

	data, err := fs.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > maxReadBytes {
		data = data[:maxReadBytes]
	}

	if startLine <= 0 && endLine <= 0 {
		return string(data), nil
	}

	lines := strings.Split(string(data), "\n")
	if startLine <= 0 {
		startLine = 1
	}
	if endLine <= 0 || endLine > len(lines) {
		endLine = len(lines)
	}
	if startLine > len(lines) {
		return "", fmt.Errorf("start_line %d is past the end of %s (%d lines)", startLine, path, len(lines))
	}
	if endLine < startLine {
		return "", fmt.Errorf("end_line %d is before start_line %d", endLine, startLine)
	}

	var b strings.Builder
	for i := startLine; i <= endLine; i++ {
		fmt.Fprintf(&b, "%d: %s\n", i, lines[i-1])
	}
	return b.String(), nil
}

// NewReadFileTool creates the read_file tool rooted at repoRoot.
// Successful reads are retained as essential context across compactions.
func NewReadFileTool(repoRoot string) engine.Tool {
	return newReadFileTool(NewOSFileSystem(), repoRoot)
}

func newReadFileTool(fs FileSystem, repoRoot string) engine.Tool {
	return engine.Tool{
		Name:        "read_file",
		Description: "Reads a file from the repository. Optionally restricts output to a line range, with line numbers.",
		SchemaJSON:  `{"type":"object","properties":{"file_path":{"type":"string","description":"Path to the file relative to the repository root"},"start_line":{"type":"integer","description":"First line to return (1-based, optional)"},"end_line":{"type":"integer","description":"Last line to return (inclusive, optional)"}},"required":["file_path"]}`,
		Kind:        engine.KindRead,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			path, ok := args["file_path"].(string)
			if !ok || strings.TrimSpace(path) == "" {
				return "", fmt.Errorf("file_path must be a non-empty string")
			}
			return readFileImpl(fs, repoRoot, path, intArg(args, "start_line"), intArg(args, "end_line"))
		},
	}
}

// intArg extracts an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
