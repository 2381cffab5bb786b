package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

func writeFileImpl(fs FileSystem, repoRoot, path, content string) (string, error) {
	abs, err := resolve(repoRoot, path)
	if err != nil {
		return "", err
	}

	if err := fs.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := fs.WriteFile(abs, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	result := map[string]interface{}{
		"file_path": path,
		"bytes":     len(content),
		"success":   true,
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", err
	}

	return string(resultJSON), nil
}

// NewWriteFileTool creates the write_file tool rooted at repoRoot. A
// successful result arms the compaction trigger, so this is the only tool
// whose outcome changes the shape of the conversation.
func NewWriteFileTool(repoRoot string) engine.Tool {
	return newWriteFileTool(NewOSFileSystem(), repoRoot)
}

func newWriteFileTool(fs FileSystem, repoRoot string) engine.Tool {
	return engine.Tool{
		Name:        "write_file",
		Description: "Writes content to a file. Creates the file and any missing parent directories; overwrites if the file exists.",
		SchemaJSON:  `{"type":"object","properties":{"file_path":{"type":"string","description":"Path to the file relative to the repository root"},"content":{"type":"string","description":"Content to write to the file"}},"required":["file_path","content"]}`,
		Kind:        engine.KindWrite,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			path, ok := args["file_path"].(string)
			if !ok || strings.TrimSpace(path) == "" {
				return "", fmt.Errorf("file_path must be a non-empty string")
			}
			content, ok := args["content"].(string)
			if !ok {
				return "", fmt.Errorf("content must be a string")
			}
			return writeFileImpl(fs, repoRoot, path, content)
		},
	}
}
