package filesystem

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

func listFilesImpl(fs FileSystem, repoRoot, path string) (string, error) {
	abs, err := resolve(repoRoot, path)
	if err != nil {
		return "", err
	}

	entries, err := fs.ReadDir(abs)
	if err != nil {
		return "", fmt.Errorf("failed to list directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return fmt.Sprintf("(empty directory: %s)", path), nil
	}
	return strings.Join(names, "\n"), nil
}

// NewListFilesTool creates the list_files tool rooted at repoRoot.
func NewListFilesTool(repoRoot string) engine.Tool {
	return newListFilesTool(NewOSFileSystem(), repoRoot)
}

func newListFilesTool(fs FileSystem, repoRoot string) engine.Tool {
	return engine.Tool{
		Name:        "list_files",
		Description: "Lists the entries of a directory in the repository. Directories are suffixed with a slash.",
		SchemaJSON:  `{"type":"object","properties":{"path":{"type":"string","description":"Directory path relative to the repository root, defaults to the root"}}}`,
		Kind:        engine.KindRead,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			path, _ := args["path"].(string)
			if path == "" {
				path = "."
			}
			return listFilesImpl(fs, repoRoot, path)
		},
	}
}
