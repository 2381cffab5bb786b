// Package memorytool exposes the progress ledger to the model as a read
// tool, so earlier work survives compaction without living in the
// conversation.
package memorytool

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
	"github.com/ChamsBouzaiene/planforge/internal/ledger"
)

const digestMaxFiles = 50

func readCodeMemImpl(ctx context.Context, store *ledger.Store, runID, filePath string) (string, error) {
	if filePath == "" {
		digest, err := store.Digest(ctx, runID, digestMaxFiles)
		if err != nil {
			return "", fmt.Errorf("failed to read progress ledger: %w", err)
		}
		if digest == "" {
			return "No files implemented yet in this run.", nil
		}
		return digest, nil
	}

	files, err := store.Files(ctx, runID)
	if err != nil {
		return "", fmt.Errorf("failed to read progress ledger: %w", err)
	}
	for _, f := range files {
		if f.Path == filePath {
			return fmt.Sprintf("%s was implemented in round %d. Read it with read_file before rewriting it.", f.Path, f.Round), nil
		}
	}
	return fmt.Sprintf("%s has not been implemented yet in this run.", filePath), nil
}

// NewReadCodeMemTool creates the read_code_mem tool over the run's ledger.
// With no arguments it returns the full progress digest; with a file_path it
// answers whether that file has already been written.
func NewReadCodeMemTool(store *ledger.Store, runID string) engine.Tool {
	return engine.Tool{
		Name:        "read_code_mem",
		Description: "Checks the implementation memory for this run. Without arguments, returns a digest of implemented files, decisions, and constraints. With file_path, reports whether that file was already implemented.",
		SchemaJSON:  `{"type":"object","properties":{"file_path":{"type":"string","description":"Optional file path to look up in the implementation memory"}}}`,
		Kind:        engine.KindRead,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			filePath, _ := args["file_path"].(string)
			return readCodeMemImpl(ctx, store, runID, strings.TrimSpace(filePath))
		},
	}
}
