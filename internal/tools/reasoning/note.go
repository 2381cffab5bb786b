package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

// NewNoteTool creates the note tool. Notes are picked up by the progress
// tracker and land in the run ledger, so decisions and constraints survive
// compaction and resumption.
func NewNoteTool() engine.Tool {
	return engine.Tool{
		Name:        "note",
		Description: "Records a durable note about the run: a design decision made or a constraint discovered. Notes persist across memory compaction.",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"kind": {"type":"string","enum":["decision","constraint"],"description":"Whether this is a design decision or a discovered constraint"},
				"text": {"type":"string","description":"The note text"}
			},
			"required": ["kind","text"]
		}`,
		Kind: engine.KindMeta,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			kind, _ := args["kind"].(string)
			text, ok := args["text"].(string)
			if !ok || strings.TrimSpace(text) == "" {
				return "", fmt.Errorf("text must be a non-empty string")
			}
			return fmt.Sprintf("Noted %s: %s", kind, text), nil
		},
	}
}
