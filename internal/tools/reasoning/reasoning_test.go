package reasoning

import (
	"context"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

func TestRespondTool(t *testing.T) {
	tool := NewRespondTool()
	if tool.Name != engine.RespondToolName {
		t.Fatalf("respond tool registered under %q", tool.Name)
	}

	out, err := tool.Fn(context.Background(), map[string]any{
		"summary":       "all modules written",
		"files_changed": []any{"a.py", "b.py"},
	})
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if !strings.Contains(out, "all modules written") {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := tool.Fn(context.Background(), map[string]any{"summary": "  "}); err == nil {
		t.Error("expected error for blank summary")
	}
}

func TestNoteTool(t *testing.T) {
	tool := NewNoteTool()

	out, err := tool.Fn(context.Background(), map[string]any{
		"kind": "decision",
		"text": "use float32 weights",
	})
	if err != nil {
		t.Fatalf("note failed: %v", err)
	}
	if !strings.Contains(out, "decision") || !strings.Contains(out, "float32") {
		t.Errorf("unexpected output: %q", out)
	}

	if err := tool.ValidateArgs(map[string]any{"kind": "opinion", "text": "x"}); err == nil {
		t.Error("expected schema rejection for unknown kind")
	}
}
