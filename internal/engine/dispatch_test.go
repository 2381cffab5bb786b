package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func dispatcherRegistry() ToolRegistry {
	reg := testRegistry()
	reg["flaky"] = Tool{
		Name:       "flaky",
		Kind:       KindExecute,
		SchemaJSON: `{"type":"object","properties":{}}`,
		Fn: func(_ context.Context, _ map[string]any) (string, error) {
			return "", errors.New("command exited 1")
		},
	}
	reg["panicky"] = Tool{
		Name:       "panicky",
		Kind:       KindExecute,
		SchemaJSON: `{"type":"object","properties":{}}`,
		Fn: func(_ context.Context, _ map[string]any) (string, error) {
			panic("boom")
		},
	}
	return reg
}

func TestDispatcher_OrderAndErrorRecovery(t *testing.T) {
	d := NewDispatcher(dispatcherRegistry(), Hooks{})

	calls := []ToolCall{
		{Name: "flaky", Args: map[string]any{}},
		{Name: "read_file", Args: map[string]any{"file_path": "a.py"}},
	}
	results := d.Dispatch(context.Background(), 1, calls)

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ToolName != "flaky" || results[0].OK() {
		t.Errorf("results[0] = %+v, want flaky error result", results[0])
	}
	if !strings.Contains(results[0].Output, "command exited 1") {
		t.Errorf("results[0].Output = %q, want the tool error embedded", results[0].Output)
	}
	if results[1].ToolName != "read_file" || !results[1].OK() {
		t.Errorf("results[1] = %+v, want successful read after failed call", results[1])
	}
}

func TestDispatcher_UnknownTool(t *testing.T) {
	d := NewDispatcher(dispatcherRegistry(), Hooks{})

	results := d.Dispatch(context.Background(), 1, []ToolCall{{Name: "no_such_tool"}})
	if results[0].OK() {
		t.Error("unknown tool produced an ok result")
	}
	if !strings.Contains(results[0].Output, "tool not found") {
		t.Errorf("Output = %q, want tool not found message", results[0].Output)
	}
	if results[0].Kind != KindMeta {
		t.Errorf("Kind = %v, want KindMeta for unknown tools", results[0].Kind)
	}
}

func TestDispatcher_ValidationFailure(t *testing.T) {
	d := NewDispatcher(dispatcherRegistry(), Hooks{})

	// write_file requires file_path and content.
	results := d.Dispatch(context.Background(), 1, []ToolCall{
		{Name: "write_file", Args: map[string]any{"file_path": "a.py"}},
	})
	if results[0].OK() {
		t.Error("invalid args produced an ok result")
	}
	if !strings.Contains(results[0].Output, "validation failed") {
		t.Errorf("Output = %q, want validation failure message", results[0].Output)
	}
	if results[0].Kind != KindWrite {
		t.Errorf("Kind = %v, want KindWrite even on validation failure", results[0].Kind)
	}
}

func TestDispatcher_PanicRecovery(t *testing.T) {
	d := NewDispatcher(dispatcherRegistry(), Hooks{})

	calls := []ToolCall{
		{Name: "panicky", Args: map[string]any{}},
		{Name: "read_file", Args: map[string]any{"file_path": "a.py"}},
	}
	results := d.Dispatch(context.Background(), 1, calls)

	if results[0].OK() {
		t.Error("panicking tool produced an ok result")
	}
	if !strings.Contains(results[0].Output, "panicked") {
		t.Errorf("Output = %q, want panic message", results[0].Output)
	}
	if !results[1].OK() {
		t.Error("dispatch did not continue past a panicking tool")
	}
}

func TestDispatcher_CancelledContext(t *testing.T) {
	d := NewDispatcher(dispatcherRegistry(), Hooks{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := d.Dispatch(ctx, 1, []ToolCall{{Name: "read_file", Args: map[string]any{"file_path": "a.py"}}})
	if results[0].OK() {
		t.Error("cancelled context produced an ok result")
	}
}
