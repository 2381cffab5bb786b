package engine

import (
	"strings"
	"testing"
)

func okResult(name string, kind ToolKind, input map[string]any, output string) ToolResult {
	return ToolResult{ToolName: name, Kind: kind, Input: input, Output: output, Status: ResultOK}
}

func TestMemoryEngine_WriteTrigger(t *testing.T) {
	m := NewMemoryEngine(DefaultMemoryConfig())
	conv := NewConversation("sys", "task")
	conv.Append(ChatMessage{Role: RoleAssistant, Content: "working"})

	if m.ShouldCompact(conv) {
		t.Error("ShouldCompact() = true before any write")
	}

	m.RecordResult(okResult("read_file", KindRead, map[string]any{"file_path": "a.py"}, "contents"))
	if m.ShouldCompact(conv) {
		t.Error("ShouldCompact() = true after read only")
	}

	m.RecordResult(okResult("write_file", KindWrite, map[string]any{"file_path": "b.py"}, "wrote"))
	if !m.ShouldCompact(conv) {
		t.Error("ShouldCompact() = false after successful write")
	}

	// Failed writes must not arm the trigger.
	m2 := NewMemoryEngine(DefaultMemoryConfig())
	m2.RecordResult(ToolResult{ToolName: "write_file", Kind: KindWrite, Status: ResultError, Output: "ERROR: disk full"})
	if m2.ShouldCompact(conv) {
		t.Error("ShouldCompact() = true after failed write")
	}
}

func TestMemoryEngine_MessageCeiling(t *testing.T) {
	cfg := DefaultMemoryConfig()
	cfg.MessageCeiling = 10
	m := NewMemoryEngine(cfg)

	conv := NewConversation("sys", "task")
	for i := 0; i < 8; i++ {
		conv.Append(ChatMessage{Role: RoleUser, Content: "filler"})
	}
	if m.ShouldCompact(conv) {
		t.Errorf("ShouldCompact() = true at ceiling (len=%d)", conv.Len())
	}
	conv.Append(ChatMessage{Role: RoleUser, Content: "one past"})
	if !m.ShouldCompact(conv) {
		t.Errorf("ShouldCompact() = false past ceiling (len=%d)", conv.Len())
	}
}

func TestMemoryEngine_CompactRetainsEssentials(t *testing.T) {
	m := NewMemoryEngine(DefaultMemoryConfig())
	conv := NewConversation("sys prompt", "the initial task")
	conv.Append(ChatMessage{Role: RoleAssistant, Content: "reading first"})
	conv.Append(ChatMessage{Role: RoleUser, Content: "tool results"})

	m.RecordResult(okResult("read_file", KindRead, map[string]any{"file_path": "model.py"}, "class Model: ..."))
	m.RecordResult(okResult("search_references", KindReference, map[string]any{"query": "attention"}, "def attention(q, k, v): ..."))
	m.RecordResult(okResult("execute_bash", KindExecute, map[string]any{"command": "ls"}, "model.py"))
	m.RecordResult(okResult("write_file", KindWrite, map[string]any{"file_path": "trainer.py"}, "wrote"))

	before, after := m.Compact(conv)
	if before != 4 {
		t.Errorf("before = %d, want 4", before)
	}
	if after != 3 {
		t.Errorf("after = %d, want 3 (system, task, synthesized)", after)
	}

	msgs := conv.Messages()
	if msgs[0].Role != RoleSystem || msgs[0].Content != "sys prompt" {
		t.Errorf("msgs[0] = %+v, want preserved system message", msgs[0])
	}
	if msgs[1].Role != RoleUser || msgs[1].Content != "the initial task" {
		t.Errorf("msgs[1] = %+v, want preserved initial task", msgs[1])
	}
	synth := msgs[2].Content
	if !strings.Contains(synth, "class Model") {
		t.Error("synthesized message missing read result")
	}
	if !strings.Contains(synth, "def attention") {
		t.Error("synthesized message missing reference result")
	}
	if strings.Contains(synth, "execute_bash") {
		t.Error("synthesized message should not retain execute results")
	}
}

func TestMemoryEngine_CompactIsFixedPoint(t *testing.T) {
	m := NewMemoryEngine(DefaultMemoryConfig())
	conv := NewConversation("sys", "task")
	conv.Append(ChatMessage{Role: RoleAssistant, Content: "noise"})

	m.RecordResult(okResult("read_file", KindRead, map[string]any{"file_path": "a.py"}, "aaa"))
	m.RecordResult(okResult("write_file", KindWrite, map[string]any{"file_path": "b.py"}, "wrote"))
	m.Compact(conv)
	first := conv.Messages()

	// Compacting again with nothing new recorded must not change anything.
	m.Compact(conv)
	second := conv.Messages()

	if len(first) != len(second) {
		t.Fatalf("second compaction changed length: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("msgs[%d] changed across idempotent compaction", i)
		}
	}
}

func TestMemoryEngine_LaterResultSupersedes(t *testing.T) {
	m := NewMemoryEngine(DefaultMemoryConfig())
	conv := NewConversation("sys", "task")

	m.RecordResult(okResult("read_file", KindRead, map[string]any{"file_path": "a.py"}, "old version"))
	m.RecordResult(okResult("read_file", KindRead, map[string]any{"file_path": "a.py"}, "new version"))
	m.Compact(conv)

	synth := conv.Messages()[2].Content
	if strings.Contains(synth, "old version") {
		t.Error("synthesized message kept a superseded read")
	}
	if !strings.Contains(synth, "new version") {
		t.Error("synthesized message missing the latest read")
	}
}

func TestMemoryEngine_TruncatesHugeOutputs(t *testing.T) {
	cfg := DefaultMemoryConfig()
	cfg.MaxEssentialOutput = 100
	m := NewMemoryEngine(cfg)
	conv := NewConversation("sys", "task")

	m.RecordResult(okResult("read_file", KindRead, map[string]any{"file_path": "big.py"}, strings.Repeat("x", 1000)))
	m.Compact(conv)

	synth := conv.Messages()[2].Content
	if len(synth) > 300 {
		t.Errorf("synthesized message too large: %d bytes", len(synth))
	}
	if !strings.Contains(synth, "truncated") {
		t.Error("truncated output not marked")
	}
}
