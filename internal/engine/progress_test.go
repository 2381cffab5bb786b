package engine

import "testing"

func analysisRound(idx int) Round {
	return Round{
		Index:     idx,
		ToolCalls: []ToolCall{{Name: "read_file", Args: map[string]any{"file_path": "a.py"}}},
		Results: []ToolResult{
			{ToolName: "read_file", Kind: KindRead, Input: map[string]any{"file_path": "a.py"}, Output: "x", Status: ResultOK},
		},
		Outcome: OutcomeSuccess,
	}
}

func writeRound(idx int, path string, ok bool) Round {
	status := ResultOK
	if !ok {
		status = ResultError
	}
	return Round{
		Index:     idx,
		ToolCalls: []ToolCall{{Name: "write_file", Args: map[string]any{"file_path": path}}},
		Results: []ToolResult{
			{ToolName: "write_file", Kind: KindWrite, Input: map[string]any{"file_path": path}, Output: "w", Status: status},
		},
	}
}

func TestProgressTracker_AnalysisLoop(t *testing.T) {
	p := NewProgressTracker(DefaultProgressConfig(), nil)

	p.ObserveRound(analysisRound(1))
	p.ObserveRound(analysisRound(2))
	if p.AnalysisLoop() {
		t.Error("AnalysisLoop() = true after 2 rounds, want false (window is 3)")
	}
	p.ObserveRound(analysisRound(3))
	if !p.AnalysisLoop() {
		t.Error("AnalysisLoop() = false after 3 analysis rounds")
	}

	// A write attempt resets the streak even if it fails.
	p.ObserveRound(writeRound(4, "a.py", false))
	if p.AnalysisLoop() {
		t.Error("AnalysisLoop() = true after a write attempt")
	}
}

func TestProgressTracker_NoToolRoundsDoNotAdvanceStreak(t *testing.T) {
	p := NewProgressTracker(DefaultProgressConfig(), nil)

	p.ObserveRound(analysisRound(1))
	p.ObserveRound(analysisRound(2))
	p.ObserveRound(Round{Index: 3, Outcome: OutcomeNoToolCall})
	p.ObserveRound(analysisRound(4))
	if !p.AnalysisLoop() {
		t.Error("AnalysisLoop() = false, want true (no-tool round must not reset the streak)")
	}
}

func TestProgressTracker_FilesMonotonic(t *testing.T) {
	p := NewProgressTracker(DefaultProgressConfig(), nil)

	p.ObserveRound(writeRound(1, "model.py", true))
	p.ObserveRound(writeRound(2, "trainer.py", true))
	p.ObserveRound(writeRound(3, "model.py", true)) // overwrite, not a new file
	p.ObserveRound(writeRound(4, "main.py", false)) // failed, not recorded

	files := p.FilesImplemented()
	if len(files) != 2 {
		t.Fatalf("FilesImplemented = %d, want 2", len(files))
	}
	if files[0].Path != "model.py" || files[0].Round != 1 {
		t.Errorf("files[0] = %+v, want model.py from round 1", files[0])
	}
	if files[1].Path != "trainer.py" {
		t.Errorf("files[1] = %+v, want trainer.py", files[1])
	}
	if p.OpCount(KindWrite) != 4 {
		t.Errorf("OpCount(write) = %d, want 4", p.OpCount(KindWrite))
	}
	if p.ErrorCount() != 1 {
		t.Errorf("ErrorCount = %d, want 1", p.ErrorCount())
	}
}

func TestProgressTracker_Notes(t *testing.T) {
	p := NewProgressTracker(DefaultProgressConfig(), nil)

	noteRound := Round{
		Index:     1,
		ToolCalls: []ToolCall{{Name: "note"}},
		Results: []ToolResult{
			{ToolName: "note", Kind: KindMeta, Input: map[string]any{"kind": "decision", "text": "use sqlite"}, Status: ResultOK},
			{ToolName: "note", Kind: KindMeta, Input: map[string]any{"kind": "constraint", "text": "no network"}, Status: ResultOK},
		},
	}
	p.ObserveRound(noteRound)

	if p.DecisionCount() != 1 {
		t.Errorf("DecisionCount = %d, want 1", p.DecisionCount())
	}
	if p.ConstraintCount() != 1 {
		t.Errorf("ConstraintCount = %d, want 1", p.ConstraintCount())
	}
}

type recordingSink struct {
	files       []FileImplementationRecord
	ops         int
	decisions   []string
	constraints []string
}

func (s *recordingSink) FileImplemented(rec FileImplementationRecord) { s.files = append(s.files, rec) }
func (s *recordingSink) ToolOp(int, string, ToolKind, bool)           { s.ops++ }
func (s *recordingSink) Decision(_ int, text string)                  { s.decisions = append(s.decisions, text) }
func (s *recordingSink) Constraint(_ int, text string)                { s.constraints = append(s.constraints, text) }

func TestProgressTracker_Sink(t *testing.T) {
	sink := &recordingSink{}
	p := NewProgressTracker(DefaultProgressConfig(), sink)

	p.ObserveRound(writeRound(1, "model.py", true))
	p.ObserveRound(analysisRound(2))

	if len(sink.files) != 1 || sink.files[0].Path != "model.py" {
		t.Errorf("sink.files = %+v, want one record for model.py", sink.files)
	}
	if sink.ops != 2 {
		t.Errorf("sink.ops = %d, want 2", sink.ops)
	}
}
