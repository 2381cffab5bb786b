package engine

import (
	"strings"
	"testing"
)

func TestGuidance_OutcomeSelection(t *testing.T) {
	tests := []struct {
		name string
		in   GuidanceInput
		want string
	}{
		{"success", GuidanceInput{Outcome: OutcomeSuccess, FilesImplemented: 2}, "completed successfully"},
		{"error", GuidanceInput{Outcome: OutcomeError}, "Error detected"},
		{"no tool call", GuidanceInput{Outcome: OutcomeNoToolCall, FilesImplemented: 1}, "No tool calls detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Guidance(tt.in)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Guidance() missing %q", tt.want)
			}
			if strings.Contains(got, "Analysis loop") {
				t.Error("Guidance() contains loop suffix without the flag set")
			}
		})
	}
}

func TestGuidance_AnalysisLoopSuffix(t *testing.T) {
	got := Guidance(GuidanceInput{Outcome: OutcomeSuccess, AnalysisLoop: true, FilesImplemented: 3})
	if !strings.Contains(got, "Analysis loop detected") {
		t.Error("Guidance() missing analysis loop suffix")
	}
	if !strings.Contains(got, "completed successfully") {
		t.Error("loop suffix replaced the base guidance instead of extending it")
	}
}

func TestGuidance_Pure(t *testing.T) {
	in := GuidanceInput{Outcome: OutcomeError, AnalysisLoop: true, FilesImplemented: 7}
	if Guidance(in) != Guidance(in) {
		t.Error("Guidance() is not deterministic for identical input")
	}
}

func TestGuidance_ReportsFileCount(t *testing.T) {
	got := Guidance(GuidanceInput{Outcome: OutcomeSuccess, FilesImplemented: 12})
	if !strings.Contains(got, "12 files implemented") {
		t.Error("Guidance() does not report the file count")
	}
}

func TestCompileUserResponse(t *testing.T) {
	results := []ToolResult{
		{ToolName: "write_file", Output: "wrote model.py", Status: ResultOK},
		{ToolName: "read_file", Output: "ERROR: not found", Status: ResultError},
	}
	got := CompileUserResponse(results, "do the next thing")

	if !strings.Contains(got, "Tool: write_file") || !strings.Contains(got, "wrote model.py") {
		t.Error("compiled response missing first tool result")
	}
	if !strings.Contains(got, "ERROR: not found") {
		t.Error("compiled response missing error result")
	}
	if !strings.Contains(got, "do the next thing") {
		t.Error("compiled response missing guidance")
	}

	// Guidance-only responses skip the results header.
	onlyGuidance := CompileUserResponse(nil, "guidance")
	if strings.Contains(onlyGuidance, "Tool Execution Results") {
		t.Error("results header present without results")
	}
}
