package engine

import "testing"

func TestCompletionDeclared_Phrases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"all files implemented", "I believe all files implemented now.", true},
		{"all phases completed", "With that, ALL PHASES COMPLETED.", true},
		{"reproduction plan", "The reproduction plan fully implemented and tested.", true},
		{"repo complete", "all code of repo implementation complete", true},
		{"implementation complete", "Tests pass. **implementation complete**", true},
		{"case insensitive", "IMPLEMENTATION COMPLETE", true},
		{"mid sentence", "the implementation completes soon", false},
		{"prefixed word", "the reimplementation complete flag is unrelated", false},
		{"plain progress", "Still working on the trainer module.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionDeclared(Round{AssistantText: tt.text})
			if got != tt.want {
				t.Errorf("CompletionDeclared(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCompletionDeclared_RespondTool(t *testing.T) {
	rd := Round{
		AssistantText: "handing off",
		ToolCalls:     []ToolCall{{Name: RespondToolName, Args: map[string]any{"summary": "done"}}},
	}
	if !CompletionDeclared(rd) {
		t.Error("respond tool call did not declare completion")
	}

	rd = Round{ToolCalls: []ToolCall{{Name: "write_file"}}}
	if CompletionDeclared(rd) {
		t.Error("ordinary tool call declared completion")
	}
}
