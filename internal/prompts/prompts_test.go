package prompts

import (
	"strings"
	"testing"
)

func TestRegistry_GetLatest(t *testing.T) {
	reg := NewPromptRegistry()
	reg.Register(&Prompt{ID: "x", Version: PromptV1, Content: "old", Deprecated: true})
	reg.Register(&Prompt{ID: "x", Version: PromptV2, Content: "new"})

	p, err := reg.GetLatest("x")
	if err != nil {
		t.Fatalf("GetLatest failed: %v", err)
	}
	if p.Content != "new" {
		t.Errorf("expected newest non-deprecated version, got %q", p.Content)
	}

	if _, err := reg.GetLatest("missing"); err == nil {
		t.Error("expected error for unknown prompt")
	}
}

func TestBuilder_Variables(t *testing.T) {
	reg := NewPromptRegistry()
	reg.Register(&Prompt{ID: "greet", Version: PromptV1, Content: "Hello {{name}}."})

	b, err := NewPromptBuilder(reg, "greet", PromptV1)
	if err != nil {
		t.Fatal(err)
	}
	out, err := b.SetVariable("name", "world").AddFragment("Bye.").Build()
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello world.\n\nBye." {
		t.Errorf("unexpected build output: %q", out)
	}
}

func TestImplementationSystemPrompt(t *testing.T) {
	out, err := ImplementationSystemPrompt("## Progress Ledger\n- src/model.py (round 2)")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "write_file") {
		t.Error("workflow instructions missing")
	}
	if !strings.Contains(out, "Progress Ledger") {
		t.Error("ledger digest not substituted")
	}
	if strings.Contains(out, "{{ledger_digest}}") {
		t.Error("placeholder survived substitution")
	}
}

func TestInitialTask(t *testing.T) {
	out := InitialTask("plan body", "paper body")
	if !strings.Contains(out, "plan body") || !strings.Contains(out, "paper body") {
		t.Errorf("task missing sections: %q", out)
	}

	out = InitialTask("plan body", "")
	if strings.Contains(out, "Source Document") {
		t.Error("empty paper should omit the source section")
	}
}
