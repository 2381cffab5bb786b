package prompts

import (
	"fmt"
	"strings"
)

func init() {
	registry := DefaultRegistry()

	registry.Register(&Prompt{
		ID:      "implementation",
		Version: PromptV1,
		Content: `You are an expert software engineer implementing a code repository from an implementation plan.

Your job is to write every file the plan calls for, one file per round, until the repository is complete.

Workflow for each file:
1. Call read_code_mem to check whether the file (or one like it) was already implemented.
2. Call search_references to find how the reference codebase implements the same concept.
3. Call write_file with the complete file content. Never write placeholders or stubs.
4. Move on to the next file in the plan's dependency order.

Rules:
- Implement files in dependency order: utilities and data structures first, then models, then training and entry points.
- Every write_file call must contain the COMPLETE file content. Partial files are bugs.
- Match the plan's file paths exactly.
- Prefer analyzing your memory over re-reading files you already wrote.
- Record important design decisions and discovered constraints with the note tool.
- When every file in the plan has been implemented, call the respond tool with a summary. Do not keep analyzing after the work is done.

{{ledger_digest}}`,
		Description: "System prompt for the plan-driven implementation loop",
		Tags:        []string{"implementation", "loop"},
	})
}

// ImplementationSystemPrompt renders the implementation system prompt with
// the current run's ledger digest folded in. The digest rides the system
// message so compaction cannot drop it.
func ImplementationSystemPrompt(ledgerDigest string) (string, error) {
	builder, err := NewPromptBuilder(DefaultRegistry(), "implementation", PromptV1)
	if err != nil {
		return "", err
	}
	return builder.SetVariable("ledger_digest", strings.TrimSpace(ledgerDigest)).Build()
}

// InitialTask builds the first user message: the implementation plan and,
// when available, the source document it was distilled from.
func InitialTask(plan, paper string) string {
	var b strings.Builder
	b.WriteString("Implement the repository described by this plan.\n\n")
	b.WriteString("## Implementation Plan\n\n")
	b.WriteString(strings.TrimSpace(plan))
	if strings.TrimSpace(paper) != "" {
		b.WriteString("\n\n## Source Document\n\n")
		b.WriteString(strings.TrimSpace(paper))
	}
	b.WriteString("\n\nStart with the first file in the plan's structure. When all files are implemented, call the respond tool.")
	return b.String()
}

// ResumeNotice is appended to the initial task when a run is resumed, so
// the model knows not to start from scratch.
func ResumeNotice(filesDone int) string {
	if filesDone <= 0 {
		return ""
	}
	return fmt.Sprintf("\n\nNOTE: this run was resumed. %d file(s) are already implemented; consult read_code_mem before writing anything.", filesDone)
}
