package engine

import (
	"fmt"
	"strings"
	"time"
)

// Report is the final summary of one run. It is produced on every exit
// path, including fatal model errors, so callers always get a picture of
// what happened.
type Report struct {
	RunID      string
	Status     Status
	Iterations int
	Elapsed    time.Duration

	FilesImplemented []FileImplementationRecord
	WriteOps         int
	ReadOps          int
	ReferenceOps     int
	ExecuteOps       int
	ToolErrors       int
	Decisions        int
	Constraints      int

	Memory MemoryStats
	Usage  Usage

	ReadToolsEnabled bool
	AnalysisLoops    int

	// Err is set when Status is StatusError.
	Err string
}

// Render formats the report as markdown.
func (r Report) Render() string {
	var b strings.Builder

	b.WriteString("# Implementation Run Report\n\n")

	b.WriteString("## Execution Summary\n")
	fmt.Fprintf(&b, "- Run ID: %s\n", r.RunID)
	fmt.Fprintf(&b, "- Status: %s\n", r.Status)
	fmt.Fprintf(&b, "- Iterations: %d\n", r.Iterations)
	fmt.Fprintf(&b, "- Elapsed time: %.2f seconds\n", r.Elapsed.Seconds())
	fmt.Fprintf(&b, "- Files implemented: %d\n", len(r.FilesImplemented))
	fmt.Fprintf(&b, "- File write operations: %d\n", r.WriteOps)
	fmt.Fprintf(&b, "- Tokens: prompt=%d completion=%d total=%d\n", r.Usage.Prompt, r.Usage.Completion, r.Usage.Total)
	if r.Err != "" {
		fmt.Fprintf(&b, "- Error: %s\n", r.Err)
	}

	b.WriteString("\n## Tool Activity\n")
	fmt.Fprintf(&b, "- Read operations: %d\n", r.ReadOps)
	fmt.Fprintf(&b, "- Reference searches: %d\n", r.ReferenceOps)
	fmt.Fprintf(&b, "- Executions: %d\n", r.ExecuteOps)
	fmt.Fprintf(&b, "- Tool errors: %d\n", r.ToolErrors)
	fmt.Fprintf(&b, "- Technical decisions recorded: %d\n", r.Decisions)
	fmt.Fprintf(&b, "- Constraints recorded: %d\n", r.Constraints)
	fmt.Fprintf(&b, "- Read tools enabled: %v\n", r.ReadToolsEnabled)
	fmt.Fprintf(&b, "- Analysis loops detected: %d\n", r.AnalysisLoops)

	b.WriteString("\n## Memory\n")
	fmt.Fprintf(&b, "- Compactions: %d\n", r.Memory.Compactions)
	fmt.Fprintf(&b, "- Essential results recorded: %d\n", r.Memory.EssentialRecorded)

	b.WriteString("\n## Files Created\n")
	files := r.FilesImplemented
	shown := files
	if len(shown) > 20 {
		shown = shown[len(shown)-20:]
	}
	for _, f := range shown {
		fmt.Fprintf(&b, "- %s\n", f.Path)
	}
	if len(files) > 20 {
		fmt.Fprintf(&b, "... and %d more files\n", len(files)-20)
	}

	return b.String()
}
