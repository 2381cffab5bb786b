package engine

import (
	"fmt"
	"strings"
)

// GuidanceInput is everything guidance selection depends on. Guidance is a
// pure function of this input so the same round state always produces the
// same corrective message.
type GuidanceInput struct {
	Outcome          Outcome
	AnalysisLoop     bool
	FilesImplemented int
}

// Guidance returns the user message appended after each round to steer the
// next one. The templates follow the read_code_mem, search_references,
// write_file, test cycle and tell the model how to declare completion.
func Guidance(in GuidanceInput) string {
	var base string
	switch in.Outcome {
	case OutcomeSuccess:
		base = successGuidance(in.FilesImplemented)
	case OutcomeError:
		base = errorGuidance()
	case OutcomeNoToolCall:
		base = noToolCallGuidance(in.FilesImplemented)
	default:
		base = noToolCallGuidance(in.FilesImplemented)
	}
	if in.AnalysisLoop {
		return base + "\n\n" + analysisLoopGuidance()
	}
	return base
}

func successGuidance(filesCount int) string {
	return fmt.Sprintf(`✅ File implementation completed successfully!

📊 **Progress Status:** %d files implemented

🎯 **Next Action:** Check if ALL files from the plan are implemented.

⚡ **Decision Process:**
1. **If ALL files are implemented:** Use `+"`execute_python`"+` or `+"`execute_bash`"+` to test the complete implementation, then respond "**implementation complete**" to end the conversation
2. **If MORE files need implementation:** Continue with dependency-aware workflow:
   - **Start with `+"`read_code_mem`"+`** to understand existing implementations and dependencies
   - **Optionally use `+"`search_references`"+`** for reference patterns (OPTIONAL - use for inspiration only, the plan takes priority)
   - **Then `+"`write_file`"+`** to implement the new component
   - **Finally: Test** if needed

💡 **Key Point:** Always verify completion status before continuing with new file creation.`, filesCount)
}

func errorGuidance() string {
	return `❌ Error detected during file implementation.

🔧 **Action Required:**
1. Review the error details above
2. Fix the identified issue
3. **Check if ALL files from the plan are implemented:**
   - **If YES:** Use ` + "`execute_python`" + ` or ` + "`execute_bash`" + ` to test the complete implementation, then respond "**implementation complete**" to end the conversation
   - **If NO:** Continue with proper development cycle for next file:
     - **Start with ` + "`read_code_mem`" + `** to understand existing implementations
     - **Optionally use ` + "`search_references`" + `** for reference patterns (OPTIONAL - for inspiration only)
     - **Then ` + "`write_file`" + `** to implement properly
     - **Test** if needed
4. Ensure proper error handling in future implementations

💡 **Remember:** Always verify if all planned files are implemented before continuing with new file creation.`
}

func noToolCallGuidance(filesCount int) string {
	return fmt.Sprintf(`⚠️ No tool calls detected in your response.

📊 **Current Progress:** %d files implemented

🚨 **Action Required:** You must use tools. **FIRST check if ALL files from the plan are implemented:**

⚡ **Decision Process:**
1. **If ALL files are implemented:** Use `+"`execute_python`"+` or `+"`execute_bash`"+` to test the complete implementation, then respond "**implementation complete**" to end the conversation
2. **If MORE files need implementation:** Follow the development cycle:
   - **Start with `+"`read_code_mem`"+`** to understand existing implementations
   - **Optionally use `+"`search_references`"+`** for reference patterns (OPTIONAL - for inspiration only)
   - **Then `+"`write_file`"+`** to implement the new component
   - **Finally: Test** if needed

🚨 **Critical:** Always verify completion status first, then use appropriate tools - not just explanations!`, filesCount)
}

func analysisLoopGuidance() string {
	return `🔄 **Analysis loop detected:** your recent rounds only read and searched without writing anything.

🎯 **Break the loop now:** pick the next unimplemented file from the plan and call ` + "`write_file`" + ` with its complete implementation this round. You already have enough context; do not read or search again before writing.`
}

// CompileUserResponse folds the round's tool results and the selected
// guidance into the single user message appended to the conversation.
func CompileUserResponse(results []ToolResult, guidance string) string {
	var parts []string

	if len(results) > 0 {
		var b strings.Builder
		b.WriteString("🔧 **Tool Execution Results:**")
		for _, r := range results {
			fmt.Fprintf(&b, "\n\n```\nTool: %s\nResult: %s\n```", r.ToolName, r.Output)
		}
		parts = append(parts, b.String())
	}

	if guidance != "" {
		parts = append(parts, guidance)
	}

	return strings.Join(parts, "\n\n")
}
