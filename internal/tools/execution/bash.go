package execution

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

// NewExecuteBashTool creates the execute_bash tool. Commands run inside the
// sandbox rooted at repoRoot; stdout and stderr come back truncated so a
// noisy build does not flood the conversation.
func NewExecuteBashTool(repoRoot string) engine.Tool {
	return newExecuteBashTool(NewSandboxRunner(), repoRoot)
}

func newExecuteBashTool(runner Runner, repoRoot string) engine.Tool {
	return engine.Tool{
		Name:        "execute_bash",
		Description: "Executes a bash command in the repository sandbox and returns exit code, stdout, and stderr as JSON. Output is truncated to keep results readable.",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"command": {"type":"string","description":"Bash command line to execute"},
				"timeout_seconds": {"type":"integer","minimum":5,"maximum":300,"description":"Maximum seconds to allow the command to run (default: 60)"}
			},
			"required": ["command"]
		}`,
		Kind: engine.KindExecute,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			command, ok := args["command"].(string)
			if !ok || strings.TrimSpace(command) == "" {
				return "", fmt.Errorf("command must be a non-empty string")
			}
			timeout := parseTimeoutArg(args["timeout_seconds"])
			label := "bash -c " + command
			return runImpl(ctx, runner, repoRoot, "bash", []string{"-c", command}, label, timeout, defaultExecLines)
		},
	}
}
