package execution

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

// NewExecutePythonTool creates the execute_python tool for quick snippet
// checks, for example validating a generated module imports cleanly.
func NewExecutePythonTool(repoRoot string) engine.Tool {
	return newExecutePythonTool(NewSandboxRunner(), repoRoot)
}

func newExecutePythonTool(runner Runner, repoRoot string) engine.Tool {
	return engine.Tool{
		Name:        "execute_python",
		Description: "Runs a Python snippet in the repository sandbox with python3 and returns exit code, stdout, and stderr as JSON.",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"code": {"type":"string","description":"Python source to execute with python3 -c"},
				"timeout_seconds": {"type":"integer","minimum":5,"maximum":300,"description":"Maximum seconds to allow the snippet to run (default: 60)"}
			},
			"required": ["code"]
		}`,
		Kind: engine.KindExecute,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			code, ok := args["code"].(string)
			if !ok || strings.TrimSpace(code) == "" {
				return "", fmt.Errorf("code must be a non-empty string")
			}
			timeout := parseTimeoutArg(args["timeout_seconds"])
			return runImpl(ctx, runner, repoRoot, "python3", []string{"-c", code}, "python3 -c <snippet>", timeout, defaultExecLines)
		},
	}
}
