package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
	"github.com/ChamsBouzaiene/planforge/internal/tools/execution"
)

const (
	grepTimeout    = 30 * time.Second
	grepMaxMatches = 100
	grepMaxChars   = 8000
)

func grepImpl(ctx context.Context, runner execution.Runner, repoRoot, pattern, glob string) (string, error) {
	args := []string{
		"--line-number",
		"--no-heading",
		"--color=never",
		"--max-count", fmt.Sprintf("%d", grepMaxMatches),
	}
	if glob != "" {
		args = append(args, "--glob", glob)
	}
	args = append(args, "--", pattern)

	result, err := runner.RunCmd(ctx, repoRoot, "rg", args, grepTimeout)
	if err != nil {
		return "", fmt.Errorf("grep failed: %w", err)
	}

	// rg exits 1 when nothing matched, which is not a tool failure.
	if result.Code == 1 && strings.TrimSpace(result.Stdout) == "" {
		return fmt.Sprintf("No matches for pattern %q.", pattern), nil
	}
	if result.Code > 1 {
		return "", fmt.Errorf("grep failed: %s", strings.TrimSpace(result.Stderr))
	}

	out := strings.TrimRight(result.Stdout, "\n")
	if len(out) > grepMaxChars {
		out = out[:grepMaxChars] + "\n...(truncated)"
	}
	return out, nil
}

// NewGrepTool creates the grep tool, backed by ripgrep in the sandbox.
func NewGrepTool(repoRoot string) engine.Tool {
	return newGrepTool(execution.NewSandboxRunner(), repoRoot)
}

func newGrepTool(runner execution.Runner, repoRoot string) engine.Tool {
	return engine.Tool{
		Name:        "grep",
		Description: "Searches the working repository with ripgrep. Returns matching lines as path:line:text.",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"pattern": {"type":"string","description":"Regular expression to search for"},
				"glob": {"type":"string","description":"Optional file glob filter, e.g. \"*.go\""}
			},
			"required": ["pattern"]
		}`,
		Kind: engine.KindRead,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			pattern, ok := args["pattern"].(string)
			if !ok || strings.TrimSpace(pattern) == "" {
				return "", fmt.Errorf("pattern must be a non-empty string")
			}
			glob, _ := args["glob"].(string)
			return grepImpl(ctx, runner, repoRoot, pattern, glob)
		},
	}
}
