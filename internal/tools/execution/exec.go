// tools/execution/exec.go
package execution

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	defaultExecTimeout = 60 * time.Second
	minExecTimeout     = 5 * time.Second
	maxExecTimeout     = 5 * time.Minute
	defaultExecLines   = 40
	minExecLines       = 5
	maxExecLines       = 200
	maxExecChars       = 4000
)

// ExecutionResult is the JSON shape every execution tool returns. Keeping
// the contract in one place means the model sees the same fields whether it
// ran a shell command or a Python snippet.
type ExecutionResult struct {
	Cmd             string `json:"cmd"`
	ExitCode        int    `json:"exit_code"`
	Stdout          string `json:"stdout"`
	Stderr          string `json:"stderr"`
	TimedOut        bool   `json:"timed_out,omitempty"`
	Status          string `json:"status,omitempty"`
	StdoutTruncated bool   `json:"stdout_truncated,omitempty"`
	StderrTruncated bool   `json:"stderr_truncated,omitempty"`
}

func runImpl(ctx context.Context, runner Runner, repoRoot, name string, args []string, label string, timeout time.Duration, maxLines int) (string, error) {
	if timeout <= 0 {
		timeout = defaultExecTimeout
	}
	if timeout < minExecTimeout {
		timeout = minExecTimeout
	}
	if timeout > maxExecTimeout {
		timeout = maxExecTimeout
	}
	if maxLines <= 0 {
		maxLines = defaultExecLines
	}
	if maxLines < minExecLines {
		maxLines = minExecLines
	}
	if maxLines > maxExecLines {
		maxLines = maxExecLines
	}

	result, err := runner.RunCmd(ctx, repoRoot, name, args, timeout)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !result.TimedOut {
		return "", err
	}

	stdout, stdoutTruncated := truncateOutput(result.Stdout, maxLines)
	stderr, stderrTruncated := truncateOutput(result.Stderr, maxLines)

	execResult := ExecutionResult{
		Cmd:             label,
		ExitCode:        result.Code,
		Stdout:          stdout,
		Stderr:          stderr,
		StdoutTruncated: stdoutTruncated,
		StderrTruncated: stderrTruncated,
		Status:          "ok",
	}
	if result.TimedOut || errors.Is(err, context.DeadlineExceeded) {
		execResult.TimedOut = true
		execResult.Status = "failed"
	}
	if result.Code != 0 {
		execResult.Status = "failed"
	}

	resultJSON, marshalErr := json.Marshal(execResult)
	if marshalErr != nil {
		return "", marshalErr
	}
	return string(resultJSON), nil
}

func parseTimeoutArg(value any) time.Duration {
	var seconds float64
	switch v := value.(type) {
	case float64:
		seconds = v
	case int:
		seconds = float64(v)
	default:
		return defaultExecTimeout
	}
	if seconds <= 0 {
		return defaultExecTimeout
	}
	return time.Duration(seconds) * time.Second
}

func truncateOutput(output string, maxLines int) (string, bool) {
	if output == "" {
		return "", false
	}
	truncated := false
	lines := strings.Split(output, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		truncated = true
	}
	joined := strings.Join(lines, "\n")
	if len(joined) > maxExecChars {
		joined = joined[:maxExecChars]
		truncated = true
	}
	return joined, truncated
}
