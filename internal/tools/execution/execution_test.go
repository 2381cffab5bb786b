package execution

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ChamsBouzaiene/planforge/internal/sandbox"
)

// fakeRunner records the last invocation and replays a canned result.
type fakeRunner struct {
	result  sandbox.Result
	err     error
	name    string
	args    []string
	timeout time.Duration
}

func (f *fakeRunner) RunCmd(ctx context.Context, repoDir, name string, args []string, timeout time.Duration) (sandbox.Result, error) {
	f.name = name
	f.args = args
	f.timeout = timeout
	return f.result, f.err
}

func TestExecuteBash_Success(t *testing.T) {
	runner := &fakeRunner{result: sandbox.Result{Stdout: "ok\n", Code: 0}}
	tool := newExecuteBashTool(runner, "/repo")

	out, err := tool.Fn(context.Background(), map[string]any{"command": "echo ok"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	var result ExecutionResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if result.Status != "ok" || result.ExitCode != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
	if runner.name != "bash" || len(runner.args) != 2 || runner.args[1] != "echo ok" {
		t.Errorf("unexpected invocation: %s %v", runner.name, runner.args)
	}
}

func TestExecuteBash_NonZeroExit(t *testing.T) {
	runner := &fakeRunner{result: sandbox.Result{Stderr: "boom", Code: 2}}
	tool := newExecuteBashTool(runner, "/repo")

	out, err := tool.Fn(context.Background(), map[string]any{"command": "false"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	var result ExecutionResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if result.Status != "failed" || result.ExitCode != 2 || result.Stderr != "boom" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestExecuteBash_TimeoutClamped(t *testing.T) {
	runner := &fakeRunner{result: sandbox.Result{TimedOut: true}}
	tool := newExecuteBashTool(runner, "/repo")

	out, err := tool.Fn(context.Background(), map[string]any{
		"command":         "sleep 600",
		"timeout_seconds": float64(9999),
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if runner.timeout != maxExecTimeout {
		t.Errorf("timeout not clamped: got %v", runner.timeout)
	}

	var result ExecutionResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if !result.TimedOut || result.Status != "failed" {
		t.Errorf("expected timed-out failure, got %+v", result)
	}
}

func TestExecutePython_PassesCode(t *testing.T) {
	runner := &fakeRunner{result: sandbox.Result{Stdout: "42\n"}}
	tool := newExecutePythonTool(runner, "/repo")

	if _, err := tool.Fn(context.Background(), map[string]any{"code": "print(42)"}); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if runner.name != "python3" || runner.args[1] != "print(42)" {
		t.Errorf("unexpected invocation: %s %v", runner.name, runner.args)
	}
}

func TestTruncateOutput(t *testing.T) {
	long := strings.Repeat("line\n", 300)
	out, truncated := truncateOutput(long, 40)
	if !truncated {
		t.Fatal("expected truncation")
	}
	if got := len(strings.Split(out, "\n")); got != 40 {
		t.Errorf("expected 40 lines, got %d", got)
	}

	out, truncated = truncateOutput("short", 40)
	if truncated || out != "short" {
		t.Errorf("short output altered: %q %v", out, truncated)
	}
}
