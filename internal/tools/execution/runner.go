// tools/execution/runner.go
package execution

import (
	"context"
	"time"

	"github.com/ChamsBouzaiene/planforge/internal/sandbox"
)

// Runner abstracts command execution so tools can be tested without a
// sandbox. The production implementation delegates to the sandbox package,
// which prefers Docker and falls back to the host.
type Runner interface {
	RunCmd(ctx context.Context, repoDir, name string, args []string, timeout time.Duration) (sandbox.Result, error)
}

// SandboxRunner is the default Runner backed by the sandbox package.
type SandboxRunner struct {
	runner sandbox.Runner
}

// NewSandboxRunner creates a Runner using the default sandbox configuration.
func NewSandboxRunner() *SandboxRunner {
	return &SandboxRunner{runner: sandbox.NewDefaultRunner()}
}

func (r *SandboxRunner) RunCmd(ctx context.Context, repoDir, name string, args []string, timeout time.Duration) (sandbox.Result, error) {
	return r.runner.RunCmd(ctx, repoDir, name, args, timeout)
}
