// Package sandbox runs model-requested commands in isolation. DockerRunner
// is preferred; HostRunner is the unsandboxed fallback for environments
// without a Docker daemon.
package sandbox

import (
	"context"
	"time"
)

// Result captures the output of one command.
type Result struct {
	Stdout   string
	Stderr   string
	Code     int
	TimedOut bool
}

// Runner runs a command in a repository directory with a timeout.
// A timeout <= 0 uses the configured default.
type Runner interface {
	RunCmd(ctx context.Context, repoDir, name string, args []string, timeout time.Duration) (Result, error)
}
