package sandbox

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Mode selects how commands are isolated.
type Mode string

const (
	ModeDocker Mode = "docker"
	ModeHost   Mode = "host"
	ModeAuto   Mode = "auto"
)

// Config holds sandbox settings, normally sourced from the environment.
type Config struct {
	Mode        Mode
	DockerImage string // custom image override
	CPU         string // e.g. "2"
	Memory      string // e.g. "1g"
	CmdTimeout  time.Duration
}

// DefaultConfig reads PLANFORGE_SANDBOX_MODE, PLANFORGE_DOCKER_IMAGE,
// PLANFORGE_DOCKER_CPU, PLANFORGE_DOCKER_MEMORY, and PLANFORGE_CMD_TIMEOUT.
func DefaultConfig() Config {
	mode := ModeAuto
	switch strings.ToLower(os.Getenv("PLANFORGE_SANDBOX_MODE")) {
	case "docker":
		mode = ModeDocker
	case "host":
		mode = ModeHost
	case "auto", "":
	default:
		log.Printf("WARNING: unknown PLANFORGE_SANDBOX_MODE %q, using auto", os.Getenv("PLANFORGE_SANDBOX_MODE"))
	}

	cmdTimeout := 2 * time.Minute
	if raw := os.Getenv("PLANFORGE_CMD_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cmdTimeout = d
		} else {
			log.Printf("WARNING: invalid PLANFORGE_CMD_TIMEOUT %q, using 2m", raw)
		}
	}

	return Config{
		Mode:        mode,
		DockerImage: os.Getenv("PLANFORGE_DOCKER_IMAGE"),
		CPU:         envOr("PLANFORGE_DOCKER_CPU", "2"),
		Memory:      envOr("PLANFORGE_DOCKER_MEMORY", "1g"),
		CmdTimeout:  cmdTimeout,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// IsDockerAvailable reports whether a Docker daemon is reachable.
func IsDockerAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "ps")
	return cmd.Run() == nil
}

// NewDefaultRunner builds a Runner from the environment configuration,
// preferring Docker and falling back to the host.
func NewDefaultRunner() Runner {
	config := DefaultConfig()
	ctx := context.Background()

	switch config.Mode {
	case ModeDocker, ModeAuto:
		if !IsDockerAvailable(ctx) {
			log.Printf("WARNING: Docker not available, commands run unsandboxed on the host")
			return &HostRunner{config: config}
		}
		dockerRunner, err := NewDockerRunner(config)
		if err != nil {
			log.Printf("WARNING: Docker runner setup failed (%v), falling back to host", err)
			return &HostRunner{config: config}
		}
		return dockerRunner
	default:
		log.Printf("WARNING: commands run unsandboxed on the host")
		return &HostRunner{config: config}
	}
}

// NewRunner builds a specific runner implementation.
func NewRunner(mode Mode, config Config) (Runner, error) {
	switch mode {
	case ModeDocker:
		return NewDockerRunner(config)
	case ModeHost:
		return &HostRunner{config: config}, nil
	default:
		return nil, fmt.Errorf("unknown sandbox mode: %s", mode)
	}
}
