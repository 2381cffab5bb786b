package sandbox

import (
	"github.com/ChamsBouzaiene/planforge/internal/workspace"
)

// imageFor picks a Docker image for the target repository. A configured
// override wins; otherwise the image follows the detected project type.
func imageFor(projectType workspace.ProjectType, config Config) string {
	if config.DockerImage != "" {
		return config.DockerImage
	}

	switch projectType {
	case workspace.ProjectTypePython:
		return "python:3.12-slim"
	case workspace.ProjectTypeGo:
		return "golang:alpine"
	case workspace.ProjectTypeNode:
		return "node:alpine"
	case workspace.ProjectTypeRust:
		return "rust:alpine"
	default:
		return "python:3.12-slim"
	}
}
