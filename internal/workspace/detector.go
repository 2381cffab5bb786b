// Package workspace prepares and inspects the target repository: project
// type detection for the sandbox, and scaffolding the file tree declared
// in an implementation plan.
package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

// ProjectType classifies the target repository.
type ProjectType string

const (
	ProjectTypePython  ProjectType = "python"
	ProjectTypeGo      ProjectType = "go"
	ProjectTypeNode    ProjectType = "node"
	ProjectTypeRust    ProjectType = "rust"
	ProjectTypeUnknown ProjectType = "unknown"
)

var manifests = []struct {
	file string
	typ  ProjectType
}{
	{"pyproject.toml", ProjectTypePython},
	{"requirements.txt", ProjectTypePython},
	{"setup.py", ProjectTypePython},
	{"go.mod", ProjectTypeGo},
	{"package.json", ProjectTypeNode},
	{"Cargo.toml", ProjectTypeRust},
}

// DetectProjectType classifies repoRoot, manifest files first and then a
// source extension count as fallback. Paper reproductions are usually
// Python, so its manifests are checked first.
func DetectProjectType(repoRoot string) ProjectType {
	for _, m := range manifests {
		if _, err := os.Stat(filepath.Join(repoRoot, m.file)); err == nil {
			return m.typ
		}
	}

	entries, err := os.ReadDir(repoRoot)
	if err != nil {
		return ProjectTypeUnknown
	}

	extCounts := make(map[string]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(entry.Name())); ext != "" {
			extCounts[ext]++
		}
	}

	counts := map[ProjectType]int{
		ProjectTypePython: extCounts[".py"],
		ProjectTypeGo:     extCounts[".go"],
		ProjectTypeNode:   extCounts[".ts"] + extCounts[".tsx"] + extCounts[".js"] + extCounts[".jsx"],
		ProjectTypeRust:   extCounts[".rs"],
	}

	best := ProjectTypeUnknown
	max := 0
	for typ, n := range counts {
		if n > max {
			max = n
			best = typ
		}
	}

	// A couple of stray files should not decide the type.
	if max >= 3 {
		return best
	}
	return ProjectTypeUnknown
}
