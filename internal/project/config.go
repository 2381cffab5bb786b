// Package project handles per-repository settings kept under .planforge.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// StateDir is the per-repository planforge directory.
	StateDir = ".planforge"
	// ConfigFile holds the project configuration.
	ConfigFile = "config.json"
	// RulesFile holds free-form rules appended to the system prompt.
	RulesFile = "rules"
)

// ProjectConfig holds settings that travel with the target repository.
type ProjectConfig struct {
	// BootstrapEnabled pre-creates the plan's file tree before the run.
	BootstrapEnabled bool `json:"bootstrap_enabled"`
	// ReferencePath is a default reference codebase for search_references.
	ReferencePath string `json:"reference_path,omitempty"`
}

func configPath(repoRoot string) string {
	return filepath.Join(repoRoot, StateDir, ConfigFile)
}

func rulesPath(repoRoot string) string {
	return filepath.Join(repoRoot, StateDir, RulesFile)
}

// ConfigExists reports whether the repository carries a project config.
func ConfigExists(repoRoot string) bool {
	_, err := os.Stat(configPath(repoRoot))
	return !os.IsNotExist(err)
}

// LoadConfig reads the project configuration. A missing file yields nil
// with no error.
func LoadConfig(repoRoot string) (*ProjectConfig, error) {
	path := configPath(repoRoot)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config: %w", err)
	}

	var cfg ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse project config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes the project configuration, creating .planforge if
// needed.
func SaveConfig(repoRoot string, cfg *ProjectConfig) error {
	if err := os.MkdirAll(filepath.Join(repoRoot, StateDir), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", StateDir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project config: %w", err)
	}

	if err := os.WriteFile(configPath(repoRoot), data, 0644); err != nil {
		return fmt.Errorf("failed to write project config: %w", err)
	}
	return nil
}

// LoadRules reads custom rules from .planforge/rules. A missing file
// yields an empty string.
func LoadRules(repoRoot string) (string, error) {
	path := rulesPath(repoRoot)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read rules file: %w", err)
	}
	return string(data), nil
}
