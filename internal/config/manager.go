// Package config persists user preferences in the OS config directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the user's persistent preferences. Environment variables
// still win over these at startup.
type Config struct {
	LLMProvider      string `json:"llm_provider,omitempty"` // openai, anthropic, deepseek, kimi, ollama
	APIKey           string `json:"api_key,omitempty"`
	Model            string `json:"model,omitempty"`
	BaseURL          string `json:"base_url,omitempty"`
	ReadToolsEnabled bool   `json:"read_tools_enabled"`
	MaxIterations    int    `json:"max_iterations,omitempty"`
}

// Manager loads and saves the configuration file.
type Manager struct {
	configDir string
}

func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return &Manager{
		configDir: filepath.Join(configDir, "planforge"),
	}, nil
}

func (m *Manager) ConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration. A missing file yields an empty Config.
func (m *Manager) Load() (*Config, error) {
	path := m.ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{ReadToolsEnabled: true}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration with owner-only permissions, since it may
// hold an API key.
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (m *Manager) Exists() bool {
	_, err := os.Stat(m.ConfigPath())
	return !os.IsNotExist(err)
}
