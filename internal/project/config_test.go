package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigExists(t *testing.T) {
	tempDir := t.TempDir()

	if ConfigExists(tempDir) {
		t.Error("ConfigExists should return false when config doesn't exist")
	}

	if err := SaveConfig(tempDir, &ProjectConfig{BootstrapEnabled: true}); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	if !ConfigExists(tempDir) {
		t.Error("ConfigExists should return true after save")
	}
}

func TestLoadConfig_NotExists(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Errorf("LoadConfig should not error when file doesn't exist: %v", err)
	}
	if cfg != nil {
		t.Error("LoadConfig should return nil when file doesn't exist")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	want := &ProjectConfig{BootstrapEnabled: true, ReferencePath: "/refs/paper-code"}
	if err := SaveConfig(tempDir, want); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, err := LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got == nil || got.BootstrapEnabled != want.BootstrapEnabled || got.ReferencePath != want.ReferencePath {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestLoadRules(t *testing.T) {
	tempDir := t.TempDir()

	rules, err := LoadRules(tempDir)
	if err != nil || rules != "" {
		t.Errorf("missing rules file should yield empty string, got %q %v", rules, err)
	}

	stateDir := filepath.Join(tempDir, StateDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stateDir, RulesFile), []byte("always use torch"), 0644); err != nil {
		t.Fatal(err)
	}

	rules, err = LoadRules(tempDir)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if rules != "always use torch" {
		t.Errorf("unexpected rules: %q", rules)
	}
}
