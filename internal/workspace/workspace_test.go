package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectProjectType_Manifest(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("torch\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := DetectProjectType(root); got != ProjectTypePython {
		t.Errorf("expected python, got %s", got)
	}
}

func TestDetectProjectType_ExtensionFallback(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.py", "b.py", "c.py"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("pass\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if got := DetectProjectType(root); got != ProjectTypePython {
		t.Errorf("expected python, got %s", got)
	}

	if got := DetectProjectType(t.TempDir()); got != ProjectTypeUnknown {
		t.Errorf("expected unknown for empty dir, got %s", got)
	}
}

func TestParseFileTree_Glyphs(t *testing.T) {
	plan := "## File Structure\n\n```\nrepo/\n├── README.md\n├── src/\n│   ├── model.py\n│   └── train.py\n└── tests/\n    └── test_model.py\n```\n"

	got := ParseFileTree(plan)
	want := []string{
		"README.md",
		filepath.Join("src", "model.py"),
		filepath.Join("src", "train.py"),
		filepath.Join("tests", "test_model.py"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parsed tree mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestParseFileTree_PlainPaths(t *testing.T) {
	plan := "```\nsrc/model.py\nsrc/train.py\n```\n"

	got := ParseFileTree(plan)
	if len(got) != 2 || got[0] != "src/model.py" {
		t.Errorf("unexpected parse: %v", got)
	}
}

func TestBootstrap(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "existing.py"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	created, err := Bootstrap(root, []string{"existing.py", "src/model.py"})
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if len(created) != 1 || created[0] != "src/model.py" {
		t.Errorf("unexpected created list: %v", created)
	}

	data, err := os.ReadFile(filepath.Join(root, "existing.py"))
	if err != nil || string(data) != "keep" {
		t.Errorf("existing file was modified: %q %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(root, "src/model.py")); err != nil {
		t.Errorf("placeholder not created: %v", err)
	}
}

func TestBootstrap_RejectsEscape(t *testing.T) {
	if _, err := Bootstrap(t.TempDir(), []string{"../outside.py"}); err == nil {
		t.Fatal("expected error for path escaping root")
	}
}
