package search

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ChamsBouzaiene/planforge/internal/refindex"
	"github.com/ChamsBouzaiene/planforge/internal/sandbox"
)

func buildIndex(t *testing.T) *refindex.Index {
	t.Helper()
	root := t.TempDir()
	src := "def scaled_dot_product_attention(q, k, v):\n    scores = q @ k.T\n    return softmax(scores) @ v\n"
	if err := os.WriteFile(filepath.Join(root, "attention.py"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	ix, err := refindex.Open(root, "")
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	if _, err := ix.Rebuild(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	return ix
}

func TestSearchReferencesTool(t *testing.T) {
	tool := NewSearchReferencesTool(buildIndex(t))

	out, err := tool.Fn(context.Background(), map[string]any{"query": "attention softmax"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "attention.py") {
		t.Errorf("expected hit in attention.py, got:\n%s", out)
	}
	if !strings.Contains(out, "scaled_dot_product_attention") {
		t.Errorf("snippet text missing from output:\n%s", out)
	}
}

func TestSearchReferencesTool_NoMatch(t *testing.T) {
	tool := NewSearchReferencesTool(buildIndex(t))

	out, err := tool.Fn(context.Background(), map[string]any{"query": "zzzznonexistent"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "No reference snippets matched") {
		t.Errorf("expected empty-result message, got:\n%s", out)
	}
}

type fakeRunner struct {
	result sandbox.Result
	args   []string
}

func (f *fakeRunner) RunCmd(ctx context.Context, repoDir, name string, args []string, timeout time.Duration) (sandbox.Result, error) {
	f.args = args
	return f.result, nil
}

func TestGrepTool_Matches(t *testing.T) {
	runner := &fakeRunner{result: sandbox.Result{Stdout: "main.go:10:func main() {\n", Code: 0}}
	tool := newGrepTool(runner, "/repo")

	out, err := tool.Fn(context.Background(), map[string]any{"pattern": "func main", "glob": "*.go"})
	if err != nil {
		t.Fatalf("grep failed: %v", err)
	}
	if out != "main.go:10:func main() {" {
		t.Errorf("unexpected output: %q", out)
	}

	joined := strings.Join(runner.args, " ")
	if !strings.Contains(joined, "--glob *.go") {
		t.Errorf("glob not forwarded: %v", runner.args)
	}
}

func TestGrepTool_NoMatches(t *testing.T) {
	runner := &fakeRunner{result: sandbox.Result{Code: 1}}
	tool := newGrepTool(runner, "/repo")

	out, err := tool.Fn(context.Background(), map[string]any{"pattern": "absent"})
	if err != nil {
		t.Fatalf("grep failed: %v", err)
	}
	if !strings.Contains(out, "No matches") {
		t.Errorf("unexpected output: %q", out)
	}
}
