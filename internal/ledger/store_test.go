package ledger

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_FilesFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.CreateRun(ctx, "run1", "implement the plan"); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if err := s.AddFile(ctx, "run1", "model.py", 3); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}
	if err := s.AddFile(ctx, "run1", "trainer.py", 5); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}
	// Overwrite keeps the original round.
	if err := s.AddFile(ctx, "run1", "model.py", 9); err != nil {
		t.Fatalf("AddFile() duplicate error = %v", err)
	}

	files, err := s.Files(ctx, "run1")
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].Path != "model.py" || files[0].Round != 3 {
		t.Errorf("files[0] = %+v, want model.py round 3", files[0])
	}
}

func TestStore_NotesAndStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.CreateRun(ctx, "run1", "task"); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if err := s.AddDecision(ctx, "run1", 2, "use sqlite for the ledger"); err != nil {
		t.Fatalf("AddDecision() error = %v", err)
	}
	if err := s.AddConstraint(ctx, "run1", 2, "no network access in tests"); err != nil {
		t.Fatalf("AddConstraint() error = %v", err)
	}
	if err := s.RecordOp(ctx, "run1", 1, "read_file", "read", true); err != nil {
		t.Fatalf("RecordOp() error = %v", err)
	}
	if err := s.RecordOp(ctx, "run1", 2, "write_file", "write", false); err != nil {
		t.Fatalf("RecordOp() error = %v", err)
	}

	stats, err := s.RunStats(ctx, "run1")
	if err != nil {
		t.Fatalf("RunStats() error = %v", err)
	}
	if stats.Decisions != 1 || stats.Constraints != 1 {
		t.Errorf("stats = %+v, want 1 decision and 1 constraint", stats)
	}
	if stats.Ops != 2 || stats.FailedOps != 1 {
		t.Errorf("stats = %+v, want 2 ops with 1 failed", stats)
	}

	decisions, err := s.Decisions(ctx, "run1")
	if err != nil {
		t.Fatalf("Decisions() error = %v", err)
	}
	if len(decisions) != 1 || decisions[0].Text != "use sqlite for the ledger" {
		t.Errorf("decisions = %+v", decisions)
	}
}

func TestStore_Digest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.CreateRun(ctx, "run1", "task"); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	// Empty ledger renders nothing.
	digest, err := s.Digest(ctx, "run1", 10)
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	if digest != "" {
		t.Errorf("Digest() = %q, want empty for fresh run", digest)
	}

	for i, path := range []string{"a.py", "b.py", "c.py"} {
		if err := s.AddFile(ctx, "run1", path, i+1); err != nil {
			t.Fatalf("AddFile() error = %v", err)
		}
	}
	if err := s.AddDecision(ctx, "run1", 1, "batch size 32"); err != nil {
		t.Fatalf("AddDecision() error = %v", err)
	}

	digest, err = s.Digest(ctx, "run1", 2)
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	if !strings.Contains(digest, "Files Implemented (3)") {
		t.Errorf("digest missing file count:\n%s", digest)
	}
	if strings.Contains(digest, "- a.py") {
		t.Errorf("digest should omit oldest file beyond maxFiles:\n%s", digest)
	}
	if !strings.Contains(digest, "1 earlier files omitted") {
		t.Errorf("digest missing omission marker:\n%s", digest)
	}
	if !strings.Contains(digest, "batch size 32") {
		t.Errorf("digest missing decision:\n%s", digest)
	}
}

func TestStore_CreateRunIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.CreateRun(ctx, "run1", "task"); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if err := s.CreateRun(ctx, "run1", "task"); err != nil {
		t.Errorf("CreateRun() second call error = %v, want nil", err)
	}
}
