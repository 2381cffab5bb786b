package session

import (
	"testing"
	"time"
)

func TestStore_SaveLoadList(t *testing.T) {
	store := NewStore(t.TempDir())
	repo := "/tmp/target-repo"

	older := &RunRecord{
		ID:        "run-a",
		RepoPath:  repo,
		Status:    "max_iterations",
		StartedAt: time.Now().Add(-2 * time.Hour),
		UpdatedAt: time.Now().Add(-1 * time.Hour),
	}
	newer := &RunRecord{
		ID:               "run-b",
		RepoPath:         repo,
		Status:           "success",
		Iterations:       12,
		FilesImplemented: 5,
		StartedAt:        time.Now().Add(-30 * time.Minute),
		UpdatedAt:        time.Now(),
	}
	for _, rec := range []*RunRecord{older, newer} {
		if err := store.Save(rec); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	loaded, err := store.Load("run-b", repo)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Status != "success" || loaded.FilesImplemented != 5 {
		t.Errorf("record mismatch: %+v", loaded)
	}

	runs, err := store.List(repo)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-b" {
		t.Errorf("unexpected listing order: %+v", runs)
	}
}

func TestStore_Latest(t *testing.T) {
	store := NewStore(t.TempDir())
	repo := "/tmp/target-repo"

	latest, err := store.Latest(repo)
	if err != nil {
		t.Fatalf("latest on empty store failed: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil for empty store, got %+v", latest)
	}

	if err := store.Save(&RunRecord{ID: "run-a", RepoPath: repo, UpdatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	latest, err = store.Latest(repo)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ID != "run-a" {
		t.Errorf("unexpected latest: %+v", latest)
	}
}

func TestStore_ScopedByRepo(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Save(&RunRecord{ID: "run-a", RepoPath: "/repo/one", UpdatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List("/repo/two")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("runs leaked across repositories: %+v", runs)
	}
}
