package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/planforge/internal/ledger"
	"github.com/ChamsBouzaiene/planforge/internal/refindex"
)

// runtimeEnv bundles the per-run collaborators that need explicit teardown.
type runtimeEnv struct {
	RepoRoot string
	RunID    string
	Ledger   *ledger.Store
	RefIndex *refindex.Index
	watcher  *refindex.Watcher
}

func (r *runtimeEnv) Close() {
	if r.watcher != nil {
		_ = r.watcher.Stop()
	}
	if r.RefIndex != nil {
		_ = r.RefIndex.Close()
	}
	if r.Ledger != nil {
		_ = r.Ledger.Close()
	}
}

// prepareRuntimeEnv resolves the target repository, opens the run ledger
// under <repo>/.planforge, and indexes the reference codebase when one was
// given.
func prepareRuntimeEnv(ctx context.Context, repoFlag, refsFlag, runID string, watch bool) (*runtimeEnv, error) {
	repoRoot := repoFlag
	if repoRoot == "" {
		var err error
		repoRoot, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	absRepoRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository path: %w", err)
	}
	if info, err := os.Stat(absRepoRoot); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("repository path is not a valid directory: %s", absRepoRoot)
	}
	log.Printf("Repository root: %s", absRepoRoot)

	stateDir := filepath.Join(absRepoRoot, ".planforge")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	if runID == "" {
		runID = uuid.NewString()
	}

	store, err := ledger.Open(ctx, filepath.Join(stateDir, "ledger.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open run ledger: %w", err)
	}

	env := &runtimeEnv{
		RepoRoot: absRepoRoot,
		RunID:    runID,
		Ledger:   store,
	}

	if refsFlag != "" {
		absRefs, err := filepath.Abs(refsFlag)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("failed to resolve references path: %w", err)
		}
		if info, err := os.Stat(absRefs); err != nil || !info.IsDir() {
			env.Close()
			return nil, fmt.Errorf("references path is not a valid directory: %s", absRefs)
		}

		ix, err := refindex.Open(absRefs, filepath.Join(stateDir, "refindex.bleve"))
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("failed to open reference index: %w", err)
		}
		env.RefIndex = ix

		n, err := ix.Rebuild()
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("failed to index references: %w", err)
		}
		log.Printf("🔎 Indexed %d reference file(s) from %s", n, absRefs)

		if watch {
			w, err := refindex.NewWatcher(absRefs, ix)
			if err != nil {
				log.Printf("⚠️  Failed to create reference watcher: %v (continuing without it)", err)
			} else if err := w.Start(); err != nil {
				log.Printf("⚠️  Failed to start reference watcher: %v (continuing without it)", err)
			} else {
				env.watcher = w
			}
		}
	}

	return env, nil
}
