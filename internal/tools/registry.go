// Package tools assembles the tool registry the controller dispatches
// against: filesystem writes and reads, reference search, sandboxed
// execution, implementation memory, and the respond sentinel.
package tools

import (
	"github.com/ChamsBouzaiene/planforge/internal/engine"
	"github.com/ChamsBouzaiene/planforge/internal/ledger"
	"github.com/ChamsBouzaiene/planforge/internal/refindex"
	"github.com/ChamsBouzaiene/planforge/internal/tools/execution"
	"github.com/ChamsBouzaiene/planforge/internal/tools/filesystem"
	"github.com/ChamsBouzaiene/planforge/internal/tools/memorytool"
	"github.com/ChamsBouzaiene/planforge/internal/tools/reasoning"
	"github.com/ChamsBouzaiene/planforge/internal/tools/search"
)

// Config selects which collaborators back the registry.
type Config struct {
	RepoRoot string

	// RefIndex backs search_references; nil omits the tool.
	RefIndex *refindex.Index

	// Ledger and RunID back read_code_mem; a nil Ledger omits the tool.
	Ledger *ledger.Store
	RunID  string

	// ReadToolsEnabled exposes read_file and read_code_mem. Disabling them
	// forces the model to rely on synthesized memory instead of re-reading.
	ReadToolsEnabled bool

	// ExecutionEnabled exposes execute_bash and execute_python.
	ExecutionEnabled bool
}

// NewToolRegistry builds the registry for a run.
func NewToolRegistry(cfg Config) engine.ToolRegistry {
	reg := make(engine.ToolRegistry)

	add := func(t engine.Tool) { reg[t.Name] = t }

	add(filesystem.NewWriteFileTool(cfg.RepoRoot))
	add(filesystem.NewListFilesTool(cfg.RepoRoot))
	add(search.NewGrepTool(cfg.RepoRoot))
	add(reasoning.NewRespondTool())
	add(reasoning.NewNoteTool())

	if cfg.RefIndex != nil {
		add(search.NewSearchReferencesTool(cfg.RefIndex))
	}

	if cfg.ReadToolsEnabled {
		add(filesystem.NewReadFileTool(cfg.RepoRoot))
		if cfg.Ledger != nil {
			add(memorytool.NewReadCodeMemTool(cfg.Ledger, cfg.RunID))
		}
	}

	if cfg.ExecutionEnabled {
		add(execution.NewExecuteBashTool(cfg.RepoRoot))
		add(execution.NewExecutePythonTool(cfg.RepoRoot))
	}

	return reg
}
