package ledger

import (
	"context"
	"log"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

// Sink adapts a Store to the engine's progress sink. Ledger writes are
// best-effort: a failed insert is logged and the run continues, because
// losing one ledger row is better than killing the loop.
type Sink struct {
	store *Store
	runID string
	log   *log.Logger
}

func NewSink(store *Store, runID string, logger *log.Logger) *Sink {
	if logger == nil {
		logger = log.Default()
	}
	return &Sink{store: store, runID: runID, log: logger}
}

func (s *Sink) FileImplemented(rec engine.FileImplementationRecord) {
	if err := s.store.AddFile(context.Background(), s.runID, rec.Path, rec.Round); err != nil {
		s.log.Printf("ledger: file insert failed: %v", err)
	}
}

func (s *Sink) ToolOp(round int, toolName string, kind engine.ToolKind, ok bool) {
	if err := s.store.RecordOp(context.Background(), s.runID, round, toolName, string(kind), ok); err != nil {
		s.log.Printf("ledger: op insert failed: %v", err)
	}
}

func (s *Sink) Decision(round int, text string) {
	if err := s.store.AddDecision(context.Background(), s.runID, round, text); err != nil {
		s.log.Printf("ledger: decision insert failed: %v", err)
	}
}

func (s *Sink) Constraint(round int, text string) {
	if err := s.store.AddConstraint(context.Background(), s.runID, round, text); err != nil {
		s.log.Printf("ledger: constraint insert failed: %v", err)
	}
}
