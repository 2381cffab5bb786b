// Package ledger persists run progress that must survive conversation
// compaction: implemented files, technical decisions, constraints, and the
// raw tool operation log. The conversation can be rebuilt from scratch at
// any round; the ledger cannot.
package ledger

// FileEntry is one implemented file within a run.
type FileEntry struct {
	Path      string
	Round     int
	CreatedAt int64
}

// NoteEntry is a recorded decision or constraint.
type NoteEntry struct {
	Round     int
	Text      string
	CreatedAt int64
}

// OpEntry is one raw tool operation.
type OpEntry struct {
	Round    int
	ToolName string
	Kind     string
	OK       bool
}

// Stats summarizes one run's ledger.
type Stats struct {
	Files       int
	Decisions   int
	Constraints int
	Ops         int
	FailedOps   int
}
