package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides database operations for run ledgers.
type Store struct {
	db *sql.DB
}

// Open creates a new database connection and initializes the schema.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	// WAL mode allows readers alongside the single writer.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers well.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	-- Run metadata
	CREATE TABLE IF NOT EXISTS runs (
		run_id     TEXT PRIMARY KEY,
		task       TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	-- Implemented files, first write wins
	CREATE TABLE IF NOT EXISTS files (
		file_id    INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL,
		path       TEXT NOT NULL,
		round      INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE (run_id, path),
		FOREIGN KEY (run_id) REFERENCES runs(run_id)
	);

	-- Technical decisions and constraints recorded via the note tool
	CREATE TABLE IF NOT EXISTS notes (
		note_id    INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL,
		kind       TEXT NOT NULL, -- 'decision' | 'constraint'
		round      INTEGER NOT NULL,
		text       TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id)
	);

	-- Raw tool operation log
	CREATE TABLE IF NOT EXISTS tool_ops (
		op_id     INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id    TEXT NOT NULL,
		round     INTEGER NOT NULL,
		tool_name TEXT NOT NULL,
		kind      TEXT NOT NULL,
		ok        INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id)
	);

	CREATE INDEX IF NOT EXISTS idx_files_run ON files(run_id);
	CREATE INDEX IF NOT EXISTS idx_notes_run ON notes(run_id, kind);
	CREATE INDEX IF NOT EXISTS idx_ops_run ON tool_ops(run_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// CreateRun registers a run. Calling it again for the same run ID is a
// no-op, which makes resume cheap.
func (s *Store) CreateRun(ctx context.Context, runID, task string) error {
	query := `INSERT INTO runs (run_id, task, created_at) VALUES (?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING`
	_, err := s.db.ExecContext(ctx, query, runID, task, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// AddFile records an implemented file. Re-recording the same path keeps
// the original round.
func (s *Store) AddFile(ctx context.Context, runID, path string, round int) error {
	query := `INSERT INTO files (run_id, path, round, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, path) DO NOTHING`
	_, err := s.db.ExecContext(ctx, query, runID, path, round, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to add file: %w", err)
	}
	return nil
}

// AddDecision records a technical decision.
func (s *Store) AddDecision(ctx context.Context, runID string, round int, text string) error {
	return s.addNote(ctx, runID, "decision", round, text)
}

// AddConstraint records a constraint.
func (s *Store) AddConstraint(ctx context.Context, runID string, round int, text string) error {
	return s.addNote(ctx, runID, "constraint", round, text)
}

func (s *Store) addNote(ctx context.Context, runID, kind string, round int, text string) error {
	query := `INSERT INTO notes (run_id, kind, round, text, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, runID, kind, round, text, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", kind, err)
	}
	return nil
}

// RecordOp appends one tool operation to the log.
func (s *Store) RecordOp(ctx context.Context, runID string, round int, toolName, kind string, ok bool) error {
	okInt := 0
	if ok {
		okInt = 1
	}
	query := `INSERT INTO tool_ops (run_id, round, tool_name, kind, ok) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, runID, round, toolName, kind, okInt)
	if err != nil {
		return fmt.Errorf("failed to record op: %w", err)
	}
	return nil
}

// Files returns the implemented files for a run in first-write order.
func (s *Store) Files(ctx context.Context, runID string) ([]FileEntry, error) {
	query := `SELECT path, round, created_at FROM files WHERE run_id = ? ORDER BY file_id`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []FileEntry
	for rows.Next() {
		var f FileEntry
		if err := rows.Scan(&f.Path, &f.Round, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Decisions returns the recorded decisions for a run, oldest first.
func (s *Store) Decisions(ctx context.Context, runID string) ([]NoteEntry, error) {
	return s.notes(ctx, runID, "decision")
}

// Constraints returns the recorded constraints for a run, oldest first.
func (s *Store) Constraints(ctx context.Context, runID string) ([]NoteEntry, error) {
	return s.notes(ctx, runID, "constraint")
}

func (s *Store) notes(ctx context.Context, runID, kind string) ([]NoteEntry, error) {
	query := `SELECT round, text, created_at FROM notes WHERE run_id = ? AND kind = ? ORDER BY note_id`
	rows, err := s.db.QueryContext(ctx, query, runID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []NoteEntry
	for rows.Next() {
		var n NoteEntry
		if err := rows.Scan(&n.Round, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// RunStats summarizes the ledger for one run.
func (s *Store) RunStats(ctx context.Context, runID string) (Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files WHERE run_id = ?`, runID)
	if err := row.Scan(&st.Files); err != nil {
		return st, err
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE run_id = ? AND kind = 'decision'`, runID)
	if err := row.Scan(&st.Decisions); err != nil {
		return st, err
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE run_id = ? AND kind = 'constraint'`, runID)
	if err := row.Scan(&st.Constraints); err != nil {
		return st, err
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(1 - ok), 0) FROM tool_ops WHERE run_id = ?`, runID)
	if err := row.Scan(&st.Ops, &st.FailedOps); err != nil {
		return st, err
	}
	return st, nil
}

// Digest renders the ledger as a markdown block for re-injection into the
// system prompt. The most recent maxFiles files are listed; older ones are
// summarized as a count so the digest stays bounded.
func (s *Store) Digest(ctx context.Context, runID string, maxFiles int) (string, error) {
	files, err := s.Files(ctx, runID)
	if err != nil {
		return "", err
	}
	decisions, err := s.Decisions(ctx, runID)
	if err != nil {
		return "", err
	}
	constraints, err := s.Constraints(ctx, runID)
	if err != nil {
		return "", err
	}
	if len(files) == 0 && len(decisions) == 0 && len(constraints) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("## Progress Ledger\n")

	fmt.Fprintf(&b, "\n### Files Implemented (%d)\n", len(files))
	shown := files
	if maxFiles > 0 && len(shown) > maxFiles {
		fmt.Fprintf(&b, "... %d earlier files omitted\n", len(shown)-maxFiles)
		shown = shown[len(shown)-maxFiles:]
	}
	for _, f := range shown {
		fmt.Fprintf(&b, "- %s (round %d)\n", f.Path, f.Round)
	}

	if len(decisions) > 0 {
		b.WriteString("\n### Technical Decisions\n")
		for _, d := range decisions {
			fmt.Fprintf(&b, "- %s\n", d.Text)
		}
	}
	if len(constraints) > 0 {
		b.WriteString("\n### Constraints\n")
		for _, c := range constraints {
			fmt.Fprintf(&b, "- %s\n", c.Text)
		}
	}

	return b.String(), nil
}
