package engine

// ProgressConfig tunes the loop detector.
type ProgressConfig struct {
	// LoopWindow is how many consecutive tool-using rounds without a
	// write attempt count as an analysis loop.
	LoopWindow int
}

func DefaultProgressConfig() ProgressConfig {
	return ProgressConfig{LoopWindow: 3}
}

// FileImplementationRecord marks one file as implemented, with the round
// that wrote it.
type FileImplementationRecord struct {
	Path  string
	Round int
}

// ProgressSink receives durable progress events. The sqlite ledger
// implements this; a nil sink is allowed.
type ProgressSink interface {
	FileImplemented(rec FileImplementationRecord)
	ToolOp(round int, toolName string, kind ToolKind, ok bool)
	Decision(round int, text string)
	Constraint(round int, text string)
}

// ProgressTracker derives run-level progress facts from dispatched rounds:
// which files exist, whether the model is stuck analyzing instead of
// writing, and per-kind operation counts. It never mutates the
// conversation.
type ProgressTracker struct {
	cfg  ProgressConfig
	sink ProgressSink

	files     []FileImplementationRecord
	seenFiles map[string]bool

	// Consecutive rounds that called tools but attempted no write.
	analysisStreak int

	opCounts    map[ToolKind]int
	errorCount  int
	decisions   int
	constraints int
}

func NewProgressTracker(cfg ProgressConfig, sink ProgressSink) *ProgressTracker {
	if cfg.LoopWindow <= 0 {
		cfg.LoopWindow = DefaultProgressConfig().LoopWindow
	}
	return &ProgressTracker{
		cfg:       cfg,
		sink:      sink,
		seenFiles: make(map[string]bool),
		opCounts:  make(map[ToolKind]int),
	}
}

// ObserveRound folds one completed round into the tracker. Rounds with no
// tool calls do not advance the analysis streak; an attempted write resets
// it even when the write fails.
func (p *ProgressTracker) ObserveRound(round Round) {
	if len(round.ToolCalls) == 0 {
		return
	}

	wroteAttempted := false
	for _, res := range round.Results {
		p.opCounts[res.Kind]++
		if !res.OK() {
			p.errorCount++
		}
		if p.sink != nil {
			p.sink.ToolOp(round.Index, res.ToolName, res.Kind, res.OK())
		}

		switch res.Kind {
		case KindWrite:
			wroteAttempted = true
			if res.OK() {
				p.recordFile(res, round.Index)
			}
		case KindMeta:
			p.recordNote(res, round.Index)
		}
	}

	if wroteAttempted {
		p.analysisStreak = 0
	} else {
		p.analysisStreak++
	}
}

// AnalysisLoop reports whether the model has spent at least LoopWindow
// consecutive tool-using rounds without attempting a write.
func (p *ProgressTracker) AnalysisLoop() bool {
	return p.analysisStreak >= p.cfg.LoopWindow
}

// FilesImplemented returns the distinct files written so far, in first-write
// order. The list is append-only: overwriting a file does not re-record it.
func (p *ProgressTracker) FilesImplemented() []FileImplementationRecord {
	out := make([]FileImplementationRecord, len(p.files))
	copy(out, p.files)
	return out
}

func (p *ProgressTracker) FileCount() int { return len(p.files) }

func (p *ProgressTracker) OpCount(kind ToolKind) int { return p.opCounts[kind] }

func (p *ProgressTracker) ErrorCount() int { return p.errorCount }

func (p *ProgressTracker) DecisionCount() int { return p.decisions }

func (p *ProgressTracker) ConstraintCount() int { return p.constraints }

func (p *ProgressTracker) recordFile(res ToolResult, round int) {
	path := targetOf(res.Input)
	if path == "" || p.seenFiles[path] {
		return
	}
	p.seenFiles[path] = true
	rec := FileImplementationRecord{Path: path, Round: round}
	p.files = append(p.files, rec)
	if p.sink != nil {
		p.sink.FileImplemented(rec)
	}
}

func (p *ProgressTracker) recordNote(res ToolResult, round int) {
	if res.ToolName != "note" || !res.OK() {
		return
	}
	kind, _ := res.Input["kind"].(string)
	text, _ := res.Input["text"].(string)
	switch kind {
	case "decision":
		p.decisions++
		if p.sink != nil {
			p.sink.Decision(round, text)
		}
	case "constraint":
		p.constraints++
		if p.sink != nil {
			p.sink.Constraint(round, text)
		}
	}
}
