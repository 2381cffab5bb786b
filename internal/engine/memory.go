package engine

import (
	"fmt"
	"sort"
	"strings"
)

// MemoryConfig tunes the write-triggered compaction engine.
type MemoryConfig struct {
	// MessageCeiling forces a compaction whenever the conversation grows
	// past this many messages, even without a write. Guards against
	// unbounded analysis stretches.
	MessageCeiling int
	// EssentialKinds lists the result kinds carried verbatim across a
	// compaction boundary.
	EssentialKinds map[ToolKind]bool
	// MaxEssentialOutput truncates a single retained output so one huge
	// file read cannot dominate the rebuilt context.
	MaxEssentialOutput int
}

func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		MessageCeiling: 500,
		EssentialKinds: map[ToolKind]bool{
			KindRead:      true,
			KindReference: true,
		},
		MaxEssentialOutput: 8000,
	}
}

// MemoryStats is a snapshot of compaction activity for reports and hooks.
type MemoryStats struct {
	Compactions       int
	EssentialRecorded int
	EssentialPending  int
}

type essentialEntry struct {
	ToolName string
	Target   string
	Output   string
}

// MemoryEngine rebuilds the conversation after a successful write. The
// rebuilt conversation is always [system, initial task, synthesized
// essentials]; everything else is discarded. Compacting an already
// compacted conversation is a fixed point: with no new essential results
// the previous synthesized message is reused unchanged.
type MemoryEngine struct {
	cfg             MemoryConfig
	pending         []essentialEntry
	lastSynthesized string
	writePending    bool
	recorded        int
	compactions     int
}

func NewMemoryEngine(cfg MemoryConfig) *MemoryEngine {
	if cfg.MessageCeiling <= 0 {
		cfg.MessageCeiling = DefaultMemoryConfig().MessageCeiling
	}
	if cfg.EssentialKinds == nil {
		cfg.EssentialKinds = DefaultMemoryConfig().EssentialKinds
	}
	if cfg.MaxEssentialOutput <= 0 {
		cfg.MaxEssentialOutput = DefaultMemoryConfig().MaxEssentialOutput
	}
	return &MemoryEngine{cfg: cfg}
}

// RecordResult observes one dispatched tool result. Successful writes arm
// the compaction trigger; successful essential-kind results are queued for
// the next synthesized message. Failed results are never retained.
func (m *MemoryEngine) RecordResult(res ToolResult) {
	if !res.OK() {
		return
	}
	if res.Kind == KindWrite {
		m.writePending = true
	}
	if m.cfg.EssentialKinds[res.Kind] {
		out := res.Output
		if len(out) > m.cfg.MaxEssentialOutput {
			out = out[:m.cfg.MaxEssentialOutput] + "\n... (truncated)"
		}
		m.pending = append(m.pending, essentialEntry{
			ToolName: res.ToolName,
			Target:   targetOf(res.Input),
			Output:   out,
		})
		m.recorded++
	}
}

// ShouldCompact reports whether the conversation must be rebuilt before
// the next model call.
func (m *MemoryEngine) ShouldCompact(conv *Conversation) bool {
	return m.writePending || conv.Len() > m.cfg.MessageCeiling
}

// Compact replaces the conversation wholesale with the system message, the
// initial task, and one synthesized message holding the essential results
// recorded since the previous compaction. Returns message counts before
// and after.
func (m *MemoryEngine) Compact(conv *Conversation) (before, after int) {
	before = conv.Len()

	synthesized := m.lastSynthesized
	if len(m.pending) > 0 {
		synthesized = m.synthesize()
	}

	msgs := conv.Messages()
	rebuilt := []ChatMessage{
		{Role: RoleSystem, Content: msgs[0].Content},
		{Role: RoleUser, Content: conv.InitialTask()},
	}
	if synthesized != "" {
		rebuilt = append(rebuilt, ChatMessage{Role: RoleUser, Content: synthesized})
	}
	conv.Replace(rebuilt)

	m.lastSynthesized = synthesized
	m.pending = nil
	m.writePending = false
	m.compactions++
	return before, conv.Len()
}

// ClearWriteTrigger disarms the write trigger without compacting. Used
// when a run terminates in the same round as the write.
func (m *MemoryEngine) ClearWriteTrigger() { m.writePending = false }

func (m *MemoryEngine) Stats() MemoryStats {
	return MemoryStats{
		Compactions:       m.compactions,
		EssentialRecorded: m.recorded,
		EssentialPending:  len(m.pending),
	}
}

// synthesize folds queued essential results into one user message. Later
// results for the same tool and target supersede earlier ones.
func (m *MemoryEngine) synthesize() string {
	latest := make(map[string]essentialEntry, len(m.pending))
	order := make([]string, 0, len(m.pending))
	for _, e := range m.pending {
		key := e.ToolName + "\x00" + e.Target
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = e
	}

	var b strings.Builder
	b.WriteString("Essential context retained from earlier rounds:\n")
	for _, key := range order {
		e := latest[key]
		b.WriteString("\n")
		if e.Target != "" {
			fmt.Fprintf(&b, "[%s: %s]\n", e.ToolName, e.Target)
		} else {
			fmt.Fprintf(&b, "[%s]\n", e.ToolName)
		}
		b.WriteString(e.Output)
		if !strings.HasSuffix(e.Output, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// targetOf extracts a human-readable target from tool arguments, trying
// the common parameter names used by the read and reference tools.
func targetOf(args map[string]any) string {
	for _, k := range []string{"file_path", "path", "query", "pattern", "file_name"} {
		if v, ok := args[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	// Fall back to a stable rendering of whatever keys exist.
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, " ")
}
