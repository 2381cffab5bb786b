// engine/hook_logger.go
package engine

import (
	"context"
	"log"
	"time"
)

type LoggerHook struct{ L *log.Logger }

func (h LoggerHook) OnRoundStart(_ context.Context, round int) {
	h.L.Printf("round=%d", round)
}
func (h LoggerHook) OnBeforeModel(_ context.Context, round int, msgs []ChatMessage, toolSchemas []ToolSchema) {
	h.L.Printf("📤 round=%d: %d msgs, %d tools", round, len(msgs), len(toolSchemas))
}
func (h LoggerHook) OnAfterModel(_ context.Context, _ int, r LLMResponse) {
	h.L.Printf("finish=%s tokens: prompt=%d completion=%d total=%d",
		r.FinishReason, r.Usage.Prompt, r.Usage.Completion, r.Usage.Total)
}
func (h LoggerHook) OnToolCall(_ context.Context, _ int, c ToolCall) {
	h.L.Printf("tool → %s args=%v", c.Name, c.Args)
}
func (h LoggerHook) OnToolResult(_ context.Context, _ int, r ToolResult) {
	if !r.OK() {
		h.L.Printf("tool %s error: %s", r.ToolName, r.Output)
		return
	}
	// Truncate long outputs for readability.
	preview := r.Output
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	h.L.Printf("tool %s result: %s", r.ToolName, preview)
}
func (h LoggerHook) OnGuidance(_ context.Context, round int, outcome Outcome, analysisLoop bool) {
	h.L.Printf("guidance round=%d outcome=%s loop=%v", round, outcome, analysisLoop)
}
func (h LoggerHook) OnCompaction(_ context.Context, round int, before, after int) {
	h.L.Printf("memory compaction round=%d: %d msgs → %d msgs", round, before, after)
}
func (h LoggerHook) OnLoopDetected(_ context.Context, round int) {
	h.L.Printf("⚠️  analysis loop detected at round=%d", round)
}
func (h LoggerHook) OnFileImplemented(_ context.Context, rec FileImplementationRecord) {
	h.L.Printf("file implemented: %s (round=%d)", rec.Path, rec.Round)
}
func (h LoggerHook) OnRetryAttempt(_ context.Context, _ int, attempt int, maxAttempts int, delay time.Duration, err error) {
	h.L.Printf("retry attempt=%d/%d delay=%v error=%v", attempt, maxAttempts, delay, err)
}
func (h LoggerHook) OnRetryExhausted(_ context.Context, _ int, err error) {
	h.L.Printf("retries exhausted: %v", err)
}
func (h LoggerHook) OnDone(_ context.Context, rep Report) {
	h.L.Printf("done: status=%s iterations=%d files=%d tokens=%d",
		rep.Status, rep.Iterations, len(rep.FilesImplemented), rep.Usage.Total)
}

// For metrics, expose counters/gauges and plug into Prometheus later.
