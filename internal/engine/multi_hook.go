package engine

import (
	"context"
	"time"
)

type Hooks []Hook

func (hs Hooks) OnRoundStart(ctx context.Context, round int) {
	for _, h := range hs {
		h.OnRoundStart(ctx, round)
	}
}
func (hs Hooks) OnBeforeModel(ctx context.Context, round int, m []ChatMessage, schemas []ToolSchema) {
	for _, h := range hs {
		h.OnBeforeModel(ctx, round, m, schemas)
	}
}
func (hs Hooks) OnAfterModel(ctx context.Context, round int, r LLMResponse) {
	for _, h := range hs {
		h.OnAfterModel(ctx, round, r)
	}
}
func (hs Hooks) OnToolCall(ctx context.Context, round int, c ToolCall) {
	for _, h := range hs {
		h.OnToolCall(ctx, round, c)
	}
}
func (hs Hooks) OnToolResult(ctx context.Context, round int, r ToolResult) {
	for _, h := range hs {
		h.OnToolResult(ctx, round, r)
	}
}
func (hs Hooks) OnGuidance(ctx context.Context, round int, outcome Outcome, analysisLoop bool) {
	for _, h := range hs {
		h.OnGuidance(ctx, round, outcome, analysisLoop)
	}
}
func (hs Hooks) OnCompaction(ctx context.Context, round int, before, after int) {
	for _, h := range hs {
		h.OnCompaction(ctx, round, before, after)
	}
}
func (hs Hooks) OnLoopDetected(ctx context.Context, round int) {
	for _, h := range hs {
		h.OnLoopDetected(ctx, round)
	}
}
func (hs Hooks) OnFileImplemented(ctx context.Context, rec FileImplementationRecord) {
	for _, h := range hs {
		h.OnFileImplemented(ctx, rec)
	}
}
func (hs Hooks) OnRetryAttempt(ctx context.Context, round int, attempt int, maxAttempts int, delay time.Duration, err error) {
	for _, h := range hs {
		h.OnRetryAttempt(ctx, round, attempt, maxAttempts, delay, err)
	}
}
func (hs Hooks) OnRetryExhausted(ctx context.Context, round int, err error) {
	for _, h := range hs {
		h.OnRetryExhausted(ctx, round, err)
	}
}
func (hs Hooks) OnDone(ctx context.Context, report Report) {
	for _, h := range hs {
		h.OnDone(ctx, report)
	}
}
