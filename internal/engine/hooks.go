// engine/hooks.go
package engine

import (
	"context"
	"time"
)

type Hook interface {
	OnRoundStart(ctx context.Context, round int)
	OnBeforeModel(ctx context.Context, round int, messages []ChatMessage, toolSchemas []ToolSchema)
	OnAfterModel(ctx context.Context, round int, resp LLMResponse)
	OnToolCall(ctx context.Context, round int, call ToolCall)
	OnToolResult(ctx context.Context, round int, result ToolResult)
	OnGuidance(ctx context.Context, round int, outcome Outcome, analysisLoop bool)
	OnCompaction(ctx context.Context, round int, before, after int)
	OnLoopDetected(ctx context.Context, round int)
	OnFileImplemented(ctx context.Context, record FileImplementationRecord)
	OnRetryAttempt(ctx context.Context, round int, attempt, maxAttempts int, delay time.Duration, err error)
	OnRetryExhausted(ctx context.Context, round int, err error)
	OnDone(ctx context.Context, report Report)
}

// NopHook lets you implement only the hooks you need.
type NopHook struct{}

func (NopHook) OnRoundStart(context.Context, int)                                      {}
func (NopHook) OnBeforeModel(context.Context, int, []ChatMessage, []ToolSchema)        {}
func (NopHook) OnAfterModel(context.Context, int, LLMResponse)                         {}
func (NopHook) OnToolCall(context.Context, int, ToolCall)                              {}
func (NopHook) OnToolResult(context.Context, int, ToolResult)                          {}
func (NopHook) OnGuidance(context.Context, int, Outcome, bool)                         {}
func (NopHook) OnCompaction(context.Context, int, int, int)                            {}
func (NopHook) OnLoopDetected(context.Context, int)                                    {}
func (NopHook) OnFileImplemented(context.Context, FileImplementationRecord)            {}
func (NopHook) OnRetryAttempt(context.Context, int, int, int, time.Duration, error)    {}
func (NopHook) OnRetryExhausted(context.Context, int, error)                           {}
func (NopHook) OnDone(context.Context, Report)                                         {}
