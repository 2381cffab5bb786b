package engine

import (
	"context"
	"fmt"
)

// Dispatcher executes the current round's tool calls against a registry.
// Execution is sequential and order-preserving so that write effects are
// visible to later calls in the same round. Dispatch never returns an
// error: every failure mode becomes an error-status ToolResult fed back
// to the model.
type Dispatcher struct {
	reg   ToolRegistry
	hooks Hooks
}

func NewDispatcher(reg ToolRegistry, hooks Hooks) *Dispatcher {
	return &Dispatcher{reg: reg, hooks: hooks}
}

// Dispatch runs each call in order and returns one result per call,
// in the same order.
func (d *Dispatcher) Dispatch(ctx context.Context, round int, calls []ToolCall) []ToolResult {
	results := make([]ToolResult, len(calls))
	for i, call := range calls {
		d.hooks.OnToolCall(ctx, round, call)
		results[i] = d.dispatchOne(ctx, call)
		d.hooks.OnToolResult(ctx, round, results[i])
	}
	return results
}

func (d *Dispatcher) dispatchOne(ctx context.Context, call ToolCall) (res ToolResult) {
	res = ToolResult{
		ToolName: call.Name,
		Kind:     d.reg.KindOf(call.Name),
		Input:    call.Args,
		Status:   ResultError,
	}

	// A panicking tool must not take the whole run down with it.
	defer func() {
		if r := recover(); r != nil {
			res.Status = ResultError
			res.Output = fmt.Sprintf("ERROR: tool %s panicked: %v", call.Name, r)
		}
	}()

	t, ok := d.reg[call.Name]
	if !ok {
		res.Output = fmt.Sprintf("ERROR: tool not found: %s (available tools: %v)", call.Name, d.reg.Names())
		return res
	}

	if err := t.ValidateArgs(call.Args); err != nil {
		res.Output = fmt.Sprintf("ERROR: validation failed for tool %s: %v", call.Name, err)
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Output = fmt.Sprintf("ERROR: tool %s cancelled: %v", call.Name, err)
		return res
	}

	out, err := t.Fn(ctx, call.Args)
	if err != nil {
		res.Output = fmt.Sprintf("ERROR: execution failed for tool %s: %v", call.Name, err)
		return res
	}

	res.Status = ResultOK
	res.Output = out
	return res
}
