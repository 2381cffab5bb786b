package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MessageRole represents the role of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is the provider-agnostic message we pass around.
type ChatMessage struct {
	Role    MessageRole
	Content string
}

// Validate checks if the ChatMessage is well-formed. Messages with an
// unknown role or empty content are dropped by the conversation's
// validation pass rather than sent to the provider.
func (m ChatMessage) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
	default:
		return fmt.Errorf("invalid message role: %q", m.Role)
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("empty message content (role=%s)", m.Role)
	}
	return nil
}

// Usage holds token accounting returned by providers.
type Usage struct {
	Prompt     int
	Completion int
	Total      int
}

// ToolCall represents a tool the assistant requested.
type ToolCall struct {
	ID   string // provider tool call ID; a uuid is assigned when absent
	Name string
	Args map[string]any
}

// ResultStatus marks a tool result as ok or error.
type ResultStatus string

const (
	ResultOK    ResultStatus = "ok"
	ResultError ResultStatus = "error"
)

// ToolResult is the outcome of one dispatched tool call. Results are
// one-to-one with dispatched calls, in dispatch order.
type ToolResult struct {
	ToolName string
	Kind     ToolKind
	Input    map[string]any
	Output   string // error message when Status is ResultError
	Status   ResultStatus
}

// OK reports whether the tool call succeeded.
func (r ToolResult) OK() bool { return r.Status == ResultOK }

// LLMResponse is a normalized result of one chat call.
type LLMResponse struct {
	AssistantText string
	ToolCalls     []ToolCall
	Usage         Usage
	FinishReason  string // "stop" | "length" | "tool_calls" | "content_filter"
}

// LLMClient abstracts the model collaborator (OpenAI, Anthropic, ...).
// This is the sole network boundary of the loop; its failure is the only
// fatal error source.
type LLMClient interface {
	Chat(ctx context.Context, model string, messages []ChatMessage, toolSchemas []ToolSchema, opts ChatOptions) (LLMResponse, error)
}

// ChatOptions keeps knobs forwarded to the provider SDK.
type ChatOptions struct {
	Temperature     float32
	MaxOutputTokens int
	RetryConfig     *RetryConfig // nil = defaults
}

// Outcome classifies a round for guidance selection.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeError      Outcome = "error"
	OutcomeNoToolCall Outcome = "no_tool_call"
)

// Round is one full loop iteration: one model call plus at most one tool
// dispatch batch.
type Round struct {
	Index         int
	AssistantText string
	ToolCalls     []ToolCall
	Results       []ToolResult
	Outcome       Outcome
}

// Status is the terminal state of a run.
type Status string

const (
	StatusSuccess       Status = "success"
	StatusTimeout       Status = "timeout"
	StatusMaxIterations Status = "max_iterations"
	StatusError         Status = "error"
)

// RunConfig is immutable for the lifetime of a run.
type RunConfig struct {
	MaxIterations    int
	MaxWallTime      time.Duration
	ReadToolsEnabled bool
	MaxOutputTokens  int
	RetryConfig      *RetryConfig
}

// DefaultRunConfig mirrors the limits the original workflow shipped with.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		MaxIterations:    500,
		MaxWallTime:      5000 * time.Second,
		ReadToolsEnabled: true,
		MaxOutputTokens:  20000,
	}
}
