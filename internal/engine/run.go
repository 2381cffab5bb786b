package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// SystemPromptFunc produces the system prompt for the next model call. It
// is re-evaluated every round so ledger digests stay current even after
// the conversation is compacted.
type SystemPromptFunc func() string

// Controller drives the bounded-context loop: one model call per round,
// sequential tool dispatch, guidance, write-triggered compaction, and
// termination on completion, iteration cap, or wall clock.
type Controller struct {
	llm        LLMClient
	model      string
	reg        ToolRegistry
	dispatcher *Dispatcher
	memory     *MemoryEngine
	progress   *ProgressTracker
	hooks      Hooks
	cfg        RunConfig
	sysPrompt  SystemPromptFunc
	runID      string
}

// placeholder used when the assistant returns neither text nor tool calls
// content, mirroring the workflow this loop descends from.
const emptyResponseText = "Continue implementing code files..."

// Run executes rounds until the model declares completion, the iteration
// cap is hit, the wall clock expires, or the model call fails terminally.
// A Report is returned on every path; err is non-nil only for the fatal
// model-call case, and the report then carries partial progress.
func (c *Controller) Run(ctx context.Context, initialTask string) (Report, error) {
	runID := c.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	start := time.Now()
	conv := NewConversation(c.sysPrompt(), initialTask)

	var totals Usage
	analysisLoops := 0
	iterations := 0
	status := StatusMaxIterations
	var fatalErr error

	opts := ChatOptions{
		MaxOutputTokens: c.cfg.MaxOutputTokens,
		RetryConfig:     c.cfg.RetryConfig,
	}

	for round := 1; round <= c.cfg.MaxIterations; round++ {
		if err := ctx.Err(); err != nil {
			status = StatusTimeout
			fatalErr = &RunContextError{Err: err, Round: round, Operation: "run"}
			break
		}
		if time.Since(start) > c.cfg.MaxWallTime {
			status = StatusTimeout
			break
		}

		iterations = round
		c.hooks.OnRoundStart(ctx, round)

		// Ledger digests live in the system prompt, outside the reach of
		// compaction.
		conv.SetSystem(c.sysPrompt())
		conv.DropInvalid()

		msgs := conv.Messages()
		schemas := c.reg.Schemas()
		c.hooks.OnBeforeModel(ctx, round, msgs, schemas)

		resp, err := RetryModelCall(ctx, c.retryPolicy(), c.llm, c.model, msgs, schemas, opts,
			func(attempt int, delay time.Duration, retryErr error) {
				c.hooks.OnRetryAttempt(ctx, round, attempt, c.retryPolicy().MaxRetries, delay, retryErr)
			})
		if err != nil {
			if IsRetryExhausted(err) {
				c.hooks.OnRetryExhausted(ctx, round, err)
			}
			status = StatusError
			fatalErr = &ModelCallError{Err: err, Round: round, Attempts: c.retryPolicy().MaxRetries + 1}
			break
		}
		c.hooks.OnAfterModel(ctx, round, resp)

		totals.Prompt += resp.Usage.Prompt
		totals.Completion += resp.Usage.Completion
		totals.Total += resp.Usage.Total

		assistantText := resp.AssistantText
		if assistantText == "" {
			assistantText = emptyResponseText
		}
		conv.Append(ChatMessage{Role: RoleAssistant, Content: assistantText})

		rd := Round{
			Index:         round,
			AssistantText: assistantText,
			ToolCalls:     assignCallIDs(resp.ToolCalls),
		}

		if len(rd.ToolCalls) > 0 {
			rd.Results = c.dispatcher.Dispatch(ctx, rd.Index, rd.ToolCalls)
			rd.Outcome = outcomeOf(rd.Results)
			for _, res := range rd.Results {
				c.memory.RecordResult(res)
			}
		} else {
			rd.Outcome = OutcomeNoToolCall
		}

		prevFiles := c.progress.FileCount()
		c.progress.ObserveRound(rd)
		for _, rec := range c.progress.FilesImplemented()[prevFiles:] {
			c.hooks.OnFileImplemented(ctx, rec)
		}

		looping := c.progress.AnalysisLoop()
		if looping {
			analysisLoops++
			c.hooks.OnLoopDetected(ctx, rd.Index)
		}

		guidance := Guidance(GuidanceInput{
			Outcome:          rd.Outcome,
			AnalysisLoop:     looping,
			FilesImplemented: c.progress.FileCount(),
		})
		c.hooks.OnGuidance(ctx, rd.Index, rd.Outcome, looping)
		conv.Append(ChatMessage{Role: RoleUser, Content: CompileUserResponse(rd.Results, guidance)})

		if CompletionDeclared(rd) {
			// No verification round after a declared completion; any
			// pending write trigger dies with the run.
			c.memory.ClearWriteTrigger()
			status = StatusSuccess
			break
		}

		if c.memory.ShouldCompact(conv) {
			before, after := c.memory.Compact(conv)
			c.hooks.OnCompaction(ctx, rd.Index, before, after)
		}
	}

	report := Report{
		RunID:            runID,
		Status:           status,
		Iterations:       iterations,
		Elapsed:          time.Since(start),
		FilesImplemented: c.progress.FilesImplemented(),
		WriteOps:         c.progress.OpCount(KindWrite),
		ReadOps:          c.progress.OpCount(KindRead),
		ReferenceOps:     c.progress.OpCount(KindReference),
		ExecuteOps:       c.progress.OpCount(KindExecute),
		ToolErrors:       c.progress.ErrorCount(),
		Decisions:        c.progress.DecisionCount(),
		Constraints:      c.progress.ConstraintCount(),
		Memory:           c.memory.Stats(),
		Usage:            totals,
		ReadToolsEnabled: c.cfg.ReadToolsEnabled,
		AnalysisLoops:    analysisLoops,
	}
	if fatalErr != nil {
		report.Err = fatalErr.Error()
	}
	c.hooks.OnDone(ctx, report)
	return report, fatalErr
}

func (c *Controller) retryPolicy() RetryPolicy {
	if c.cfg.RetryConfig != nil {
		return c.cfg.RetryConfig.ModelPolicy
	}
	return DefaultRetryConfig().ModelPolicy
}

// outcomeOf classifies a dispatched round: any error result makes the
// whole round an error for guidance purposes.
func outcomeOf(results []ToolResult) Outcome {
	for _, r := range results {
		if !r.OK() {
			return OutcomeError
		}
	}
	return OutcomeSuccess
}

// assignCallIDs fills in tool call IDs for providers that omit them.
func assignCallIDs(calls []ToolCall) []ToolCall {
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = uuid.NewString()
		}
	}
	return calls
}

// ControllerBuilder constructs a Controller with a fluent API.
type ControllerBuilder struct {
	llm          LLMClient
	model        string
	reg          ToolRegistry
	hooks        Hooks
	cfg          RunConfig
	memCfg       MemoryConfig
	progCfg      ProgressConfig
	progressSink ProgressSink
	sysPrompt    SystemPromptFunc
	runID        string
}

func NewControllerBuilder() *ControllerBuilder {
	return &ControllerBuilder{
		cfg:     DefaultRunConfig(),
		memCfg:  DefaultMemoryConfig(),
		progCfg: DefaultProgressConfig(),
	}
}

func (b *ControllerBuilder) WithLLM(llm LLMClient) *ControllerBuilder {
	b.llm = llm
	return b
}

func (b *ControllerBuilder) WithModel(model string) *ControllerBuilder {
	b.model = model
	return b
}

func (b *ControllerBuilder) WithToolRegistry(reg ToolRegistry) *ControllerBuilder {
	b.reg = reg
	return b
}

func (b *ControllerBuilder) WithHooks(hooks Hooks) *ControllerBuilder {
	b.hooks = hooks
	return b
}

func (b *ControllerBuilder) WithConfig(cfg RunConfig) *ControllerBuilder {
	b.cfg = cfg
	return b
}

func (b *ControllerBuilder) WithMemoryConfig(cfg MemoryConfig) *ControllerBuilder {
	b.memCfg = cfg
	return b
}

func (b *ControllerBuilder) WithProgressConfig(cfg ProgressConfig) *ControllerBuilder {
	b.progCfg = cfg
	return b
}

func (b *ControllerBuilder) WithProgressSink(sink ProgressSink) *ControllerBuilder {
	b.progressSink = sink
	return b
}

// WithRunID fixes the run identifier, letting callers create ledger and
// session records before the run starts. A uuid is generated when unset.
func (b *ControllerBuilder) WithRunID(id string) *ControllerBuilder {
	b.runID = id
	return b
}

// WithSystemPrompt sets the prompt source. The function is called at the
// start of every round.
func (b *ControllerBuilder) WithSystemPrompt(fn SystemPromptFunc) *ControllerBuilder {
	b.sysPrompt = fn
	return b
}

func (b *ControllerBuilder) Build() (*Controller, error) {
	if b.llm == nil {
		return nil, fmt.Errorf("LLM client not configured: use WithLLM")
	}
	if b.model == "" {
		return nil, fmt.Errorf("model not configured: use WithModel")
	}
	if b.reg == nil {
		return nil, fmt.Errorf("tools not configured: use WithToolRegistry")
	}
	if b.sysPrompt == nil {
		return nil, fmt.Errorf("system prompt not configured: use WithSystemPrompt")
	}
	if b.hooks == nil {
		b.hooks = Hooks{LoggerHook{L: log.Default()}}
	}
	if b.cfg.MaxIterations <= 0 {
		b.cfg.MaxIterations = DefaultRunConfig().MaxIterations
	}
	// Zero means unset; a negative budget is a deliberate choice (expire
	// immediately) and passes through untouched.
	if b.cfg.MaxWallTime == 0 {
		b.cfg.MaxWallTime = DefaultRunConfig().MaxWallTime
	}

	return &Controller{
		llm:        b.llm,
		model:      b.model,
		reg:        b.reg,
		dispatcher: NewDispatcher(b.reg, b.hooks),
		memory:     NewMemoryEngine(b.memCfg),
		progress:   NewProgressTracker(b.progCfg, b.progressSink),
		hooks:      b.hooks,
		cfg:        b.cfg,
		sysPrompt:  b.sysPrompt,
		runID:      b.runID,
	}, nil
}
