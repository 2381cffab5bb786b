// tools/reasoning/respond.go
package reasoning

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

// RespondParams is the declared-completion payload.
type RespondParams struct {
	Summary      string   `json:"summary"`
	FilesChanged []string `json:"files_changed,omitempty"`
	NextSteps    []string `json:"next_steps,omitempty"`
}

func respondImpl(params RespondParams) (string, error) {
	log.Println("📋 ============== AGENT RESPONSE ==============")
	log.Printf("Summary: %s", params.Summary)
	if len(params.FilesChanged) > 0 {
		log.Printf("Files changed: %s", strings.Join(params.FilesChanged, ", "))
	}
	if len(params.NextSteps) > 0 {
		log.Printf("Next steps: %s", strings.Join(params.NextSteps, ", "))
	}
	log.Println("📋 =============================================")

	return fmt.Sprintf("Completion recorded: %s", params.Summary), nil
}

// NewRespondTool creates the respond tool. Calling it is the primary signal
// that the implementation is complete; the controller terminates the run
// when it sees this tool in a round.
func NewRespondTool() engine.Tool {
	return engine.Tool{
		Name:        engine.RespondToolName,
		Description: "Declares the implementation complete. Call this once every file in the plan has been written, with a summary of what was implemented.",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"summary": {"type":"string","description":"Summary of the completed implementation"},
				"files_changed": {"type":"array","items":{"type":"string"},"description":"Files written during the run"},
				"next_steps": {"type":"array","items":{"type":"string"},"description":"Suggested follow-up work, if any"}
			},
			"required": ["summary"]
		}`,
		Kind: engine.KindMeta,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			summary, ok := args["summary"].(string)
			if !ok || strings.TrimSpace(summary) == "" {
				return "", fmt.Errorf("summary must be a non-empty string")
			}
			params := RespondParams{Summary: summary}
			if raw, ok := args["files_changed"].([]any); ok {
				for _, f := range raw {
					if s, ok := f.(string); ok {
						params.FilesChanged = append(params.FilesChanged, s)
					}
				}
			}
			if raw, ok := args["next_steps"].([]any); ok {
				for _, s := range raw {
					if str, ok := s.(string); ok {
						params.NextSteps = append(params.NextSteps, str)
					}
				}
			}
			return respondImpl(params)
		},
	}
}
