// Package prompts holds the versioned prompt texts and the helpers that
// assemble them into per-round system and task messages.
package prompts

// PromptVersion identifies a prompt revision.
type PromptVersion string

const (
	PromptV1 PromptVersion = "1.0.0"
	PromptV2 PromptVersion = "2.0.0"
)

// Prompt is a versioned prompt with metadata.
type Prompt struct {
	ID          string
	Version     PromptVersion
	Content     string
	Description string
	Tags        []string
	Deprecated  bool
}
