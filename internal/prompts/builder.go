package prompts

import (
	"fmt"
	"strings"
)

// PromptBuilder composes a registered prompt with extra fragments and
// {{key}} variable substitution.
type PromptBuilder struct {
	basePrompt *Prompt
	fragments  []string
	variables  map[string]string
}

func NewPromptBuilder(registry *PromptRegistry, id string, version PromptVersion) (*PromptBuilder, error) {
	basePrompt, err := registry.Get(id, version)
	if err != nil {
		return nil, fmt.Errorf("failed to get base prompt: %w", err)
	}

	return &PromptBuilder{
		basePrompt: basePrompt,
		fragments:  []string{basePrompt.Content},
		variables:  make(map[string]string),
	}, nil
}

func (b *PromptBuilder) AddFragment(text string) *PromptBuilder {
	if text != "" {
		b.fragments = append(b.fragments, text)
	}
	return b
}

func (b *PromptBuilder) SetVariable(key, value string) *PromptBuilder {
	b.variables[key] = value
	return b
}

func (b *PromptBuilder) Build() (string, error) {
	result := strings.Join(b.fragments, "\n\n")
	for key, value := range b.variables {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{%s}}", key), value)
	}
	return result, nil
}
