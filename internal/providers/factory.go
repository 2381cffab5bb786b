package providers

import (
	"fmt"
	"os"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
)

// NewLLMClientFromEnv builds an engine.LLMClient from LLM_PROVIDER and the
// provider's key/model/base-URL variables. It returns the client and the
// model name to pass on each Chat call.
func NewLLMClientFromEnv() (engine.LLMClient, string, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("OPENAI_API_KEY not set")
		}
		modelName := envOr("OPENAI_MODEL", "gpt-4o-mini")
		client, err := NewOpenAIClient(apiKey, modelName, os.Getenv("OPENAI_BASE_URL"))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return client, modelName, nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		modelName := envOr("ANTHROPIC_MODEL", "claude-3-7-sonnet-latest")
		client, err := NewAnthropicClient(apiKey, modelName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create Anthropic client: %w", err)
		}
		return client, modelName, nil

	case "deepseek":
		apiKey := os.Getenv("DEEPSEEK_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("DEEPSEEK_API_KEY not set")
		}
		modelName := envOr("DEEPSEEK_MODEL", "deepseek-chat")
		baseURL := envOr("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1")
		client, err := NewOpenAIClient(apiKey, modelName, baseURL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create DeepSeek client: %w", err)
		}
		return client, modelName, nil

	case "kimi":
		apiKey := os.Getenv("KIMI_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("KIMI_API_KEY not set")
		}
		modelName := envOr("KIMI_MODEL", "kimi-k2-250711")
		baseURL := envOr("KIMI_BASE_URL", "https://ark.ap-southeast.bytepluses.com/api/v3")
		client, err := NewOpenAIClient(apiKey, modelName, baseURL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create Kimi client: %w", err)
		}
		return client, modelName, nil

	case "ollama":
		// Local server, OpenAI-compatible; the key is a placeholder.
		modelName := envOr("OLLAMA_MODEL", "llama3.1")
		baseURL := envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1")
		client, err := NewOpenAIClient(envOr("OLLAMA_API_KEY", "ollama"), modelName, baseURL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return client, modelName, nil

	default:
		return nil, "", fmt.Errorf("unknown LLM_PROVIDER: %s", provider)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
