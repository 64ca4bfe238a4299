package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderOllama    = "ollama"
)

// NewClient builds the client for a provider name. baseURL only applies to
// the openai provider.
func NewClient(provider, model, baseURL string) (LLMClient, error) {
	if model == "" {
		return nil, fmt.Errorf("no model configured for provider %q", provider)
	}

	var (
		client LLMClient
		err    error
	)
	switch strings.ToLower(provider) {
	case ProviderAnthropic:
		client, err = NewAnthropicClient(model)
	case ProviderOpenAI:
		client, err = NewOpenAIClient(model, baseURL)
	case ProviderGroq:
		client, err = NewGroqClient(model)
	case ProviderOllama:
		client, err = NewOllamaClient(model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}
