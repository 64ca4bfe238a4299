package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
)

type OllamaClient struct {
	client *api.Client
	model  string
}

// NewOllamaClient connects to the server named by OLLAMA_HOST (default localhost:11434).
func NewOllamaClient(model string) (*OllamaClient, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("error creating ollama client: %w", err)
	}
	return NewOllamaClientWith(client, model), nil
}

func NewOllamaClientWith(client *api.Client, model string) *OllamaClient {
	return &OllamaClient{client: client, model: model}
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := newSettings(c.model, opts)

	chatMessages := make([]api.Message, 0, len(messages)+1)
	if settings.system != "" {
		chatMessages = append(chatMessages, api.Message{Role: RoleSystem, Content: settings.system})
	}
	for _, m := range messages {
		chatMessages = append(chatMessages, api.Message{Role: m.Role, Content: m.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    settings.model,
		Messages: chatMessages,
		Stream:   &stream,
		Options:  ollamaOptions(settings),
	}

	var answer strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		answer.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ollama chat failed: %w", err)
	}

	if answer.Len() == 0 {
		return ErrEmptyResponse
	}

	return callback(answer.String())
}

func ollamaOptions(settings LLMSettings) map[string]any {
	options := map[string]any{
		"temperature": settings.temperature,
	}
	if settings.topP > 0 {
		options["top_p"] = settings.topP
	}
	if settings.topK > 0 {
		options["top_k"] = settings.topK
	}
	if settings.maxTokens > 0 {
		options["num_predict"] = settings.maxTokens
	}
	return options
}
