package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient reads OPENAI_API_KEY. An empty baseURL keeps the OpenAI default.
func NewOpenAIClient(model, baseURL string) (*OpenAIClient, error) {
	return newOpenAICompatibleClient("OPENAI_API_KEY", model, baseURL)
}

// NewGroqClient reads GROQ_API_KEY and targets Groq's OpenAI-compatible API.
func NewGroqClient(model string) (*OpenAIClient, error) {
	return newOpenAICompatibleClient("GROQ_API_KEY", model, groqBaseURL)
}

func newOpenAICompatibleClient(keyEnv, model, baseURL string) (*OpenAIClient, error) {
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", keyEnv, ErrMissingAPIKey)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = newRetryingHTTPClient(3)

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (c *OpenAIClient) GetModel() string {
	return c.model
}

func (c *OpenAIClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := newSettings(c.model, opts)

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if settings.system != "" {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: settings.system,
		})
	}
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       settings.model,
		Messages:    chatMessages,
		Temperature: float32(settings.temperature),
		TopP:        float32(settings.topP),
		MaxTokens:   settings.maxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return ErrEmptyResponse
	}

	return callback(resp.Choices[0].Message.Content)
}
