package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAICompatibleClients(t *testing.T) {
	t.Run("openai missing key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		_, err := NewOpenAIClient("gpt-4o-mini", "")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("groq missing key", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "")
		_, err := NewGroqClient("llama-3.3-70b-versatile")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("groq key set", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "test-key")
		client, err := NewGroqClient("llama-3.3-70b-versatile")
		require.NoError(t, err)
		assert.Equal(t, "llama-3.3-70b-versatile", client.GetModel())
	})
}

func TestOpenAIClientGenerateInference(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Germany has low tuition."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	client, err := NewOpenAIClient("gpt-4o-mini", server.URL+"/v1")
	require.NoError(t, err)

	var result string
	err = client.GenerateInference(context.Background(),
		[]Message{{Role: RoleUser, Content: "Cheapest country to study in?"}},
		func(chunk string) error {
			result = chunk
			return nil
		},
		WithSystemPrompt("You are a counsellor"), WithMaxTokens(256))

	require.NoError(t, err)
	assert.Equal(t, "Germany has low tuition.", result)
	assert.Equal(t, "gpt-4o-mini", captured["model"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestOpenAIClientErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
		}))
		defer server.Close()

		t.Setenv("OPENAI_API_KEY", "test-key")
		client, err := NewOpenAIClient("gpt-4o-mini", server.URL+"/v1")
		require.NoError(t, err)

		err = client.GenerateInference(context.Background(), []Message{{Role: RoleUser, Content: "hi"}},
			func(string) error { return nil })
		assert.Error(t, err)
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"1","choices":[]}`))
		}))
		defer server.Close()

		t.Setenv("OPENAI_API_KEY", "test-key")
		client, err := NewOpenAIClient("gpt-4o-mini", server.URL+"/v1")
		require.NoError(t, err)

		err = client.GenerateInference(context.Background(), []Message{{Role: RoleUser, Content: "hi"}},
			func(string) error { return nil })
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}
