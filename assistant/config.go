package assistant

import (
	"time"

	"github.com/ikbalkahhori/bright-path-sub000/llm"
	"github.com/ikbalkahhori/bright-path-sub000/prompts"
)

// Config holds the persona and generation parameters used every time a
// session is primed.
type Config struct {
	Persona         prompts.PersonaData
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int

	// TurnTimeout bounds each remote call. Zero means no timeout.
	TurnTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Persona:         prompts.DefaultPersonaData(),
		Temperature:     0.9,
		TopP:            1,
		TopK:            1,
		MaxOutputTokens: 2048,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Persona.AssistantName != "" {
		c.Persona.AssistantName = source.Persona.AssistantName
	}
	if source.Persona.Organization != "" {
		c.Persona.Organization = source.Persona.Organization
	}
	if len(source.Persona.Destinations) > 0 {
		c.Persona.Destinations = source.Persona.Destinations
	}
	if source.Temperature > 0 {
		c.Temperature = source.Temperature
	}
	if source.TopP > 0 {
		c.TopP = source.TopP
	}
	if source.TopK > 0 {
		c.TopK = source.TopK
	}
	if source.MaxOutputTokens > 0 {
		c.MaxOutputTokens = source.MaxOutputTokens
	}
	if source.TurnTimeout > 0 {
		c.TurnTimeout = source.TurnTimeout
	}
}

func (c Config) generationOptions() []llm.LLMOption {
	return []llm.LLMOption{
		llm.WithTemperature(c.Temperature),
		llm.WithTopP(c.TopP),
		llm.WithTopK(c.TopK),
		llm.WithMaxTokens(c.MaxOutputTokens),
	}
}
