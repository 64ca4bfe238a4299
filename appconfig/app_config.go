package appconfig

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/ikbalkahhori/bright-path-sub000/assistant"
	"github.com/ikbalkahhori/bright-path-sub000/prompts"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	LLMProvider   string `env:"LLM-PROVIDER" ini:"llm_provider"`
	LLMModel      string `env:"LLM-MODEL" ini:"llm_model"`
	OpenAIBaseURL string `ini:"openai_base_url"`

	AssistantName string `ini:"assistant_name"`
	Organization  string `ini:"organization"`

	TurnTimeoutSeconds int     `ini:"turn_timeout_seconds"`
	RequestsPerSecond  float64 `ini:"requests_per_second"`
	RequestBurst       int     `ini:"request_burst"`

	// Empty ArchiveTenant disables conversation archiving.
	ArchiveTenant       string `ini:"archive_tenant"`
	ArchiveMaxExchanges int    `ini:"archive_max_exchanges"`

	MetricsAddr string `ini:"metrics_addr"`
}

// AssistantConfig maps the file settings onto the session manager config.
// Unset values fall back to assistant.DefaultConfig when merged.
func (c *AppConfig) AssistantConfig() assistant.Config {
	return assistant.Config{
		Persona: prompts.PersonaData{
			AssistantName: c.AssistantName,
			Organization:  c.Organization,
		},
		TurnTimeout: time.Duration(c.TurnTimeoutSeconds) * time.Second,
	}
}
