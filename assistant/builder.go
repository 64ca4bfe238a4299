package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikbalkahhori/bright-path-sub000/llm"
	"github.com/ikbalkahhori/bright-path-sub000/memory"
	"github.com/ikbalkahhori/bright-path-sub000/prompts"
)

type SessionManagerBuilder struct {
	provider  llm.ChatProvider
	config    Config
	observers []Observer
	archive   *memory.ConversationArchive
}

func NewSessionManagerBuilder() *SessionManagerBuilder {
	return &SessionManagerBuilder{config: DefaultConfig()}
}

func (b *SessionManagerBuilder) WithProvider(provider llm.ChatProvider) *SessionManagerBuilder {
	b.provider = provider
	return b
}

// WithLLMClient wraps a stateless client with llm.NewChatProvider.
func (b *SessionManagerBuilder) WithLLMClient(client llm.LLMClient) *SessionManagerBuilder {
	b.provider = llm.NewChatProvider(client)
	return b
}

// WithConfig merges cfg over the defaults.
func (b *SessionManagerBuilder) WithConfig(cfg Config) *SessionManagerBuilder {
	b.config.Merge(&cfg)
	return b
}

func (b *SessionManagerBuilder) AddObserver(observer Observer) *SessionManagerBuilder {
	b.observers = append(b.observers, observer)
	return b
}

func (b *SessionManagerBuilder) WithArchive(archive *memory.ConversationArchive) *SessionManagerBuilder {
	b.archive = archive
	return b
}

// Build primes the first session. A provider failure is returned wrapped in
// ErrSessionStart.
func (b *SessionManagerBuilder) Build(ctx context.Context) (*SessionManager, error) {
	if b.provider == nil {
		return nil, errors.New("assistant: no chat provider configured")
	}

	priming, err := prompts.RenderPriming(b.config.Persona)
	if err != nil {
		return nil, fmt.Errorf("error rendering persona: %w", err)
	}

	var observer Observer = NoOpObserver{}
	switch len(b.observers) {
	case 0:
	case 1:
		observer = b.observers[0]
	default:
		observer = MultiObserver(append([]Observer(nil), b.observers...))
	}

	m := &SessionManager{
		provider: b.provider,
		config:   b.config,
		priming:  priming,
		observer: observer,
		archive:  b.archive,
	}

	live, err := m.bootstrap(ctx, 1)
	if err != nil {
		return nil, err
	}
	m.live = live

	return m, nil
}
