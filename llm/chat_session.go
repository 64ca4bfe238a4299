package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrInvalidHistory = errors.New("invalid chat history")

// ChatProvider opens remote conversations primed with an initial history.
type ChatProvider interface {
	StartChat(ctx context.Context, history []Message, opts ...LLMOption) (ChatSession, error)
}

// ChatSession is a live conversation. Each call sends one user turn and
// returns the model's reply.
type ChatSession interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

// NewChatProvider turns a stateless LLMClient into a ChatProvider by replaying
// the accumulated history on every turn.
func NewChatProvider(client LLMClient) ChatProvider {
	return &replayProvider{client: client}
}

type replayProvider struct {
	client LLMClient
}

func (p *replayProvider) StartChat(ctx context.Context, history []Message, opts ...LLMOption) (ChatSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateHistory(history); err != nil {
		return nil, err
	}

	return &replaySession{
		client:  p.client,
		opts:    opts,
		history: append([]Message(nil), history...),
	}, nil
}

// validateHistory requires a non-empty, user-first, strictly alternating
// history with no blank messages.
func validateHistory(history []Message) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: history is empty", ErrInvalidHistory)
	}
	for i, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: message %d is blank", ErrInvalidHistory, i)
		}
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if m.Role != want {
			return fmt.Errorf("%w: message %d has role %q, want %q", ErrInvalidHistory, i, m.Role, want)
		}
	}
	return nil
}

type replaySession struct {
	client LLMClient
	opts   []LLMOption

	mu      sync.Mutex
	history []Message
}

// SendMessage records the exchange only when the model answers; a failed turn
// leaves the remote history untouched.
func (s *replaySession) SendMessage(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	messages := make([]Message, len(s.history), len(s.history)+1)
	copy(messages, s.history)
	s.mu.Unlock()

	messages = append(messages, Message{Role: RoleUser, Content: text})

	var reply strings.Builder
	err := s.client.GenerateInference(ctx, messages, func(chunk string) error {
		reply.WriteString(chunk)
		return nil
	}, s.opts...)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history,
		Message{Role: RoleUser, Content: text},
		Message{Role: RoleAssistant, Content: reply.String()})
	s.mu.Unlock()

	return reply.String(), nil
}
