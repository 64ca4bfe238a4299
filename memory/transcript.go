package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ikbalkahhori/bright-path-sub000/llm"
)

var (
	ErrOutOfOrder  = errors.New("turn breaks user/assistant alternation")
	ErrUnknownRole = errors.New("unknown turn role")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged utterance. Turns are values; a stored turn is
// never modified.
type Turn struct {
	Role    Role   `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Transcript is an append-only, strictly alternating log of turns starting
// with a user turn. It is safe for concurrent use.
type Transcript struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append stores turn at the end of the log.
func (t *Transcript) Append(turn Turn) error {
	if turn.Role != RoleUser && turn.Role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrUnknownRole, turn.Role)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	expected := RoleUser
	if n := len(t.turns); n > 0 && t.turns[n-1].Role == RoleUser {
		expected = RoleAssistant
	}
	if turn.Role != expected {
		return fmt.Errorf("%w: turn %d is %s, want %s", ErrOutOfOrder, len(t.turns), turn.Role, expected)
	}

	t.turns = append(t.turns, turn)
	return nil
}

// Turns returns a copy of the log in insertion order.
func (t *Transcript) Turns() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	copied := make([]Turn, len(t.turns))
	copy(copied, t.turns)
	return copied
}

// CompletedTurns is Turns without a trailing user turn that is still waiting
// for its reply.
func (t *Transcript) CompletedTurns() []Turn {
	turns := t.Turns()
	if n := len(turns); n > 0 && turns[n-1].Role == RoleUser {
		turns = turns[:n-1]
	}
	return turns
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Messages converts the log to provider messages.
func (t *Transcript) Messages() []llm.Message {
	return ToMessages(t.Turns())
}

func ToMessages(turns []Turn) []llm.Message {
	msgs := make([]llm.Message, len(turns))
	for i, turn := range turns {
		msgs[i] = llm.Message{Role: string(turn.Role), Content: turn.Content}
	}
	return msgs
}
