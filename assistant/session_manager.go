// Package assistant runs the study-abroad counselling conversation: it primes a
// persona, relays each visitor message to the language model and keeps a local
// transcript in step with what the model has seen.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/google/uuid"
	"github.com/ikbalkahhori/bright-path-sub000/llm"
	"github.com/ikbalkahhori/bright-path-sub000/memory"
	"github.com/ikbalkahhori/bright-path-sub000/prompts"
	"go.uber.org/zap"
)

// PrimingTurns is the number of scripted turns every transcript starts with.
const PrimingTurns = 4

// SessionManager owns one live remote conversation and its transcript.
//
// SendMessage calls are serialized. Reset does not wait for an in-flight
// SendMessage; a reply that settles after a Reset belongs to a stale
// generation and is dropped.
type SessionManager struct {
	provider llm.ChatProvider
	config   Config
	priming  prompts.Priming
	observer Observer
	archive  *memory.ConversationArchive

	sendMu  sync.Mutex
	resetMu sync.Mutex

	mu   sync.RWMutex
	live *liveSession
}

type liveSession struct {
	id         string
	generation uint64
	handle     llm.ChatSession
	transcript *memory.Transcript
}

func (m *SessionManager) bootstrap(ctx context.Context, generation uint64) (*liveSession, error) {
	transcript := memory.NewTranscript()
	for _, turn := range m.primingTurns() {
		if err := transcript.Append(turn); err != nil {
			return nil, fmt.Errorf("error seeding transcript: %w", err)
		}
	}

	handle, err := m.provider.StartChat(ctx, transcript.Messages(), m.config.generationOptions()...)
	if err != nil {
		logger.Error("Failed to start assistant session", zap.Uint64("generation", generation), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSessionStart, err)
	}

	live := &liveSession{
		id:         uuid.Must(uuid.NewV7()).String(),
		generation: generation,
		handle:     handle,
		transcript: transcript,
	}
	m.observer.SessionStarted(live.id, live.generation)

	return live, nil
}

func (m *SessionManager) primingTurns() []memory.Turn {
	return []memory.Turn{
		memory.UserTurn(m.priming.Instruction),
		memory.AssistantTurn(m.priming.Acknowledgment),
		memory.UserTurn(m.priming.Persona),
		memory.AssistantTurn(m.priming.Ready),
	}
}

func (m *SessionManager) current() *liveSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.live
}

// SendMessage records text, asks the model for a reply and records the reply.
// It never fails: any error is answered with ApologyMessage. It returns "" when
// a Reset replaced the conversation while the reply was pending, since the
// question is no longer part of the transcript.
func (m *SessionManager) SendMessage(ctx context.Context, text string) string {
	reply := m.Send(ctx, text)
	if reply.Stale {
		return ""
	}
	return reply.Text
}

// Send is SendMessage with the outcome kept as a typed Reply.
func (m *SessionManager) Send(ctx context.Context, text string) Reply {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()

	live := m.current()
	if err := live.transcript.Append(memory.UserTurn(text)); err != nil {
		logger.Error("Transcript rejected user turn", zap.String("sessionId", live.id), zap.Error(err))
	}

	start := time.Now()
	answer, err := m.callModel(ctx, live.handle, text)
	elapsed := time.Since(start)

	reply := Reply{
		Text:       answer,
		SessionID:  live.id,
		Generation: live.generation,
	}
	if err != nil {
		reply.Text = ApologyMessage
		reply.Err = err
		reply.Cause = classify(err)
	}

	m.mu.RLock()
	reply.Stale = m.live.generation != live.generation
	if !reply.Stale {
		if err := live.transcript.Append(memory.AssistantTurn(reply.Text)); err != nil {
			logger.Error("Transcript rejected assistant turn", zap.String("sessionId", live.id), zap.Error(err))
		}
	}
	m.mu.RUnlock()

	if reply.Stale {
		m.observer.StaleReplyDiscarded(reply)
	} else {
		m.observer.TurnCompleted(reply, elapsed)
	}

	return reply
}

// callModel is the only place a turn waits on the network.
func (m *SessionManager) callModel(ctx context.Context, handle llm.ChatSession, text string) (string, error) {
	if m.config.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.TurnTimeout)
		defer cancel()
	}

	answer, err := handle.SendMessage(ctx, text)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", llm.ErrEmptyResponse
	}
	return answer, nil
}

// Reset replaces the remote session and transcript with freshly primed ones.
// On failure the current conversation is left untouched.
func (m *SessionManager) Reset(ctx context.Context) error {
	m.resetMu.Lock()
	defer m.resetMu.Unlock()

	next, err := m.bootstrap(ctx, m.Generation()+1)
	if err != nil {
		return err
	}

	m.mu.Lock()
	previous := m.live
	m.live = next
	m.mu.Unlock()

	m.observer.SessionReset(previous.id, next.id, next.generation)

	// A send still in flight on the previous session has stored its user turn
	// but not its reply; only finished exchanges are archived.
	if turns := previous.transcript.CompletedTurns(); m.archive.Enabled() && len(turns) > PrimingTurns {
		// errors are logged by the archive; a reset never fails on them
		_ = m.archive.Save(ctx, previous.id, turns)
	}

	return nil
}

// History returns a copy of the current transcript.
func (m *SessionManager) History() []memory.Turn {
	return m.current().transcript.Turns()
}

// Persona returns the persona definition sent as the third priming turn.
func (m *SessionManager) Persona() string {
	return m.priming.Persona
}

func (m *SessionManager) SessionID() string {
	return m.current().id
}

// Generation starts at 1 and grows by one on every successful Reset.
func (m *SessionManager) Generation() uint64 {
	return m.current().generation
}
