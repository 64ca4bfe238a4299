package assistant

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// Observer receives session lifecycle events. Implementations must be safe
// for concurrent use and must not block.
type Observer interface {
	SessionStarted(sessionID string, generation uint64)
	TurnCompleted(reply Reply, elapsed time.Duration)
	StaleReplyDiscarded(reply Reply)
	SessionReset(previousID, sessionID string, generation uint64)
}

type NoOpObserver struct{}

func (NoOpObserver) SessionStarted(string, uint64)       {}
func (NoOpObserver) TurnCompleted(Reply, time.Duration)  {}
func (NoOpObserver) StaleReplyDiscarded(Reply)           {}
func (NoOpObserver) SessionReset(string, string, uint64) {}

// MultiObserver fans events out to every observer in order.
type MultiObserver []Observer

func (m MultiObserver) SessionStarted(sessionID string, generation uint64) {
	for _, o := range m {
		o.SessionStarted(sessionID, generation)
	}
}

func (m MultiObserver) TurnCompleted(reply Reply, elapsed time.Duration) {
	for _, o := range m {
		o.TurnCompleted(reply, elapsed)
	}
}

func (m MultiObserver) StaleReplyDiscarded(reply Reply) {
	for _, o := range m {
		o.StaleReplyDiscarded(reply)
	}
}

func (m MultiObserver) SessionReset(previousID, sessionID string, generation uint64) {
	for _, o := range m {
		o.SessionReset(previousID, sessionID, generation)
	}
}

// LoggingObserver writes events to the application logger.
type LoggingObserver struct{}

func (LoggingObserver) SessionStarted(sessionID string, generation uint64) {
	logger.Info("Assistant session started",
		zap.String("sessionId", sessionID),
		zap.Uint64("generation", generation))
}

func (LoggingObserver) TurnCompleted(reply Reply, elapsed time.Duration) {
	if reply.Failed() {
		logger.Error("Assistant turn failed, replied with apology",
			zap.String("sessionId", reply.SessionID),
			zap.String("cause", string(reply.Cause)),
			zap.Duration("elapsed", elapsed),
			zap.Error(reply.Err))
		return
	}

	logger.Info("Assistant turn completed",
		zap.String("sessionId", reply.SessionID),
		zap.Int("replyLength", len(reply.Text)),
		zap.Duration("elapsed", elapsed))
}

func (LoggingObserver) StaleReplyDiscarded(reply Reply) {
	logger.Info("Discarded reply from a reset session",
		zap.String("sessionId", reply.SessionID),
		zap.Uint64("generation", reply.Generation))
}

func (LoggingObserver) SessionReset(previousID, sessionID string, generation uint64) {
	logger.Info("Assistant session reset",
		zap.String("previousSessionId", previousID),
		zap.String("sessionId", sessionID),
		zap.Uint64("generation", generation))
}
