package assistant

import (
	"context"
	"errors"

	"github.com/ikbalkahhori/bright-path-sub000/llm"
)

// ApologyMessage replaces the assistant reply whenever a turn fails.
const ApologyMessage = "I'm sorry, I'm having trouble connecting to my knowledge base right now. Please try again in a moment."

// ErrSessionStart wraps any failure to open a remote session.
var ErrSessionStart = errors.New("failed to start assistant session")

type FailureCause string

const (
	CauseNone        FailureCause = ""
	CauseTimeout     FailureCause = "timeout"
	CauseCanceled    FailureCause = "canceled"
	CauseRateLimited FailureCause = "rate_limited"
	CauseEmptyReply  FailureCause = "empty_reply"
	CauseProvider    FailureCause = "provider"
)

// Reply is the outcome of one turn. Text is what the caller shows: the model's
// answer, or ApologyMessage when Err is set.
type Reply struct {
	Text       string
	Err        error
	Cause      FailureCause
	SessionID  string
	Generation uint64

	// Stale is set when a Reset replaced the session while the turn was in
	// flight. A stale reply is not recorded anywhere.
	Stale bool
}

func (r Reply) Failed() bool {
	return r.Err != nil
}

func classify(err error) FailureCause {
	switch {
	case err == nil:
		return CauseNone
	case errors.Is(err, context.DeadlineExceeded):
		return CauseTimeout
	case errors.Is(err, context.Canceled):
		return CauseCanceled
	case errors.Is(err, llm.ErrRateLimited):
		return CauseRateLimited
	case errors.Is(err, llm.ErrEmptyResponse):
		return CauseEmptyReply
	default:
		return CauseProvider
	}
}
