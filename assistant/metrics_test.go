package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetricsObserver(reg)

	provider := &fakeProvider{reply: replyWith("ok")}
	m := newTestManager(t, provider, metrics, LoggingObserver{})

	m.SendMessage(context.Background(), "first")
	provider.reply = failWith(errors.New("boom"))
	m.SendMessage(context.Background(), "second")
	require.NoError(t, m.Reset(context.Background()))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.SessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Resets))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Turns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Turns.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TurnFailures.WithLabelValues(string(CauseProvider))))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.StaleReplies))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.TurnDuration))
}

func TestMetricsObserver_StaleReply(t *testing.T) {
	metrics := NewMetricsObserver(prometheus.NewRegistry())
	metrics.StaleReplyDiscarded(Reply{Stale: true})
	metrics.TurnCompleted(Reply{Text: "ok"}, 150*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StaleReplies))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Turns.WithLabelValues("ok")))
}

func TestMetricsObserver_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsObserver(reg)
	assert.Panics(t, func() { NewMetricsObserver(reg) })
}

func TestNoOpAndLoggingObservers(t *testing.T) {
	for _, o := range []Observer{NoOpObserver{}, LoggingObserver{}, MultiObserver{NoOpObserver{}}} {
		assert.NotPanics(t, func() {
			o.SessionStarted("id", 1)
			o.TurnCompleted(Reply{Text: "ok"}, time.Second)
			o.TurnCompleted(Reply{Text: ApologyMessage, Err: errors.New("x"), Cause: CauseProvider}, time.Second)
			o.StaleReplyDiscarded(Reply{Stale: true})
			o.SessionReset("old", "new", 2)
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{TopK: 40, TurnTimeout: 30 * time.Second})

	assert.Equal(t, 40, cfg.TopK)
	assert.Equal(t, 30*time.Second, cfg.TurnTimeout)
	assert.Equal(t, 0.9, cfg.Temperature)
	assert.Equal(t, 2048, cfg.MaxOutputTokens)
	assert.Equal(t, DefaultConfig().Persona, cfg.Persona)
}
