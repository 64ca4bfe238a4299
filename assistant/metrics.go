package assistant

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsObserver exports assistant activity as Prometheus metrics.
type MetricsObserver struct {
	SessionsStarted prometheus.Counter
	Resets          prometheus.Counter
	Turns           *prometheus.CounterVec
	TurnFailures    *prometheus.CounterVec
	TurnDuration    prometheus.Histogram
	StaleReplies    prometheus.Counter
}

// NewMetricsObserver registers the assistant metrics with reg.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	factory := promauto.With(reg)

	return &MetricsObserver{
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "assistant_sessions_started_total",
			Help: "Total number of primed assistant sessions",
		}),
		Resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "assistant_resets_total",
			Help: "Total number of conversation resets",
		}),
		Turns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_turns_total",
				Help: "Total number of assistant turns by outcome",
			},
			[]string{"outcome"},
		),
		TurnFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_turn_failures_total",
				Help: "Failed turns answered with the apology message, by cause",
			},
			[]string{"cause"},
		),
		TurnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_turn_duration_seconds",
			Help:    "Time spent waiting for the language model",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}),
		StaleReplies: factory.NewCounter(prometheus.CounterOpts{
			Name: "assistant_stale_replies_total",
			Help: "Replies discarded because the session was reset while they were in flight",
		}),
	}
}

func (m *MetricsObserver) SessionStarted(string, uint64) {
	m.SessionsStarted.Inc()
}

func (m *MetricsObserver) TurnCompleted(reply Reply, elapsed time.Duration) {
	m.TurnDuration.Observe(elapsed.Seconds())
	if reply.Failed() {
		m.Turns.WithLabelValues("failed").Inc()
		m.TurnFailures.WithLabelValues(string(reply.Cause)).Inc()
		return
	}
	m.Turns.WithLabelValues("ok").Inc()
}

func (m *MetricsObserver) StaleReplyDiscarded(Reply) {
	m.StaleReplies.Inc()
}

func (m *MetricsObserver) SessionReset(string, string, uint64) {
	m.Resets.Inc()
}
