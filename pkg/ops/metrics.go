// Package ops provides the operator side channel: a small HTTP server
// exposing Prometheus metrics and a health-check endpoint, separate from
// the telnet transport players connect through.
package ops

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus collector the server publishes, registered
// against a private registry so ops metrics never collide with anything an
// embedding process already exports.
type Metrics struct {
	ActiveSessions prometheus.Gauge

	CommandsDispatched *prometheus.CounterVec
	CommandErrors      *prometheus.CounterVec

	TickDuration *prometheus.HistogramVec

	CombatRounds  prometheus.Counter
	CombatLethals prometheus.Counter

	BoardPosts prometheus.Counter
	BoardReads prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics constructs and registers the full metric set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mudforge_sessions_active",
			Help: "Number of telnet sessions currently connected.",
		}),
		CommandsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mudforge_commands_dispatched_total",
			Help: "Total number of commands successfully matched and run, by command name.",
		}, []string{"command"}),
		CommandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mudforge_command_errors_total",
			Help: "Total number of command dispatch errors, by error kind.",
		}, []string{"kind"}),
		TickDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mudforge_tick_duration_seconds",
			Help:    "Wall-clock duration of one scheduler tick, by tick type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tick"}),
		CombatRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mudforge_combat_rounds_total",
			Help: "Total number of attacks resolved by the combat tick.",
		}),
		CombatLethals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mudforge_combat_lethal_total",
			Help: "Total number of attacks that killed their target.",
		}),
		BoardPosts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mudforge_board_posts_total",
			Help: "Total number of messages posted to any board.",
		}),
		BoardReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mudforge_board_reads_total",
			Help: "Total number of board-read requests served.",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.ActiveSessions,
		m.CommandsDispatched,
		m.CommandErrors,
		m.TickDuration,
		m.CombatRounds,
		m.CombatLethals,
		m.BoardPosts,
		m.BoardReads,
	)

	return m
}

// Handler returns the HTTP handler serving this registry's metrics in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
