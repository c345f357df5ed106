package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons reported on the rejections counter
const (
	ReasonRoomNotFound  = "room_not_found"
	ReasonPlayerExists  = "player_exists"
	ReasonInvalidName   = "invalid_name"
	ReasonNotAdmin      = "not_admin"
	ReasonIgnored       = "ignored"
	ReasonCodeExhausted = "room_code_exhausted"
)

// Metrics holds the prometheus collectors for the game server.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ActiveRooms      prometheus.Gauge
	ConnectedClients prometheus.Gauge
	Commands         *prometheus.CounterVec
	Rejections       *prometheus.CounterVec
	RoundsCompleted  prometheus.Counter
	CommandLatency   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of active rooms",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_clients",
			Help:      "Number of open client connections",
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands processed by type",
		}, []string{"command"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_rejected_total",
			Help:      "Commands rejected or ignored by reason",
		}, []string{"reason"}),
		RoundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_completed_total",
			Help:      "Rounds scored across all rooms",
		}),
		CommandLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_latency_seconds",
			Help:      "Time spent handling one command",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}

	reg.MustRegister(
		m.ActiveRooms,
		m.ConnectedClients,
		m.Commands,
		m.Rejections,
		m.RoundsCompleted,
		m.CommandLatency,
	)

	return m
}

func (m *Metrics) setActiveRooms(n int) {
	if m == nil {
		return
	}
	m.ActiveRooms.Set(float64(n))
}

func (m *Metrics) setConnectedClients(n int) {
	if m == nil {
		return
	}
	m.ConnectedClients.Set(float64(n))
}

func (m *Metrics) observeCommand(cmd Command, took time.Duration) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(CommandName(cmd)).Inc()
	m.CommandLatency.Observe(took.Seconds())
}

func (m *Metrics) reject(reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) roundCompleted() {
	if m == nil {
		return
	}
	m.RoundsCompleted.Inc()
}
