// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics wires the router's per-wakeup counters into a
// Prometheus registry: a Registry of named collectors, a Collector
// (collector.go) that folds router events into them, and an HTTP
// handler serving /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every metric the router exposes. A process owns
// exactly one.
type Registry struct {
	prom prometheus.Registerer

	MessageCount       *prometheus.CounterVec
	MessageSize        *prometheus.CounterVec
	MessageLatency     *prometheus.HistogramVec
	WakeUps            *prometheus.CounterVec
	WakeUpMessageCount *prometheus.HistogramVec

	FrameCount    *prometheus.CounterVec
	FrameLeftover *prometheus.GaugeVec
	FrameErrors   *prometheus.CounterVec

	SkipFramerMessageCount *prometheus.CounterVec
	SkipFramerBypassBytes  *prometheus.CounterVec

	EndpointBytesDropped *prometheus.CounterVec

	PortSkipFramer *prometheus.GaugeVec
	PortAcceptLast *prometheus.GaugeVec
}

// New creates a Registry and registers every collector with reg.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		prom: reg,

		MessageCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpoint_router",
			Name:      "message_count_total",
			Help:      "Messages dispatched, by source port and outcome.",
		}, []string{"port", "outcome"}),

		MessageSize: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpoint_router",
			Name:      "message_bytes_total",
			Help:      "Bytes dispatched, by source port.",
		}, []string{"port"}),

		MessageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "endpoint_router",
			Name:      "message_latency_seconds",
			Help:      "Time from a port's wakeup to a message's dispatch.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"port"}),

		WakeUps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpoint_router",
			Name:      "wake_ups_total",
			Help:      "Event loop wakeups serviced, by port.",
		}, []string{"port"}),

		WakeUpMessageCount: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "endpoint_router",
			Name:      "wake_up_message_count",
			Help:      "Messages drained from a port per wakeup.",
			Buckets:   prometheus.LinearBuckets(0, 4, 10),
		}, []string{"port"}),

		FrameCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpoint_router",
			Name:      "frame_count_total",
			Help:      "Frames successfully decoded, by port.",
		}, []string{"port"}),

		FrameLeftover: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "endpoint_router",
			Name:      "frame_leftover_bytes",
			Help:      "Bytes held by a port's framer awaiting more input.",
		}, []string{"port"}),

		FrameErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpoint_router",
			Name:      "frame_errors_total",
			Help:      "Framer decode errors, by port.",
		}, []string{"port"}),

		SkipFramerMessageCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpoint_router",
			Name:      "skip_framer_message_count_total",
			Help:      "Reads dispatched whole, bypassing the framer, by port.",
		}, []string{"port"}),

		SkipFramerBypassBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpoint_router",
			Name:      "skip_framer_bypass_bytes_total",
			Help:      "Bytes dispatched whole, bypassing the framer, by port.",
		}, []string{"port"}),

		EndpointBytesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpoint_router",
			Name:      "endpoint_bytes_dropped_total",
			Help:      "Bytes dropped on publish back-pressure, by destination port.",
		}, []string{"port"}),

		PortSkipFramer: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "endpoint_router",
			Name:      "port_skip_framer",
			Help:      "1 if any rule on this port has skip_framer set, else 0.",
		}, []string{"port"}),

		PortAcceptLast: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "endpoint_router",
			Name:      "port_rule_accept_last",
			Help:      "Count of this port's forwarding rules that default-accept.",
		}, []string{"port"}),
	}

	reg.MustRegister(
		r.MessageCount, r.MessageSize, r.MessageLatency,
		r.WakeUps, r.WakeUpMessageCount,
		r.FrameCount, r.FrameLeftover, r.FrameErrors,
		r.SkipFramerMessageCount, r.SkipFramerBypassBytes,
		r.EndpointBytesDropped,
		r.PortSkipFramer, r.PortAcceptLast,
	)

	return r
}
