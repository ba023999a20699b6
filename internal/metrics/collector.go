// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swift-nav/endpoint-router/internal/logging"
)

// Collector is the router's event sink: dispatcher and binder code
// call its record methods inline, and it folds them into the
// Prometheus registry. Unlike a polling collector, nothing here
// scrapes system state on a timer — every update is pushed by the
// caller at the moment the event happens.
type Collector struct {
	reg    *Registry
	logger *logging.Logger
}

// NewCollector creates a Collector backed by a fresh Prometheus
// registry registered under reg.
func NewCollector(logger *logging.Logger, reg prometheus.Registerer) *Collector {
	return &Collector{reg: New(reg), logger: logger}
}

// Handler returns the HTTP handler to mount at /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDispatch records one message leaving a source port toward
// outcome ("forwarded", "dropped_no_match", "dropped_backpressure"),
// with its size and the latency from wakeup to dispatch.
func (c *Collector) RecordDispatch(port, outcome string, size int, latency time.Duration) {
	c.reg.MessageCount.WithLabelValues(port, outcome).Inc()
	c.reg.MessageSize.WithLabelValues(port).Add(float64(size))
	c.reg.MessageLatency.WithLabelValues(port).Observe(latency.Seconds())
}

// RecordWakeup records one event-loop wakeup for port, having drained
// msgCount messages during it.
func (c *Collector) RecordWakeup(port string, msgCount int) {
	c.reg.WakeUps.WithLabelValues(port).Inc()
	c.reg.WakeUpMessageCount.WithLabelValues(port).Observe(float64(msgCount))
}

// RecordFrame records one frame decoded by port's framer, plus the
// number of bytes currently buffered awaiting the next frame.
func (c *Collector) RecordFrame(port string, leftoverBytes int) {
	c.reg.FrameCount.WithLabelValues(port).Inc()
	c.reg.FrameLeftover.WithLabelValues(port).Set(float64(leftoverBytes))
}

// RecordFrameError records a framer decode error on port.
func (c *Collector) RecordFrameError(port string) {
	c.reg.FrameErrors.WithLabelValues(port).Inc()
	c.logger.Warn("framer decode error on port %s", port)
}

// RecordReadError logs a non-fatal subscriber read error on port. The
// router continues running; the current wakeup is simply skipped.
func (c *Collector) RecordReadError(port string, err error) {
	c.logger.Warn("subscriber read error on port %s: %v", port, err)
}

// RecordSkipFramerBypass records one whole-read dispatch on a
// skip_framer port.
func (c *Collector) RecordSkipFramerBypass(port string, size int) {
	c.reg.SkipFramerMessageCount.WithLabelValues(port).Inc()
	c.reg.SkipFramerBypassBytes.WithLabelValues(port).Add(float64(size))
}

// RecordBackpressureDrop records droppedBytes dropped on a publish to
// port due to back-pressure.
func (c *Collector) RecordBackpressureDrop(port string, droppedBytes uint64) {
	c.reg.EndpointBytesDropped.WithLabelValues(port).Add(float64(droppedBytes))
	c.logger.Warn("publisher back-pressure on port %s, dropping %d bytes", port, droppedBytes)
}

// SetPortShape records static per-port configuration shape: whether
// skip_framer is set anywhere on the port, and how many of its rules
// default-accept. Called once at bind time, not per message.
func (c *Collector) SetPortShape(port string, skipFramer bool, acceptLastCount int) {
	v := 0.0
	if skipFramer {
		v = 1.0
	}
	c.reg.PortSkipFramer.WithLabelValues(port).Set(v)
	c.reg.PortAcceptLast.WithLabelValues(port).Set(float64(acceptLastCount))
}
