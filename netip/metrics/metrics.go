/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package metrics exposes the engine's queue depth/backlog and reconnect
// activity to Prometheus. Nothing in spec.md's core requires metrics —
// §1's non-goals exclude higher-level observability protocols — but an
// ambient stack still needs a concrete sink for the numbers the core
// already tracks (queue.Queue.Stats, Connector retry attempts), the same
// way logging needs a concrete sink despite rendering being out of scope.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector registers and updates the gauges/counters describing one
// Engine's live entities. It is safe for concurrent use, matching
// prometheus.Collector conventions.
type Collector struct {
	queueDepth        *prometheus.GaugeVec
	queueBytes        *prometheus.GaugeVec
	reconnectAttempts *prometheus.CounterVec
}

// NewCollector builds a Collector and registers its metrics with reg. reg
// may be prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "netip",
			Subsystem: "output_queue",
			Name:      "depth",
			Help:      "Number of buffers currently queued for write, per handler.",
		}, []string{"handler"}),
		queueBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "netip",
			Subsystem: "output_queue",
			Name:      "bytes",
			Help:      "Bytes currently queued for write, per handler.",
		}, []string{"handler"}),
		reconnectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netip",
			Subsystem: "connector",
			Name:      "reconnect_attempts_total",
			Help:      "Reconnect attempts made by a TcpConnector, per target.",
		}, []string{"target"}),
	}

	reg.MustRegister(c.queueDepth, c.queueBytes, c.reconnectAttempts)

	return c
}

// ObserveQueue records the current output queue depth/bytes for handler.
// Callers poll this from IoOutput.GetOutputQueueStats / the socket
// visitor; the core keeps no reference to Collector itself.
func (c *Collector) ObserveQueue(handler string, size, bytes int64) {
	c.queueDepth.WithLabelValues(handler).Set(float64(size))
	c.queueBytes.WithLabelValues(handler).Set(float64(bytes))
}

// IncReconnectAttempt satisfies tcp.MetricsSink: it is called once per
// reconnect attempt a Connector makes against target.
func (c *Collector) IncReconnectAttempt(target string) {
	c.reconnectAttempts.WithLabelValues(target).Inc()
}

// Forget removes handler's queue gauges, for use once its IoHandler has
// torn down.
func (c *Collector) Forget(handler string) {
	c.queueDepth.DeleteLabelValues(handler)
	c.queueBytes.DeleteLabelValues(handler)
}
