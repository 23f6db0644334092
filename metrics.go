package tickhookx

import "time"

// Metrics collects driver activity for monitoring systems. The worker
// task calls these on every wake, so implementations must be fast and
// non-blocking.
type Metrics interface {
	// RecordInit notes a successful initialization with the worker
	// core and the tick rate it will advance.
	RecordInit(core int, rate uint8)

	// RecordWake notes one worker wake: credits drained from the
	// notifier, advances performed, and ticks discarded by
	// coalescing.
	RecordWake(credits, advances, discarded uint32)

	// RecordAdvanceDuration records how long one wake spent inside
	// the clock target.
	RecordAdvanceDuration(d time.Duration)
}

// NilMetrics is the no-op collector used when none is configured.
type NilMetrics struct{}

var _ Metrics = (*NilMetrics)(nil)

func (m *NilMetrics) RecordInit(core int, rate uint8)                {}
func (m *NilMetrics) RecordWake(credits, advances, discarded uint32) {}
func (m *NilMetrics) RecordAdvanceDuration(d time.Duration)          {}
