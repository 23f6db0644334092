// Package prometheus exports driver metrics as Prometheus collectors.
package prometheus

import (
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/comalice/tickhookx"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	AdvanceDurationBuckets []float64
}

// MetricsExporter adapts tickhookx.Metrics to Prometheus collectors.
// All collectors carry a driver label so several drivers can share a
// registry.
type MetricsExporter struct {
	workerWakesTotal       prom.Counter
	ticksSignaledTotal     prom.Counter
	tickAdvancesTotal      prom.Counter
	ticksDiscardedTotal    prom.Counter
	advanceDurationSeconds prom.Histogram
	configuredCore         prom.Gauge
	configuredTickRate     prom.Gauge
}

var _ tickhookx.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers collectors for one driver.
func NewMetricsExporter(namespace, driver string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "tickhook"
	}
	if driver == "" {
		driver = tickhookx.DefaultName
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.AdvanceDurationBuckets
	if len(buckets) == 0 {
		// Clock advances run in microseconds; start the buckets there.
		buckets = prom.ExponentialBuckets(1e-6, 10, 8)
	}
	labels := prom.Labels{"driver": driver}

	wakes := prom.NewCounter(prom.CounterOpts{
		Namespace:   namespace,
		Name:        "worker_wakes_total",
		Help:        "Total number of worker wakes.",
		ConstLabels: labels,
	})
	signaled := prom.NewCounter(prom.CounterOpts{
		Namespace:   namespace,
		Name:        "ticks_signaled_total",
		Help:        "Total tick interrupts relayed to the worker.",
		ConstLabels: labels,
	})
	advances := prom.NewCounter(prom.CounterOpts{
		Namespace:   namespace,
		Name:        "tick_advances_total",
		Help:        "Total clock advances performed.",
		ConstLabels: labels,
	})
	discarded := prom.NewCounter(prom.CounterOpts{
		Namespace:   namespace,
		Name:        "ticks_discarded_total",
		Help:        "Total ticks coalesced away instead of advancing the clock.",
		ConstLabels: labels,
	})
	duration := prom.NewHistogram(prom.HistogramOpts{
		Namespace:   namespace,
		Name:        "advance_duration_seconds",
		Help:        "Time one wake spent inside the clock target.",
		Buckets:     buckets,
		ConstLabels: labels,
	})
	core := prom.NewGauge(prom.GaugeOpts{
		Namespace:   namespace,
		Name:        "configured_core",
		Help:        "Core the worker and hook are pinned to.",
		ConstLabels: labels,
	})
	rate := prom.NewGauge(prom.GaugeOpts{
		Namespace:   namespace,
		Name:        "configured_tick_rate",
		Help:        "Tick rate recorded at initialization.",
		ConstLabels: labels,
	})

	var err error
	if wakes, err = registerCollector(reg, wakes); err != nil {
		return nil, err
	}
	if signaled, err = registerCollector(reg, signaled); err != nil {
		return nil, err
	}
	if advances, err = registerCollector(reg, advances); err != nil {
		return nil, err
	}
	if discarded, err = registerCollector(reg, discarded); err != nil {
		return nil, err
	}
	if duration, err = registerCollector(reg, duration); err != nil {
		return nil, err
	}
	if core, err = registerCollector(reg, core); err != nil {
		return nil, err
	}
	if rate, err = registerCollector(reg, rate); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		workerWakesTotal:       wakes,
		ticksSignaledTotal:     signaled,
		tickAdvancesTotal:      advances,
		ticksDiscardedTotal:    discarded,
		advanceDurationSeconds: duration,
		configuredCore:         core,
		configuredTickRate:     rate,
	}, nil
}

// RecordInit records the placement chosen at initialization.
func (m *MetricsExporter) RecordInit(core int, rate uint8) {
	if m == nil {
		return
	}
	m.configuredCore.Set(float64(core))
	m.configuredTickRate.Set(float64(rate))
}

// RecordWake records one worker wake.
func (m *MetricsExporter) RecordWake(credits, advances, discarded uint32) {
	if m == nil {
		return
	}
	m.workerWakesTotal.Inc()
	m.ticksSignaledTotal.Add(float64(credits))
	m.tickAdvancesTotal.Add(float64(advances))
	m.ticksDiscardedTotal.Add(float64(discarded))
}

// RecordAdvanceDuration records time spent inside the clock target.
func (m *MetricsExporter) RecordAdvanceDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.advanceDurationSeconds.Observe(d.Seconds())
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
