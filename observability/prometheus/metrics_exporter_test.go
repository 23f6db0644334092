package prometheus

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExporter_RecordMethods(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("tickhook", "qp-tick", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	exporter.RecordInit(1, 0)
	exporter.RecordWake(3, 1, 2)
	exporter.RecordWake(1, 1, 0)
	exporter.RecordAdvanceDuration(250 * time.Microsecond)

	if got := testutil.ToFloat64(exporter.workerWakesTotal); got != 2 {
		t.Fatalf("worker wakes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(exporter.ticksSignaledTotal); got != 4 {
		t.Fatalf("ticks signaled = %v, want 4", got)
	}
	if got := testutil.ToFloat64(exporter.tickAdvancesTotal); got != 2 {
		t.Fatalf("advances = %v, want 2", got)
	}
	if got := testutil.ToFloat64(exporter.ticksDiscardedTotal); got != 2 {
		t.Fatalf("discarded = %v, want 2", got)
	}
	if got := testutil.ToFloat64(exporter.configuredCore); got != 1 {
		t.Fatalf("configured core = %v, want 1", got)
	}
	if got := testutil.ToFloat64(exporter.configuredTickRate); got != 0 {
		t.Fatalf("configured rate = %v, want 0", got)
	}

	histCount, err := histogramSampleCount(exporter.advanceDurationSeconds)
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if histCount != 1 {
		t.Fatalf("duration sample count = %d, want 1", histCount)
	}
}

func TestMetricsExporter_AlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("tickhook", "qp-tick", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("first NewMetricsExporter failed: %v", err)
	}
	second, err := NewMetricsExporter("tickhook", "qp-tick", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("second NewMetricsExporter failed: %v", err)
	}

	first.RecordWake(1, 1, 0)
	second.RecordWake(1, 1, 0)

	if got := testutil.ToFloat64(first.workerWakesTotal); got != 2 {
		t.Fatalf("shared wake counter = %v, want 2", got)
	}
}

func TestMetricsExporter_NilReceiverIsSafe(t *testing.T) {
	var exporter *MetricsExporter
	exporter.RecordInit(0, 0)
	exporter.RecordWake(1, 1, 0)
	exporter.RecordAdvanceDuration(time.Millisecond)
}

func histogramSampleCount(h prom.Histogram) (uint64, error) {
	metricCh := make(chan prom.Metric, 1)
	h.Collect(metricCh)
	close(metricCh)
	for metric := range metricCh {
		msg := &dto.Metric{}
		if err := metric.Write(msg); err != nil {
			return 0, err
		}
		if msg.Histogram != nil {
			return msg.Histogram.GetSampleCount(), nil
		}
	}
	return 0, nil
}
