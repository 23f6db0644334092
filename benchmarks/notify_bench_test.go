// Package benchmarks provides performance benchmarks for the tick path.
package benchmarks

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/comalice/tickhookx"
	"github.com/comalice/tickhookx/internal/primitives"
	"github.com/comalice/tickhookx/trace"
)

// BenchmarkNotifierGive measures the interrupt-side cost of one tick
// with nobody draining.
func BenchmarkNotifierGive(b *testing.B) {
	n := primitives.NewNotifier()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n.Give()
	}
}

// BenchmarkNotifierGiveTake measures the producer side of the handoff
// with a consumer draining concurrently.
func BenchmarkNotifierGiveTake(b *testing.B) {
	n := primitives.NewNotifier()
	var consumed atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for consumed.Load() < int64(b.N) {
			consumed.Add(int64(n.Take()))
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n.Give()
	}
	<-done
	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "ticks/sec")
}

// BenchmarkFireToAdvance measures the end-to-end path from platform
// hook to clock advance. Catch-up is unbounded so every tick must
// surface as an advance.
func BenchmarkFireToAdvance(b *testing.B) {
	var advances atomic.Int64
	clock := AdvanceFunc(func(rate uint8, sender *trace.Ident) {
		advances.Add(1)
	})
	_, mp := BuildDriver(b, clock, tickhookx.WithCatchUp(1<<30))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mp.Fire(0)
	}

	timeout := time.After(30 * time.Second)
	for advances.Load() < int64(b.N) {
		select {
		case <-timeout:
			b.Fatalf("timeout waiting for drain, advanced %d / %d", advances.Load(), b.N)
		default:
			time.Sleep(time.Millisecond)
		}
	}
	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "ticks/sec")
}
