// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"testing"

	"github.com/comalice/tickhookx"
	"github.com/comalice/tickhookx/testutil"
	"github.com/comalice/tickhookx/trace"
)

// AdvanceFunc adapts a plain function to the clock interface the driver
// feeds.
type AdvanceFunc func(rate uint8, sender *trace.Ident)

func (f AdvanceFunc) AdvanceTick(rate uint8, sender *trace.Ident) { f(rate, sender) }

// BuildDriver wires a driver over a manual platform and a simulated
// kernel, initialized and running, ready for Fire-driven benchmarks.
func BuildDriver(b *testing.B, clock tickhookx.Advancer, opts ...tickhookx.Option) (*tickhookx.Driver, *testutil.ManualPlatform) {
	b.Helper()
	mp := testutil.NewManualPlatform(1)
	sk := testutil.NewSimKernel(1, 0)
	opts = append([]tickhookx.Option{
		tickhookx.WithPlatform(mp),
		tickhookx.WithKernel(sk),
	}, opts...)

	d, err := tickhookx.New(clock, opts...)
	if err != nil {
		b.Fatal(err)
	}
	if err := d.Init(0, 1); err != nil {
		b.Fatal(err)
	}
	sk.StartAll()
	return d, mp
}
