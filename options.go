package tickhookx

import (
	"github.com/comalice/tickhookx/platform"
	"github.com/comalice/tickhookx/trace"
)

// Option configures a Driver during New.
type Option func(*Driver)

// WithPlatform binds the tick interrupt source. Required.
func WithPlatform(p platform.Platform) Option {
	return func(d *Driver) {
		d.platform = p
	}
}

// WithKernel overrides the task kernel. The in-process Go kernel is
// the default.
func WithKernel(k platform.Kernel) Option {
	return func(d *Driver) {
		d.kernel = k
	}
}

// WithCore pins the worker task and the tick hook to core.
func WithCore(core int) Option {
	return func(d *Driver) {
		d.core = core
	}
}

// WithStackBytes sizes the worker stack on kernels with fixed stacks.
// Kernels with growable stacks treat it as advisory.
func WithStackBytes(n int) Option {
	return func(d *Driver) {
		d.stackBytes = n
	}
}

// WithLogger routes driver logs to l.
func WithLogger(l Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithMetrics routes driver measurements to m.
func WithMetrics(m Metrics) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// WithRecorder enables binary tracing through r.
func WithRecorder(r *trace.Recorder) Option {
	return func(d *Driver) {
		d.recorder = r
	}
}

// WithName names the driver in logs, traces and task listings.
func WithName(name string) Option {
	return func(d *Driver) {
		if name != "" {
			d.name = name
		}
	}
}

// WithCatchUp lets one wake replay up to max missed ticks instead of
// collapsing a burst into a single advance. A max of 0 is treated as
// 1.
func WithCatchUp(max uint32) Option {
	return func(d *Driver) {
		d.catchUp = true
		d.maxCatchUp = max
		if d.maxCatchUp == 0 {
			d.maxCatchUp = 1
		}
	}
}

// WithConfig applies the WithConfig-scoped fields of cfg: core, stack
// size, name and catch-up. TickRate and Priority stay with the caller
// for Init.
func WithConfig(cfg Config) Option {
	return func(d *Driver) {
		d.core = cfg.Core
		if cfg.StackBytes > 0 {
			d.stackBytes = cfg.StackBytes
		}
		if cfg.Name != "" {
			d.name = cfg.Name
		}
		d.catchUp = cfg.CatchUp
		if cfg.CatchUp {
			d.maxCatchUp = cfg.MaxCatchUp
			if d.maxCatchUp == 0 {
				d.maxCatchUp = 1
			}
		}
	}
}
