package tickhookx

import (
	"time"

	"github.com/comalice/tickhookx/platform"
	"github.com/comalice/tickhookx/trace"
)

// WorkerState is what the worker task is doing at a point in time.
type WorkerState int32

const (
	// StateIdle means no worker is running yet.
	StateIdle WorkerState = iota
	// StateWaiting means the worker is parked on its notifier.
	StateWaiting
	// StateProcessing means the worker is inside the clock target.
	StateProcessing
)

func (s WorkerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateProcessing:
		return "processing"
	}
	return "unknown"
}

// WorkerState reports the worker's current state.
func (d *Driver) WorkerState() WorkerState {
	return WorkerState(d.state.Load())
}

// workerLoop is the body of the worker task: drain the credits
// accumulated since the last wake, advance the clock, park again. It
// never returns; the worker lives as long as the process.
func (d *Driver) workerLoop(h platform.TaskHandle, rate uint8) {
	sender := d.sender()
	for {
		d.state.Store(int32(StateWaiting))
		credits := h.NotifyTake()
		d.state.Store(int32(StateProcessing))

		// One advance per wake unless catch-up is on; a burst that
		// outran the worker collapses rather than replaying.
		advances := uint32(1)
		if d.catchUp {
			advances = credits
			if advances > d.maxCatchUp {
				advances = d.maxCatchUp
			}
		}

		start := time.Now()
		for i := uint32(0); i < advances; i++ {
			d.target.AdvanceTick(rate, sender)
		}
		d.metrics.RecordAdvanceDuration(time.Since(start))
		d.metrics.RecordWake(credits, advances, credits-advances)

		if d.recorder != nil {
			if err := d.recorder.RecordTick(sender, rate, credits, advances); err != nil {
				d.logger.Warn("trace tick record failed", F("error", err))
			}
		}
	}
}

// sender is the identity stamped on advances, nil when tracing is off
// so targets can skip their own trace work.
func (d *Driver) sender() *trace.Ident {
	if d.recorder == nil {
		return nil
	}
	return &d.ident
}
