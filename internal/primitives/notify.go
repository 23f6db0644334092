package primitives

import "sync/atomic"

// Notifier is a bounded, coalescing notification channel with counting-credit
// semantics, connecting a producer that must never block (a platform tick
// callback) to a single consumer task.
//
// Each Give deposits one credit and, when the doorbell slot is free, arms it.
// Each Take blocks until the doorbell rings, then drains every pending credit
// in one step. Bursts of Gives therefore collapse into a single wake carrying
// the full credit count: delivery is at-least-once per burst, never one-for-one
// under load. The exact interrupt count is preserved in the returned credit
// total even when wakes coalesce.
//
// A Notifier supports any number of concurrent producers but exactly one
// consumer.
type Notifier struct {
	pending atomic.Uint32
	bell    chan struct{}
}

// NewNotifier creates a Notifier with an empty credit count.
func NewNotifier() *Notifier {
	return &Notifier{bell: make(chan struct{}, 1)}
}

// Give deposits one credit. It never blocks and never allocates, which makes
// it safe to call from contexts that forbid suspension.
//
// The return value reports whether this credit armed the doorbell, i.e.
// whether it is the signal that makes the parked consumer runnable again.
// Callers driving a cooperative scheduler can treat a true result as a
// request to reschedule immediately.
func (n *Notifier) Give() bool {
	n.pending.Add(1)
	select {
	case n.bell <- struct{}{}:
		return true
	default:
		return false
	}
}

// Take blocks until at least one credit is pending, then consumes and returns
// all of them in a single atomic drain. The result is always >= 1.
func (n *Notifier) Take() uint32 {
	for {
		<-n.bell
		if credits := n.pending.Swap(0); credits != 0 {
			return credits
		}
		// The doorbell can ring after its credits were already drained by
		// an earlier Take that raced with the producer. Park again.
	}
}

// TryTake consumes all pending credits without blocking. It returns 0 when no
// credit is pending.
func (n *Notifier) TryTake() uint32 {
	select {
	case <-n.bell:
	default:
	}
	return n.pending.Swap(0)
}

// Pending reports the current credit count. The value is immediately stale in
// the presence of concurrent producers; it exists for diagnostics only.
func (n *Notifier) Pending() uint32 {
	return n.pending.Load()
}
