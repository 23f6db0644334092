// Package tickhookx drives a framework clock from a platform tick
// interrupt.
//
// The path from interrupt to clock is split into two halves joined by
// a counting notification. The relay half runs inside the platform's
// tick hook, interrupt context on real hardware, and does nothing but
// deposit a credit on the worker's notifier. The worker half is a
// dedicated task pinned to the same core as the hook; it sleeps on the
// notifier, wakes with the count of ticks fired since its last wake,
// and advances the clock target.
//
// Coalescing falls out of the construction: if the worker is starved
// while several ticks fire, the credits pile up and a single wake
// observes all of them. By default the wake still performs exactly one
// advance, so a stalled worker never replays a burst into the clock.
// WithCatchUp opts into bounded replay for targets that want wall-time
// tracking instead.
//
// A Driver is wired once and then initialized:
//
//	d, err := tickhookx.New(clock,
//		tickhookx.WithPlatform(p),
//		tickhookx.WithCore(1),
//	)
//	if err != nil {
//		// handle
//	}
//	d.MustInit(0, 20)
//
// Init is idempotent. The first call creates the worker and binds the
// hook; later calls change nothing, including the tick rate chosen by
// the first call. There is no teardown: the worker runs for the life
// of the process, the way a firmware tick task would.
package tickhookx
