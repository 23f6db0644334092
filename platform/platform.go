// Package platform abstracts the execution environment underneath the tick
// bridge: the periodic-tick hook facility and the kernel that creates and
// notifies pinned tasks.
//
// The package mirrors the split found on embedded targets. A Platform owns
// the periodic timer and invokes registered hooks from its tick context; a
// Kernel creates tasks pinned to a processor core and hands out opaque
// handles carrying interrupt-safe notification primitives. Both sides are
// interfaces so that deterministic test doubles can stand in for the real
// clock and scheduler.
package platform

import "errors"

// HookFunc is a periodic-tick callback.
//
// The platform invokes it once per tick period from its tick context. Hook
// context rules are strict: the hook must not block, must not allocate on
// hot paths, and must not call into application-framework code. Its only job
// is to hand the tick over to task-context machinery.
//
// The returned yield flag reports that a task of higher urgency than the
// interrupted work just became runnable; platforms honor it by rescheduling
// immediately after the hook returns.
type HookFunc func() (yield bool)

var (
	// ErrHookBound is returned when a tick hook is already registered for
	// the requested core. At most one hook per core may exist.
	ErrHookBound = errors.New("platform: tick hook already bound for core")

	// ErrBadCore is returned for a core index outside the platform's or
	// kernel's range.
	ErrBadCore = errors.New("platform: core index out of range")

	// ErrNilHook is returned when registering a nil hook.
	ErrNilHook = errors.New("platform: nil tick hook")

	// ErrNoTaskSlots is returned by kernels whose task table is exhausted.
	ErrNoTaskSlots = errors.New("platform: no task slots available")

	// ErrBadPriority is returned for a priority above the kernel's ceiling.
	ErrBadPriority = errors.New("platform: priority out of range")

	// ErrNilEntry is returned when spawning a task without an entry point.
	ErrNilEntry = errors.New("platform: nil task entry point")
)

// Platform registers periodic tick hooks keyed by processor core.
type Platform interface {
	// RegisterTickHook installs fn as the periodic tick callback for core.
	// At most one hook per core; a second registration fails with
	// ErrHookBound. Registration is permanent: there is no unregister.
	RegisterTickHook(core int, fn HookFunc) error
}
