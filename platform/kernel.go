package platform

// TaskConfig describes a task to spawn.
type TaskConfig struct {
	// Name identifies the task in logs and diagnostics.
	Name string

	// Core pins the task to a processor core. Pinning is mandatory for
	// tasks that call into code with per-core affinity requirements.
	Core int

	// Priority is the scheduling priority, 0 (lowest) through the
	// kernel's MaxPriority. Kernels without preemptive priorities record
	// it for diagnostics and validation only.
	Priority uint8

	// StackBytes is a stack sizing hint. Kernels with growable stacks
	// treat it as advisory; kernels with fixed allocation honor it.
	StackBytes int

	// Entry is the task body. It receives the task's own handle so it can
	// consume notifications addressed to itself.
	Entry func(h TaskHandle)
}

// TaskHandle is an opaque reference to a spawned task's scheduling entity.
// It carries the task's notification slot: a coalescing credit counter that
// producers increment from tick-hook context and the task itself drains.
type TaskHandle interface {
	// NotifyGive deposits one notification credit without blocking. It is
	// the only task operation that is safe from tick-hook context. The
	// result reports whether this credit is the one that makes the parked
	// task runnable again, in which case the caller should request an
	// immediate reschedule.
	NotifyGive() (woken bool)

	// NotifyTake blocks the calling task until at least one credit is
	// pending, then consumes and returns all of them. Only the task that
	// owns the handle may call it.
	NotifyTake() (credits uint32)
}

// Kernel creates pinned tasks. Implementations decide what "task" means: the
// GoKernel runs goroutines locked to OS threads, test kernels run bounded
// simulated task tables.
type Kernel interface {
	// Spawn creates a task from cfg and starts it, returning its handle.
	// Spawn validates cfg and fails with ErrNilEntry, ErrBadCore,
	// ErrBadPriority or ErrNoTaskSlots; a failed Spawn leaves no task
	// behind.
	Spawn(cfg TaskConfig) (TaskHandle, error)

	// MaxPriority is the highest priority value Spawn accepts.
	MaxPriority() uint8
}
