package platform

import (
	"fmt"
	"runtime"

	"github.com/comalice/tickhookx/internal/primitives"
)

// GoMaxPriority is the priority ceiling of the GoKernel. The value exists so
// callers written against priority-scheduled kernels validate cleanly; the Go
// scheduler itself has no task priorities.
const GoMaxPriority = 31

// GoKernel runs tasks as goroutines locked to OS threads.
//
// Core pinning is rendered in two layers: the task goroutine calls
// runtime.LockOSThread so it owns one OS thread for life, and on Linux the
// thread's CPU affinity mask is narrowed to the configured core. Affinity is
// best-effort; the thread lock is the guaranteed part.
type GoKernel struct {
	cores int
}

// NewGoKernel creates a kernel spanning the cores visible to the runtime.
func NewGoKernel() *GoKernel {
	return &GoKernel{cores: runtime.NumCPU()}
}

// MaxPriority returns the GoKernel priority ceiling.
func (k *GoKernel) MaxPriority() uint8 { return GoMaxPriority }

// Spawn validates cfg and launches the task goroutine. The goroutine locks
// itself to an OS thread and applies the core affinity mask before entering
// cfg.Entry.
func (k *GoKernel) Spawn(cfg TaskConfig) (TaskHandle, error) {
	if cfg.Entry == nil {
		return nil, ErrNilEntry
	}
	if cfg.Core < 0 || cfg.Core >= k.cores {
		return nil, fmt.Errorf("core %d of %d: %w", cfg.Core, k.cores, ErrBadCore)
	}
	if cfg.Priority > k.MaxPriority() {
		return nil, fmt.Errorf("priority %d > %d: %w", cfg.Priority, k.MaxPriority(), ErrBadPriority)
	}

	t := &goTask{
		name:     cfg.Name,
		notifier: primitives.NewNotifier(),
	}
	go func() {
		runtime.LockOSThread()
		pinToCore(cfg.Core)
		cfg.Entry(t)
	}()
	return t, nil
}

// goTask is the GoKernel's task handle: a notifier plus a name.
type goTask struct {
	name     string
	notifier *primitives.Notifier
}

func (t *goTask) NotifyGive() bool {
	return t.notifier.Give()
}

func (t *goTask) NotifyTake() uint32 {
	return t.notifier.Take()
}

func (t *goTask) String() string {
	return "task " + t.name
}
