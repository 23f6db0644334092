package testutil

import (
	"fmt"
	"sync"

	"github.com/comalice/tickhookx/internal/primitives"
	"github.com/comalice/tickhookx/platform"
)

// SimKernel is a Kernel whose tasks start only when the test says so,
// letting credits pile up before a worker first runs.
type SimKernel struct {
	mu       sync.Mutex
	cores    int
	maxTasks int
	tasks    []*SimTask
}

var _ platform.Kernel = (*SimKernel)(nil)

// NewSimKernel builds a kernel with the given core count. maxTasks
// bounds Spawn, 0 meaning unbounded.
func NewSimKernel(cores, maxTasks int) *SimKernel {
	if cores <= 0 {
		cores = 1
	}
	return &SimKernel{cores: cores, maxTasks: maxTasks}
}

func (k *SimKernel) MaxPriority() uint8 {
	return platform.GoMaxPriority
}

func (k *SimKernel) Spawn(cfg platform.TaskConfig) (platform.TaskHandle, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if cfg.Entry == nil {
		return nil, platform.ErrNilEntry
	}
	if cfg.Core < 0 || cfg.Core >= k.cores {
		return nil, fmt.Errorf("%w: core %d, kernel has %d", platform.ErrBadCore, cfg.Core, k.cores)
	}
	if cfg.Priority > platform.GoMaxPriority {
		return nil, fmt.Errorf("%w: priority %d, ceiling %d", platform.ErrBadPriority, cfg.Priority, platform.GoMaxPriority)
	}
	if k.maxTasks > 0 && len(k.tasks) >= k.maxTasks {
		return nil, fmt.Errorf("%w: %d tasks already spawned", platform.ErrNoTaskSlots, len(k.tasks))
	}

	t := &SimTask{Config: cfg, notifier: primitives.NewNotifier()}
	k.tasks = append(k.tasks, t)
	return t, nil
}

// StartAll starts every spawned task that has not run yet.
func (k *SimKernel) StartAll() {
	k.mu.Lock()
	tasks := append([]*SimTask(nil), k.tasks...)
	k.mu.Unlock()

	for _, t := range tasks {
		t.Start()
	}
}

// Tasks returns the spawned tasks in spawn order.
func (k *SimKernel) Tasks() []*SimTask {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]*SimTask(nil), k.tasks...)
}

// SimTask is a spawned task that runs only after Start.
type SimTask struct {
	Config   platform.TaskConfig
	notifier *primitives.Notifier
	start    sync.Once
}

var _ platform.TaskHandle = (*SimTask)(nil)

// Start runs the task entry on its own goroutine. Repeat calls do
// nothing.
func (t *SimTask) Start() {
	t.start.Do(func() {
		go t.Config.Entry(t)
	})
}

func (t *SimTask) NotifyGive() bool {
	return t.notifier.Give()
}

func (t *SimTask) NotifyTake() uint32 {
	return t.notifier.Take()
}

// Pending exposes the undrained credit count for assertions.
func (t *SimTask) Pending() uint32 {
	return t.notifier.Pending()
}
