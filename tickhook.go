package tickhookx

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/comalice/tickhookx/platform"
	"github.com/comalice/tickhookx/trace"
)

// Advancer is the clock the driver feeds. AdvanceTick is called from
// the worker task, never from the tick hook, once per granted advance.
// The sender identity is non-nil only when tracing is enabled.
type Advancer interface {
	AdvanceTick(rate uint8, sender *trace.Ident)
}

// CorePinned is implemented by advancers that are only safe to drive
// from one core. Init cross-checks it against the driver's core.
type CorePinned interface {
	TickCore() int
}

const (
	// DefaultStackBytes sizes the worker stack on fixed-stack kernels.
	DefaultStackBytes = 64 << 10

	// DefaultName is the driver name when WithName is not used.
	DefaultName = "tickhook"
)

var (
	ErrNilTarget    = errors.New("tickhookx: nil advance target")
	ErrNilPlatform  = errors.New("tickhookx: nil platform")
	ErrNilKernel    = errors.New("tickhookx: nil kernel")
	ErrCoreMismatch = errors.New("tickhookx: target pinned to a different core")
)

// taskRef boxes the worker handle for atomic publication to the relay.
type taskRef struct {
	h platform.TaskHandle
}

// Driver owns the worker task and the interrupt-side relay that feeds
// it. Wire one with New, then call Init (or MustInit) exactly once;
// repeat calls are harmless.
type Driver struct {
	target   Advancer
	platform platform.Platform
	kernel   platform.Kernel

	logger   Logger
	metrics  Metrics
	recorder *trace.Recorder

	name       string
	core       int
	stackBytes int
	catchUp    bool
	maxCatchUp uint32
	ident      trace.Ident

	initMu   sync.Mutex
	tickRate uint8

	task  atomic.Pointer[taskRef]
	state atomic.Int32
}

// New wires a driver around target. The platform is the one required
// option; everything else has defaults.
func New(target Advancer, opts ...Option) (*Driver, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	d := &Driver{
		target:     target,
		kernel:     platform.NewGoKernel(),
		logger:     NewNoOpLogger(),
		metrics:    &NilMetrics{},
		name:       DefaultName,
		stackBytes: DefaultStackBytes,
		maxCatchUp: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.platform == nil {
		return nil, ErrNilPlatform
	}
	if d.kernel == nil {
		return nil, ErrNilKernel
	}
	d.ident = trace.IdentOf(d.name)
	return d, nil
}

// Init creates the worker task on the configured core and binds the
// tick hook to the same core. It is idempotent: once a worker is
// running, later calls return nil and change nothing, including the
// tick rate chosen by the first call.
//
// A spawn failure leaves the driver uninitialized and binds no hook.
// A hook bind failure after a successful spawn also leaves the driver
// uninitialized, but the spawned worker cannot be reclaimed; treat
// that error as fatal, the way firmware treats a failed task create.
func (d *Driver) Init(tickRate, workerPriority uint8) error {
	d.initMu.Lock()
	defer d.initMu.Unlock()

	if d.task.Load() != nil {
		d.logger.Debug("init skipped, worker already running", F("name", d.name))
		return nil
	}

	if pinned, ok := d.target.(CorePinned); ok {
		if want := pinned.TickCore(); want != d.core {
			return fmt.Errorf("%w: target wants core %d, driver is configured for core %d",
				ErrCoreMismatch, want, d.core)
		}
	}

	if d.recorder != nil {
		// Dictionary entries must precede any tick record naming them.
		if err := d.recorder.RegisterObject(d.ident); err != nil {
			d.logger.Warn("trace dictionary registration failed", F("error", err))
		}
	}

	h, err := d.kernel.Spawn(platform.TaskConfig{
		Name:       d.name + "-worker",
		Core:       d.core,
		Priority:   workerPriority,
		StackBytes: d.stackBytes,
		Entry: func(h platform.TaskHandle) {
			d.workerLoop(h, tickRate)
		},
	})
	if err != nil {
		return fmt.Errorf("tickhookx: spawn worker: %w", err)
	}
	d.task.Store(&taskRef{h: h})

	if err := d.platform.RegisterTickHook(d.core, d.Hook()); err != nil {
		d.task.Store(nil)
		d.logger.Error("tick hook bind failed, worker abandoned",
			F("name", d.name), F("core", d.core), F("error", err))
		return fmt.Errorf("tickhookx: bind tick hook: %w", err)
	}
	d.tickRate = tickRate

	if d.recorder != nil {
		if err := d.recorder.RecordInit(d.core, tickRate); err != nil {
			d.logger.Warn("trace init record failed", F("error", err))
		}
	}
	d.metrics.RecordInit(d.core, tickRate)
	d.logger.Info("tick hook initialized",
		F("name", d.name), F("core", d.core),
		F("rate", tickRate), F("priority", workerPriority))
	return nil
}

// MustInit is Init for call sites that treat failure as unrecoverable,
// the moral equivalent of a firmware assert.
func (d *Driver) MustInit(tickRate, workerPriority uint8) {
	if err := d.Init(tickRate, workerPriority); err != nil {
		panic(err)
	}
}

// Initialized reports whether a worker is running.
func (d *Driver) Initialized() bool {
	return d.task.Load() != nil
}

// Name returns the driver name.
func (d *Driver) Name() string {
	return d.name
}

// Core returns the core the worker and hook are pinned to.
func (d *Driver) Core() int {
	return d.core
}

// TickRate returns the rate recorded by the first successful Init,
// zero before that.
func (d *Driver) TickRate() uint8 {
	d.initMu.Lock()
	defer d.initMu.Unlock()
	return d.tickRate
}

// Ident returns the driver's trace identity.
func (d *Driver) Ident() trace.Ident {
	return d.ident
}
