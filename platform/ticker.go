package platform

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTickPeriod is the tick period used when none is configured,
// matching the 100 Hz system tick common on embedded schedulers.
const DefaultTickPeriod = 10 * time.Millisecond

// TickerPlatform drives registered tick hooks from a time.Ticker.
//
// One timer goroutine stands in for the periodic timer interrupt: each tick
// it invokes every registered hook in core order, honoring the hook contract
// (hooks never block, so the tick path stays short). When any hook requests a
// yield the goroutine reschedules immediately, the cooperative analog of a
// context switch on interrupt return.
//
// The hook table is copy-on-write so the tick path takes no locks.
type TickerPlatform struct {
	period time.Duration
	cores  int

	hooks atomic.Pointer[[]HookFunc]

	mu      sync.Mutex
	ticker  *time.Ticker
	stop    chan struct{}
	stopped chan struct{}
	running bool
}

// NewTickerPlatform creates a platform for the given number of cores firing
// every period. A non-positive period falls back to DefaultTickPeriod; a
// non-positive core count falls back to 1. The platform is created stopped.
func NewTickerPlatform(period time.Duration, cores int) *TickerPlatform {
	if period <= 0 {
		period = DefaultTickPeriod
	}
	if cores <= 0 {
		cores = 1
	}
	p := &TickerPlatform{
		period: period,
		cores:  cores,
	}
	table := make([]HookFunc, cores)
	p.hooks.Store(&table)
	return p
}

// RegisterTickHook installs fn for core. One hook per core, permanent.
func (p *TickerPlatform) RegisterTickHook(core int, fn HookFunc) error {
	if fn == nil {
		return ErrNilHook
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if core < 0 || core >= p.cores {
		return fmt.Errorf("core %d of %d: %w", core, p.cores, ErrBadCore)
	}
	old := *p.hooks.Load()
	if old[core] != nil {
		return fmt.Errorf("core %d: %w", core, ErrHookBound)
	}
	table := make([]HookFunc, len(old))
	copy(table, old)
	table[core] = fn
	p.hooks.Store(&table)
	return nil
}

// Start begins tick delivery. Idempotent while running.
func (p *TickerPlatform) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.ticker = time.NewTicker(p.period)
	p.stop = make(chan struct{})
	p.stopped = make(chan struct{})
	go p.run(p.ticker, p.stop, p.stopped)
}

// Stop halts tick delivery and waits for the timer goroutine to exit.
// The platform can be started again afterwards. Hooks stay registered.
func (p *TickerPlatform) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.ticker.Stop()
	close(p.stop)
	stopped := p.stopped
	p.mu.Unlock()

	<-stopped
}

func (p *TickerPlatform) run(ticker *time.Ticker, stop, stopped chan struct{}) {
	defer close(stopped)
	for {
		select {
		case <-ticker.C:
			yield := false
			for _, fn := range *p.hooks.Load() {
				if fn != nil && fn() {
					yield = true
				}
			}
			if yield {
				runtime.Gosched()
			}
		case <-stop:
			return
		}
	}
}
