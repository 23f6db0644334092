// Package testutil provides in-memory stand-ins for the platform and
// kernel, plus recording clock targets, so drivers can be exercised
// without hardware.
package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/comalice/tickhookx/platform"
	"github.com/comalice/tickhookx/trace"
)

// AdvanceCall is one recorded AdvanceTick invocation.
type AdvanceCall struct {
	Rate   uint8
	Sender *trace.Ident
}

// FakeAdvancer records every advance it receives.
type FakeAdvancer struct {
	mu    sync.Mutex
	calls []AdvanceCall
}

// NewFakeAdvancer creates an empty recorder.
func NewFakeAdvancer() *FakeAdvancer {
	return &FakeAdvancer{}
}

func (f *FakeAdvancer) AdvanceTick(rate uint8, sender *trace.Ident) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, AdvanceCall{Rate: rate, Sender: sender})
}

// Count returns how many advances have been recorded.
func (f *FakeAdvancer) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Calls returns a copy of the recorded advances.
func (f *FakeAdvancer) Calls() []AdvanceCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AdvanceCall(nil), f.calls...)
}

// WaitForCalls polls until at least n advances arrived or timeout
// expired, returning the count last seen.
func (f *FakeAdvancer) WaitForCalls(n int, timeout time.Duration) int {
	deadline := time.Now().Add(timeout)
	for {
		got := f.Count()
		if got >= n || time.Now().After(deadline) {
			return got
		}
		time.Sleep(time.Millisecond)
	}
}

// PinnedAdvancer is a FakeAdvancer that claims core affinity.
type PinnedAdvancer struct {
	FakeAdvancer
	Core int
}

// TickCore returns the core the advancer claims.
func (p *PinnedAdvancer) TickCore() int {
	return p.Core
}

// GatedAdvancer blocks inside AdvanceTick until Release is called,
// simulating a clock target slower than the tick source.
type GatedAdvancer struct {
	FakeAdvancer
	gate chan struct{}
}

// NewGatedAdvancer creates a closed gate.
func NewGatedAdvancer() *GatedAdvancer {
	return &GatedAdvancer{gate: make(chan struct{})}
}

func (g *GatedAdvancer) AdvanceTick(rate uint8, sender *trace.Ident) {
	<-g.gate
	g.FakeAdvancer.AdvanceTick(rate, sender)
}

// Release lets exactly one blocked advance through, blocking until an
// advance is there to take it.
func (g *GatedAdvancer) Release() {
	g.gate <- struct{}{}
}

// ManualPlatform is a Platform whose ticks are fired by the test.
type ManualPlatform struct {
	mu            sync.Mutex
	cores         int
	hooks         map[int]platform.HookFunc
	registrations int
}

var _ platform.Platform = (*ManualPlatform)(nil)

// NewManualPlatform builds a platform exposing the given core count.
func NewManualPlatform(cores int) *ManualPlatform {
	if cores <= 0 {
		cores = 1
	}
	return &ManualPlatform{cores: cores, hooks: make(map[int]platform.HookFunc)}
}

func (p *ManualPlatform) RegisterTickHook(core int, fn platform.HookFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if fn == nil {
		return platform.ErrNilHook
	}
	if core < 0 || core >= p.cores {
		return fmt.Errorf("%w: core %d, platform has %d", platform.ErrBadCore, core, p.cores)
	}
	if _, bound := p.hooks[core]; bound {
		return fmt.Errorf("%w: core %d", platform.ErrHookBound, core)
	}
	p.hooks[core] = fn
	p.registrations++
	return nil
}

// Fire invokes the hook bound to core and reports its yield request.
// Firing a core with no hook is a no-op, as on hardware before any
// hook is installed.
func (p *ManualPlatform) Fire(core int) bool {
	p.mu.Lock()
	fn := p.hooks[core]
	p.mu.Unlock()

	if fn == nil {
		return false
	}
	return fn()
}

// RegistrationCount returns how many hooks were ever accepted.
func (p *ManualPlatform) RegistrationCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registrations
}

// Registered reports whether core has a hook bound.
func (p *ManualPlatform) Registered(core int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, bound := p.hooks[core]
	return bound
}
