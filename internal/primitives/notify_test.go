package primitives

import (
	"sync"
	"testing"
	"time"
)

// TestGiveArmsDoorbellOnce verifies that only the first credit of a burst
// arms the doorbell.
func TestGiveArmsDoorbellOnce(t *testing.T) {
	n := NewNotifier()

	if !n.Give() {
		t.Error("first Give should arm the doorbell")
	}
	if n.Give() {
		t.Error("second Give should find the doorbell already armed")
	}
	if n.Give() {
		t.Error("third Give should find the doorbell already armed")
	}

	if got := n.Pending(); got != 3 {
		t.Errorf("Pending = %d, want 3", got)
	}
}

// TestTakeDrainsBurst verifies that a burst of credits is delivered as a
// single wake carrying the full count.
func TestTakeDrainsBurst(t *testing.T) {
	n := NewNotifier()

	n.Give()
	n.Give()
	n.Give()

	if got := n.Take(); got != 3 {
		t.Errorf("Take = %d, want 3", got)
	}
	if got := n.TryTake(); got != 0 {
		t.Errorf("TryTake after drain = %d, want 0", got)
	}

	// The doorbell must re-arm for the next burst.
	if !n.Give() {
		t.Error("Give after a full drain should arm the doorbell again")
	}
	if got := n.Take(); got != 1 {
		t.Errorf("Take = %d, want 1", got)
	}
}

// TestTakeBlocksUntilGive verifies Take parks while no credit is pending.
func TestTakeBlocksUntilGive(t *testing.T) {
	n := NewNotifier()

	got := make(chan uint32, 1)
	go func() {
		got <- n.Take()
	}()

	select {
	case v := <-got:
		t.Fatalf("Take returned %d before any Give", v)
	case <-time.After(20 * time.Millisecond):
	}

	n.Give()

	select {
	case v := <-got:
		if v != 1 {
			t.Errorf("Take = %d, want 1", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Take did not wake after Give")
	}
}

// TestTryTakeEmpty verifies TryTake does not block and reports no credits.
func TestTryTakeEmpty(t *testing.T) {
	n := NewNotifier()
	if got := n.TryTake(); got != 0 {
		t.Errorf("TryTake = %d, want 0", got)
	}
}

// TestSpuriousRingReparks verifies that a doorbell ring without credits does
// not produce a zero-credit wake: Take must park again and deliver only once
// a real credit arrives.
func TestSpuriousRingReparks(t *testing.T) {
	n := NewNotifier()

	// Ring the doorbell directly with no credit behind it, simulating the
	// producer/consumer race where a ring outlives its drained credits.
	n.bell <- struct{}{}

	got := make(chan uint32, 1)
	go func() {
		got <- n.Take()
	}()

	select {
	case v := <-got:
		t.Fatalf("Take returned %d on a credit-less ring", v)
	case <-time.After(20 * time.Millisecond):
	}

	n.pending.Add(1)
	n.bell <- struct{}{}

	select {
	case v := <-got:
		if v != 1 {
			t.Errorf("Take = %d, want 1", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Take did not wake after the real credit")
	}
}

// TestCreditConservation hammers the notifier from many producers and checks
// that the consumer accounts for every credit exactly once.
func TestCreditConservation(t *testing.T) {
	const (
		producers        = 8
		givesPerProducer = 10000
	)
	n := NewNotifier()

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < givesPerProducer; i++ {
				n.Give()
			}
		}()
	}

	// Consume concurrently with the producers. Every outstanding credit
	// guarantees a wake, so this loop cannot park forever short of the
	// total.
	var total uint32
	want := uint32(producers * givesPerProducer)
	for total < want {
		total += n.Take()
	}
	wg.Wait()

	if total != want {
		t.Errorf("consumed %d credits, want %d", total, want)
	}
	if got := n.TryTake(); got != 0 {
		t.Errorf("TryTake after conservation run = %d, want 0", got)
	}
}

// TestWakesNeverExceedCredits verifies at-most-N delivery: a consumer can
// never observe more wakes than Gives.
func TestWakesNeverExceedCredits(t *testing.T) {
	n := NewNotifier()

	const gives = 100
	for i := 0; i < gives; i++ {
		n.Give()
	}

	wakes := 0
	consumed := uint32(0)
	for consumed < gives {
		consumed += n.Take()
		wakes++
	}

	if consumed != gives {
		t.Errorf("consumed %d, want %d", consumed, gives)
	}
	if wakes > gives {
		t.Errorf("%d wakes for %d credits", wakes, gives)
	}
	// All credits were deposited before the first Take, so they must
	// coalesce into a single wake.
	if wakes != 1 {
		t.Errorf("wakes = %d, want 1 for a fully coalesced burst", wakes)
	}
}
