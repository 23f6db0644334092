package platform

import (
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestGoKernelSpawnValidation(t *testing.T) {
	k := NewGoKernel()

	cases := []struct {
		name string
		cfg  TaskConfig
		want error
	}{
		{
			name: "nil entry",
			cfg:  TaskConfig{Core: 0},
			want: ErrNilEntry,
		},
		{
			name: "negative core",
			cfg:  TaskConfig{Core: -1, Entry: func(TaskHandle) {}},
			want: ErrBadCore,
		},
		{
			name: "core beyond range",
			cfg:  TaskConfig{Core: runtime.NumCPU(), Entry: func(TaskHandle) {}},
			want: ErrBadCore,
		},
		{
			name: "priority beyond ceiling",
			cfg:  TaskConfig{Core: 0, Priority: GoMaxPriority + 1, Entry: func(TaskHandle) {}},
			want: ErrBadPriority,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := k.Spawn(tc.cfg)
			if !errors.Is(err, tc.want) {
				t.Errorf("Spawn error = %v, want %v", err, tc.want)
			}
			if h != nil {
				t.Error("failed Spawn returned a handle")
			}
		})
	}
}

func TestGoKernelRunsEntry(t *testing.T) {
	k := NewGoKernel()

	started := make(chan TaskHandle, 1)
	h, err := k.Spawn(TaskConfig{
		Name: "probe",
		Core: 0,
		Entry: func(self TaskHandle) {
			started <- self
		},
	})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	select {
	case self := <-started:
		if self != h {
			t.Error("task entry received a different handle than Spawn returned")
		}
	case <-time.After(time.Second):
		t.Fatal("task entry never ran")
	}
}

// TestGoKernelNotifyBeforePark verifies no-lost-wakeup: a credit deposited
// before the task first blocks is still delivered.
func TestGoKernelNotifyBeforePark(t *testing.T) {
	k := NewGoKernel()

	release := make(chan struct{})
	got := make(chan uint32, 1)
	h, err := k.Spawn(TaskConfig{
		Name: "late-parker",
		Core: 0,
		Entry: func(self TaskHandle) {
			<-release
			got <- self.NotifyTake()
		},
	})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	// Deposit before the task is anywhere near NotifyTake.
	h.NotifyGive()
	h.NotifyGive()
	close(release)

	select {
	case credits := <-got:
		if credits != 2 {
			t.Errorf("NotifyTake = %d, want 2", credits)
		}
	case <-time.After(time.Second):
		t.Fatal("NotifyTake never returned")
	}
}

func TestGoKernelMaxPriority(t *testing.T) {
	k := NewGoKernel()
	if got := k.MaxPriority(); got != GoMaxPriority {
		t.Errorf("MaxPriority = %d, want %d", got, GoMaxPriority)
	}
}
