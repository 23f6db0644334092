//go:build linux

package platform

import "golang.org/x/sys/unix"

// pinToCore narrows the calling thread's CPU affinity mask to a single core.
// The caller must already hold runtime.LockOSThread. Affinity is best-effort:
// a failing syscall leaves the thread lock as the effective pinning.
func pinToCore(core int) {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	_ = unix.SchedSetaffinity(0, &set)
}
