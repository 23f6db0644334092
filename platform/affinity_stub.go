//go:build !linux

package platform

// pinToCore is a no-op where per-thread affinity syscalls are unavailable;
// the OS thread lock remains in effect.
func pinToCore(core int) {
	_ = core
}
