package tickhookx

import "github.com/comalice/tickhookx/platform"

// Hook returns the relay the platform invokes on every tick interrupt.
// Init registers it automatically; it is exported so custom platforms
// can wire it by hand and so its contract can be exercised directly.
//
// The relay honors the platform.HookFunc constraints: it never blocks,
// never allocates, and is safe to invoke before Init, where it reports
// no wake.
func (d *Driver) Hook() platform.HookFunc {
	return func() bool {
		ref := d.task.Load()
		if ref == nil {
			return false
		}
		return ref.h.NotifyGive()
	}
}
