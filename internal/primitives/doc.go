// Package primitives provides the foundational, zero-dependency building
// blocks for the tick bridge.
//
// This package uses ONLY the Go standard library. No external dependencies
// are permitted in the bridge core to achieve:
// - Safety from must-not-block callback contexts
// - Zero-allocation hot paths
// - Deterministic builds
//
// Core invariants:
// - Notifier.Give never blocks and never allocates
// - Credits are conserved: every deposited credit is returned by exactly one
//   Take/TryTake or is still pending
// - Delivery is coalescing: at least one wake per burst, not one per credit
package primitives
