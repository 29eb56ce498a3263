// internal/gate/gate.go
package gate

import (
	"sync"
	"time"
)

// DelayBase is the length of one startup-delay unit.
const DelayBase = time.Second

// MinDelayUnits is the effective multiplier when the configured value
// is absent or not numeric. A zero or invalid delay must never produce
// an immediately-ready gate: the connection may report "connected"
// before the device side has settled.
const MinDelayUnits = 10

// Gate owns the startup-delay half of the readiness predicate.
// Connection attachment lives in the node's lifecycle adapter; the
// gate only answers "has the grace period elapsed".
type Gate struct {
	mu           sync.Mutex
	delayArmed   bool
	delayElapsed bool
	timer        *time.Timer

	// afterFunc is swapped in tests to drive the timer by hand.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// New returns a gate with no delay configured: immediately elapsed.
func New() *Gate {
	return &Gate{
		delayElapsed: true,
		afterFunc:    time.AfterFunc,
	}
}

// Init arms the startup grace period. A non-positive delay means none
// is configured and the gate is elapsed at once. Calling Init again
// while a timer is armed restarts the period; the sequence Reset+Init
// is idempotent.
func (g *Gate) Init(delay time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopTimerLocked()

	if delay <= 0 {
		g.delayArmed = false
		g.delayElapsed = true
		return
	}

	g.delayArmed = true
	g.delayElapsed = false
	g.timer = g.afterFunc(delay, g.fire)
}

// Reset cancels any armed timer and clears the elapsed flag.
// Safe to call with no timer armed.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopTimerLocked()
	g.delayElapsed = false
}

// Elapsed reports whether the grace period has passed
// (or none was configured).
func (g *Gate) Elapsed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.delayElapsed
}

func (g *Gate) fire() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.delayArmed = false
	g.delayElapsed = true
	g.timer = nil
}

func (g *Gate) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.delayArmed = false
}

// UnitsToDelay converts a configured delay multiplier into a duration.
// Non-positive multipliers fall back to MinDelayUnits.
func UnitsToDelay(units int) time.Duration {
	if units <= 0 {
		units = MinDelayUnits
	}
	return time.Duration(units) * DelayBase
}
