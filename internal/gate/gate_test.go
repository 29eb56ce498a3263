// internal/gate/gate_test.go
package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer captures armed delays and lets tests fire them by hand.
type fakeTimer struct {
	armed []time.Duration
	fire  func()
}

func (f *fakeTimer) afterFunc(d time.Duration, fn func()) *time.Timer {
	f.armed = append(f.armed, d)
	f.fire = fn
	// Inert timer: never fires on its own.
	return time.NewTimer(time.Hour)
}

func newTestGate() (*Gate, *fakeTimer) {
	g := New()
	ft := &fakeTimer{}
	g.afterFunc = ft.afterFunc
	return g, ft
}

func TestNoDelayConfigured_ImmediatelyElapsed(t *testing.T) {
	g, _ := newTestGate()

	assert.True(t, g.Elapsed())

	g.Init(0)
	assert.True(t, g.Elapsed())
}

func TestDelayBoundary(t *testing.T) {
	g, ft := newTestGate()

	// start_delay_time: 10 arms exactly 10 x 1000 time-units.
	g.Init(UnitsToDelay(10))
	require.Len(t, ft.armed, 1)
	assert.Equal(t, 10*time.Second, ft.armed[0])

	// Before the timer fires the gate stays shut.
	assert.False(t, g.Elapsed())

	// At the boundary it opens.
	ft.fire()
	assert.True(t, g.Elapsed())
}

func TestResetInit_Idempotent(t *testing.T) {
	g, ft := newTestGate()

	// Repeating the reset/init sequence must behave like a single run.
	for i := 0; i < 3; i++ {
		g.Reset()
		g.Init(UnitsToDelay(10))
	}

	require.Len(t, ft.armed, 3)
	assert.False(t, g.Elapsed())

	ft.fire()
	assert.True(t, g.Elapsed())
}

func TestReset_ClearsElapsed(t *testing.T) {
	g, ft := newTestGate()

	g.Init(UnitsToDelay(1))
	ft.fire()
	require.True(t, g.Elapsed())

	g.Reset()
	assert.False(t, g.Elapsed())

	// Safe with no timer armed.
	g.Reset()
	assert.False(t, g.Elapsed())
}

func TestUnitsToDelay_MinimumFallback(t *testing.T) {
	// Absent or invalid multipliers fall back to the minimum, never
	// producing an immediately-ready gate.
	assert.Equal(t, time.Duration(MinDelayUnits)*DelayBase, UnitsToDelay(0))
	assert.Equal(t, time.Duration(MinDelayUnits)*DelayBase, UnitsToDelay(-3))
	assert.Equal(t, 42*DelayBase, UnitsToDelay(42))
}
