package mainloop

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestManualLoop_Advance(t *testing.T) {
	a := assert.New(t)

	loop := NewManual()
	var fired []string
	loop.TimeoutAddOnce(30*time.Millisecond, func() { fired = append(fired, "c") })
	loop.TimeoutAddOnce(10*time.Millisecond, func() { fired = append(fired, "a") })
	loop.TimeoutAddOnce(10*time.Millisecond, func() { fired = append(fired, "b") })

	t.Run("Nothing due", func(t *testing.T) {
		a.Equal(0, loop.Advance(5*time.Millisecond))
		a.Empty(fired)
		a.Equal(5*time.Millisecond, loop.Now())
	})
	t.Run("Same due time keeps order", func(t *testing.T) {
		a.Equal(2, loop.Advance(5*time.Millisecond))
		a.Equal([]string{"a", "b"}, fired)
	})
	t.Run("Rest", func(t *testing.T) {
		a.Equal(1, loop.Advance(time.Second))
		a.Equal([]string{"a", "b", "c"}, fired)
		a.Equal(0, loop.Pending())
	})
}

func TestManualLoop_ChainedTimers(t *testing.T) {
	a := assert.New(t)

	loop := NewManual()
	var times []time.Duration
	var tick func()
	tick = func() {
		times = append(times, loop.Now())
		loop.TimeoutAddOnce(10*time.Millisecond, tick)
	}
	loop.TimeoutAddOnce(10*time.Millisecond, tick)

	loop.Advance(35 * time.Millisecond)

	a.Equal([]time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}, times)
	a.Equal(1, loop.Pending())
}

func TestManualLoop_IdleAndRemove(t *testing.T) {
	a := assert.New(t)

	loop := NewManual()
	calls := 0
	loop.IdleAdd(func() {
		calls++
		loop.IdleAdd(func() { calls++ })
	})
	removed := loop.IdleAdd(func() { calls += 100 })
	timer := loop.TimeoutAddOnce(time.Millisecond, func() { calls += 1000 })

	a.True(loop.Remove(removed))
	a.True(loop.Remove(timer))
	a.False(loop.Remove(timer))

	a.Equal(2, loop.RunIdle())
	a.Equal(2, calls)
	a.Equal(0, loop.Advance(time.Second))
}

func TestManualLoop_AdvanceToNext(t *testing.T) {
	a := assert.New(t)

	loop := NewManual()
	var fired []string
	loop.TimeoutAddOnce(250*time.Millisecond, func() { fired = append(fired, "late") })
	loop.TimeoutAddOnce(40*time.Millisecond, func() { fired = append(fired, "early") })

	a.True(loop.AdvanceToNext())
	a.Equal([]string{"early"}, fired)
	a.Equal(40*time.Millisecond, loop.Now())

	a.True(loop.AdvanceToNext())
	a.Equal(250*time.Millisecond, loop.Now())

	a.False(loop.AdvanceToNext())
	a.Equal(250*time.Millisecond, loop.Now())
}
