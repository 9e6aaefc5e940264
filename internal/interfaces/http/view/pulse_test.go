package view

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPulse(t *testing.T) {
	t.Run("starts lowered", func(t *testing.T) {
		assert.False(t, NewPulse(0).Active())
	})

	t.Run("trigger raises then clears", func(t *testing.T) {
		p := NewPulse(20 * time.Millisecond)
		p.Trigger()
		assert.True(t, p.Active())
		assert.Eventually(t, func() bool { return !p.Active() }, time.Second, 5*time.Millisecond)
	})

	t.Run("retrigger restarts the timer", func(t *testing.T) {
		p := NewPulse(80 * time.Millisecond)
		p.Trigger()
		time.Sleep(50 * time.Millisecond)
		p.Trigger()
		time.Sleep(50 * time.Millisecond)
		assert.True(t, p.Active())
		assert.Eventually(t, func() bool { return !p.Active() }, time.Second, 5*time.Millisecond)
	})

	t.Run("stop lowers immediately", func(t *testing.T) {
		p := NewPulse(time.Hour)
		p.Trigger()
		p.Stop()
		assert.False(t, p.Active())
	})

	t.Run("lowering runs the callback once per timer", func(t *testing.T) {
		var lowered atomic.Int32
		p := NewPulse(20 * time.Millisecond)
		p.OnLower(func() { lowered.Add(1) })

		p.Trigger()
		p.Trigger()
		assert.Eventually(t, func() bool { return lowered.Load() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(40 * time.Millisecond)
		assert.Equal(t, int32(1), lowered.Load(), "superseded timer does not call back")
	})

	t.Run("stop does not run the callback", func(t *testing.T) {
		var lowered atomic.Int32
		p := NewPulse(10 * time.Millisecond)
		p.OnLower(func() { lowered.Add(1) })
		p.Trigger()
		p.Stop()
		time.Sleep(30 * time.Millisecond)
		assert.Zero(t, lowered.Load())
	})

	t.Run("default duration", func(t *testing.T) {
		assert.Equal(t, PulseDuration, NewPulse(-1).duration)
		assert.Equal(t, 300*time.Millisecond, PulseDuration)
	})
}
