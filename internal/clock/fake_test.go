package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeAfterFuncFiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var fired []string
	var seen []time.Duration

	c.AfterFunc(300*time.Millisecond, func() {
		fired = append(fired, "late")
		seen = append(seen, c.Now().Sub(epoch))
	})
	c.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, "early")
		seen = append(seen, c.Now().Sub(epoch))
	})

	c.Advance(50 * time.Millisecond)
	assert.Empty(t, fired)
	assert.Equal(t, 2, c.PendingCount())

	c.Advance(time.Second)
	assert.Equal(t, []string{"early", "late"}, fired)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 300 * time.Millisecond}, seen)
	assert.Equal(t, 1050*time.Millisecond, c.Now().Sub(epoch))
	assert.Zero(t, c.PendingCount())
}

func TestFakeTimerStop(t *testing.T) {
	c := Fake(epoch)
	called := false
	timer := c.AfterFunc(time.Second, func() { called = true })

	require.True(t, timer.Stop())
	require.False(t, timer.Stop(), "second stop reports already stopped")

	c.Advance(2 * time.Second)
	assert.False(t, called)
}

func TestFakeCallbackCanScheduleMore(t *testing.T) {
	c := Fake(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			c.AfterFunc(100*time.Millisecond, tick)
		}
	}
	c.AfterFunc(100*time.Millisecond, tick)

	c.Advance(time.Second)
	assert.Equal(t, 3, count)
}

func TestFakeNonPositiveDelayRunsImmediately(t *testing.T) {
	c := Fake(epoch)
	called := false
	timer := c.AfterFunc(0, func() { called = true })
	assert.True(t, called)
	assert.False(t, timer.Stop())
}
