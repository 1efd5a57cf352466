package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/drivesim-oss/clock"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/config"
)

func TestClock(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 10, Total: 5, Interval: 0.5})
	assert.Equal(t, int32(10), c.InternalStep)
	assert.Equal(t, 5.0, c.T)
	assert.False(t, c.Done())

	for i := 0; i < 5; i++ {
		c.Tick()
	}
	assert.Equal(t, int32(15), c.InternalStep)
	assert.Equal(t, 7.5, c.T)
	assert.True(t, c.Done())

	c.Init()
	assert.Equal(t, int32(10), c.InternalStep)
}

func TestClockFormat(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 0, Total: 100000, Interval: 1})
	for i := 0; i < 3725; i++ {
		c.Tick()
	}
	assert.Equal(t, "01:02:05", c.String())
	h, m, s := c.GetHourMinuteSecond()
	assert.Equal(t, 1, h)
	assert.Equal(t, 2, m)
	assert.InDelta(t, 5.0, s, 1e-9)
}
