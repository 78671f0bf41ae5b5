package vote

import (
	"time"

	"go.uber.org/atomic"
)

// Clock is the time source of the registry, in unix seconds.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	now *atomic.Uint64
}

func NewManualClock(now uint64) *ManualClock {
	return &ManualClock{now: atomic.NewUint64(now)}
}

func (c *ManualClock) Now() uint64 {
	return c.now.Load()
}

// Set sets the current time.
func (c *ManualClock) Set(now uint64) {
	c.now.Store(now)
}

// Advance moves the clock forward and returns the new time.
func (c *ManualClock) Advance(seconds uint64) uint64 {
	return c.now.Add(seconds)
}
