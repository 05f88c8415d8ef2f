package timeutil

import (
	"sync"
	"time"
)

// Clock is the time source used to stamp and time extractions.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Default is the process-wide clock.
var Default Clock = UTCClock{}

// Now is Default.Now().
func Now() time.Time { return Default.Now() }

// UTCClock is the system clock, reported in UTC.
type UTCClock struct{}

func (UTCClock) Now() time.Time { return time.Now().UTC() }

func (UTCClock) Since(t time.Time) time.Duration { return time.Since(t) }

// FrozenClock only moves when told to. Since is measured against the frozen
// instant, so tests can assert exact durations.
type FrozenClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFrozenClock(t time.Time) *FrozenClock {
	c := &FrozenClock{}
	c.Set(t)
	return c
}

func (c *FrozenClock) Now() time.Time {
	c.mu.RLock()
	now := c.now
	c.mu.RUnlock()
	return now
}

func (c *FrozenClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func (c *FrozenClock) Set(t time.Time) {
	c.update(func(time.Time) time.Time { return t.UTC() })
}

func (c *FrozenClock) Advance(d time.Duration) {
	c.update(func(now time.Time) time.Time { return now.Add(d) })
}

func (c *FrozenClock) update(f func(time.Time) time.Time) {
	c.mu.Lock()
	c.now = f(c.now)
	c.mu.Unlock()
}
