package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock is a lamport counter stamped on every board revision.
type Clock struct {
	site    string
	counter atomic.Uint64
}

func NewClock() *Clock {
	return &Clock{site: uuid.NewString()}
}

func (c *Clock) Site() string { return c.site }

func (c *Clock) Tick() uint64 { return c.counter.Add(1) }

func (c *Clock) Now() uint64 { return c.counter.Load() }

// Observe moves the counter forward to at least remote.
func (c *Clock) Observe(remote uint64) {
	for {
		cur := c.counter.Load()
		if remote <= cur || c.counter.CompareAndSwap(cur, remote) {
			return
		}
	}
}
