package tasking

import "go.uber.org/atomic"

// sharedCount is a counter safe to touch from any worker thread. It backs a
// Scope's task counter once the scope has been shared across threads (see
// Scope.Share); before that, a Scope keeps its own unshared counter, since
// nothing but the owning worker ever touches it.
type sharedCount struct {
	v atomic.Uint32
}

func newSharedCount(initial uint32) *sharedCount {
	c := &sharedCount{}
	c.v.Store(initial)
	return c
}

func (c *sharedCount) get() uint32 { return c.v.Load() }

// inc returns the value before incrementing.
func (c *sharedCount) inc() uint32 { return c.v.Inc() - 1 }

// dec returns the value before decrementing. Underflow wraps, matching the
// core's general tolerance for counter wraparound under misuse.
func (c *sharedCount) dec() uint32 { return c.v.Dec() + 1 }

// Add adds delta and returns the value before adding. Overflow wraps.
func (c *sharedCount) Add(delta uint32) uint32 { return c.v.Add(delta) - delta }

// Sub subtracts delta and returns the value before subtracting. Underflow
// wraps, same as dec.
func (c *sharedCount) Sub(delta uint32) uint32 { return c.v.Sub(delta) + delta }
