package testutil

import "sync/atomic"

// DeterministicClock stamps scene journal entries with 1, 2, 3, ... and is
// shared between a host and the test, so a test can read back the seq of
// the last mutation or count how many mutations a call made.
//
// A scenario rerun on a fresh host with a Reset clock yields an identical
// journal, which is what the harness golden traces rely on.
type DeterministicClock struct {
	last atomic.Int64
}

// NewDeterministicClock returns a clock whose first stamp is 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next stamps one journal entry.
func (c *DeterministicClock) Next() int64 {
	return c.last.Add(1)
}

// Last returns the most recent stamp, or 0 before the first mutation.
func (c *DeterministicClock) Last() int64 {
	return c.last.Load()
}

// Since returns how many entries were stamped after mark, a value
// previously returned by Last.
func (c *DeterministicClock) Since(mark int64) int64 {
	return c.last.Load() - mark
}

// Reset rewinds the clock so the next stamp is 1.
func (c *DeterministicClock) Reset() {
	c.last.Store(0)
}
