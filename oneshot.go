package tasking

import "go.uber.org/atomic"

// oneShotCell is a single-slot, single-producer/single-consumer mailbox: one
// Send, at most one Receive. ready gates the value the same way a release
// store paired with an acquire swap would in a lower-level language — Go's
// atomics are sequentially consistent, which is strictly stronger than the
// ordering this needs.
type oneShotCell[T any] struct {
	value T
	ready atomic.Bool
}

// sender is the write half of a one-shot channel.
type sender[T any] struct {
	cell *oneShotCell[T]
}

// receiver is the read half of a one-shot channel.
type receiver[T any] struct {
	cell *oneShotCell[T]
}

// newOneShot creates a fresh one-shot channel and returns its two halves.
func newOneShot[T any]() (sender[T], receiver[T]) {
	cell := &oneShotCell[T]{}
	return sender[T]{cell}, receiver[T]{cell}
}

// send delivers value. Calling send more than once on the same channel is a
// programmer error; the second call silently clobbers the first because
// nothing here can tell the cases apart, so callers must guarantee at most
// one send themselves (Promise.Set already does).
func (s sender[T]) send(value T) {
	s.cell.value = value
	s.cell.ready.Store(true)
}

// isReady reports whether a value is available without consuming it.
func (r receiver[T]) isReady() bool {
	return r.cell.ready.Load()
}

// receive consumes the value. It panics if none is available yet; callers
// are expected to check isReady (or otherwise know a value has been sent)
// first.
func (r receiver[T]) receive() T {
	if !r.cell.ready.Swap(false) {
		panic("tasking: receive on a one-shot channel with no message available")
	}
	return r.cell.value
}
