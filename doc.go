// Package tasking is a user-space, work-stealing task scheduler.
//
// A Runtime owns a fixed pool of workers, each with its own task deque; the
// root worker runs on the caller's goroutine and every other worker is
// pinned to its own OS thread. Spawning a task pushes it onto the calling worker's deque;
// idle workers steal from random siblings rather than contending on a
// shared queue. Stealing is receiver-initiated: a thief sends a request and
// the victim services it at its own safe points, so the deque itself never
// needs to support concurrent access.
//
// Go has no address-stable thread-local storage, so the current worker is
// threaded explicitly through task bodies instead of being looked up
// implicitly, the fallback spec.md's own design notes sanction for runtimes
// without pointer-stable thread locals.
package tasking
