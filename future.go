package tasking

// futureMode distinguishes a Future/Promise pair that never left its
// spawning task's stack frame (lazy) from one that has been promoted to a
// cross-thread one-shot channel.
type futureMode int

const (
	modeLazy futureMode = iota
	modeChannel
)

// Future is the read side of a task's eventual result. A freshly spawned
// task's Future starts out lazy: it is just a value slot living in the
// spawning task's frame, valid only so long as that task runs to completion
// without its result ever crossing a thread boundary. If the owning task is
// stolen, the victim promotes the matching Promise before handing the task
// to the thief, switching both ends over to a one-shot channel.
type Future[T any] struct {
	mode     futureMode
	hasValue bool
	value    T
	recv     receiver[T]
}

// Promise is the write side of a task's eventual result.
type Promise[T any] struct {
	mode   futureMode
	future *Future[T] // back-reference, used while mode == modeLazy
	send   sender[T]  // used while mode == modeChannel
}

// NewFuturePromise creates a lazy Future/Promise pair. The Future's address
// is what the Promise refers back to, so callers must keep the Future
// pinned (e.g. as a local variable, never copied by value) for as long as
// the Promise might still be lazy.
func NewFuturePromise[T any]() (*Future[T], *Promise[T]) {
	f := &Future[T]{mode: modeLazy}
	return f, &Promise[T]{mode: modeLazy, future: f}
}

// Set delivers value exactly once. Calling Set twice on the same Promise is
// a programmer error.
func (p *Promise[T]) Set(value T) {
	switch p.mode {
	case modeLazy:
		if p.future.hasValue {
			panic("tasking: promise already set")
		}
		p.future.value = value
		p.future.hasValue = true
	case modeChannel:
		if p.send.cell == nil {
			panic("tasking: promise already set")
		}
		p.send.send(value)
		p.send.cell = nil
	}
}

// Promote converts a lazy promise into a channel-backed one. It is a
// programmer error to promote twice; promoting is idempotent only in the
// sense that a caller holding a promise it didn't promote itself can ask
// again and get the same (now-channel) promise back — see Task.promote,
// which is the only caller in this package.
func (p *Promise[T]) Promote() *Promise[T] {
	if p.mode == modeChannel {
		return p
	}
	send, recv := newOneShot[T]()
	if p.future.hasValue {
		send.send(p.future.value)
	}
	p.future.mode = modeChannel
	p.future.recv = recv
	return &Promise[T]{mode: modeChannel, send: send}
}

// TryGet returns the value and true if one is ready, without blocking.
func (f *Future[T]) TryGet() (T, bool) {
	switch f.mode {
	case modeLazy:
		if f.hasValue {
			f.hasValue = false
			return f.value, true
		}
		var zero T
		return zero, false
	default: // modeChannel
		if f.recv.isReady() {
			return f.recv.receive(), true
		}
		var zero T
		return zero, false
	}
}

// Get returns the result, which must already be present. For a lazy future
// this means the producing task already ran synchronously on this same
// worker and set it; a lazy future with no value is a programmer error (the
// producing task was never pushed, or was pushed but never drained before
// Get was called) and Get fails fast rather than deadlock. A promoted,
// channel-backed future spins on the one-shot cell instead, since by the
// time a future is promoted the producing task may genuinely still be
// running on another worker.
func (f *Future[T]) Get(w *Worker) T {
	switch f.mode {
	case modeLazy:
		v, ok := f.TryGet()
		if !ok {
			panic("tasking: Get on a lazy future with no value set")
		}
		return v
	default: // modeChannel
		for {
			if v, ok := f.TryGet(); ok {
				return v
			}
		}
	}
}

// Wait is the cooperative counterpart to Get: instead of failing fast or
// spinning, it drives w's own run loop (draining its deque, then issuing
// steal requests) between checks, so a worker blocked on a future keeps
// making progress on other work instead of idling.
func (f *Future[T]) Wait(w *Worker) T {
	if v, ok := f.TryGet(); ok {
		return v
	}

	executed := uint32(0)
	for {
		task, ok := w.pop()
		if !ok {
			break
		}
		w.tryHandleStealRequest()
		task.run(w)
		executed++
		if v, ok := f.TryGet(); ok {
			w.stats.add(executed)
			return v
		}
	}

	for {
		resp := w.stealOne()
		switch resp.kind {
		case tasksNone:
			// keep trying
		case tasksOne:
			resp.task.run(w)
			executed++
		case tasksExit:
			panic("tasking: worker asked to exit while a future was still outstanding")
		default:
			panic("tasking: unexpected response while waiting on a future")
		}
		if v, ok := f.TryGet(); ok {
			w.stats.add(executed)
			return v
		}
	}
}
