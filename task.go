package tasking

// Task is the scheduler's erased unit of work: a thunk plus whatever
// bookkeeping (a promise, a scope membership) it was constructed with. The
// deque stores Tasks, not the generic thunks themselves, since a single
// deque holds tasks of many different result types side by side.
type Task interface {
	// run executes the task's body on w, the worker currently running it —
	// which may not be the worker that pushed it, if it was stolen.
	run(w *Worker)

	// promote is called by a victim, exactly once, on every task it is
	// about to hand to a thief. It gives the task a chance to move any
	// thread-confined state (a lazy promise, a private scope counter) onto
	// a representation safe to use from another thread.
	promote()
}

// asyncTask is a plain spawned task: run its thunk, then deliver the result
// through promise, if the caller asked for one.
type asyncTask[T any] struct {
	thunk   func(w *Worker) T
	promise *Promise[T] // nil if the caller used SpawnTask, which discards the result
}

func (t *asyncTask[T]) run(w *Worker) {
	result := t.thunk(w)
	if t.promise != nil {
		t.promise.Set(result)
	}
}

func (t *asyncTask[T]) promote() {
	if t.promise != nil {
		t.promise = t.promise.Promote()
	}
}

// scopedTask wraps another Task with scope membership: it increments its
// scope's counter at construction, and decrements whichever counter is
// current by the time it finishes — the scope's own counter if it ran
// without ever leaving the spawning worker, or a shared counter captured at
// promote time if a thief ran it instead.
type scopedTask struct {
	inner  Task
	scope  *Scope
	shared *sharedCount // set by promote, nil until then
}

func newScopedTask(w *Worker, inner Task) *scopedTask {
	s := w.currentScope()
	s.numTasks.inc()
	return &scopedTask{inner: inner, scope: s}
}

func (t *scopedTask) promote() {
	t.inner.promote()
	t.shared = t.scope.Share()
}

func (t *scopedTask) run(w *Worker) {
	if t.shared != nil {
		frame := &Scope{level: t.scope.level + 1, numTasks: taskCount{shared: t.shared}}
		w.pushScope(frame)
		t.inner.run(w)
		w.popScope()
		t.shared.dec()
		return
	}
	t.inner.run(w)
	t.scope.numTasks.dec()
}

// Spawn schedules fn to run asynchronously on w and returns a Future for its
// result.
func Spawn[T any](w *Worker, fn func(w *Worker) T) *Future[T] {
	future, promise := NewFuturePromise[T]()
	w.Push(&asyncTask[T]{thunk: fn, promise: promise})
	return future
}

// SpawnTask schedules fn to run asynchronously on w, discarding any return
// value the body might have.
func SpawnTask(w *Worker, fn func(w *Worker)) {
	w.Push(&asyncTask[struct{}]{thunk: func(w *Worker) struct{} {
		fn(w)
		return struct{}{}
	}})
}

// SpawnScoped is like Spawn, but the task is counted against w's current
// Scope: the enclosing LeaveScope will not return until this task (and
// everything it transitively spawns inside the same scope) has completed.
func SpawnScoped[T any](w *Worker, fn func(w *Worker) T) *Future[T] {
	future, promise := NewFuturePromise[T]()
	inner := &asyncTask[T]{thunk: fn, promise: promise}
	w.Push(newScopedTask(w, inner))
	return future
}

// SpawnScopedTask is the discard-result counterpart of SpawnScoped.
func SpawnScopedTask(w *Worker, fn func(w *Worker)) {
	inner := &asyncTask[struct{}]{thunk: func(w *Worker) struct{} {
		fn(w)
		return struct{}{}
	}}
	w.Push(newScopedTask(w, inner))
}
