package tasking

import (
	"math/rand"
	"time"
)

// Coworker is the handle one worker holds for another: an id and the
// send side of that worker's steal-request mailbox.
type Coworker struct {
	id       int
	requests chan<- stealRequest
}

// stealRequest is sent by a thief to a victim's mailbox. The victim
// services it inline, at its own safe points, and replies on response.
type stealRequest struct {
	thief    int
	many     bool
	response chan tasksResponse
}

type responseKind int

const (
	tasksNone responseKind = iota
	tasksOne
	tasksMany
	tasksExit
)

// tasksResponse is what a victim sends back for a steal request, or what a
// parent sends down the termination tree to ask a child to shut down.
type tasksResponse struct {
	kind  responseKind
	task  Task   // set when kind == tasksOne
	deque *deque // set when kind == tasksMany
}

// Worker owns one OS thread's worth of scheduling state: its private task
// deque, its mailbox for incoming steal requests, handles to its siblings,
// its position in the termination tree, its scope stack, and its execution
// counters. Everything on Worker is touched by exactly one goroutine except
// requests and exitSignal, which other workers send into.
type Worker struct {
	id int

	deque    *deque
	requests <-chan stealRequest
	siblings []Coworker
	rng      *rand.Rand

	// children holds the response channel each child sent its bootstrap
	// steal request on; finalize sends Exit down these.
	children []chan tasksResponse

	// exitSignal is this worker's own bootstrap response channel. Its
	// parent is the only one ever to write to it, and the only thing it
	// ever writes is Exit — see SPEC_FULL.md's note on OQ1.
	exitSignal <-chan tasksResponse

	scopes []*Scope
	stats  *workerStats
}

func newWorker(id int, mailbox <-chan stealRequest, siblings []Coworker, exitSignal <-chan tasksResponse) *Worker {
	return &Worker{
		id:         id,
		deque:      newDeque(),
		requests:   mailbox,
		siblings:   siblings,
		exitSignal: exitSignal,
		scopes:     []*Scope{{level: 0}},
		stats:      &workerStats{},
		rng:        rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(id)*2654435761)),
	}
}

// ID returns the worker's position in the termination tree, 0 for the root.
func (w *Worker) ID() int {
	return w.id
}

// Push schedules t to run on w, LIFO relative to other pushes.
func (w *Worker) Push(t Task) {
	w.deque.push(t)
}

func (w *Worker) pop() (Task, bool) {
	return w.deque.pop()
}

// tryHandleStealRequest services at most one pending incoming steal request
// without blocking. Run calls this between popping a task and running it,
// the run loop's only opportunistic safe point.
func (w *Worker) tryHandleStealRequest() {
	select {
	case req := <-w.requests:
		w.handleStealRequest(req)
	default:
	}
}

func (w *Worker) handleStealRequest(req stealRequest) {
	if req.many {
		loot, ok := w.deque.stealMany()
		if !ok {
			req.response <- tasksResponse{kind: tasksNone}
			return
		}
		for _, t := range loot.tasks {
			t.promote()
		}
		req.response <- tasksResponse{kind: tasksMany, deque: loot}
		return
	}

	t, ok := w.deque.steal()
	if !ok {
		req.response <- tasksResponse{kind: tasksNone}
		return
	}
	t.promote()
	req.response <- tasksResponse{kind: tasksOne, task: t}
}

// stealOne sends a single-task steal request to a random sibling and waits
// for the response, servicing this worker's own mailbox in the meantime.
func (w *Worker) stealOne() tasksResponse {
	return w.requestSteal(false)
}

// stealMany sends a bulk steal request. Only ever called from an empty
// local deque (see SPEC_FULL.md's note on OQ2).
func (w *Worker) stealMany() tasksResponse {
	return w.requestSteal(true)
}

func (w *Worker) requestSteal(many bool) tasksResponse {
	victim := w.siblings[w.rng.Intn(len(w.siblings))]
	respCh := make(chan tasksResponse, 1)
	victim.requests <- stealRequest{thief: w.id, many: many, response: respCh}
	return w.waitForResponse(respCh)
}

// waitForResponse blocks until a value arrives on resp, servicing this
// worker's own incoming steal requests and watching for Exit meanwhile. A
// nil exitSignal (the root has none) simply never fires in the select.
func (w *Worker) waitForResponse(resp <-chan tasksResponse) tasksResponse {
	for {
		select {
		case r := <-resp:
			return r
		case req := <-w.requests:
			w.handleStealRequest(req)
		case <-w.exitSignal:
			return tasksResponse{kind: tasksExit}
		}
	}
}

// Run is the worker's main loop: drain the local deque, opportunistically
// servicing incoming steal requests between tasks; once empty, steal a
// single task from a random sibling and go again; stop once Exit
// propagates down the termination tree.
func (w *Worker) Run() {
	for {
		for {
			task, ok := w.pop()
			if !ok {
				break
			}
			w.tryHandleStealRequest()
			task.run(w)
			w.stats.add(1)
		}

		resp := w.stealOne()
		switch resp.kind {
		case tasksNone:
			continue
		case tasksOne:
			resp.task.run(w)
			w.stats.add(1)
		case tasksMany:
			if !w.deque.isEmpty() {
				panic("tasking: received a bulk steal response with a non-empty local deque")
			}
			w.deque = resp.deque
		case tasksExit:
			if !w.deque.isEmpty() {
				panic("tasking: worker exiting with tasks still in its deque")
			}
			w.finalize()
			return
		}
	}
}

// finalize propagates Exit to this worker's children in the termination
// tree. The root calls it directly once the application is done; every
// other worker calls it on itself right before returning from Run, once it
// has received Exit from its own parent.
func (w *Worker) finalize() {
	for _, child := range w.children {
		child <- tasksResponse{kind: tasksExit}
	}
}
