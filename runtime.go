package tasking

import (
	"runtime"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runtime owns a fixed pool of workers for the lifetime of one Init/Join
// pair. Worker 0, the root, runs on the goroutine that called Init; workers
// 1..n-1 each get their own OS thread, pinned with runtime.LockOSThread,
// and run Worker.Run until Join tells them to stop.
type Runtime struct {
	root   *Worker
	eg     *errgroup.Group
	slots  []*workerStats
	runID  string
	joined bool
}

// Init brings up numWorkers workers and returns the Runtime and a handle to
// the root worker, which the caller uses to spawn the initial tasks. It
// panics if numWorkers is less than 1.
func Init(numWorkers int) (*Runtime, *Worker) {
	if numWorkers < 1 {
		panic("tasking: numWorkers must be >= 1")
	}

	mailboxes := make([]chan stealRequest, numWorkers)
	for i := range mailboxes {
		mailboxes[i] = make(chan stealRequest, numWorkers)
	}
	coworkers := make([]Coworker, numWorkers)
	for i := range coworkers {
		coworkers[i] = Coworker{id: i, requests: mailboxes[i]}
	}

	exitChans := make([]chan tasksResponse, numWorkers)
	for i := 1; i < numWorkers; i++ {
		exitChans[i] = make(chan tasksResponse, 1)
	}

	slots := make([]*workerStats, numWorkers)

	var startWG sync.WaitGroup
	startWG.Add(numWorkers)
	var eg errgroup.Group

	for i := 1; i < numWorkers; i++ {
		i := i
		eg.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			w := newWorker(i, mailboxes[i], siblingsOf(coworkers, i), exitChans[i])
			slots[i] = w.stats

			parent := (i - 1) / 2
			coworkers[parent].requests <- stealRequest{thief: i, many: false, response: exitChans[i]}
			receiveBootstrap(w, numWorkers, mailboxes[i])

			startWG.Done()
			startWG.Wait()

			w.Run()
			return nil
		})
	}

	root := newWorker(0, mailboxes[0], siblingsOf(coworkers, 0), nil)
	slots[0] = root.stats
	receiveBootstrap(root, numWorkers, mailboxes[0])

	startWG.Done()
	startWG.Wait()

	return &Runtime{root: root, eg: &eg, slots: slots, runID: uuid.New().String()}, root
}

// receiveBootstrap drains exactly as many bootstrap steal requests off w's
// own mailbox as w has children in the termination tree, recording each
// child's response channel. It only runs before the startup barrier, while
// the only requests in flight are bootstrap ones.
func receiveBootstrap(w *Worker, total int, mailbox <-chan stealRequest) {
	left, right := 2*w.id+1, 2*w.id+2
	n := 0
	if left < total {
		n++
	}
	if right < total {
		n++
	}
	for k := 0; k < n; k++ {
		req := <-mailbox
		w.children = append(w.children, req.response)
	}
}

func siblingsOf(coworkers []Coworker, id int) []Coworker {
	out := make([]Coworker, 0, len(coworkers)-1)
	for _, c := range coworkers {
		if c.id != id {
			out = append(out, c)
		}
	}
	return out
}

// Root returns the worker the application should use to spawn its initial
// tasks. It is always worker 0.
func (r *Runtime) Root() *Worker {
	return r.root
}

// Join propagates Exit down the termination tree, waits for every worker
// thread to return from Run, and returns the aggregated execution
// statistics. It is a programmer error to call Join while tasks spawned
// through r.Root() are still outstanding.
func (r *Runtime) Join() Stats {
	if r.joined {
		panic("tasking: Join called twice on the same Runtime")
	}
	r.joined = true

	r.root.finalize()
	if err := r.eg.Wait(); err != nil {
		panic(err)
	}

	agg := Stats{RunID: r.runID, PerWorker: make([]uint64, 0, len(r.slots))}
	for _, s := range r.slots {
		agg.Merge(&Stats{NumTasksExecuted: uint64(s.numTasksExecuted), PerWorker: []uint64{uint64(s.numTasksExecuted)}})
	}
	return agg
}
