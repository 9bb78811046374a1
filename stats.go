package tasking

// workerStats is a single worker's execution counters. Only the owning
// worker's goroutine ever touches one while the runtime is running, so it
// needs no synchronization; Runtime.Join reads it only after that worker
// has returned from Run.
type workerStats struct {
	numTasksExecuted uint32
}

func (s *workerStats) add(n uint32) {
	s.numTasksExecuted += n
}

// Stats aggregates execution counters across every worker in a Runtime,
// merged once at Join.
type Stats struct {
	// RunID identifies the Runtime this Stats came from.
	RunID string

	// NumTasksExecuted is the total number of tasks run across all workers.
	NumTasksExecuted uint64

	// PerWorker holds each worker's individual count, indexed by worker id.
	PerWorker []uint64
}

// Merge folds other's counters into s.
func (s *Stats) Merge(other *Stats) {
	s.NumTasksExecuted += other.NumTasksExecuted
	s.PerWorker = append(s.PerWorker, other.PerWorker...)
}

// Add adds n to the total task count, in the same spirit as the per-worker
// counter's own add.
func (s *Stats) Add(n uint32) {
	s.NumTasksExecuted += uint64(n)
}
