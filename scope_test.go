package tasking

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ScopeTestSuite struct {
	suite.Suite
}

func TestScopeTestSuite(t *testing.T) {
	suite.Run(t, new(ScopeTestSuite))
}

func (ts *ScopeTestSuite) newLoneWorker() *Worker {
	// A worker with no siblings, used only to exercise scope bookkeeping
	// that never needs to steal.
	return newWorker(0, make(chan stealRequest, 1), nil, nil)
}

func (ts *ScopeTestSuite) TestRootScopeIsLevelZero() {
	w := ts.newLoneWorker()
	ts.Equal(uint32(0), w.CurrentScope().Level())
}

func (ts *ScopeTestSuite) TestEnterLeaveTracksLevel() {
	w := ts.newLoneWorker()
	w.EnterScope()
	ts.Equal(uint32(1), w.CurrentScope().Level())
	w.EnterScope()
	ts.Equal(uint32(2), w.CurrentScope().Level())
	w.LeaveScope()
	ts.Equal(uint32(1), w.CurrentScope().Level())
	w.LeaveScope()
	ts.Equal(uint32(0), w.CurrentScope().Level())
}

func (ts *ScopeTestSuite) TestLeaveRootScopePanics() {
	w := ts.newLoneWorker()
	ts.Panics(func() { w.LeaveScope() })
}

func (ts *ScopeTestSuite) TestShareIsIdempotent() {
	s := &Scope{}
	a := s.Share()
	b := s.Share()
	ts.Same(a, b)
}

func (ts *ScopeTestSuite) TestIncDecOnPrivateCounter() {
	s := &Scope{}
	s.numTasks.inc()
	s.numTasks.inc()
	ts.Equal(uint32(2), s.numTasks.get())
	s.numTasks.dec()
	ts.Equal(uint32(1), s.numTasks.get())
}

func (ts *ScopeTestSuite) TestEnterLeaveWithCompletedLocalTask() {
	w := ts.newLoneWorker()
	w.EnterScope()
	SpawnScopedTask(w, func(w *Worker) {})
	w.LeaveScope() // drains its own deque; never needs to steal
	ts.Equal(uint32(0), w.CurrentScope().Level())
}
