package tasking

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type noopTask struct{ v int }

func (noopTask) run(*Worker) {}
func (noopTask) promote()    {}

type DequeTestSuite struct {
	suite.Suite
}

func TestDequeTestSuite(t *testing.T) {
	suite.Run(t, new(DequeTestSuite))
}

func (ts *DequeTestSuite) TestPushPopIsLIFO() {
	d := newDeque()
	for i := 0; i < 5; i++ {
		d.push(noopTask{v: i})
	}

	for i := 4; i >= 0; i-- {
		task, ok := d.pop()
		ts.True(ok)
		ts.Equal(i, task.(noopTask).v)
	}

	_, ok := d.pop()
	ts.False(ok)
}

func (ts *DequeTestSuite) TestStealIsFIFO() {
	d := newDeque()
	for i := 0; i < 5; i++ {
		d.push(noopTask{v: i})
	}

	for i := 0; i < 5; i++ {
		task, ok := d.steal()
		ts.True(ok)
		ts.Equal(i, task.(noopTask).v)
	}

	_, ok := d.steal()
	ts.False(ok)
}

func (ts *DequeTestSuite) TestStealManyOnEmptyDeque() {
	d := newDeque()
	_, ok := d.stealMany()
	ts.False(ok)
}

// TestStealManySequence reproduces the exact split sequence pushing 0..10
// onto an empty deque: stealMany repeatedly yields loots [4..0], [7..5],
// [8], [9], draining the owner's deque to nothing.
func (ts *DequeTestSuite) TestStealManySequence() {
	d := newDeque()
	for i := 0; i < 10; i++ {
		d.push(noopTask{v: i})
	}

	loot1, ok := d.stealMany()
	ts.True(ok)
	ts.lootValues(loot1, []int{4, 3, 2, 1, 0})
	ts.remainingValues(d, []int{9, 8, 7, 6, 5})

	loot2, ok := d.stealMany()
	ts.True(ok)
	ts.lootValues(loot2, []int{7, 6, 5})
	ts.remainingValues(d, []int{9, 8})

	loot3, ok := d.stealMany()
	ts.True(ok)
	ts.lootValues(loot3, []int{8})
	ts.remainingValues(d, []int{9})

	loot4, ok := d.stealMany()
	ts.True(ok)
	ts.lootValues(loot4, []int{9})
	ts.True(d.isEmpty())

	_, ok = d.stealMany()
	ts.False(ok)
}

func (ts *DequeTestSuite) lootValues(d *deque, want []int) {
	got := make([]int, 0, len(want))
	for {
		task, ok := d.pop()
		if !ok {
			break
		}
		got = append(got, task.(noopTask).v)
	}
	ts.Equal(want, got)
}

func (ts *DequeTestSuite) remainingValues(d *deque, want []int) {
	got := make([]int, 0, len(want))
	for _, t := range d.tasks {
		got = append(got, t.(noopTask).v)
	}
	ts.Equal(want, got)
}
