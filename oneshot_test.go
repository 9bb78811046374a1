package tasking

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type OneShotTestSuite struct {
	suite.Suite
}

func TestOneShotTestSuite(t *testing.T) {
	suite.Run(t, new(OneShotTestSuite))
}

func (ts *OneShotTestSuite) TestNotReadyBeforeSend() {
	_, recv := newOneShot[int]()
	ts.False(recv.isReady())
}

func (ts *OneShotTestSuite) TestSendThenReceive() {
	send, recv := newOneShot[string]()
	send.send("hello")
	ts.True(recv.isReady())
	ts.Equal("hello", recv.receive())
}

func (ts *OneShotTestSuite) TestReceiveWithoutSendPanics() {
	_, recv := newOneShot[int]()
	ts.Panics(func() { recv.receive() })
}

func (ts *OneShotTestSuite) TestReceiveConsumesTheValue() {
	send, recv := newOneShot[int]()
	send.send(42)
	ts.Equal(42, recv.receive())
	ts.False(recv.isReady())
	ts.Panics(func() { recv.receive() })
}

func (ts *OneShotTestSuite) TestCrossGoroutine() {
	send, recv := newOneShot[int]()
	done := make(chan struct{})
	go func() {
		send.send(7)
		close(done)
	}()
	<-done
	ts.Equal(7, recv.receive())
}
