package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type countingRunner struct {
	calls   atomic.Int32
	running atomic.Int32
	overlap atomic.Bool
	delay   time.Duration
	err     error
}

func (r *countingRunner) RunCycle(ctx context.Context) error {
	if r.running.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.running.Add(-1)
	r.calls.Add(1)

	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
	}
	return r.err
}

func newTestScheduler(r CycleRunner, interval time.Duration) *PollScheduler {
	logger, _ := test.NewNullLogger()
	return NewPollScheduler(r, interval, logrus.NewEntry(logger))
}

func TestPollScheduler_FirstCycleRunsImmediately(t *testing.T) {
	r := &countingRunner{}
	s := newTestScheduler(r, time.Hour)

	s.Start()
	defer s.Stop()

	assert.Equal(t, int32(1), r.calls.Load())
}

func TestPollScheduler_RunsOnInterval(t *testing.T) {
	r := &countingRunner{err: errors.New("cycle failed")}
	s := newTestScheduler(r, time.Second)

	s.Start()
	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, 5*time.Second, 50*time.Millisecond)
	s.Stop()

	assert.False(t, r.overlap.Load())
}

func TestPollScheduler_SkipsOverlappingTicks(t *testing.T) {
	r := &countingRunner{delay: 2500 * time.Millisecond}
	s := newTestScheduler(r, time.Second)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Start()
	}()

	time.Sleep(4 * time.Second)
	s.Stop()
	wg.Wait()

	assert.False(t, r.overlap.Load())
}

func TestPollScheduler_StopCancelsRunningCycle(t *testing.T) {
	r := &countingRunner{delay: time.Hour}
	s := newTestScheduler(r, time.Second)

	done := make(chan struct{})
	go func() {
		s.Start()
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle was not cancelled by Stop")
	}
}

// slowShutdownRunner keeps working for a while after its context is cancelled.
type slowShutdownRunner struct {
	entered  chan struct{}
	finished atomic.Bool
}

func (r *slowShutdownRunner) RunCycle(ctx context.Context) error {
	close(r.entered)
	<-ctx.Done()
	time.Sleep(300 * time.Millisecond)
	r.finished.Store(true)
	return ctx.Err()
}

func TestPollScheduler_StopWaitsForFirstCycle(t *testing.T) {
	r := &slowShutdownRunner{entered: make(chan struct{})}
	s := newTestScheduler(r, time.Hour)

	go s.Start()
	<-r.entered

	s.Stop()
	assert.True(t, r.finished.Load(), "Stop returned while the first cycle was still running")
}

func TestPollScheduler_StopBeforeStart(t *testing.T) {
	r := &countingRunner{}
	s := newTestScheduler(r, time.Hour)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked although Start was never called")
	}

	s.Start()
	assert.Zero(t, r.calls.Load())
}
