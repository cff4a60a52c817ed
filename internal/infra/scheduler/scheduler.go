package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CycleRunner is one unit of scheduled work.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// PollScheduler runs the poll cycle right away and then on a fixed interval.
// A cycle that is still running when the next tick fires causes that tick to
// be skipped, so cycles never overlap.
type PollScheduler struct {
	cronEngine *cron.Cron
	runner     CycleRunner
	interval   time.Duration
	logger     *logrus.Entry
	job        cron.Job
	ctx        context.Context
	cancel     context.CancelFunc

	mu        sync.Mutex
	stopped   bool
	started   bool
	startDone chan struct{} // closed when Start returns
}

func NewPollScheduler(runner CycleRunner, interval time.Duration, logger *logrus.Entry) *PollScheduler {
	cronLogger := cron.PrintfLogger(logger)
	ctx, cancel := context.WithCancel(context.Background())

	s := &PollScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local), cron.WithLogger(cronLogger)),
		runner:     runner,
		interval:   interval,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		startDone:  make(chan struct{}),
	}
	// Schedule() does not apply the engine chain, so the job is wrapped here.
	s.job = cron.NewChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	).Then(cron.FuncJob(s.executeCycle))
	return s
}

// Start runs the first cycle synchronously and then starts the ticker. It
// does nothing once Stop has been called and must be called at most once.
func (s *PollScheduler) Start() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()
	defer close(s.startDone)

	s.logger.WithField("interval", s.interval.String()).Info("Starting poll scheduler...")

	s.job.Run()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.cronEngine.Schedule(cron.Every(s.interval), s.job)
	s.cronEngine.Start()
	s.logger.Info("Poll scheduler started.")
}

func (s *PollScheduler) executeCycle() {
	started := time.Now()
	if err := s.runner.RunCycle(s.ctx); err != nil {
		// Already logged and alerted by the runner.
		s.logger.WithField("duration", time.Since(started).String()).Debug("Poll cycle finished with error")
		return
	}
	s.logger.WithField("duration", time.Since(started).String()).Debug("Poll cycle finished")
}

// Stop cancels the running cycle, if any, and returns only after Start and
// every ticker-started cycle have returned.
func (s *PollScheduler) Stop() {
	s.logger.Info("Stopping poll scheduler...")
	s.mu.Lock()
	s.stopped = true
	started := s.started
	s.mu.Unlock()

	s.cancel()
	if started {
		<-s.startDone // the first cycle runs on the caller of Start
	}
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Poll scheduler gracefully stopped.")
}
