package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// DefaultJobTimeout bounds one refresh round.
const DefaultJobTimeout = 30 * time.Second

// Refresher re-fetches whatever it displays. view.Orchestrator implements it.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Scheduler periodically refreshes a set of views.
type Scheduler struct {
	scheduler *gocron.Scheduler
	targets   []Refresher
	interval  time.Duration
	timeout   time.Duration
	log       *zap.SugaredLogger
}

// New creates a Scheduler. It does nothing until Start.
func New(targets []Refresher, interval time.Duration, log *zap.SugaredLogger) *Scheduler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		targets:   targets,
		interval:  interval,
		timeout:   DefaultJobTimeout,
		log:       log,
	}
}

// Start schedules the refresh job and starts the underlying scheduler. The
// first round runs one interval after Start.
func (s *Scheduler) Start() error {
	if len(s.targets) == 0 {
		s.log.Infow("scheduler: nothing to refresh")
		return nil
	}
	if s.interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}

	_, err := s.scheduler.
		Every(s.interval).
		WaitForSchedule().
		SingletonMode().
		Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Infow("scheduler started", "interval", s.interval.String(), "targets", len(s.targets))
	return nil
}

// RunOnce refreshes every target in parallel and waits for all of them.
func (s *Scheduler) RunOnce() {
	s.log.Debugw("scheduler: refreshing", "targets", len(s.targets))

	var wg sync.WaitGroup
	for _, t := range s.targets {
		t := t
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()
			t.Refresh(ctx)
		}()
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future rounds.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
