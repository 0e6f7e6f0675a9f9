package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budget-planner/internal/logging"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps cron-based background jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
	// jobs receive ctx; Stop cancels it
	ctx    context.Context
	cancel context.CancelFunc
}

func New(loc *time.Location, log *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Every registers job on a standard cron spec ("0 3 * * *", "@every 1h").
// A job error is logged; the schedule keeps running.
func (s *Scheduler) Every(spec, name string, job func(ctx context.Context) error) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := job(s.ctx); err != nil {
			s.log.Error("scheduled job failed", "job", name, logging.Err(err))
			return
		}
		s.log.Debug("scheduled job done", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return 0, fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	return id, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the job context and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Run starts the scheduler and stops it when ctx is cancelled.
// Jobs already running see ctx's cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, s.cancel)
	defer stop()
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}
