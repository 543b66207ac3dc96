package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PosterRefresher re-resolves placeholder posters
type PosterRefresher interface {
	RefreshPlaceholders(ctx context.Context) (int, error)
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	posters  PosterRefresher
	schedule string
	logger   *logrus.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a new scheduler. An empty schedule disables the
// poster refresh job.
func NewScheduler(posters PosterRefresher, schedule string, logger *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(),
		posters:  posters,
		schedule: schedule,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("Poster refresh disabled, scheduler not started")
		return nil
	}

	s.logger.WithField("schedule", s.schedule).Info("Starting scheduler")

	if _, err := s.cron.AddFunc(s.schedule, s.runPosterRefresh); err != nil {
		return fmt.Errorf("failed to add poster refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to return
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
}

// runPosterRefresh executes the poster refresh job. Overlapping runs are
// skipped.
func (s *Scheduler) runPosterRefresh() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Poster refresh still running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.logger.Info("Running scheduled poster refresh")
	refreshed, err := s.posters.RefreshPlaceholders(s.ctx)
	if err != nil {
		s.logger.WithError(err).Error("Poster refresh job failed")
		return
	}
	s.logger.WithField("refreshed", refreshed).Info("Poster refresh job completed")
}
