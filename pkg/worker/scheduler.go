package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/jwalitptl/care-sync/pkg/logger"
)

type SchedulerConfig struct {
	PollInterval time.Duration
	// CleanupAt is the daily HH:MM the cleanup job runs at.
	CleanupAt string
}

// Scheduler runs the outbox publish job every poll interval and the
// cleanup job once a day.
type Scheduler struct {
	cron      *gocron.Scheduler
	processor *OutboxProcessor
	cleanup   *OutboxCleanup
	logger    *logger.Logger
}

func NewScheduler(config SchedulerConfig, processor *OutboxProcessor, cleanup *OutboxCleanup, logger *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      gocron.NewScheduler(time.UTC),
		processor: processor,
		cleanup:   cleanup,
		logger:    logger,
	}
	s.cron.SingletonModeAll()

	if _, err := s.cron.Every(config.PollInterval).Tag("outbox").Do(s.publish); err != nil {
		return nil, fmt.Errorf("failed to schedule outbox job: %w", err)
	}
	if cleanup != nil {
		if _, err := s.cron.Every(1).Day().At(config.CleanupAt).Tag("cleanup").Do(s.purge); err != nil {
			return nil, fmt.Errorf("failed to schedule cleanup job: %w", err)
		}
	}
	return s, nil
}

// Start runs the jobs until ctx is cancelled, then waits for running jobs.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting outbox scheduler", "jobs", len(s.cron.Jobs()))
	s.cron.StartAsync()

	<-ctx.Done()
	s.logger.Info("Shutting down outbox scheduler")
	s.cron.Stop()
}

func (s *Scheduler) publish() {
	if _, err := s.processor.ProcessBatch(context.Background()); err != nil {
		s.logger.Error(err, "Failed to process events")
	}
}

func (s *Scheduler) purge() {
	if _, err := s.cleanup.Run(context.Background()); err != nil {
		s.logger.Error(err, "Failed to cleanup outbox events")
	}
}
