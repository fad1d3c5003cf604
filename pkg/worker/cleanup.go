package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/metrics"
)

// OutboxCleanup purges published events older than the retention window.
type OutboxCleanup struct {
	repo          repository.OutboxRepository
	retentionDays int
	logger        *logger.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewOutboxCleanup(repo repository.OutboxRepository, retentionDays int, logger *logger.Logger, metrics *metrics.Metrics) *OutboxCleanup {
	return &OutboxCleanup{
		repo:          repo,
		retentionDays: retentionDays,
		logger:        logger,
		metrics:       metrics,
		now:           time.Now,
	}
}

func (w *OutboxCleanup) Run(ctx context.Context) (int64, error) {
	cutoff := w.now().AddDate(0, 0, -w.retentionDays)

	rows, err := w.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		w.metrics.DatabaseOperations.WithLabelValues("delete_processed", "error").Inc()
		return 0, fmt.Errorf("failed to cleanup outbox events: %w", err)
	}
	w.metrics.DatabaseOperations.WithLabelValues("delete_processed", "success").Inc()
	w.metrics.OutboxEventsPurged.Add(float64(rows))

	w.logger.Info("Cleaned up outbox events", "count", rows, "before", cutoff.Format(time.RFC3339))
	return rows, nil
}
