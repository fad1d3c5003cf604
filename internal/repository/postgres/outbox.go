package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/care-sync/internal/model"
)

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (
			id, event_type, entity_type, entity_id, owner_ids, payload,
			status, attempts, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)
	`
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.EntityType,
		event.EntityID,
		event.OwnerIDs,
		[]byte(event.Payload),
		event.Status,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) ProcessPending(ctx context.Context, limit, maxAttempts int, handle func(*model.OutboxEvent) error) (int, error) {
	processed := 0
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		events := []*model.OutboxEvent{}
		query := `
			SELECT id, event_type, entity_type, entity_id, owner_ids, payload,
				   status, attempts, error_message, created_at, processed_at
			FROM outbox_events
			WHERE status = $1
			ORDER BY created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		`
		if err := tx.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
			return fmt.Errorf("failed to get pending events: %w", err)
		}

		for _, event := range events {
			if handleErr := handle(event); handleErr != nil {
				if err := markFailed(ctx, tx, event, handleErr, maxAttempts); err != nil {
					return err
				}
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE outbox_events SET status = $1, processed_at = NOW(), error_message = NULL WHERE id = $2`,
				model.OutboxStatusProcessed, event.ID,
			); err != nil {
				return fmt.Errorf("failed to mark event processed: %w", err)
			}
			processed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return processed, nil
}

// markFailed bumps the attempt count and gives up once maxAttempts is hit.
func markFailed(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent, cause error, maxAttempts int) error {
	attempts := event.Attempts + 1
	status := model.OutboxStatusPending
	if attempts >= maxAttempts {
		status = model.OutboxStatusFailed
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE outbox_events SET status = $1, attempts = $2, error_message = $3 WHERE id = $4`,
		status, attempts, cause.Error(), event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return nil
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM outbox_events WHERE status = $1 AND processed_at < $2`,
		model.OutboxStatusProcessed, before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed events: %w", err)
	}
	return result.RowsAffected()
}
