package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/pkg/logger"
)

// Event types written to the outbox.
const (
	TypeCreated = "created"
	TypeUpdated = "updated"
	TypeDeleted = "deleted"
)

// Emitter records entity changes for the worker to publish.
type Emitter interface {
	Emit(ctx context.Context, entity string, action string, entityID uuid.UUID, ownerIDs []uuid.UUID, payload interface{}) error
}

type EventService struct {
	outboxRepo repository.OutboxRepository
	log        *logger.Logger
}

func NewEventService(outboxRepo repository.OutboxRepository, log *logger.Logger) *EventService {
	return &EventService{
		outboxRepo: outboxRepo,
		log:        log,
	}
}

// Emit writes an outbox row named "<entity>.<action>".
func (s *EventService) Emit(ctx context.Context, entity string, action string, entityID uuid.UUID, ownerIDs []uuid.UUID, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	owners := make([]string, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		owners = append(owners, id.String())
	}

	event := &model.OutboxEvent{
		EventType:  entity + "." + action,
		EntityType: entity,
		EntityID:   entityID,
		OwnerIDs:   owners,
		Payload:    payloadJSON,
	}

	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}

	s.log.Debug("outbox event recorded", "event_id", event.ID.String(), "event_type", event.EventType)
	return nil
}

// EmitOrLog records the change and only logs a failure; the entity write
// has already been committed.
func EmitOrLog(ctx context.Context, e Emitter, log *logger.Logger, entity, action string, entityID uuid.UUID, ownerIDs []uuid.UUID, payload interface{}) {
	if e == nil {
		return
	}
	if err := e.Emit(ctx, entity, action, entityID, ownerIDs, payload); err != nil {
		log.Error(err, "failed to record change event", "entity", entity, "entity_id", entityID.String())
	}
}
