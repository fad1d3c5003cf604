package event

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository/mock"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/messaging"
)

func TestEmitWritesOutboxRow(t *testing.T) {
	var stored *model.OutboxEvent
	repo := &mock.OutboxRepository{
		CreateFn: func(_ context.Context, e *model.OutboxEvent) error {
			stored = e
			return nil
		},
	}
	id, owner := uuid.New(), uuid.New()

	err := NewEventService(repo, logger.Nop()).Emit(context.Background(),
		messaging.EntityWorkout, TypeDeleted, id, []uuid.UUID{owner}, map[string]string{"title": "Run"})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "workout_session.deleted", stored.EventType)
	assert.Equal(t, messaging.EntityWorkout, stored.EntityType)
	assert.Equal(t, id, stored.EntityID)
	assert.Equal(t, []string{owner.String()}, []string(stored.OwnerIDs))
	assert.JSONEq(t, `{"title":"Run"}`, string(stored.Payload))
}

func TestEmitRejectsUnencodablePayload(t *testing.T) {
	err := NewEventService(&mock.OutboxRepository{}, logger.Nop()).Emit(context.Background(),
		messaging.EntityProfile, TypeUpdated, uuid.New(), nil, make(chan int))
	assert.Error(t, err)
}

type failingEmitter struct{ calls int }

func (f *failingEmitter) Emit(context.Context, string, string, uuid.UUID, []uuid.UUID, interface{}) error {
	f.calls++
	return stderrors.New("outbox unavailable")
}

func TestEmitOrLog(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitOrLog(context.Background(), nil, logger.Nop(), messaging.EntityProfile, TypeUpdated, uuid.New(), nil, nil)
	})

	e := &failingEmitter{}
	EmitOrLog(context.Background(), e, logger.Nop(), messaging.EntityProfile, TypeUpdated, uuid.New(), nil, nil)
	assert.Equal(t, 1, e.calls)
}
