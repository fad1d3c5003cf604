package medical

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository/mock"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
)

func TestUpdateRecordAppliesPatch(t *testing.T) {
	kind := "lab"
	stored := &model.MedicalRecord{ID: uuid.New(), Title: "Blood work", Type: &kind, Date: "2026-09-01"}
	repo := &mock.MedicalRecordRepository{
		GetFn: func(context.Context, uuid.UUID) (*model.MedicalRecord, error) { return stored, nil },
	}

	title := "Blood work (repeat)"
	record, err := NewService(repo, nil, logger.Nop()).UpdateRecord(context.Background(), stored.ID,
		&model.UpdateMedicalRecordRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Blood work (repeat)", record.Title)
	assert.Equal(t, "lab", *record.Type)
	assert.Equal(t, "2026-09-01", record.Date)
}

func TestDeleteRecord(t *testing.T) {
	id := uuid.New()
	deleted := false
	repo := &mock.MedicalRecordRepository{
		GetFn: func(context.Context, uuid.UUID) (*model.MedicalRecord, error) {
			return &model.MedicalRecord{ID: id, PatientID: uuid.New()}, nil
		},
		DeleteFn: func(_ context.Context, got uuid.UUID) error {
			deleted = got == id
			return nil
		},
	}

	require.NoError(t, NewService(repo, nil, logger.Nop()).DeleteRecord(context.Background(), id))
	assert.True(t, deleted)
}

func TestDeleteMissingRecord(t *testing.T) {
	repo := &mock.MedicalRecordRepository{
		GetFn: func(context.Context, uuid.UUID) (*model.MedicalRecord, error) {
			return nil, errors.NotFound("medical record", nil)
		},
		DeleteFn: func(context.Context, uuid.UUID) error {
			t.Fatal("delete must not run")
			return nil
		},
	}

	err := NewService(repo, nil, logger.Nop()).DeleteRecord(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
