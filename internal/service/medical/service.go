package medical

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/internal/service/event"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/messaging"
)

type Service struct {
	repo   repository.MedicalRecordRepository
	events event.Emitter
	log    *logger.Logger
}

func NewService(repo repository.MedicalRecordRepository, events event.Emitter, log *logger.Logger) *Service {
	return &Service{repo: repo, events: events, log: log}
}

func (s *Service) CreateRecord(ctx context.Context, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	record := &model.MedicalRecord{
		PatientID: req.PatientID,
		Title:     req.Title,
		Type:      req.Type,
		Date:      req.Date,
		FileURL:   req.FileURL,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create medical record: %w", err)
	}

	s.emit(ctx, event.TypeCreated, record)
	return record, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return record, nil
}

func (s *Service) UpdateRecord(ctx context.Context, id uuid.UUID, req *model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}

	req.Apply(record)
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update medical record: %w", err)
	}

	s.emit(ctx, event.TypeUpdated, record)
	return record, nil
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get medical record: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete medical record: %w", err)
	}

	s.emit(ctx, event.TypeDeleted, record)
	return nil
}

func (s *Service) ListRecords(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	records, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (s *Service) emit(ctx context.Context, action string, record *model.MedicalRecord) {
	event.EmitOrLog(ctx, s.events, s.log, messaging.EntityMedicalRecord, action, record.ID,
		[]uuid.UUID{record.PatientID}, record)
}
