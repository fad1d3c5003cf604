package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/internal/service/event"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/messaging"
)

type Service struct {
	repo   repository.JournalRepository
	events event.Emitter
	log    *logger.Logger
}

func NewService(repo repository.JournalRepository, events event.Emitter, log *logger.Logger) *Service {
	return &Service{repo: repo, events: events, log: log}
}

func (s *Service) CreateEntry(ctx context.Context, req *model.CreateJournalEntryRequest) (*model.JournalEntry, error) {
	date, err := parseEntryDate(req.Date)
	if err != nil {
		return nil, err
	}

	entry := &model.JournalEntry{
		PatientID: req.PatientID,
		Title:     req.Title,
		Content:   req.Content,
		Mood:      req.Mood,
		Date:      date,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	s.emit(ctx, event.TypeCreated, entry)
	return entry, nil
}

func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*model.JournalEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return entry, nil
}

func (s *Service) ListEntries(ctx context.Context, patientID uuid.UUID) ([]*model.JournalEntry, error) {
	entries, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, nil
}

// FlagEntry marks an entry for clinician attention and returns it.
func (s *Service) FlagEntry(ctx context.Context, id uuid.UUID, flagged bool) (*model.JournalEntry, error) {
	if err := s.repo.SetFlagged(ctx, id, flagged); err != nil {
		return nil, fmt.Errorf("failed to flag journal entry: %w", err)
	}

	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	s.emit(ctx, event.TypeUpdated, entry)
	return entry, nil
}

// parseEntryDate accepts RFC 3339 or a bare date; empty means now.
func parseEntryDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return time.Time{}, errors.BadRequest("date must be RFC 3339 or YYYY-MM-DD", err)
	}
	return t, nil
}

func (s *Service) emit(ctx context.Context, action string, entry *model.JournalEntry) {
	// The payload omits content; the change feed only signals a refetch.
	event.EmitOrLog(ctx, s.events, s.log, messaging.EntityJournalEntry, action, entry.ID,
		[]uuid.UUID{entry.PatientID}, map[string]interface{}{"id": entry.ID, "flagged": entry.Flagged})
}
