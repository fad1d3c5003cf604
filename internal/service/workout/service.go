package workout

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
	repo   repository.WorkoutRepository
	events event.Emitter
	log    *logger.Logger
}

func NewService(repo repository.WorkoutRepository, events event.Emitter, log *logger.Logger) *Service {
	return &Service{repo: repo, events: events, log: log}
}

func (s *Service) CreateSession(ctx context.Context, req *model.CreateWorkoutRequest) (*model.WorkoutSession, error) {
	session := &model.WorkoutSession{
		UserID:          req.UserID,
		Title:           req.Title,
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Date:            req.Date,
		Completed:       req.Completed,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create workout session: %w", err)
	}

	s.emit(ctx, event.TypeCreated, session)
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*model.WorkoutSession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workout session: %w", err)
	}
	return session, nil
}

func (s *Service) UpdateSession(ctx context.Context, id uuid.UUID, req *model.UpdateWorkoutRequest) (*model.WorkoutSession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workout session: %w", err)
	}

	req.Apply(session)
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update workout session: %w", err)
	}

	s.emit(ctx, event.TypeUpdated, session)
	return session, nil
}

func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get workout session: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workout session: %w", err)
	}

	s.emit(ctx, event.TypeDeleted, session)
	return nil
}

func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID) ([]*model.WorkoutSession, error) {
	sessions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout sessions: %w", err)
	}
	return sessions, nil
}

func (s *Service) emit(ctx context.Context, action string, session *model.WorkoutSession) {
	event.EmitOrLog(ctx, s.events, s.log, messaging.EntityWorkout, action, session.ID,
		[]uuid.UUID{session.UserID}, session)
}
