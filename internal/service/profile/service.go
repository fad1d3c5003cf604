package profile

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
	repo   repository.ProfileRepository
	events event.Emitter
	log    *logger.Logger
}

func NewService(repo repository.ProfileRepository, events event.Emitter, log *logger.Logger) *Service {
	return &Service{repo: repo, events: events, log: log}
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	profile, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	req.Apply(profile)
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	event.EmitOrLog(ctx, s.events, s.log, messaging.EntityProfile, event.TypeUpdated, profile.ID,
		[]uuid.UUID{profile.ID}, map[string]interface{}{"id": profile.ID})
	return profile, nil
}
