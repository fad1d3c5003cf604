package fitness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/internal/service/event"
	"github.com/jwalitptl/care-sync/pkg/errors"
	fit "github.com/jwalitptl/care-sync/pkg/fitness"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/messaging"
)

type Service struct {
	repo        repository.FitnessRepository
	profileRepo repository.ProfileRepository
	events      event.Emitter
	log         *logger.Logger
	now         func() time.Time
}

func NewService(repo repository.FitnessRepository, profileRepo repository.ProfileRepository, events event.Emitter, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		profileRepo: profileRepo,
		events:      events,
		log:         log,
		now:         time.Now,
	}
}

// GetState returns the stored state, or a fresh one seeded from the
// profile's goal limits when the user has none yet.
func (s *Service) GetState(ctx context.Context, userID uuid.UUID) (fit.State, error) {
	state, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return fit.State{}, fmt.Errorf("failed to get fitness state: %w", err)
	}
	if ok {
		return state, nil
	}
	return s.initialState(ctx, userID)
}

// UpdateState merges a partial update into the stored state. Goal counters
// are clamped to their targets and today's activity entry follows them.
func (s *Service) UpdateState(ctx context.Context, userID uuid.UUID, updates fit.Updates) (fit.State, error) {
	state, err := s.GetState(ctx, userID)
	if err != nil {
		return fit.State{}, err
	}

	state.Merge(updates)
	state.Settle(s.now())

	if err := s.repo.Save(ctx, userID, state); err != nil {
		return fit.State{}, fmt.Errorf("failed to save fitness state: %w", err)
	}

	event.EmitOrLog(ctx, s.events, s.log, messaging.EntityFitness, event.TypeUpdated, userID,
		[]uuid.UUID{userID}, state)
	return state, nil
}

func (s *Service) initialState(ctx context.Context, userID uuid.UUID) (fit.State, error) {
	var limit fit.Limit
	profile, err := s.profileRepo.Get(ctx, userID)
	switch {
	case err == nil:
		limit = profile.FitnessLimit()
	case errors.Is(err, errors.ErrNotFound):
	default:
		return fit.State{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return fit.NewState(limit, s.now()), nil
}
