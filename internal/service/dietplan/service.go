package dietplan

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
	"github.com/jwalitptl/care-sync/pkg/validator"
)

type Service struct {
	repo      repository.DietPlanRepository
	events    event.Emitter
	validator validator.Validator
	log       *logger.Logger
	now       func() time.Time
}

func NewService(repo repository.DietPlanRepository, events event.Emitter, v validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		events:    events,
		validator: v,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) CreatePlan(ctx context.Context, req *model.CreateDietPlanRequest) (*model.DietPlan, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, errors.BadRequest(err.Error(), nil)
	}
	if err := checkDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	plan := &model.DietPlan{
		DailyCalories:  req.DailyCalories,
		Protein:        req.Protein,
		Carbs:          req.Carbs,
		Fat:            req.Fat,
		Deficiency:     req.Deficiency,
		Notes:          req.Notes,
		Exercise:       req.Exercise,
		CaloriesBurned: req.CaloriesBurned,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		PatientID:      req.PatientID,
		NutritionistID: req.NutritionistID,
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create diet plan: %w", err)
	}

	created, err := s.repo.Get(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load diet plan: %w", err)
	}

	s.emit(ctx, event.TypeCreated, created)
	return created, nil
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*model.DietPlan, error) {
	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get diet plan: %w", err)
	}
	return plan, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id uuid.UUID, req *model.UpdateDietPlanRequest) (*model.DietPlan, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, errors.BadRequest(err.Error(), nil)
	}

	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get diet plan: %w", err)
	}

	req.Apply(plan)
	if err := checkDates(plan.StartDate, plan.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update diet plan: %w", err)
	}

	s.emit(ctx, event.TypeUpdated, plan)
	return plan, nil
}

func (s *Service) ListAssigned(ctx context.Context, nutritionistID uuid.UUID) ([]*model.DietPlan, error) {
	plans, err := s.repo.ListByNutritionist(ctx, nutritionistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned diet plans: %w", err)
	}
	return plans, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DietPlan, error) {
	plans, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient diet plans: %w", err)
	}
	return plans, nil
}

func checkDates(start, end string) error {
	s, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return errors.BadRequest("start_date must be YYYY-MM-DD", err)
	}
	e, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return errors.BadRequest("end_date must be YYYY-MM-DD", err)
	}
	if e.Before(s) {
		return errors.BadRequest("end_date must not be before start_date", nil)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, action string, plan *model.DietPlan) {
	event.EmitOrLog(ctx, s.events, s.log, messaging.EntityDietPlan, action, plan.ID,
		[]uuid.UUID{plan.PatientID, plan.NutritionistID}, plan)
}
