package lab

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/internal/service/event"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/messaging"
)

const defaultCatalogTTL = 10 * time.Minute

type Service struct {
	repo        repository.LabRepository
	profileRepo repository.ProfileRepository
	events      event.Emitter
	catalog     *cache.Cache
	log         *logger.Logger
}

// NewService caches catalog listings for catalogTTL; zero uses a default.
func NewService(repo repository.LabRepository, profileRepo repository.ProfileRepository, events event.Emitter, catalogTTL time.Duration, log *logger.Logger) *Service {
	if catalogTTL <= 0 {
		catalogTTL = defaultCatalogTTL
	}
	return &Service{
		repo:        repo,
		profileRepo: profileRepo,
		events:      events,
		catalog:     cache.New(catalogTTL, 2*catalogTTL),
		log:         log,
	}
}

// ListTests returns the catalog, optionally narrowed to one category.
func (s *Service) ListTests(ctx context.Context, category string) ([]*model.LabTest, error) {
	key := "catalog:" + category
	if cached, ok := s.catalog.Get(key); ok {
		return cached.([]*model.LabTest), nil
	}

	tests, err := s.repo.ListTests(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab tests: %w", err)
	}
	s.catalog.SetDefault(key, tests)
	return tests, nil
}

func (s *Service) BookTest(ctx context.Context, req *model.BookLabTestRequest) (*model.BookedLabTest, error) {
	if _, err := time.Parse(model.DateLayout, req.ScheduledDate); err != nil {
		return nil, errors.BadRequest("scheduled_date must be YYYY-MM-DD", err)
	}
	if _, err := s.repo.GetTest(ctx, req.LabTestID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.BadRequest(fmt.Sprintf("lab test %s not found", req.LabTestID), nil)
		}
		return nil, fmt.Errorf("failed to get lab test: %w", err)
	}

	booking := &model.BookedLabTest{
		LabTestID:     req.LabTestID,
		PatientID:     req.PatientID,
		ScheduledDate: req.ScheduledDate,
		Status:        model.BookingPending,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to book lab test: %w", err)
	}

	created, err := s.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lab booking: %w", err)
	}

	s.emit(ctx, event.TypeCreated, created)
	return created, nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*model.BookedLabTest, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lab booking: %w", err)
	}
	return booking, nil
}

func (s *Service) ListBookings(ctx context.Context, patientID uuid.UUID) ([]*model.BookedLabTest, error) {
	bookings, err := s.repo.ListBookings(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab bookings: %w", err)
	}
	return bookings, nil
}

func (s *Service) CancelBooking(ctx context.Context, id uuid.UUID) (*model.BookedLabTest, error) {
	return s.transition(ctx, id, model.BookingCancelled, nil)
}

func (s *Service) CompleteBooking(ctx context.Context, id uuid.UUID, reportURL string) (*model.BookedLabTest, error) {
	return s.transition(ctx, id, model.BookingCompleted, &reportURL)
}

// transition moves a pending booking to a terminal status.
func (s *Service) transition(ctx context.Context, id uuid.UUID, next model.BookingStatus, reportURL *string) (*model.BookedLabTest, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lab booking: %w", err)
	}
	if booking.Status != model.BookingPending {
		return nil, errors.Conflict(fmt.Sprintf("lab booking is already %s", booking.Status))
	}

	booking.Status = next
	if reportURL != nil {
		booking.ReportURL = reportURL
	}
	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update lab booking: %w", err)
	}

	s.emit(ctx, event.TypeUpdated, booking)
	return booking, nil
}

func (s *Service) emit(ctx context.Context, action string, booking *model.BookedLabTest) {
	event.EmitOrLog(ctx, s.events, s.log, messaging.EntityLabBooking, action, booking.ID,
		[]uuid.UUID{booking.PatientID}, booking)
}
