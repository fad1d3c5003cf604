package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/email"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/internal/service/event"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/messaging"
)

type Service struct {
	repo        repository.AppointmentRepository
	profileRepo repository.ProfileRepository
	events      event.Emitter
	mailer      email.Service
	log         *logger.Logger
}

func NewService(repo repository.AppointmentRepository, profileRepo repository.ProfileRepository, events event.Emitter, mailer email.Service, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		profileRepo: profileRepo,
		events:      events,
		mailer:      mailer,
		log:         log,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.PatientID == req.DoctorID {
		return nil, errors.BadRequest("patient and doctor must differ", nil)
	}
	if _, err := s.party(ctx, req.PatientID, model.RolePatient); err != nil {
		return nil, err
	}
	if _, err := s.party(ctx, req.DoctorID, model.RoleDoctor); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		Patient: model.PartyRef{ID: req.PatientID},
		Doctor:  model.PartyRef{ID: req.DoctorID},
		Date:    req.Date,
		Time:    req.Time,
		Status:  model.AppointmentStatusUpcoming,
		Type:    req.Type,
		Mode:    req.Mode,
		Notes:   req.Notes,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	// Re-read to fill the joined patient and doctor references.
	created, err := s.repo.Get(ctx, apt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	s.emit(ctx, event.TypeCreated, created)
	s.notify(ctx, created, "Appointment booked")
	return created, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

// UpdateAppointment patches status, notes, report and data sharing. Status
// changes must follow AppointmentStatus.CanTransition.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	cancelled := false
	if req.Status != nil {
		if !apt.Status.CanTransition(*req.Status) {
			return nil, errors.Conflict(fmt.Sprintf("cannot change appointment status from %s to %s", apt.Status, *req.Status))
		}
		cancelled = apt.Status != *req.Status && *req.Status == model.AppointmentStatusCancelled
		apt.Status = *req.Status
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}
	if req.Report != nil {
		apt.Report = *req.Report
	}
	if req.DataShared != nil {
		apt.DataShared = *req.DataShared
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.emit(ctx, event.TypeUpdated, apt)
	if cancelled {
		s.notify(ctx, apt, "Appointment cancelled")
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// party loads a profile and checks its role; unknown ids are a bad request.
func (s *Service) party(ctx context.Context, id uuid.UUID, role string) (*model.Profile, error) {
	profile, err := s.profileRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.BadRequest(fmt.Sprintf("%s %s not found", role, id), nil)
		}
		return nil, fmt.Errorf("failed to get %s: %w", role, err)
	}
	if profile.Role != role {
		return nil, errors.BadRequest(fmt.Sprintf("profile %s is not a %s", id, role), nil)
	}
	return profile, nil
}

func (s *Service) emit(ctx context.Context, action string, apt *model.Appointment) {
	event.EmitOrLog(ctx, s.events, s.log, messaging.EntityAppointment, action, apt.ID,
		[]uuid.UUID{apt.Patient.ID, apt.Doctor.ID}, apt)
}

// notify mails both parties. Delivery failures never fail the request.
func (s *Service) notify(ctx context.Context, apt *model.Appointment, subject string) {
	body := fmt.Sprintf("%s: %s appointment on %s at %s (%s).\nPatient: %s\nDoctor: %s\n",
		subject, apt.Type, apt.Date, apt.Time, apt.Mode, apt.Patient.Name, apt.Doctor.Name)

	for _, party := range []model.PartyRef{apt.Patient, apt.Doctor} {
		if party.Email == "" {
			continue
		}
		if err := s.mailer.SendCustom(ctx, party.Email, subject, body); err != nil {
			s.log.Error(err, "failed to send appointment notification",
				"appointment_id", apt.ID.String(), "to", party.Email)
		}
	}
}
