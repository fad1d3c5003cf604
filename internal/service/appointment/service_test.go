package appointment

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository/mock"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
)

type emitted struct {
	entity, action string
	id             uuid.UUID
	owners         []uuid.UUID
}

type fakeEmitter struct {
	events []emitted
	err    error
}

func (f *fakeEmitter) Emit(_ context.Context, entity, action string, id uuid.UUID, owners []uuid.UUID, _ interface{}) error {
	f.events = append(f.events, emitted{entity, action, id, owners})
	return f.err
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendCustom(_ context.Context, to, subject, _ string) error {
	f.sent = append(f.sent, to+"|"+subject)
	return f.err
}

type fixture struct {
	svc      *Service
	repo     *mock.AppointmentRepository
	profiles *mock.ProfileRepository
	events   *fakeEmitter
	mailer   *fakeMailer
	patient  *model.Profile
	doctor   *model.Profile
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &mock.AppointmentRepository{},
		profiles: &mock.ProfileRepository{},
		events:   &fakeEmitter{},
		mailer:   &fakeMailer{},
		patient:  &model.Profile{ID: uuid.New(), Role: model.RolePatient, Name: "Pat", Email: "pat@example.com"},
		doctor:   &model.Profile{ID: uuid.New(), Role: model.RoleDoctor, Name: "Doc", Email: "doc@example.com"},
	}
	f.profiles.GetFn = func(_ context.Context, id uuid.UUID) (*model.Profile, error) {
		switch id {
		case f.patient.ID:
			return f.patient, nil
		case f.doctor.ID:
			return f.doctor, nil
		}
		return nil, errors.NotFound("profile", nil)
	}
	f.svc = NewService(f.repo, f.profiles, f.events, f.mailer, logger.Nop())
	return f
}

func (f *fixture) stored(status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ID:      uuid.New(),
		Patient: model.PartyRef{ID: f.patient.ID, Name: f.patient.Name, Email: f.patient.Email},
		Doctor:  model.PartyRef{ID: f.doctor.ID, Name: f.doctor.Name, Email: f.doctor.Email},
		Date:    "2026-11-02",
		Time:    "10:00",
		Status:  status,
		Type:    model.AppointmentTypeConsultation,
		Mode:    model.AppointmentModeOnline,
	}
}

func TestCreateAppointment(t *testing.T) {
	f := newFixture()
	var inserted *model.Appointment
	f.repo.CreateFn = func(_ context.Context, a *model.Appointment) error {
		a.ID = uuid.New()
		inserted = a
		return nil
	}
	f.repo.GetFn = func(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
		a := *inserted
		a.Patient = model.PartyRef{ID: f.patient.ID, Name: f.patient.Name, Email: f.patient.Email}
		a.Doctor = model.PartyRef{ID: f.doctor.ID, Name: f.doctor.Name, Email: f.doctor.Email}
		return &a, nil
	}

	apt, err := f.svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		Date:      "2026-11-02",
		Time:      "10:00",
		Type:      model.AppointmentTypeConsultation,
		Mode:      model.AppointmentModeOnline,
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusUpcoming, apt.Status)
	assert.Equal(t, "Doc", apt.Doctor.Name)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, "appointment", f.events.events[0].entity)
	assert.Equal(t, "created", f.events.events[0].action)
	assert.ElementsMatch(t, []uuid.UUID{f.patient.ID, f.doctor.ID}, f.events.events[0].owners)
	assert.Len(t, f.mailer.sent, 2)
}

func TestCreateAppointmentRejectsWrongRole(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.doctor.ID,
		DoctorID:  f.patient.ID,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestCreateAppointmentUnknownDoctor(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		DoctorID:  uuid.New(),
	})
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestUpdateAppointmentTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    model.AppointmentStatus
		to      model.AppointmentStatus
		wantErr bool
		mails   int
	}{
		{"complete upcoming", model.AppointmentStatusUpcoming, model.AppointmentStatusCompleted, false, 0},
		{"cancel upcoming", model.AppointmentStatusUpcoming, model.AppointmentStatusCancelled, false, 2},
		{"reopen cancelled", model.AppointmentStatusCancelled, model.AppointmentStatusUpcoming, true, 0},
		{"cancel completed", model.AppointmentStatusCompleted, model.AppointmentStatusCancelled, true, 0},
		{"same status", model.AppointmentStatusCompleted, model.AppointmentStatusCompleted, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			current := f.stored(tt.from)
			f.repo.GetFn = func(context.Context, uuid.UUID) (*model.Appointment, error) { return current, nil }

			status := tt.to
			apt, err := f.svc.UpdateAppointment(context.Background(), current.ID, &model.UpdateAppointmentRequest{Status: &status})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrConflict))
				assert.Empty(t, f.events.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, apt.Status)
			assert.Len(t, f.mailer.sent, tt.mails)
			require.Len(t, f.events.events, 1)
			assert.Equal(t, "updated", f.events.events[0].action)
		})
	}
}

func TestUpdateAppointmentFields(t *testing.T) {
	f := newFixture()
	current := f.stored(model.AppointmentStatusUpcoming)
	f.repo.GetFn = func(context.Context, uuid.UUID) (*model.Appointment, error) { return current, nil }
	var saved *model.Appointment
	f.repo.UpdateFn = func(_ context.Context, a *model.Appointment) error {
		saved = a
		return nil
	}

	notes, shared := "bring reports", true
	apt, err := f.svc.UpdateAppointment(context.Background(), current.ID, &model.UpdateAppointmentRequest{
		Notes:      &notes,
		DataShared: &shared,
	})
	require.NoError(t, err)
	assert.Equal(t, "bring reports", apt.Notes)
	assert.True(t, apt.DataShared)
	assert.Same(t, apt, saved)
}

func TestSideEffectFailuresDoNotFailUpdate(t *testing.T) {
	f := newFixture()
	f.events.err = stderrors.New("outbox down")
	f.mailer.err = stderrors.New("smtp down")
	current := f.stored(model.AppointmentStatusUpcoming)
	f.repo.GetFn = func(context.Context, uuid.UUID) (*model.Appointment, error) { return current, nil }

	status := model.AppointmentStatusCancelled
	_, err := f.svc.UpdateAppointment(context.Background(), current.ID, &model.UpdateAppointmentRequest{Status: &status})
	assert.NoError(t, err)
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	f := newFixture()
	f.repo.GetFn = func(context.Context, uuid.UUID) (*model.Appointment, error) {
		return nil, errors.NotFound("appointment", nil)
	}

	_, err := f.svc.UpdateAppointment(context.Background(), uuid.New(), &model.UpdateAppointmentRequest{})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
