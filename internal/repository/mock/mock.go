// Package mock provides func-field fakes of the repository interfaces for
// service and handler tests. An unset func returns zero values.
package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/pkg/fitness"
)

var (
	_ repository.AppointmentRepository   = (*AppointmentRepository)(nil)
	_ repository.DietPlanRepository      = (*DietPlanRepository)(nil)
	_ repository.FitnessRepository       = (*FitnessRepository)(nil)
	_ repository.LabRepository           = (*LabRepository)(nil)
	_ repository.JournalRepository       = (*JournalRepository)(nil)
	_ repository.MedicalRecordRepository = (*MedicalRecordRepository)(nil)
	_ repository.WorkoutRepository       = (*WorkoutRepository)(nil)
	_ repository.ProfileRepository       = (*ProfileRepository)(nil)
	_ repository.UserRepository          = (*UserRepository)(nil)
	_ repository.OutboxRepository        = (*OutboxRepository)(nil)
)

type AppointmentRepository struct {
	CreateFn func(ctx context.Context, a *model.Appointment) error
	GetFn    func(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateFn func(ctx context.Context, a *model.Appointment) error
	ListFn   func(ctx context.Context, f *model.AppointmentFilters) ([]*model.Appointment, error)
}

func (m *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, a)
}

func (m *AppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if m.GetFn == nil {
		return nil, nil
	}
	return m.GetFn(ctx, id)
}

func (m *AppointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, a)
}

func (m *AppointmentRepository) List(ctx context.Context, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	if m.ListFn == nil {
		return nil, nil
	}
	return m.ListFn(ctx, f)
}

type DietPlanRepository struct {
	CreateFn             func(ctx context.Context, p *model.DietPlan) error
	GetFn                func(ctx context.Context, id uuid.UUID) (*model.DietPlan, error)
	UpdateFn             func(ctx context.Context, p *model.DietPlan) error
	ListByNutritionistFn func(ctx context.Context, id uuid.UUID) ([]*model.DietPlan, error)
	ListByPatientFn      func(ctx context.Context, id uuid.UUID) ([]*model.DietPlan, error)
}

func (m *DietPlanRepository) Create(ctx context.Context, p *model.DietPlan) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, p)
}

func (m *DietPlanRepository) Get(ctx context.Context, id uuid.UUID) (*model.DietPlan, error) {
	if m.GetFn == nil {
		return nil, nil
	}
	return m.GetFn(ctx, id)
}

func (m *DietPlanRepository) Update(ctx context.Context, p *model.DietPlan) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, p)
}

func (m *DietPlanRepository) ListByNutritionist(ctx context.Context, id uuid.UUID) ([]*model.DietPlan, error) {
	if m.ListByNutritionistFn == nil {
		return nil, nil
	}
	return m.ListByNutritionistFn(ctx, id)
}

func (m *DietPlanRepository) ListByPatient(ctx context.Context, id uuid.UUID) ([]*model.DietPlan, error) {
	if m.ListByPatientFn == nil {
		return nil, nil
	}
	return m.ListByPatientFn(ctx, id)
}

type FitnessRepository struct {
	GetFn  func(ctx context.Context, userID uuid.UUID) (fitness.State, bool, error)
	SaveFn func(ctx context.Context, userID uuid.UUID, s fitness.State) error
}

func (m *FitnessRepository) Get(ctx context.Context, userID uuid.UUID) (fitness.State, bool, error) {
	if m.GetFn == nil {
		return fitness.State{}, false, nil
	}
	return m.GetFn(ctx, userID)
}

func (m *FitnessRepository) Save(ctx context.Context, userID uuid.UUID, s fitness.State) error {
	if m.SaveFn == nil {
		return nil
	}
	return m.SaveFn(ctx, userID, s)
}

type LabRepository struct {
	ListTestsFn     func(ctx context.Context, category string) ([]*model.LabTest, error)
	GetTestFn       func(ctx context.Context, id uuid.UUID) (*model.LabTest, error)
	CreateBookingFn func(ctx context.Context, b *model.BookedLabTest) error
	GetBookingFn    func(ctx context.Context, id uuid.UUID) (*model.BookedLabTest, error)
	UpdateBookingFn func(ctx context.Context, b *model.BookedLabTest) error
	ListBookingsFn  func(ctx context.Context, patientID uuid.UUID) ([]*model.BookedLabTest, error)
}

func (m *LabRepository) ListTests(ctx context.Context, category string) ([]*model.LabTest, error) {
	if m.ListTestsFn == nil {
		return nil, nil
	}
	return m.ListTestsFn(ctx, category)
}

func (m *LabRepository) GetTest(ctx context.Context, id uuid.UUID) (*model.LabTest, error) {
	if m.GetTestFn == nil {
		return nil, nil
	}
	return m.GetTestFn(ctx, id)
}

func (m *LabRepository) CreateBooking(ctx context.Context, b *model.BookedLabTest) error {
	if m.CreateBookingFn == nil {
		return nil
	}
	return m.CreateBookingFn(ctx, b)
}

func (m *LabRepository) GetBooking(ctx context.Context, id uuid.UUID) (*model.BookedLabTest, error) {
	if m.GetBookingFn == nil {
		return nil, nil
	}
	return m.GetBookingFn(ctx, id)
}

func (m *LabRepository) UpdateBooking(ctx context.Context, b *model.BookedLabTest) error {
	if m.UpdateBookingFn == nil {
		return nil
	}
	return m.UpdateBookingFn(ctx, b)
}

func (m *LabRepository) ListBookings(ctx context.Context, patientID uuid.UUID) ([]*model.BookedLabTest, error) {
	if m.ListBookingsFn == nil {
		return nil, nil
	}
	return m.ListBookingsFn(ctx, patientID)
}

type JournalRepository struct {
	CreateFn        func(ctx context.Context, e *model.JournalEntry) error
	GetFn           func(ctx context.Context, id uuid.UUID) (*model.JournalEntry, error)
	SetFlaggedFn    func(ctx context.Context, id uuid.UUID, flagged bool) error
	ListByPatientFn func(ctx context.Context, patientID uuid.UUID) ([]*model.JournalEntry, error)
}

func (m *JournalRepository) Create(ctx context.Context, e *model.JournalEntry) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, e)
}

func (m *JournalRepository) Get(ctx context.Context, id uuid.UUID) (*model.JournalEntry, error) {
	if m.GetFn == nil {
		return nil, nil
	}
	return m.GetFn(ctx, id)
}

func (m *JournalRepository) SetFlagged(ctx context.Context, id uuid.UUID, flagged bool) error {
	if m.SetFlaggedFn == nil {
		return nil
	}
	return m.SetFlaggedFn(ctx, id, flagged)
}

func (m *JournalRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.JournalEntry, error) {
	if m.ListByPatientFn == nil {
		return nil, nil
	}
	return m.ListByPatientFn(ctx, patientID)
}

type MedicalRecordRepository struct {
	CreateFn        func(ctx context.Context, r *model.MedicalRecord) error
	GetFn           func(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
	UpdateFn        func(ctx context.Context, r *model.MedicalRecord) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
	ListByPatientFn func(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
}

func (m *MedicalRecordRepository) Create(ctx context.Context, r *model.MedicalRecord) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, r)
}

func (m *MedicalRecordRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	if m.GetFn == nil {
		return nil, nil
	}
	return m.GetFn(ctx, id)
}

func (m *MedicalRecordRepository) Update(ctx context.Context, r *model.MedicalRecord) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, r)
}

func (m *MedicalRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, id)
}

func (m *MedicalRecordRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	if m.ListByPatientFn == nil {
		return nil, nil
	}
	return m.ListByPatientFn(ctx, patientID)
}

type WorkoutRepository struct {
	CreateFn     func(ctx context.Context, w *model.WorkoutSession) error
	GetFn        func(ctx context.Context, id uuid.UUID) (*model.WorkoutSession, error)
	UpdateFn     func(ctx context.Context, w *model.WorkoutSession) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*model.WorkoutSession, error)
}

func (m *WorkoutRepository) Create(ctx context.Context, w *model.WorkoutSession) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, w)
}

func (m *WorkoutRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkoutSession, error) {
	if m.GetFn == nil {
		return nil, nil
	}
	return m.GetFn(ctx, id)
}

func (m *WorkoutRepository) Update(ctx context.Context, w *model.WorkoutSession) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, w)
}

func (m *WorkoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, id)
}

func (m *WorkoutRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.WorkoutSession, error) {
	if m.ListByUserFn == nil {
		return nil, nil
	}
	return m.ListByUserFn(ctx, userID)
}

type ProfileRepository struct {
	CreateFn func(ctx context.Context, p *model.Profile) error
	GetFn    func(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	UpdateFn func(ctx context.Context, p *model.Profile) error
}

func (m *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, p)
}

func (m *ProfileRepository) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	if m.GetFn == nil {
		return nil, nil
	}
	return m.GetFn(ctx, id)
}

func (m *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, p)
}

type UserRepository struct {
	CreateWithProfileFn func(ctx context.Context, u *model.User, p *model.Profile) error
	GetByEmailFn        func(ctx context.Context, email string) (*model.User, error)
}

func (m *UserRepository) CreateWithProfile(ctx context.Context, u *model.User, p *model.Profile) error {
	if m.CreateWithProfileFn == nil {
		return nil
	}
	return m.CreateWithProfileFn(ctx, u, p)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.GetByEmailFn == nil {
		return nil, nil
	}
	return m.GetByEmailFn(ctx, email)
}

type OutboxRepository struct {
	CreateFn                func(ctx context.Context, e *model.OutboxEvent) error
	ProcessPendingFn        func(ctx context.Context, limit, maxAttempts int, handle func(*model.OutboxEvent) error) (int, error)
	DeleteProcessedBeforeFn func(ctx context.Context, before time.Time) (int64, error)
}

func (m *OutboxRepository) Create(ctx context.Context, e *model.OutboxEvent) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, e)
}

func (m *OutboxRepository) ProcessPending(ctx context.Context, limit, maxAttempts int, handle func(*model.OutboxEvent) error) (int, error) {
	if m.ProcessPendingFn == nil {
		return 0, nil
	}
	return m.ProcessPendingFn(ctx, limit, maxAttempts, handle)
}

func (m *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	if m.DeleteProcessedBeforeFn == nil {
		return 0, nil
	}
	return m.DeleteProcessedBeforeFn(ctx, before)
}
