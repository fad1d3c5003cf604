package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/pkg/fitness"
)

// All repository interfaces in one file
type (
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	}

	DietPlanRepository interface {
		Create(ctx context.Context, plan *model.DietPlan) error
		Get(ctx context.Context, id uuid.UUID) (*model.DietPlan, error)
		Update(ctx context.Context, plan *model.DietPlan) error
		ListByNutritionist(ctx context.Context, nutritionistID uuid.UUID) ([]*model.DietPlan, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DietPlan, error)
	}

	FitnessRepository interface {
		// Get returns ok=false when the user has no stored state yet.
		Get(ctx context.Context, userID uuid.UUID) (state fitness.State, ok bool, err error)
		Save(ctx context.Context, userID uuid.UUID, state fitness.State) error
	}

	LabRepository interface {
		ListTests(ctx context.Context, category string) ([]*model.LabTest, error)
		GetTest(ctx context.Context, id uuid.UUID) (*model.LabTest, error)
		CreateBooking(ctx context.Context, booking *model.BookedLabTest) error
		GetBooking(ctx context.Context, id uuid.UUID) (*model.BookedLabTest, error)
		UpdateBooking(ctx context.Context, booking *model.BookedLabTest) error
		ListBookings(ctx context.Context, patientID uuid.UUID) ([]*model.BookedLabTest, error)
	}

	JournalRepository interface {
		Create(ctx context.Context, entry *model.JournalEntry) error
		Get(ctx context.Context, id uuid.UUID) (*model.JournalEntry, error)
		SetFlagged(ctx context.Context, id uuid.UUID, flagged bool) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.JournalEntry, error)
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
		Update(ctx context.Context, record *model.MedicalRecord) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
	}

	WorkoutRepository interface {
		Create(ctx context.Context, session *model.WorkoutSession) error
		Get(ctx context.Context, id uuid.UUID) (*model.WorkoutSession, error)
		Update(ctx context.Context, session *model.WorkoutSession) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.WorkoutSession, error)
	}

	ProfileRepository interface {
		Create(ctx context.Context, profile *model.Profile) error
		Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
		Update(ctx context.Context, profile *model.Profile) error
	}

	UserRepository interface {
		// CreateWithProfile inserts the profile and its login in one transaction.
		CreateWithProfile(ctx context.Context, user *model.User, profile *model.Profile) error
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// ProcessPending locks up to limit publishable events, calls handle
		// for each and records the outcome in the same transaction. Events
		// whose handler fails are retried until maxAttempts, then marked failed.
		ProcessPending(ctx context.Context, limit, maxAttempts int, handle func(*model.OutboxEvent) error) (processed int, err error)
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
