package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/pkg/security"
)

type appointmentRepository struct {
	db *sqlx.DB
}

type dietPlanRepository struct {
	db *sqlx.DB
}

type fitnessRepository struct {
	db *sqlx.DB
}

type labRepository struct {
	db *sqlx.DB
}

type journalRepository struct {
	db  *sqlx.DB
	enc security.Encryptor
}

type medicalRecordRepository struct {
	db *sqlx.DB
}

type workoutRepository struct {
	db *sqlx.DB
}

type profileRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	BaseRepository
}

type outboxRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewDietPlanRepository(db *sqlx.DB) repository.DietPlanRepository {
	return &dietPlanRepository{db: db}
}

func NewFitnessRepository(db *sqlx.DB) repository.FitnessRepository {
	return &fitnessRepository{db: db}
}

func NewLabRepository(db *sqlx.DB) repository.LabRepository {
	return &labRepository{db: db}
}

// NewJournalRepository seals entry content with enc; a nil enc stores
// plaintext.
func NewJournalRepository(db *sqlx.DB, enc security.Encryptor) repository.JournalRepository {
	return &journalRepository{db: db, enc: enc}
}

func NewMedicalRecordRepository(db *sqlx.DB) repository.MedicalRecordRepository {
	return &medicalRecordRepository{db: db}
}

func NewWorkoutRepository(db *sqlx.DB) repository.WorkoutRepository {
	return &workoutRepository{db: db}
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{NewBaseRepository(db)}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}
