package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/care-sync/pkg/fitness"
)

const (
	RolePatient       = "patient"
	RoleDoctor        = "doctor"
	RoleNutritionist  = "nutritionist"
	RoleLabTechnician = "lab_technician"
	RolePharmacist    = "pharmacist"
	RoleAdmin         = "admin"
)

// GoalLimit is the jsonb column behind a patient's goal targets.
type GoalLimit fitness.Limit

func (l *GoalLimit) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func (l GoalLimit) Value() (driver.Value, error) {
	return valueJSON(l)
}

// Profile is the per-role attribute bag. Patient and staff columns share
// one table; fields that do not apply to a role stay null.
type Profile struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	Role              string         `json:"role" db:"role"`
	Name              string         `json:"name" db:"name"`
	Email             string         `json:"email" db:"email"`
	Phone             *string        `json:"phone" db:"phone"`
	Address           *string        `json:"address" db:"address"`
	Gender            *string        `json:"gender" db:"gender"`
	DateOfBirth       *string        `json:"date_of_birth" db:"date_of_birth"`
	Avatar            *string        `json:"avatar" db:"avatar"`
	BloodGroup        *string        `json:"blood_group" db:"blood_group"`
	Allergies         pq.StringArray `json:"allergies" db:"allergies"`
	ChronicConditions pq.StringArray `json:"chronic_conditions" db:"chronic_conditions"`
	Medications       pq.StringArray `json:"medications" db:"medications"`
	Specialization    *string        `json:"specialization" db:"specialization"`
	LicenseNumber     *string        `json:"license_number" db:"license_number"`
	ExperienceYears   *int           `json:"experience_years" db:"experience_years"`
	Qualification     *string        `json:"qualification" db:"qualification"`
	Limit             *GoalLimit     `json:"limit" db:"goal_limit"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// FitnessLimit returns the goal targets, zero when none are stored.
func (p *Profile) FitnessLimit() fitness.Limit {
	if p == nil || p.Limit == nil {
		return fitness.Limit{}
	}
	return fitness.Limit(*p.Limit)
}

type UpdateProfileRequest struct {
	Name              *string    `json:"name" binding:"omitempty,min=1"`
	Phone             *string    `json:"phone" binding:"omitempty,e164"`
	Address           *string    `json:"address"`
	Gender            *string    `json:"gender"`
	DateOfBirth       *string    `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Avatar            *string    `json:"avatar" binding:"omitempty,url"`
	BloodGroup        *string    `json:"blood_group" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies         []string   `json:"allergies"`
	ChronicConditions []string   `json:"chronic_conditions"`
	Medications       []string   `json:"medications"`
	Specialization    *string    `json:"specialization"`
	LicenseNumber     *string    `json:"license_number"`
	ExperienceYears   *int       `json:"experience_years" binding:"omitempty,gte=0"`
	Qualification     *string    `json:"qualification"`
	Limit             *GoalLimit `json:"limit"`
}

func (r *UpdateProfileRequest) Apply(p *Profile) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Phone != nil {
		p.Phone = r.Phone
	}
	if r.Address != nil {
		p.Address = r.Address
	}
	if r.Gender != nil {
		p.Gender = r.Gender
	}
	if r.DateOfBirth != nil {
		p.DateOfBirth = r.DateOfBirth
	}
	if r.Avatar != nil {
		p.Avatar = r.Avatar
	}
	if r.BloodGroup != nil {
		p.BloodGroup = r.BloodGroup
	}
	if r.Allergies != nil {
		p.Allergies = r.Allergies
	}
	if r.ChronicConditions != nil {
		p.ChronicConditions = r.ChronicConditions
	}
	if r.Medications != nil {
		p.Medications = r.Medications
	}
	if r.Specialization != nil {
		p.Specialization = r.Specialization
	}
	if r.LicenseNumber != nil {
		p.LicenseNumber = r.LicenseNumber
	}
	if r.ExperienceYears != nil {
		p.ExperienceYears = r.ExperienceYears
	}
	if r.Qualification != nil {
		p.Qualification = r.Qualification
	}
	if r.Limit != nil {
		p.Limit = r.Limit
	}
}
