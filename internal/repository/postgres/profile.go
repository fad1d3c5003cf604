package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/care-sync/internal/model"
)

const profileSelect = `
	SELECT id, role, name, email, phone, address, gender,
		   to_char(date_of_birth, 'YYYY-MM-DD') AS date_of_birth,
		   avatar, blood_group, allergies, chronic_conditions, medications,
		   specialization, license_number, experience_years, qualification,
		   goal_limit, created_at, updated_at
	FROM profiles
`

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return insertProfile(ctx, r.db, profile)
}

// insertProfile runs on either the pool or a transaction.
func insertProfile(ctx context.Context, db sqlx.ExecerContext, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (
			id, role, name, email, phone, address, gender, date_of_birth, avatar,
			blood_group, allergies, chronic_conditions, medications, specialization,
			license_number, experience_years, qualification, goal_limit,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt

	_, err := db.ExecContext(ctx, query,
		profile.ID,
		profile.Role,
		profile.Name,
		profile.Email,
		profile.Phone,
		profile.Address,
		profile.Gender,
		profile.DateOfBirth,
		profile.Avatar,
		profile.BloodGroup,
		profile.Allergies,
		profile.ChronicConditions,
		profile.Medications,
		profile.Specialization,
		profile.LicenseNumber,
		profile.ExperienceYears,
		profile.Qualification,
		profile.Limit,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.GetContext(ctx, &profile, profileSelect+" WHERE id = $1", id); err != nil {
		return nil, getErr(err, "profile")
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, phone = $2, address = $3, gender = $4, date_of_birth = $5,
			avatar = $6, blood_group = $7, allergies = $8, chronic_conditions = $9,
			medications = $10, specialization = $11, license_number = $12,
			experience_years = $13, qualification = $14, goal_limit = $15,
			updated_at = $16
		WHERE id = $17
	`
	profile.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		profile.Name,
		profile.Phone,
		profile.Address,
		profile.Gender,
		profile.DateOfBirth,
		profile.Avatar,
		profile.BloodGroup,
		profile.Allergies,
		profile.ChronicConditions,
		profile.Medications,
		profile.Specialization,
		profile.LicenseNumber,
		profile.ExperienceYears,
		profile.Qualification,
		profile.Limit,
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return affected(result, "profile")
}
