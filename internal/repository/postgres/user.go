package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/pkg/errors"
)

func (r *userRepository) CreateWithProfile(ctx context.Context, user *model.User, profile *model.Profile) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertProfile(ctx, tx, profile); err != nil {
			return err
		}

		query := `
			INSERT INTO users (id, email, password_hash, role, profile_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		user.ID = uuid.New()
		user.Email = strings.ToLower(user.Email)
		user.ProfileID = profile.ID
		user.CreatedAt = time.Now()
		user.UpdatedAt = user.CreatedAt

		_, err := tx.ExecContext(ctx, query,
			user.ID,
			user.Email,
			user.PasswordHash,
			user.Role,
			user.ProfileID,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if isUniqueViolation(err) {
			return errors.Conflict("email already registered")
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `
		SELECT id, email, password_hash, role, profile_id, created_at, updated_at
		FROM users WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(email)); err != nil {
		return nil, getErr(err, "user")
	}
	return &user, nil
}
