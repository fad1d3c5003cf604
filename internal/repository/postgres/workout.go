package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
)

const workoutSelect = `
	SELECT id, user_id, title, type, duration_minutes, calories_burned,
		   to_char(session_date, 'YYYY-MM-DD') AS date, completed, created_at, updated_at
	FROM workout_sessions
`

func (r *workoutRepository) Create(ctx context.Context, session *model.WorkoutSession) error {
	query := `
		INSERT INTO workout_sessions (
			id, user_id, title, type, duration_minutes, calories_burned,
			session_date, completed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.Type,
		session.DurationMinutes,
		session.CaloriesBurned,
		session.Date,
		session.Completed,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workout session: %w", err)
	}
	return nil
}

func (r *workoutRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkoutSession, error) {
	var session model.WorkoutSession
	if err := r.db.GetContext(ctx, &session, workoutSelect+" WHERE id = $1", id); err != nil {
		return nil, getErr(err, "workout session")
	}
	return &session, nil
}

func (r *workoutRepository) Update(ctx context.Context, session *model.WorkoutSession) error {
	query := `
		UPDATE workout_sessions
		SET title = $1, type = $2, duration_minutes = $3, calories_burned = $4,
			session_date = $5, completed = $6, updated_at = $7
		WHERE id = $8
	`
	session.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		session.Title,
		session.Type,
		session.DurationMinutes,
		session.CaloriesBurned,
		session.Date,
		session.Completed,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update workout session: %w", err)
	}
	return affected(result, "workout session")
}

func (r *workoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workout_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete workout session: %w", err)
	}
	return affected(result, "workout session")
}

func (r *workoutRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.WorkoutSession, error) {
	sessions := []*model.WorkoutSession{}
	query := workoutSelect + " WHERE user_id = $1 ORDER BY session_date DESC"
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list workout sessions: %w", err)
	}
	return sessions, nil
}
