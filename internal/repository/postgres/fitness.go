package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/pkg/fitness"
)

func (r *fitnessRepository) Get(ctx context.Context, userID uuid.UUID) (fitness.State, bool, error) {
	var state model.FitnessState
	err := r.db.GetContext(ctx, &state, `SELECT state FROM fitness_states WHERE user_id = $1`, userID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return fitness.State{}, false, nil
	}
	if err != nil {
		return fitness.State{}, false, fmt.Errorf("failed to get fitness state: %w", err)
	}
	return fitness.State(state), true, nil
}

func (r *fitnessRepository) Save(ctx context.Context, userID uuid.UUID, state fitness.State) error {
	query := `
		INSERT INTO fitness_states (user_id, state, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, userID, model.FitnessState(state)); err != nil {
		return fmt.Errorf("failed to save fitness state: %w", err)
	}
	return nil
}
