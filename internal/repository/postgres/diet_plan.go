package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
)

const dietPlanSelect = `
	SELECT dp.id, dp.daily_calories, dp.protein, dp.carbs, dp.fat,
		   dp.deficiency, dp.notes, dp.exercise, dp.calories_burned,
		   to_char(dp.start_date, 'YYYY-MM-DD') AS start_date,
		   to_char(dp.end_date, 'YYYY-MM-DD') AS end_date,
		   dp.patient_id, p.name AS patient_name, dp.nutritionist_id,
		   dp.created_at, dp.updated_at
	FROM diet_plans dp
	LEFT JOIN profiles p ON p.id = dp.patient_id
`

func (r *dietPlanRepository) Create(ctx context.Context, plan *model.DietPlan) error {
	query := `
		INSERT INTO diet_plans (
			id, daily_calories, protein, carbs, fat, deficiency, notes, exercise,
			calories_burned, start_date, end_date, patient_id, nutritionist_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.DailyCalories,
		plan.Protein,
		plan.Carbs,
		plan.Fat,
		plan.Deficiency,
		plan.Notes,
		plan.Exercise,
		plan.CaloriesBurned,
		plan.StartDate,
		plan.EndDate,
		plan.PatientID,
		plan.NutritionistID,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create diet plan: %w", err)
	}
	return nil
}

func (r *dietPlanRepository) Get(ctx context.Context, id uuid.UUID) (*model.DietPlan, error) {
	var plan model.DietPlan
	if err := r.db.GetContext(ctx, &plan, dietPlanSelect+" WHERE dp.id = $1", id); err != nil {
		return nil, getErr(err, "diet plan")
	}
	return &plan, nil
}

func (r *dietPlanRepository) Update(ctx context.Context, plan *model.DietPlan) error {
	query := `
		UPDATE diet_plans
		SET daily_calories = $1, protein = $2, carbs = $3, fat = $4,
			deficiency = $5, notes = $6, exercise = $7, calories_burned = $8,
			start_date = $9, end_date = $10, updated_at = $11
		WHERE id = $12
	`
	plan.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		plan.DailyCalories,
		plan.Protein,
		plan.Carbs,
		plan.Fat,
		plan.Deficiency,
		plan.Notes,
		plan.Exercise,
		plan.CaloriesBurned,
		plan.StartDate,
		plan.EndDate,
		plan.UpdatedAt,
		plan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update diet plan: %w", err)
	}
	return affected(result, "diet plan")
}

func (r *dietPlanRepository) ListByNutritionist(ctx context.Context, nutritionistID uuid.UUID) ([]*model.DietPlan, error) {
	plans := []*model.DietPlan{}
	query := dietPlanSelect + " WHERE dp.nutritionist_id = $1 ORDER BY dp.start_date DESC"
	if err := r.db.SelectContext(ctx, &plans, query, nutritionistID); err != nil {
		return nil, fmt.Errorf("failed to list diet plans: %w", err)
	}
	return plans, nil
}

func (r *dietPlanRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DietPlan, error) {
	plans := []*model.DietPlan{}
	query := dietPlanSelect + " WHERE dp.patient_id = $1 ORDER BY dp.start_date DESC"
	if err := r.db.SelectContext(ctx, &plans, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list diet plans: %w", err)
	}
	return plans, nil
}
