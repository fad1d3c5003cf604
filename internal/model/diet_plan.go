package model

import (
	"time"

	"github.com/google/uuid"
)

// DietPlan is stored and served in snake_case. Nullable columns are
// pointers so the wire keeps the null.
type DietPlan struct {
	ID             uuid.UUID `json:"id" db:"id"`
	DailyCalories  *float64  `json:"daily_calories" db:"daily_calories"`
	Protein        *float64  `json:"protein" db:"protein"`
	Carbs          *float64  `json:"carbs" db:"carbs"`
	Fat            *float64  `json:"fat" db:"fat"`
	Deficiency     *string   `json:"deficiency" db:"deficiency"`
	Notes          *string   `json:"notes" db:"notes"`
	Exercise       *string   `json:"exercise" db:"exercise"`
	CaloriesBurned *float64  `json:"calories_burned" db:"calories_burned"`
	StartDate      string    `json:"start_date" db:"start_date"`
	EndDate        string    `json:"end_date" db:"end_date"`
	PatientID      uuid.UUID `json:"patient_id" db:"patient_id"`
	PatientName    *string   `json:"patient_name" db:"patient_name"`
	NutritionistID uuid.UUID `json:"nutritionist_id" db:"nutritionist_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the plan ends strictly after now.
func (p *DietPlan) IsActive(now time.Time) bool {
	end, err := time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return false
	}
	return end.After(now)
}

type CreateDietPlanRequest struct {
	DailyCalories  *float64  `json:"daily_calories" validate:"omitempty,gte=0"`
	Protein        *float64  `json:"protein" validate:"omitempty,gte=0"`
	Carbs          *float64  `json:"carbs" validate:"omitempty,gte=0"`
	Fat            *float64  `json:"fat" validate:"omitempty,gte=0"`
	Deficiency     *string   `json:"deficiency"`
	Notes          *string   `json:"notes"`
	Exercise       *string   `json:"exercise"`
	CaloriesBurned *float64  `json:"calories_burned" validate:"omitempty,gte=0"`
	StartDate      string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string    `json:"end_date" validate:"required,datetime=2006-01-02"`
	PatientID      uuid.UUID `json:"patient_id" validate:"required"`
	NutritionistID uuid.UUID `json:"nutritionist_id" validate:"required"`
}

type UpdateDietPlanRequest struct {
	DailyCalories  *float64 `json:"daily_calories" validate:"omitempty,gte=0"`
	Protein        *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs          *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat            *float64 `json:"fat" validate:"omitempty,gte=0"`
	Deficiency     *string  `json:"deficiency"`
	Notes          *string  `json:"notes"`
	Exercise       *string  `json:"exercise"`
	CaloriesBurned *float64 `json:"calories_burned" validate:"omitempty,gte=0"`
	StartDate      *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// Apply copies the non-nil fields of r onto p.
func (r *UpdateDietPlanRequest) Apply(p *DietPlan) {
	if r.DailyCalories != nil {
		p.DailyCalories = r.DailyCalories
	}
	if r.Protein != nil {
		p.Protein = r.Protein
	}
	if r.Carbs != nil {
		p.Carbs = r.Carbs
	}
	if r.Fat != nil {
		p.Fat = r.Fat
	}
	if r.Deficiency != nil {
		p.Deficiency = r.Deficiency
	}
	if r.Notes != nil {
		p.Notes = r.Notes
	}
	if r.Exercise != nil {
		p.Exercise = r.Exercise
	}
	if r.CaloriesBurned != nil {
		p.CaloriesBurned = r.CaloriesBurned
	}
	if r.StartDate != nil {
		p.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		p.EndDate = *r.EndDate
	}
}
