package model

import (
	"time"

	"github.com/google/uuid"
)

type WorkoutSession struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Title           string    `json:"title" db:"title"`
	Type            *string   `json:"type" db:"type"`
	DurationMinutes *int      `json:"duration_minutes" db:"duration_minutes"`
	CaloriesBurned  *float64  `json:"calories_burned" db:"calories_burned"`
	Date            string    `json:"date" db:"date"`
	Completed       bool      `json:"completed" db:"completed"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type CreateWorkoutRequest struct {
	UserID          uuid.UUID `json:"user_id" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	Type            *string   `json:"type"`
	DurationMinutes *int      `json:"duration_minutes" binding:"omitempty,gte=0"`
	CaloriesBurned  *float64  `json:"calories_burned" binding:"omitempty,gte=0"`
	Date            string    `json:"date" binding:"required,datetime=2006-01-02"`
	Completed       bool      `json:"completed"`
}

type UpdateWorkoutRequest struct {
	Title           *string  `json:"title" binding:"omitempty,min=1"`
	Type            *string  `json:"type"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,gte=0"`
	CaloriesBurned  *float64 `json:"calories_burned" binding:"omitempty,gte=0"`
	Date            *string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Completed       *bool    `json:"completed"`
}

func (r *UpdateWorkoutRequest) Apply(w *WorkoutSession) {
	if r.Title != nil {
		w.Title = *r.Title
	}
	if r.Type != nil {
		w.Type = r.Type
	}
	if r.DurationMinutes != nil {
		w.DurationMinutes = r.DurationMinutes
	}
	if r.CaloriesBurned != nil {
		w.CaloriesBurned = r.CaloriesBurned
	}
	if r.Date != nil {
		w.Date = *r.Date
	}
	if r.Completed != nil {
		w.Completed = *r.Completed
	}
}
