package model

import (
	"database/sql/driver"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/pkg/fitness"
)

// FitnessState is the jsonb column holding a user's fitness.State.
type FitnessState fitness.State

func (s *FitnessState) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func (s FitnessState) Value() (driver.Value, error) {
	return valueJSON(s)
}

// UpdateFitnessRequest is the body of POST /fitness.
type UpdateFitnessRequest struct {
	UserID  uuid.UUID       `json:"userId" binding:"required"`
	Updates fitness.Updates `json:"updates"`
}
