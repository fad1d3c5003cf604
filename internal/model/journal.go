package model

import (
	"time"

	"github.com/google/uuid"
)

type JournalEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	Title     *string   `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Mood      *string   `json:"mood" db:"mood"`
	Date      time.Time `json:"date" db:"date"`
	Flagged   bool      `json:"flagged" db:"flagged"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateJournalEntryRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Title     *string   `json:"title"`
	Content   string    `json:"content" binding:"required"`
	Mood      *string   `json:"mood"`
	Date      string    `json:"date"`
}

type FlagJournalEntryRequest struct {
	Flagged bool `json:"flagged"`
}
