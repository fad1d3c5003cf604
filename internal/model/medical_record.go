package model

import (
	"time"

	"github.com/google/uuid"
)

type MedicalRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	Title     string    `json:"title" db:"title"`
	Type      *string   `json:"type" db:"type"`
	Date      string    `json:"date" db:"date"`
	FileURL   *string   `json:"file_url" db:"file_url"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateMedicalRecordRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	Type      *string   `json:"type"`
	Date      string    `json:"date" binding:"required,datetime=2006-01-02"`
	FileURL   *string   `json:"file_url" binding:"omitempty,url"`
	Notes     *string   `json:"notes"`
}

type UpdateMedicalRecordRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1"`
	Type    *string `json:"type"`
	Date    *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	FileURL *string `json:"file_url" binding:"omitempty,url"`
	Notes   *string `json:"notes"`
}

func (r *UpdateMedicalRecordRequest) Apply(m *MedicalRecord) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Type != nil {
		m.Type = r.Type
	}
	if r.Date != nil {
		m.Date = *r.Date
	}
	if r.FileURL != nil {
		m.FileURL = r.FileURL
	}
	if r.Notes != nil {
		m.Notes = r.Notes
	}
}
