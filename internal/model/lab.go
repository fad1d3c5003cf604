package model

import (
	"time"

	"github.com/google/uuid"
)

type LabTest struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Category        *string   `json:"category" db:"category"`
	Description     *string   `json:"description" db:"description"`
	Price           *float64  `json:"price" db:"price"`
	Preparation     *string   `json:"preparation" db:"preparation"`
	TurnaroundHours *int      `json:"turnaround_hours" db:"turnaround_hours"`
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookedLabTest joins the booking row with its catalog test name.
type BookedLabTest struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	LabTestID     uuid.UUID     `json:"lab_test_id" db:"lab_test_id"`
	TestName      *string       `json:"test_name" db:"test_name"`
	PatientID     uuid.UUID     `json:"patient_id" db:"patient_id"`
	ScheduledDate string        `json:"scheduled_date" db:"scheduled_date"`
	Status        BookingStatus `json:"status" db:"status"`
	ReportURL     *string       `json:"report_url" db:"report_url"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

type BookLabTestRequest struct {
	LabTestID     uuid.UUID `json:"lab_test_id" binding:"required"`
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	ScheduledDate string    `json:"scheduled_date" binding:"required,datetime=2006-01-02"`
}

type CompleteLabTestRequest struct {
	ReportURL string `json:"report_url" binding:"required,url"`
}
