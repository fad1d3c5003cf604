package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string
type AppointmentType string
type AppointmentMode string

const (
	AppointmentStatusUpcoming  AppointmentStatus = "upcoming"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"

	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeFollowUp     AppointmentType = "follow-up"
	AppointmentTypeEmergency    AppointmentType = "emergency"

	AppointmentModePhysical AppointmentMode = "physical"
	AppointmentModeOnline   AppointmentMode = "online"
)

// CanTransition reports whether status s may move to next. Only upcoming
// appointments change status; completed and cancelled are terminal.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	return s == AppointmentStatusUpcoming &&
		(next == AppointmentStatusCompleted || next == AppointmentStatusCancelled)
}

// PartyRef is the partial profile embedded in an appointment.
type PartyRef struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Name   string    `json:"name" db:"name"`
	Email  string    `json:"email,omitempty" db:"email"`
	Phone  string    `json:"phone,omitempty" db:"phone"`
	Avatar string    `json:"avatar,omitempty" db:"avatar"`
}

type Appointment struct {
	ID         uuid.UUID         `json:"id" db:"id"`
	Patient    PartyRef          `json:"patient" db:"patient"`
	Doctor     PartyRef          `json:"doctor" db:"doctor"`
	Date       string            `json:"date" db:"date"`
	Time       string            `json:"time" db:"time"`
	Status     AppointmentStatus `json:"status" db:"status"`
	Type       AppointmentType   `json:"type" db:"type"`
	Mode       AppointmentMode   `json:"mode" db:"mode"`
	Notes      string            `json:"notes" db:"notes"`
	Report     string            `json:"report" db:"report"`
	DataShared bool              `json:"dataShared" db:"data_shared"`
	CreatedAt  time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time         `json:"updatedAt" db:"updated_at"`
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID       `json:"patientId" binding:"required"`
	DoctorID  uuid.UUID       `json:"doctorId" binding:"required"`
	Date      string          `json:"date" binding:"required,datetime=2006-01-02"`
	Time      string          `json:"time" binding:"required"`
	Type      AppointmentType `json:"type" binding:"required,oneof=consultation follow-up emergency"`
	Mode      AppointmentMode `json:"mode" binding:"required,oneof=physical online"`
	Notes     string          `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Status     *AppointmentStatus `json:"status" binding:"omitempty,oneof=upcoming completed cancelled"`
	Notes      *string            `json:"notes"`
	Report     *string            `json:"report"`
	DataShared *bool              `json:"dataShared"`
}

type AppointmentFilters struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    AppointmentStatus
}

// AppointmentList is the response envelope of GET /appointments.
type AppointmentList struct {
	Items []*Appointment `json:"items"`
}
