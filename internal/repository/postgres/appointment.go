package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
)

// appointmentSelect joins both party profiles into the nested refs.
const appointmentSelect = `
	SELECT a.id,
		   a.patient_id AS "patient.id", p.name AS "patient.name",
		   COALESCE(p.email, '') AS "patient.email", COALESCE(p.phone, '') AS "patient.phone",
		   COALESCE(p.avatar, '') AS "patient.avatar",
		   a.doctor_id AS "doctor.id", d.name AS "doctor.name",
		   COALESCE(d.email, '') AS "doctor.email", COALESCE(d.phone, '') AS "doctor.phone",
		   COALESCE(d.avatar, '') AS "doctor.avatar",
		   to_char(a.appointment_date, 'YYYY-MM-DD') AS date, a.appointment_time AS time,
		   a.status, a.type, a.mode, a.notes, a.report, a.data_shared,
		   a.created_at, a.updated_at
	FROM appointments a
	JOIN profiles p ON p.id = a.patient_id
	JOIN profiles d ON d.id = a.doctor_id
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date, appointment_time,
			status, type, mode, notes, report, data_shared,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.Patient.ID,
		appointment.Doctor.ID,
		appointment.Date,
		appointment.Time,
		appointment.Status,
		appointment.Type,
		appointment.Mode,
		appointment.Notes,
		appointment.Report,
		appointment.DataShared,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, appointmentSelect+" WHERE a.id = $1", id); err != nil {
		return nil, getErr(err, "appointment")
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $1, notes = $2, report = $3, data_shared = $4, updated_at = $5
		WHERE id = $6
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Status,
		appointment.Notes,
		appointment.Report,
		appointment.DataShared,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return affected(result, "appointment")
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := appointmentSelect + " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.PatientID != nil {
			query += fmt.Sprintf(" AND a.patient_id = $%d", argCount)
			args = append(args, *filters.PatientID)
			argCount++
		}
		if filters.DoctorID != nil {
			query += fmt.Sprintf(" AND a.doctor_id = $%d", argCount)
			args = append(args, *filters.DoctorID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND a.status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
	}

	query += " ORDER BY a.appointment_date ASC, a.appointment_time ASC"

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
