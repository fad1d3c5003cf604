package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
)

const bookingSelect = `
	SELECT b.id, b.lab_test_id, t.name AS test_name, b.patient_id,
		   to_char(b.scheduled_date, 'YYYY-MM-DD') AS scheduled_date,
		   b.status, b.report_url, b.created_at, b.updated_at
	FROM booked_lab_tests b
	LEFT JOIN lab_tests t ON t.id = b.lab_test_id
`

func (r *labRepository) ListTests(ctx context.Context, category string) ([]*model.LabTest, error) {
	query := `
		SELECT id, name, category, description, price, preparation, turnaround_hours
		FROM lab_tests
	`
	args := []interface{}{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY name"

	tests := []*model.LabTest{}
	if err := r.db.SelectContext(ctx, &tests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list lab tests: %w", err)
	}
	return tests, nil
}

func (r *labRepository) GetTest(ctx context.Context, id uuid.UUID) (*model.LabTest, error) {
	var test model.LabTest
	query := `
		SELECT id, name, category, description, price, preparation, turnaround_hours
		FROM lab_tests WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &test, query, id); err != nil {
		return nil, getErr(err, "lab test")
	}
	return &test, nil
}

func (r *labRepository) CreateBooking(ctx context.Context, booking *model.BookedLabTest) error {
	query := `
		INSERT INTO booked_lab_tests (
			id, lab_test_id, patient_id, scheduled_date, status, report_url,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.LabTestID,
		booking.PatientID,
		booking.ScheduledDate,
		booking.Status,
		booking.ReportURL,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lab booking: %w", err)
	}
	return nil
}

func (r *labRepository) GetBooking(ctx context.Context, id uuid.UUID) (*model.BookedLabTest, error) {
	var booking model.BookedLabTest
	if err := r.db.GetContext(ctx, &booking, bookingSelect+" WHERE b.id = $1", id); err != nil {
		return nil, getErr(err, "lab booking")
	}
	return &booking, nil
}

func (r *labRepository) UpdateBooking(ctx context.Context, booking *model.BookedLabTest) error {
	query := `
		UPDATE booked_lab_tests
		SET status = $1, report_url = $2, updated_at = $3
		WHERE id = $4
	`
	booking.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.ReportURL,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lab booking: %w", err)
	}
	return affected(result, "lab booking")
}

func (r *labRepository) ListBookings(ctx context.Context, patientID uuid.UUID) ([]*model.BookedLabTest, error) {
	bookings := []*model.BookedLabTest{}
	query := bookingSelect + " WHERE b.patient_id = $1 ORDER BY b.scheduled_date DESC"
	if err := r.db.SelectContext(ctx, &bookings, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list lab bookings: %w", err)
	}
	return bookings, nil
}
