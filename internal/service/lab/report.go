package lab

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/pkg/errors"
)

// WriteReport renders a one-page PDF summary of a booking.
func (s *Service) WriteReport(ctx context.Context, id uuid.UUID, w io.Writer) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get lab booking: %w", err)
	}

	test, err := s.repo.GetTest(ctx, booking.LabTestID)
	if err != nil {
		return fmt.Errorf("failed to get lab test: %w", err)
	}

	patientName := ""
	if profile, err := s.profileRepo.Get(ctx, booking.PatientID); err == nil {
		patientName = profile.Name
	} else if !errors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("failed to get patient: %w", err)
	}

	return renderReport(booking, test, patientName, w)
}

func renderReport(booking *model.BookedLabTest, test *model.LabTest, patientName string, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Lab Test Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Booking", "1", 1, "C", false, 0, "")
	addDetail(pdf, "Booking ID", booking.ID.String())
	addDetail(pdf, "Patient", orDash(patientName))
	addDetail(pdf, "Scheduled", booking.ScheduledDate)
	addDetail(pdf, "Status", string(booking.Status))
	addDetail(pdf, "Report", orDash(deref(booking.ReportURL)))

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Test", "1", 1, "C", false, 0, "")
	addDetail(pdf, "Name", test.Name)
	addDetail(pdf, "Category", orDash(deref(test.Category)))
	if test.Price != nil {
		addDetail(pdf, "Price", fmt.Sprintf("%.2f", *test.Price))
	}
	if test.TurnaroundHours != nil {
		addDetail(pdf, "Turnaround", fmt.Sprintf("%d hours", *test.TurnaroundHours))
	}
	if test.Preparation != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, "Preparation: "+*test.Preparation, "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render lab report: %w", err)
	}
	return nil
}

func addDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(45, 8, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 8, value, "1", 1, "", false, 0, "")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
