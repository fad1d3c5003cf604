package dietplan

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
)

const exportSheet = "Diet Plans"

var exportColumns = []string{
	"Patient", "Start", "End", "Status", "Daily Calories",
	"Protein", "Carbs", "Fat", "Calories Burned", "Deficiency", "Exercise", "Notes",
}

// ExportAssigned writes the nutritionist's plans as an xlsx workbook.
func (s *Service) ExportAssigned(ctx context.Context, nutritionistID uuid.UUID, w io.Writer) error {
	plans, err := s.ListAssigned(ctx, nutritionistID)
	if err != nil {
		return err
	}
	return writeWorkbook(plans, s.now().UTC(), w)
}

func writeWorkbook(plans []*model.DietPlan, now time.Time, w io.Writer) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", exportSheet)

	for i, title := range exportColumns {
		f.SetCellValue(exportSheet, cell(i, 1), title)
	}

	for r, p := range plans {
		row := r + 2
		values := []interface{}{
			deref(p.PatientName), p.StartDate, p.EndDate, planStatus(p, now),
			num(p.DailyCalories), num(p.Protein), num(p.Carbs), num(p.Fat), num(p.CaloriesBurned),
			deref(p.Deficiency), deref(p.Exercise), deref(p.Notes),
		}
		for i, v := range values {
			f.SetCellValue(exportSheet, cell(i, row), v)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func planStatus(p *model.DietPlan, now time.Time) string {
	if p.IsActive(now) {
		return "active"
	}
	return "completed"
}

func cell(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
