package store

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jwalitptl/care-sync/pkg/kvstore"
)

type LabTest struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	Preparation     string  `json:"preparation"`
	TurnaroundHours int     `json:"turnaroundHours"`
}

type LabTestWire struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        *string  `json:"category"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price"`
	Preparation     *string  `json:"preparation"`
	TurnaroundHours *int     `json:"turnaround_hours"`
}

func labTestFromWire(w LabTestWire) LabTest {
	t := LabTest{
		ID:          w.ID,
		Name:        w.Name,
		Category:    str(w.Category),
		Description: str(w.Description),
		Price:       num(w.Price),
		Preparation: str(w.Preparation),
	}
	if w.TurnaroundHours != nil {
		t.TurnaroundHours = *w.TurnaroundHours
	}
	return t
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type BookedLabTest struct {
	ID            string        `json:"id"`
	LabTestID     string        `json:"labTestId"`
	TestName      string        `json:"testName"`
	PatientID     string        `json:"patientId"`
	ScheduledDate time.Time     `json:"scheduledDate"`
	Status        BookingStatus `json:"status"`
	ReportURL     string        `json:"reportUrl"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type BookedLabTestWire struct {
	ID            string  `json:"id,omitempty"`
	LabTestID     string  `json:"lab_test_id"`
	TestName      *string `json:"test_name"`
	PatientID     string  `json:"patient_id"`
	ScheduledDate string  `json:"scheduled_date"`
	Status        *string `json:"status"`
	ReportURL     *string `json:"report_url"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

func bookingFromWire(w BookedLabTestWire) BookedLabTest {
	b := BookedLabTest{
		ID:            w.ID,
		LabTestID:     w.LabTestID,
		TestName:      str(w.TestName),
		PatientID:     w.PatientID,
		ScheduledDate: parseDate(w.ScheduledDate),
		Status:        BookingStatus(str(w.Status)),
		ReportURL:     str(w.ReportURL),
		CreatedAt:     parseDate(w.CreatedAt),
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	return b
}

// LabReport is the cached summary of a completed booking.
type LabReport struct {
	BookingID   string    `json:"bookingId"`
	TestName    string    `json:"testName"`
	ReportURL   string    `json:"reportUrl"`
	CompletedOn time.Time `json:"completedOn"`
}

type LabStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// LabStore holds the test catalog and one patient's bookings. Reports of
// completed bookings are kept in the local key/value cache for a day.
type LabStore struct {
	base
	cache kvstore.Store

	catalogMu sync.RWMutex
	catalog   []LabTest

	bookings *collection[BookedLabTest]
}

func NewLabStore(t Transport, opts Options) *LabStore {
	opts = opts.withDefaults()
	return &LabStore{
		base:     newBase("lab_tests", t, opts),
		cache:    opts.Cache,
		bookings: newCollection(func(b BookedLabTest) string { return b.ID }),
	}
}

func reportsKey(patientID string) string {
	return "lab-reports:" + patientID
}

// FetchCatalog loads the lab test catalog, optionally for one category.
func (s *LabStore) FetchCatalog(ctx context.Context, category string) error {
	var q url.Values
	if category != "" {
		q = url.Values{"category": {category}}
	}
	var rows []LabTestWire
	if err := s.t.Get(ctx, "/lab-tests", q, &rows); err != nil {
		s.log.Error(err, "failed to fetch lab tests", "category", category)
		return fmt.Errorf("failed to fetch lab tests: %w", err)
	}
	tests := make([]LabTest, 0, len(rows))
	for _, r := range rows {
		tests = append(tests, labTestFromWire(r))
	}

	s.catalogMu.Lock()
	s.catalog = tests
	s.catalogMu.Unlock()
	return nil
}

func (s *LabStore) Catalog() []LabTest {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	return append([]LabTest(nil), s.catalog...)
}

// Fetch replaces the bookings with those of patientID and refreshes the
// cached reports.
func (s *LabStore) Fetch(ctx context.Context, patientID string) error {
	var rows []BookedLabTestWire
	if err := s.t.Get(ctx, "/booked-lab-tests", url.Values{"patientId": {patientID}}, &rows); err != nil {
		s.log.Error(err, "failed to fetch lab bookings", "patient_id", patientID)
		return fmt.Errorf("failed to fetch lab bookings: %w", err)
	}
	bookings := make([]BookedLabTest, 0, len(rows))
	for _, r := range rows {
		bookings = append(bookings, bookingFromWire(r))
	}
	s.bookings.replace(bookings)

	if err := s.cacheReports(ctx, patientID, bookings); err != nil {
		s.log.Warn("failed to cache lab reports", "patient_id", patientID, "error", err.Error())
	}
	return nil
}

func (s *LabStore) cacheReports(ctx context.Context, patientID string, bookings []BookedLabTest) error {
	return s.cache.Set(ctx, reportsKey(patientID), reportsOf(bookings), kvstore.DayTTL)
}

func reportsOf(bookings []BookedLabTest) []LabReport {
	reports := []LabReport{}
	for _, b := range bookings {
		if b.Status != BookingCompleted || b.ReportURL == "" {
			continue
		}
		reports = append(reports, LabReport{
			BookingID:   b.ID,
			TestName:    b.TestName,
			ReportURL:   b.ReportURL,
			CompletedOn: b.ScheduledDate,
		})
	}
	return reports
}

// Reports returns the patient's lab reports, from the cache while it is
// fresh and from the API otherwise.
func (s *LabStore) Reports(ctx context.Context, patientID string) ([]LabReport, error) {
	var reports []LabReport
	ok, err := s.cache.Get(ctx, reportsKey(patientID), &reports)
	if err != nil {
		s.log.Warn("failed to read cached lab reports", "patient_id", patientID, "error", err.Error())
	}
	if ok {
		return reports, nil
	}
	if err := s.Fetch(ctx, patientID); err != nil {
		return nil, err
	}
	return reportsOf(s.bookings.filter(func(b BookedLabTest) bool { return b.PatientID == patientID })), nil
}

// Book schedules labTestID for the patient on date.
func (s *LabStore) Book(ctx context.Context, patientID, labTestID string, date time.Time) (BookedLabTest, error) {
	body := BookedLabTestWire{
		LabTestID:     labTestID,
		PatientID:     patientID,
		ScheduledDate: formatDate(date),
	}
	var row BookedLabTestWire
	if err := s.t.Post(ctx, "/booked-lab-tests", body, &row); err != nil {
		s.log.Error(err, "failed to book lab test", "lab_test_id", labTestID, "patient_id", patientID)
		return BookedLabTest{}, fmt.Errorf("failed to book lab test: %w", err)
	}
	booked := bookingFromWire(row)
	s.bookings.upsert(booked)
	return booked, nil
}

// Cancel marks the booking cancelled locally before the server confirms.
func (s *LabStore) Cancel(ctx context.Context, id, patientID string) (BookedLabTest, error) {
	return s.transition(ctx, id, patientID, "cancel", nil, func(b *BookedLabTest) {
		b.Status = BookingCancelled
	})
}

// Complete attaches the report and marks the booking completed.
func (s *LabStore) Complete(ctx context.Context, id, reportURL, patientID string) (BookedLabTest, error) {
	body := map[string]string{"report_url": reportURL}
	return s.transition(ctx, id, patientID, "complete", body, func(b *BookedLabTest) {
		b.Status = BookingCompleted
		b.ReportURL = reportURL
	})
}

func (s *LabStore) transition(ctx context.Context, id, patientID, action string, body interface{}, fn func(*BookedLabTest)) (BookedLabTest, error) {
	prev, cached := s.bookings.mutate(id, fn)

	var row BookedLabTestWire
	if err := s.t.Patch(ctx, "/booked-lab-tests/"+escape(id)+"/"+action, body, &row); err != nil {
		if cached {
			s.bookings.upsert(prev)
			s.rolledBack(err, "lab booking "+action+" rolled back", "booking_id", id)
		} else {
			s.log.Error(err, "failed to "+action+" lab booking", "booking_id", id)
		}
		return BookedLabTest{}, fmt.Errorf("failed to %s lab booking %s: %w", action, id, err)
	}

	updated := bookingFromWire(row)
	if !cached {
		if err := s.Fetch(ctx, patientID); err != nil {
			s.log.Warn("lab booking updated but reload failed", "booking_id", id)
		}
		return updated, nil
	}
	s.bookings.upsert(updated)
	if updated.Status == BookingCompleted {
		mine := s.bookings.filter(func(b BookedLabTest) bool { return b.PatientID == patientID })
		if err := s.cacheReports(ctx, patientID, mine); err != nil {
			s.log.Warn("failed to cache lab reports", "patient_id", patientID, "error", err.Error())
		}
	}
	return updated, nil
}

func (s *LabStore) Items() []BookedLabTest { return s.bookings.all() }

func (s *LabStore) Get(id string) (BookedLabTest, bool) { return s.bookings.get(id) }

func (s *LabStore) Set(items []BookedLabTest) { s.bookings.replace(items) }

func (s *LabStore) Upsert(b BookedLabTest) { s.bookings.upsert(b) }

func (s *LabStore) Remove(id string) { s.bookings.remove(id) }

func (s *LabStore) Stats() LabStats {
	items := s.bookings.all()
	st := LabStats{Total: len(items)}
	for _, b := range items {
		switch b.Status {
		case BookingPending:
			st.Pending++
		case BookingCompleted:
			st.Completed++
		case BookingCancelled:
			st.Cancelled++
		}
	}
	return st
}
