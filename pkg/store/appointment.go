package store

import (
	"context"
	"fmt"
	"net/url"
)

type AppointmentStatus string

const (
	AppointmentUpcoming  AppointmentStatus = "upcoming"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type AppointmentType string

const (
	AppointmentConsultation AppointmentType = "consultation"
	AppointmentFollowUp     AppointmentType = "follow-up"
	AppointmentEmergency    AppointmentType = "emergency"
)

type AppointmentMode string

const (
	AppointmentPhysical AppointmentMode = "physical"
	AppointmentOnline   AppointmentMode = "online"
)

// PartyRef is the partial profile embedded in an appointment.
type PartyRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Appointment travels in camelCase on the wire, so it needs no mapper.
type Appointment struct {
	ID         string            `json:"id"`
	Patient    PartyRef          `json:"patient"`
	Doctor     PartyRef          `json:"doctor"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Status     AppointmentStatus `json:"status"`
	Type       AppointmentType   `json:"type"`
	Mode       AppointmentMode   `json:"mode"`
	Notes      string            `json:"notes"`
	Report     string            `json:"report"`
	DataShared bool              `json:"dataShared"`
}

type AppointmentPatch struct {
	Status     *AppointmentStatus `json:"status,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
	Report     *string            `json:"report,omitempty"`
	DataShared *bool              `json:"dataShared,omitempty"`
}

func (p AppointmentPatch) apply(a *Appointment) {
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.Report != nil {
		a.Report = *p.Report
	}
	if p.DataShared != nil {
		a.DataShared = *p.DataShared
	}
}

// AppointmentDraft is the body of a booking request.
type AppointmentDraft struct {
	PatientID string          `json:"patientId"`
	DoctorID  string          `json:"doctorId"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Type      AppointmentType `json:"type"`
	Mode      AppointmentMode `json:"mode"`
	Notes     string          `json:"notes,omitempty"`
}

type appointmentList struct {
	Items []Appointment `json:"items"`
}

type AppointmentStats struct {
	Total          int `json:"total"`
	Upcoming       int `json:"upcoming"`
	Completed      int `json:"completed"`
	Cancelled      int `json:"cancelled"`
	CompletionRate int `json:"completionRate"`
}

// AppointmentStore caches the appointments of one doctor or one patient.
type AppointmentStore struct {
	base
	items    *collection[Appointment]
	ownerKey string
}

// NewAppointmentStore filters by doctorId when role is RoleDoctor and by
// patientId otherwise.
func NewAppointmentStore(t Transport, role Role, opts Options) *AppointmentStore {
	key := "patientId"
	if role == RoleDoctor {
		key = "doctorId"
	}
	return &AppointmentStore{
		base:     newBase("appointments", t, opts),
		items:    newCollection(func(a Appointment) string { return a.ID }),
		ownerKey: key,
	}
}

// Fetch replaces the collection with every appointment of ownerID.
func (s *AppointmentStore) Fetch(ctx context.Context, ownerID string) error {
	return s.FetchByStatus(ctx, ownerID, "")
}

// FetchByStatus replaces the collection with the owner's appointments in
// status; an empty status fetches all of them.
func (s *AppointmentStore) FetchByStatus(ctx context.Context, ownerID string, status AppointmentStatus) error {
	q := url.Values{s.ownerKey: {ownerID}}
	if status != "" {
		q.Set("status", string(status))
	}

	var list appointmentList
	if err := s.t.Get(ctx, "/appointments", q, &list); err != nil {
		s.log.Error(err, "failed to fetch appointments", "owner_id", ownerID)
		return fmt.Errorf("failed to fetch appointments: %w", err)
	}
	s.items.replace(list.Items)
	return nil
}

// Create books an appointment and appends the server's copy.
func (s *AppointmentStore) Create(ctx context.Context, draft AppointmentDraft) (Appointment, error) {
	var created Appointment
	if err := s.t.Post(ctx, "/appointments", draft, &created); err != nil {
		s.log.Error(err, "failed to create appointment", "doctor_id", draft.DoctorID)
		return Appointment{}, fmt.Errorf("failed to create appointment: %w", err)
	}
	s.items.upsert(created)
	return created, nil
}

// UpdateBackend applies patch locally, sends it, and keeps the server's
// response. A failed call restores the previous value.
func (s *AppointmentStore) UpdateBackend(ctx context.Context, id string, patch AppointmentPatch, ownerID string) (Appointment, error) {
	prev, cached := s.items.mutate(id, patch.apply)

	var updated Appointment
	if err := s.t.Patch(ctx, "/appointments/"+escape(id), patch, &updated); err != nil {
		if cached {
			s.items.upsert(prev)
			s.rolledBack(err, "appointment update rolled back", "appointment_id", id)
		} else {
			s.log.Error(err, "failed to update appointment", "appointment_id", id)
		}
		return Appointment{}, fmt.Errorf("failed to update appointment %s: %w", id, err)
	}

	if !cached {
		if err := s.Fetch(ctx, ownerID); err != nil {
			s.log.Warn("appointment updated but reload failed", "appointment_id", id)
		}
		return updated, nil
	}
	s.items.upsert(updated)
	return updated, nil
}

func (s *AppointmentStore) Cancel(ctx context.Context, id, ownerID string) (Appointment, error) {
	status := AppointmentCancelled
	return s.UpdateBackend(ctx, id, AppointmentPatch{Status: &status}, ownerID)
}

// Complete closes the appointment with the doctor's report.
func (s *AppointmentStore) Complete(ctx context.Context, id, report, ownerID string) (Appointment, error) {
	status := AppointmentCompleted
	return s.UpdateBackend(ctx, id, AppointmentPatch{Status: &status, Report: &report}, ownerID)
}

func (s *AppointmentStore) Items() []Appointment { return s.items.all() }

func (s *AppointmentStore) Get(id string) (Appointment, bool) { return s.items.get(id) }

func (s *AppointmentStore) Set(items []Appointment) { s.items.replace(items) }

func (s *AppointmentStore) Upsert(a Appointment) { s.items.upsert(a) }

func (s *AppointmentStore) Remove(id string) { s.items.remove(id) }

func (s *AppointmentStore) ByStatus(status AppointmentStatus) []Appointment {
	return s.items.filter(func(a Appointment) bool { return a.Status == status })
}

func (s *AppointmentStore) Stats() AppointmentStats {
	items := s.items.all()
	st := AppointmentStats{Total: len(items)}
	for _, a := range items {
		switch a.Status {
		case AppointmentUpcoming:
			st.Upcoming++
		case AppointmentCompleted:
			st.Completed++
		case AppointmentCancelled:
			st.Cancelled++
		}
	}
	st.CompletionRate = percent(st.Completed, st.Total)
	return st
}
