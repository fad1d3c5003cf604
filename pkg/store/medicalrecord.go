package store

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type MedicalRecord struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	FileURL   string    `json:"fileUrl"`
	Notes     string    `json:"notes"`
}

type MedicalRecordWire struct {
	ID        string  `json:"id,omitempty"`
	PatientID string  `json:"patient_id"`
	Title     string  `json:"title"`
	Type      *string `json:"type"`
	Date      string  `json:"date"`
	FileURL   *string `json:"file_url"`
	Notes     *string `json:"notes"`
}

func medicalRecordFromWire(w MedicalRecordWire) MedicalRecord {
	return MedicalRecord{
		ID:        w.ID,
		PatientID: w.PatientID,
		Title:     w.Title,
		Type:      str(w.Type),
		Date:      parseDate(w.Date),
		FileURL:   str(w.FileURL),
		Notes:     str(w.Notes),
	}
}

func medicalRecordToWire(r MedicalRecord) MedicalRecordWire {
	return MedicalRecordWire{
		ID:        r.ID,
		PatientID: r.PatientID,
		Title:     r.Title,
		Type:      &r.Type,
		Date:      formatDate(r.Date),
		FileURL:   &r.FileURL,
		Notes:     &r.Notes,
	}
}

type MedicalRecordPatch struct {
	Title   *string
	Type    *string
	Date    *time.Time
	FileURL *string
	Notes   *string
}

func (p MedicalRecordPatch) apply(r *MedicalRecord) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.FileURL != nil {
		r.FileURL = *p.FileURL
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
}

func medicalRecordPatchToWire(p MedicalRecordPatch) map[string]interface{} {
	out := map[string]interface{}{}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Type != nil {
		out["type"] = *p.Type
	}
	if p.Date != nil {
		out["date"] = formatDate(*p.Date)
	}
	if p.FileURL != nil {
		out["file_url"] = *p.FileURL
	}
	if p.Notes != nil {
		out["notes"] = *p.Notes
	}
	return out
}

type MedicalRecordStore struct {
	base
	items *collection[MedicalRecord]
}

func NewMedicalRecordStore(t Transport, opts Options) *MedicalRecordStore {
	return &MedicalRecordStore{
		base:  newBase("medical_records", t, opts),
		items: newCollection(func(r MedicalRecord) string { return r.ID }),
	}
}

func (s *MedicalRecordStore) Fetch(ctx context.Context, patientID string) error {
	var rows []MedicalRecordWire
	if err := s.t.Get(ctx, "/medical-records", url.Values{"patientId": {patientID}}, &rows); err != nil {
		s.log.Error(err, "failed to fetch medical records", "patient_id", patientID)
		return fmt.Errorf("failed to fetch medical records: %w", err)
	}
	records := make([]MedicalRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, medicalRecordFromWire(r))
	}
	s.items.replace(records)
	return nil
}

func (s *MedicalRecordStore) Create(ctx context.Context, rec MedicalRecord) (MedicalRecord, error) {
	body := medicalRecordToWire(rec)
	body.ID = ""

	var row MedicalRecordWire
	if err := s.t.Post(ctx, "/medical-records", body, &row); err != nil {
		s.log.Error(err, "failed to create medical record", "patient_id", rec.PatientID)
		return MedicalRecord{}, fmt.Errorf("failed to create medical record: %w", err)
	}
	created := medicalRecordFromWire(row)
	s.items.upsert(created)
	return created, nil
}

func (s *MedicalRecordStore) UpdateBackend(ctx context.Context, id string, patch MedicalRecordPatch, ownerID string) (MedicalRecord, error) {
	prev, cached := s.items.mutate(id, patch.apply)

	var row MedicalRecordWire
	if err := s.t.Patch(ctx, "/medical-records/"+escape(id), medicalRecordPatchToWire(patch), &row); err != nil {
		if cached {
			s.items.upsert(prev)
			s.rolledBack(err, "medical record update rolled back", "record_id", id)
		} else {
			s.log.Error(err, "failed to update medical record", "record_id", id)
		}
		return MedicalRecord{}, fmt.Errorf("failed to update medical record %s: %w", id, err)
	}

	updated := medicalRecordFromWire(row)
	if !cached {
		if err := s.Fetch(ctx, ownerID); err != nil {
			s.log.Warn("medical record updated but reload failed", "record_id", id)
		}
		return updated, nil
	}
	s.items.upsert(updated)
	return updated, nil
}

// Delete removes the record locally and on the server, restoring it in
// place if the server refuses.
func (s *MedicalRecordStore) Delete(ctx context.Context, id string) error {
	prev, idx, cached := s.items.remove(id)

	if err := s.t.Delete(ctx, "/medical-records/"+escape(id)); err != nil {
		if cached {
			s.items.insertAt(prev, idx)
			s.rolledBack(err, "medical record delete rolled back", "record_id", id)
		} else {
			s.log.Error(err, "failed to delete medical record", "record_id", id)
		}
		return fmt.Errorf("failed to delete medical record %s: %w", id, err)
	}
	return nil
}

func (s *MedicalRecordStore) Items() []MedicalRecord { return s.items.all() }

func (s *MedicalRecordStore) Get(id string) (MedicalRecord, bool) { return s.items.get(id) }

func (s *MedicalRecordStore) Set(items []MedicalRecord) { s.items.replace(items) }

func (s *MedicalRecordStore) Upsert(r MedicalRecord) { s.items.upsert(r) }

func (s *MedicalRecordStore) Remove(id string) { s.items.remove(id) }

// ByType returns the cached records of one type, e.g. "prescription".
func (s *MedicalRecordStore) ByType(recordType string) []MedicalRecord {
	return s.items.filter(func(r MedicalRecord) bool { return r.Type == recordType })
}
