package store

import (
	"context"
	"fmt"
	"time"
)

type JournalEntry struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	Date      time.Time `json:"date"`
	Flagged   bool      `json:"flagged"`
}

type JournalEntryWire struct {
	ID        string  `json:"id,omitempty"`
	PatientID string  `json:"patient_id"`
	Title     *string `json:"title"`
	Content   string  `json:"content"`
	Mood      *string `json:"mood"`
	Date      string  `json:"date"`
	Flagged   *bool   `json:"flagged"`
}

func journalEntryFromWire(w JournalEntryWire) JournalEntry {
	e := JournalEntry{
		ID:        w.ID,
		PatientID: w.PatientID,
		Title:     str(w.Title),
		Content:   w.Content,
		Mood:      str(w.Mood),
		Date:      parseDate(w.Date),
	}
	if w.Flagged != nil {
		e.Flagged = *w.Flagged
	}
	return e
}

func journalEntryToWire(e JournalEntry) JournalEntryWire {
	return JournalEntryWire{
		ID:        e.ID,
		PatientID: e.PatientID,
		Title:     &e.Title,
		Content:   e.Content,
		Mood:      &e.Mood,
		Date:      formatTimestamp(e.Date),
		Flagged:   &e.Flagged,
	}
}

// JournalStore caches a patient's journal. Entries are append-only apart
// from the flag a clinician can raise.
type JournalStore struct {
	base
	items *collection[JournalEntry]
}

func NewJournalStore(t Transport, opts Options) *JournalStore {
	return &JournalStore{
		base:  newBase("journal", t, opts),
		items: newCollection(func(e JournalEntry) string { return e.ID }),
	}
}

func (s *JournalStore) Fetch(ctx context.Context, patientID string) error {
	var rows []JournalEntryWire
	if err := s.t.Get(ctx, "/patient-journal/entries/"+escape(patientID), nil, &rows); err != nil {
		s.log.Error(err, "failed to fetch journal entries", "patient_id", patientID)
		return fmt.Errorf("failed to fetch journal entries: %w", err)
	}
	entries := make([]JournalEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, journalEntryFromWire(r))
	}
	s.items.replace(entries)
	return nil
}

func (s *JournalStore) Add(ctx context.Context, entry JournalEntry) (JournalEntry, error) {
	if entry.Date.IsZero() {
		entry.Date = s.now()
	}
	body := journalEntryToWire(entry)
	body.ID = ""

	var row JournalEntryWire
	if err := s.t.Post(ctx, "/patient-journal/entries", body, &row); err != nil {
		s.log.Error(err, "failed to add journal entry", "patient_id", entry.PatientID)
		return JournalEntry{}, fmt.Errorf("failed to add journal entry: %w", err)
	}
	created := journalEntryFromWire(row)
	s.items.upsert(created)
	return created, nil
}

// Flag sets the entry's flag optimistically.
func (s *JournalStore) Flag(ctx context.Context, id string, flagged bool, patientID string) (JournalEntry, error) {
	prev, cached := s.items.mutate(id, func(e *JournalEntry) { e.Flagged = flagged })

	var row JournalEntryWire
	body := map[string]bool{"flagged": flagged}
	if err := s.t.Put(ctx, "/patient-journal/entries/"+escape(id)+"/flag", body, &row); err != nil {
		if cached {
			s.items.upsert(prev)
			s.rolledBack(err, "journal flag rolled back", "entry_id", id)
		} else {
			s.log.Error(err, "failed to flag journal entry", "entry_id", id)
		}
		return JournalEntry{}, fmt.Errorf("failed to flag journal entry %s: %w", id, err)
	}

	updated := journalEntryFromWire(row)
	if !cached {
		if err := s.Fetch(ctx, patientID); err != nil {
			s.log.Warn("journal entry flagged but reload failed", "entry_id", id)
		}
		return updated, nil
	}
	s.items.upsert(updated)
	return updated, nil
}

func (s *JournalStore) Items() []JournalEntry { return s.items.all() }

func (s *JournalStore) Get(id string) (JournalEntry, bool) { return s.items.get(id) }

func (s *JournalStore) Set(items []JournalEntry) { s.items.replace(items) }

func (s *JournalStore) Upsert(e JournalEntry) { s.items.upsert(e) }

func (s *JournalStore) Remove(id string) { s.items.remove(id) }

func (s *JournalStore) Flagged() []JournalEntry {
	return s.items.filter(func(e JournalEntry) bool { return e.Flagged })
}
