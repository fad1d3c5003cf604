package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/pkg/security"
)

const journalSelect = `
	SELECT id, patient_id, title, content, mood, entry_date AS date, flagged, created_at
	FROM journal_entries
`

func (r *journalRepository) Create(ctx context.Context, entry *model.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (
			id, patient_id, title, content, mood, entry_date, flagged, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	sealed, err := security.SealString(r.enc, entry.Content)
	if err != nil {
		return fmt.Errorf("failed to encrypt journal entry: %w", err)
	}

	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	if entry.Date.IsZero() {
		entry.Date = entry.CreatedAt
	}

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.PatientID,
		entry.Title,
		sealed,
		entry.Mood,
		entry.Date,
		entry.Flagged,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}
	return nil
}

func (r *journalRepository) Get(ctx context.Context, id uuid.UUID) (*model.JournalEntry, error) {
	var entry model.JournalEntry
	if err := r.db.GetContext(ctx, &entry, journalSelect+" WHERE id = $1", id); err != nil {
		return nil, getErr(err, "journal entry")
	}
	if err := r.open(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) SetFlagged(ctx context.Context, id uuid.UUID, flagged bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE journal_entries SET flagged = $1 WHERE id = $2`, flagged, id)
	if err != nil {
		return fmt.Errorf("failed to flag journal entry: %w", err)
	}
	return affected(result, "journal entry")
}

func (r *journalRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.JournalEntry, error) {
	entries := []*model.JournalEntry{}
	query := journalSelect + " WHERE patient_id = $1 ORDER BY entry_date DESC"
	if err := r.db.SelectContext(ctx, &entries, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	for _, entry := range entries {
		if err := r.open(entry); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (r *journalRepository) open(entry *model.JournalEntry) error {
	content, err := security.OpenString(r.enc, entry.Content)
	if err != nil {
		return fmt.Errorf("failed to decrypt journal entry %s: %w", entry.ID, err)
	}
	entry.Content = content
	return nil
}
