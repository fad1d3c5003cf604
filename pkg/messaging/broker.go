package messaging

import (
	"context"
	"time"
)

// ChangesChannel carries ChangeEvents from the worker to subscribed clients.
const ChangesChannel = "care-sync.changes"

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// ChangeEvent announces that a server-owned entity changed.
type ChangeEvent struct {
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id"`
	OwnerIDs   []string  `json:"owner_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Entity names used in ChangeEvent.Entity.
const (
	EntityAppointment   = "appointment"
	EntityDietPlan      = "diet_plan"
	EntityFitness       = "fitness"
	EntityLabTest       = "lab_test"
	EntityLabBooking    = "booked_lab_test"
	EntityJournalEntry  = "journal_entry"
	EntityMedicalRecord = "medical_record"
	EntityWorkout       = "workout_session"
	EntityProfile       = "profile"
)
