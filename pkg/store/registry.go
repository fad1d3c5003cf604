package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/messaging"
)

type Role string

const (
	RolePatient       Role = "patient"
	RoleDoctor        Role = "doctor"
	RoleNutritionist  Role = "nutritionist"
	RoleLabTechnician Role = "lab_technician"
	RolePharmacist    Role = "pharmacist"
	RoleAdmin         Role = "admin"
)

// Subscriber is the receiving half of messaging.Broker.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// Registry bundles one store per entity family over a shared transport.
// The stores do not know about each other.
type Registry struct {
	Role Role

	Appointments   *AppointmentStore
	DietPlans      *DietPlanStore
	Fitness        *FitnessStore
	Labs           *LabStore
	MedicalRecords *MedicalRecordStore
	Journal        *JournalStore
	Profile        *ProfileStore
	Workouts       *WorkoutStore

	log *logger.Logger
}

func NewRegistry(t Transport, role Role, opts Options) *Registry {
	opts = opts.withDefaults()
	return &Registry{
		Role:           role,
		Appointments:   NewAppointmentStore(t, role, opts),
		DietPlans:      NewDietPlanStore(t, opts),
		Fitness:        NewFitnessStore(t, opts),
		Labs:           NewLabStore(t, opts),
		MedicalRecords: NewMedicalRecordStore(t, opts),
		Journal:        NewJournalStore(t, opts),
		Profile:        NewProfileStore(t, opts),
		Workouts:       NewWorkoutStore(t, opts),
		log:            opts.Logger.WithFields(map[string]interface{}{"component": "registry"}),
	}
}

// Load fetches the profile first so the fitness goals pick up its limit,
// then every store relevant to the role. Failures are independent: each
// store keeps its previous contents and the first error is returned.
func (r *Registry) Load(ctx context.Context, ownerID string) error {
	var first error
	note := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	if err := r.Profile.Fetch(ctx, ownerID); err != nil {
		note(err)
	} else if p, ok := r.Profile.Profile(); ok {
		r.Fitness.ApplyLimit(p.Limit)
	}

	for _, entity := range r.entities() {
		note(r.Refresh(ctx, entity, ownerID))
	}
	return first
}

func (r *Registry) entities() []string {
	switch r.Role {
	case RoleDoctor:
		return []string{messaging.EntityAppointment}
	case RoleNutritionist:
		return []string{messaging.EntityDietPlan}
	case RoleLabTechnician:
		return []string{messaging.EntityLabTest}
	case RolePatient:
		return []string{
			messaging.EntityAppointment,
			messaging.EntityDietPlan,
			messaging.EntityFitness,
			messaging.EntityLabBooking,
			messaging.EntityJournalEntry,
			messaging.EntityMedicalRecord,
			messaging.EntityWorkout,
		}
	}
	return nil
}

// Refresh re-fetches the store holding entity for ownerID.
func (r *Registry) Refresh(ctx context.Context, entity, ownerID string) error {
	switch entity {
	case messaging.EntityAppointment:
		return r.Appointments.Fetch(ctx, ownerID)
	case messaging.EntityDietPlan:
		if r.Role == RoleNutritionist {
			return r.DietPlans.Fetch(ctx, ownerID)
		}
		return r.DietPlans.FetchForPatient(ctx, ownerID)
	case messaging.EntityFitness:
		return r.Fitness.Fetch(ctx, ownerID)
	case messaging.EntityLabTest:
		return r.Labs.FetchCatalog(ctx, "")
	case messaging.EntityLabBooking:
		// Bookings are listed per patient; lab technicians call Labs.Fetch
		// with the patient they are serving.
		if r.Role == RoleLabTechnician {
			return nil
		}
		return r.Labs.Fetch(ctx, ownerID)
	case messaging.EntityJournalEntry:
		return r.Journal.Fetch(ctx, ownerID)
	case messaging.EntityMedicalRecord:
		return r.MedicalRecords.Fetch(ctx, ownerID)
	case messaging.EntityWorkout:
		return r.Workouts.Fetch(ctx, ownerID)
	case messaging.EntityProfile:
		if err := r.Profile.Fetch(ctx, ownerID); err != nil {
			return err
		}
		if p, ok := r.Profile.Profile(); ok {
			r.Fitness.ApplyLimit(p.Limit)
		}
		return nil
	}
	return fmt.Errorf("unknown entity %q", entity)
}

// Watch consumes change events until ctx is done, re-fetching the affected
// store whenever an event names ownerID.
func (r *Registry) Watch(ctx context.Context, sub Subscriber, ownerID string) error {
	ch, err := sub.Subscribe(ctx, messaging.ChangesChannel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-ch:
			if !ok {
				return nil
			}
			var ev messaging.ChangeEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				r.log.Warn("dropping malformed change event", "error", err.Error())
				continue
			}
			if !concerns(ev, ownerID) {
				continue
			}
			if err := r.Refresh(ctx, ev.Entity, ownerID); err != nil {
				r.log.Error(err, "failed to refresh store", "entity", ev.Entity, "entity_id", ev.EntityID)
			}
		}
	}
}

func concerns(ev messaging.ChangeEvent, ownerID string) bool {
	for _, id := range ev.OwnerIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}
