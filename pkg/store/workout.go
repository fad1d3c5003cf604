package store

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type WorkoutSession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"durationMinutes"`
	CaloriesBurned  float64   `json:"caloriesBurned"`
	Date            time.Time `json:"date"`
	Completed       bool      `json:"completed"`
}

type WorkoutSessionWire struct {
	ID              string   `json:"id,omitempty"`
	UserID          string   `json:"user_id"`
	Title           string   `json:"title"`
	Type            *string  `json:"type"`
	DurationMinutes *int     `json:"duration_minutes"`
	CaloriesBurned  *float64 `json:"calories_burned"`
	Date            string   `json:"date"`
	Completed       *bool    `json:"completed"`
}

func workoutFromWire(w WorkoutSessionWire) WorkoutSession {
	s := WorkoutSession{
		ID:             w.ID,
		UserID:         w.UserID,
		Title:          w.Title,
		Type:           str(w.Type),
		CaloriesBurned: num(w.CaloriesBurned),
		Date:           parseDate(w.Date),
	}
	if w.DurationMinutes != nil {
		s.DurationMinutes = *w.DurationMinutes
	}
	if w.Completed != nil {
		s.Completed = *w.Completed
	}
	return s
}

func workoutToWire(s WorkoutSession) WorkoutSessionWire {
	return WorkoutSessionWire{
		ID:              s.ID,
		UserID:          s.UserID,
		Title:           s.Title,
		Type:            &s.Type,
		DurationMinutes: &s.DurationMinutes,
		CaloriesBurned:  &s.CaloriesBurned,
		Date:            formatDate(s.Date),
		Completed:       &s.Completed,
	}
}

type WorkoutPatch struct {
	Title           *string
	Type            *string
	DurationMinutes *int
	CaloriesBurned  *float64
	Date            *time.Time
	Completed       *bool
}

func (p WorkoutPatch) apply(s *WorkoutSession) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.DurationMinutes != nil {
		s.DurationMinutes = *p.DurationMinutes
	}
	if p.CaloriesBurned != nil {
		s.CaloriesBurned = *p.CaloriesBurned
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
}

func workoutPatchToWire(p WorkoutPatch) map[string]interface{} {
	out := map[string]interface{}{}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Type != nil {
		out["type"] = *p.Type
	}
	if p.DurationMinutes != nil {
		out["duration_minutes"] = *p.DurationMinutes
	}
	if p.CaloriesBurned != nil {
		out["calories_burned"] = *p.CaloriesBurned
	}
	if p.Date != nil {
		out["date"] = formatDate(*p.Date)
	}
	if p.Completed != nil {
		out["completed"] = *p.Completed
	}
	return out
}

type WorkoutTotals struct {
	Sessions       int     `json:"sessions"`
	Completed      int     `json:"completed"`
	Minutes        int     `json:"minutes"`
	CaloriesBurned float64 `json:"caloriesBurned"`
}

type WorkoutStore struct {
	base
	items *collection[WorkoutSession]
}

func NewWorkoutStore(t Transport, opts Options) *WorkoutStore {
	return &WorkoutStore{
		base:  newBase("workouts", t, opts),
		items: newCollection(func(w WorkoutSession) string { return w.ID }),
	}
}

func (s *WorkoutStore) Fetch(ctx context.Context, userID string) error {
	var rows []WorkoutSessionWire
	if err := s.t.Get(ctx, "/workout-sessions", url.Values{"userId": {userID}}, &rows); err != nil {
		s.log.Error(err, "failed to fetch workout sessions", "user_id", userID)
		return fmt.Errorf("failed to fetch workout sessions: %w", err)
	}
	sessions := make([]WorkoutSession, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, workoutFromWire(r))
	}
	s.items.replace(sessions)
	return nil
}

func (s *WorkoutStore) Create(ctx context.Context, session WorkoutSession) (WorkoutSession, error) {
	body := workoutToWire(session)
	body.ID = ""

	var row WorkoutSessionWire
	if err := s.t.Post(ctx, "/workout-sessions", body, &row); err != nil {
		s.log.Error(err, "failed to create workout session", "user_id", session.UserID)
		return WorkoutSession{}, fmt.Errorf("failed to create workout session: %w", err)
	}
	created := workoutFromWire(row)
	s.items.upsert(created)
	return created, nil
}

func (s *WorkoutStore) UpdateBackend(ctx context.Context, id string, patch WorkoutPatch, ownerID string) (WorkoutSession, error) {
	prev, cached := s.items.mutate(id, patch.apply)

	var row WorkoutSessionWire
	if err := s.t.Patch(ctx, "/workout-sessions/"+escape(id), workoutPatchToWire(patch), &row); err != nil {
		if cached {
			s.items.upsert(prev)
			s.rolledBack(err, "workout update rolled back", "workout_id", id)
		} else {
			s.log.Error(err, "failed to update workout session", "workout_id", id)
		}
		return WorkoutSession{}, fmt.Errorf("failed to update workout session %s: %w", id, err)
	}

	updated := workoutFromWire(row)
	if !cached {
		if err := s.Fetch(ctx, ownerID); err != nil {
			s.log.Warn("workout updated but reload failed", "workout_id", id)
		}
		return updated, nil
	}
	s.items.upsert(updated)
	return updated, nil
}

func (s *WorkoutStore) Delete(ctx context.Context, id string) error {
	prev, idx, cached := s.items.remove(id)

	if err := s.t.Delete(ctx, "/workout-sessions/"+escape(id)); err != nil {
		if cached {
			s.items.insertAt(prev, idx)
			s.rolledBack(err, "workout delete rolled back", "workout_id", id)
		}
		return fmt.Errorf("failed to delete workout session %s: %w", id, err)
	}
	return nil
}

func (s *WorkoutStore) Items() []WorkoutSession { return s.items.all() }

func (s *WorkoutStore) Get(id string) (WorkoutSession, bool) { return s.items.get(id) }

func (s *WorkoutStore) Set(items []WorkoutSession) { s.items.replace(items) }

func (s *WorkoutStore) Upsert(w WorkoutSession) { s.items.upsert(w) }

func (s *WorkoutStore) Remove(id string) { s.items.remove(id) }

// Totals sums the sessions dated on or after since. A zero since covers
// everything.
func (s *WorkoutStore) Totals(since time.Time) WorkoutTotals {
	var t WorkoutTotals
	for _, w := range s.items.all() {
		if !since.IsZero() && w.Date.Before(since) {
			continue
		}
		t.Sessions++
		if w.Completed {
			t.Completed++
			t.Minutes += w.DurationMinutes
			t.CaloriesBurned += w.CaloriesBurned
		}
	}
	return t
}
