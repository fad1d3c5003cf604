package store

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/jwalitptl/care-sync/pkg/fitness"
)

type fitnessUpdate struct {
	UserID  string          `json:"userId"`
	Updates fitness.Updates `json:"updates"`
}

// GoalSummary is a goal with its derived completion percentage.
type GoalSummary struct {
	fitness.Goal
	Progress int `json:"progress"`
}

type FitnessSummary struct {
	Goals         []GoalSummary `json:"goals"`
	DayCompleted  bool          `json:"dayCompleted"`
	CompletedDays int           `json:"completedDays"`
	Streak        int           `json:"streak"`
	NetCalories   float64       `json:"netCalories"`
}

// FitnessStore holds a single user's daily fitness state.
type FitnessStore struct {
	base

	mu    sync.RWMutex
	state fitness.State
	limit fitness.Limit
}

func NewFitnessStore(t Transport, opts Options) *FitnessStore {
	s := &FitnessStore{base: newBase("fitness", t, opts)}
	s.state = fitness.NewState(fitness.Limit{}, s.now())
	return s
}

// Fetch replaces the local state with the server's copy for userID.
func (s *FitnessStore) Fetch(ctx context.Context, userID string) error {
	var st fitness.State
	if err := s.t.Get(ctx, "/fitness", url.Values{"userId": {userID}}, &st); err != nil {
		s.log.Error(err, "failed to fetch fitness state", "user_id", userID)
		return fmt.Errorf("failed to fetch fitness state: %w", err)
	}
	s.Set(st)
	return nil
}

// Set replaces the local state. A state without goals gets the defaults for
// the current limit and a stale day is rolled over.
func (s *FitnessStore) Set(st fitness.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(st.Goals) == 0 {
		st.Goals = fitness.DefaultGoals(s.limit)
	}
	if st.Day == "" {
		st.Day = fitness.DateKey(s.now())
	}
	st.Rollover(s.now())
	st.ActivityLog = st.ActivityLog.Window(s.now())
	s.state = st
}

func (s *FitnessStore) State() fitness.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ApplyLimit retargets the goals to the profile's limit. Current values are
// clamped to the new targets.
func (s *FitnessStore) ApplyLimit(limit fitness.Limit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit

	targets := map[fitness.GoalType]float64{}
	for _, g := range fitness.DefaultGoals(limit) {
		targets[g.Type] = g.Target
	}
	goals := append([]fitness.Goal(nil), s.state.Goals...)
	for i := range goals {
		if t, ok := targets[goals[i].Type]; ok {
			goals[i].Target = t
			if goals[i].Current > t {
				goals[i].Current = t
			}
		}
	}
	s.state.Goals = goals
}

// Increment bumps one goal, clamped to its target, and syncs the new state.
func (s *FitnessStore) Increment(ctx context.Context, userID string, goal fitness.GoalType, amount float64) (fitness.State, error) {
	return s.mutate(ctx, userID, func(st *fitness.State) error {
		return st.Apply(goal, amount, s.now())
	})
}

func (s *FitnessStore) LogMeal(ctx context.Context, userID string, meal fitness.Meal) (fitness.State, error) {
	return s.mutate(ctx, userID, func(st *fitness.State) error {
		st.LogMeal(meal, s.now())
		return nil
	})
}

func (s *FitnessStore) LogBurn(ctx context.Context, userID string, calories float64) (fitness.State, error) {
	return s.mutate(ctx, userID, func(st *fitness.State) error {
		st.LogBurn(calories, s.now())
		return nil
	})
}

// UpdateBackend merges a partial update locally and sends it.
func (s *FitnessStore) UpdateBackend(ctx context.Context, userID string, updates fitness.Updates) (fitness.State, error) {
	return s.mutate(ctx, userID, func(st *fitness.State) error {
		st.Merge(updates)
		return nil
	})
}

func (s *FitnessStore) mutate(ctx context.Context, userID string, fn func(*fitness.State) error) (fitness.State, error) {
	s.mu.Lock()
	prev := s.state.Clone()
	next := s.state.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return prev, err
	}
	s.state = next
	s.mu.Unlock()

	var synced fitness.State
	body := fitnessUpdate{UserID: userID, Updates: fitness.UpdatesFrom(next)}
	if err := s.t.Post(ctx, "/fitness", body, &synced); err != nil {
		s.mu.Lock()
		s.state = prev
		s.mu.Unlock()
		s.rolledBack(err, "fitness update rolled back", "user_id", userID)
		return prev, fmt.Errorf("failed to update fitness state: %w", err)
	}

	s.Set(synced)
	return s.State(), nil
}

func (s *FitnessStore) Summary() FitnessSummary {
	st := s.State()
	out := FitnessSummary{
		DayCompleted:  fitness.AllComplete(st.Goals),
		CompletedDays: st.ActivityLog.CompletedDays(),
		Streak:        st.ActivityLog.Streak(),
		NetCalories:   st.NetCalories(),
	}
	for _, g := range st.Goals {
		out.Goals = append(out.Goals, GoalSummary{Goal: g, Progress: g.Progress()})
	}
	return out
}
