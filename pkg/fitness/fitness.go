// Package fitness holds the daily goal arithmetic shared by the fitness store
// and the fitness API: clamped increments, the 7-day activity window and
// partial state merges.
package fitness

import (
	"errors"
	"fmt"
	"math"
)

type GoalType string

const (
	GoalSteps    GoalType = "steps"
	GoalWater    GoalType = "water"
	GoalExercise GoalType = "exercise"
	GoalSleep    GoalType = "sleep"
	GoalCalories GoalType = "calories"
)

var ErrUnknownGoal = errors.New("unknown goal")

type Goal struct {
	Type    GoalType `json:"type"`
	Current float64  `json:"current"`
	Target  float64  `json:"target"`
	Unit    string   `json:"unit"`
}

func (g Goal) Complete() bool {
	return g.Current >= g.Target
}

// Progress is the rounded completion percentage, capped at 100.
func (g Goal) Progress() int {
	if g.Target <= 0 {
		return 0
	}
	return int(math.Round(math.Min(g.Current/g.Target, 1) * 100))
}

// Limit is the per-patient goal target set kept on the profile.
type Limit struct {
	Steps    float64 `json:"steps"`
	Water    float64 `json:"water"`
	Calories float64 `json:"calories"`
	Sleep    float64 `json:"sleep"`
	Exercise float64 `json:"exercise"`
}

// DefaultGoals builds zeroed goals, taking targets from limit where set.
func DefaultGoals(limit Limit) []Goal {
	pick := func(v, fallback float64) float64 {
		if v > 0 {
			return v
		}
		return fallback
	}
	return []Goal{
		{Type: GoalSteps, Target: pick(limit.Steps, 10000), Unit: "steps"},
		{Type: GoalWater, Target: pick(limit.Water, 8), Unit: "glasses"},
		{Type: GoalExercise, Target: pick(limit.Exercise, 30), Unit: "minutes"},
		{Type: GoalSleep, Target: pick(limit.Sleep, 8), Unit: "hours"},
	}
}

// Increment returns a copy of goals with amount added to the goal of type t.
// The result is clamped to [0, target].
func Increment(goals []Goal, t GoalType, amount float64) ([]Goal, error) {
	out := make([]Goal, len(goals))
	copy(out, goals)

	for i := range out {
		if out[i].Type != t {
			continue
		}
		next := out[i].Current + amount
		if next > out[i].Target {
			next = out[i].Target
		}
		if next < 0 {
			next = 0
		}
		out[i].Current = next
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownGoal, t)
}

// Clamp returns a copy of goals with every current value held to
// [0, target].
func Clamp(goals []Goal) []Goal {
	out := make([]Goal, len(goals))
	for i, g := range goals {
		g.Current = math.Max(0, math.Min(g.Current, g.Target))
		out[i] = g
	}
	return out
}

// AllComplete reports whether every goal reached its target. No goals means
// nothing was achieved.
func AllComplete(goals []Goal) bool {
	if len(goals) == 0 {
		return false
	}
	for _, g := range goals {
		if !g.Complete() {
			return false
		}
	}
	return true
}
