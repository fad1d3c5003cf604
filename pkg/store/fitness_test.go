package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/fitness"
)

// echoFitness answers POST /fitness with the state that was sent.
func echoFitness(c call) (interface{}, error) {
	raw, err := json.Marshal(c.Body["updates"])
	if err != nil {
		return nil, err
	}
	var u fitness.Updates
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	var st fitness.State
	st.Merge(u)
	return st, nil
}

func goal(st fitness.State, t fitness.GoalType) fitness.Goal {
	for _, g := range st.Goals {
		if g.Type == t {
			return g
		}
	}
	return fitness.Goal{}
}

func TestFitnessIncrementClampsAndSyncs(t *testing.T) {
	ft := &fakeTransport{respond: echoFitness}
	opts, _ := testOptions(t)
	s := NewFitnessStore(ft, opts)
	s.Set(fitness.State{
		Day:   fitness.DateKey(testNow),
		Goals: []fitness.Goal{{Type: fitness.GoalSteps, Target: 10000, Unit: "steps"}},
	})

	st, err := s.Increment(context.Background(), "p1", fitness.GoalSteps, 12000)
	require.NoError(t, err)

	assert.Equal(t, 10000.0, goal(st, fitness.GoalSteps).Current)
	assert.True(t, st.ActivityLog[fitness.WindowDays-1].Completed)

	last := ft.LastCall()
	assert.Equal(t, "POST", last.Method)
	assert.Equal(t, "/fitness", last.Path)
	assert.Equal(t, "p1", last.Body["userId"])
	assert.Contains(t, last.Body, "updates")
}

func TestFitnessIncrementRollsBack(t *testing.T) {
	ft := &fakeTransport{respond: func(c call) (interface{}, error) {
		return nil, errors.Unavailable(assert.AnError)
	}}
	opts, m := testOptions(t)
	s := NewFitnessStore(ft, opts)
	before := s.State()

	_, err := s.Increment(context.Background(), "p1", fitness.GoalWater, 2)
	require.Error(t, err)

	assert.Equal(t, before, s.State())
	assert.Equal(t, 1.0, rollbacks(m, "fitness"))
}

func TestFitnessUnknownGoalSendsNothing(t *testing.T) {
	ft := &fakeTransport{respond: echoFitness}
	opts, _ := testOptions(t)
	s := NewFitnessStore(ft, opts)

	_, err := s.Increment(context.Background(), "p1", fitness.GoalType("yoga"), 1)
	assert.ErrorIs(t, err, fitness.ErrUnknownGoal)
	assert.Empty(t, ft.Calls())
}

func TestFitnessFetchFillsDefaults(t *testing.T) {
	ft := &fakeTransport{respond: func(c call) (interface{}, error) {
		return `{"caloriesConsumed":900}`, nil
	}}
	opts, _ := testOptions(t)
	s := NewFitnessStore(ft, opts)

	require.NoError(t, s.Fetch(context.Background(), "p1"))
	assert.Equal(t, "p1", ft.LastCall().Query.Get("userId"))

	st := s.State()
	assert.Len(t, st.Goals, 4)
	assert.Len(t, st.ActivityLog, fitness.WindowDays)
	assert.Equal(t, fitness.DateKey(testNow), st.Day)
}

func TestFitnessApplyLimitRetargets(t *testing.T) {
	opts, _ := testOptions(t)
	s := NewFitnessStore(&fakeTransport{}, opts)
	s.Set(fitness.State{
		Day:   fitness.DateKey(testNow),
		Goals: []fitness.Goal{{Type: fitness.GoalSteps, Current: 9000, Target: 10000}},
	})

	s.ApplyLimit(fitness.Limit{Steps: 6000})

	g := goal(s.State(), fitness.GoalSteps)
	assert.Equal(t, 6000.0, g.Target)
	assert.Equal(t, 6000.0, g.Current)
}

func TestFitnessMealsAndSummary(t *testing.T) {
	ft := &fakeTransport{respond: echoFitness}
	opts, _ := testOptions(t)
	s := NewFitnessStore(ft, opts)

	_, err := s.LogMeal(context.Background(), "p1", fitness.Meal{Calories: 700, Protein: 40})
	require.NoError(t, err)
	_, err = s.LogBurn(context.Background(), "p1", 200)
	require.NoError(t, err)

	sum := s.Summary()
	assert.Equal(t, 500.0, sum.NetCalories)
	assert.False(t, sum.DayCompleted)
	assert.Len(t, sum.Goals, 4)
	assert.Equal(t, 40.0, s.State().Protein)
}
