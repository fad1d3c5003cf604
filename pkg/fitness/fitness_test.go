package fitness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, 6, 10, 18, 30, 0, 0, time.UTC)

func TestIncrementClampsToTarget(t *testing.T) {
	goals := []Goal{{Type: GoalSteps, Current: 0, Target: 10000, Unit: "steps"}}

	out, err := Increment(goals, GoalSteps, 12000)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, out[0].Current)
	assert.Equal(t, 0.0, goals[0].Current, "input must not be mutated")
}

func TestIncrementNeverExceedsTarget(t *testing.T) {
	cases := []struct {
		current, amount, target, want float64
	}{
		{0, 500, 10000, 500},
		{9800, 500, 10000, 10000},
		{10000, 1, 10000, 10000},
		{3, -5, 8, 0},
		{5, 3, 8, 8},
	}
	for _, tc := range cases {
		out, err := Increment([]Goal{{Type: GoalWater, Current: tc.current, Target: tc.target}}, GoalWater, tc.amount)
		require.NoError(t, err)
		assert.Equal(t, tc.want, out[0].Current)
		assert.LessOrEqual(t, out[0].Current, tc.target)
	}
}

func TestIncrementUnknownGoal(t *testing.T) {
	_, err := Increment(DefaultGoals(Limit{}), GoalType("yoga"), 1)
	assert.ErrorIs(t, err, ErrUnknownGoal)
}

func TestAllComplete(t *testing.T) {
	assert.False(t, AllComplete(nil))
	assert.True(t, AllComplete([]Goal{{Current: 8, Target: 8}, {Current: 10, Target: 10}}))
	assert.False(t, AllComplete([]Goal{{Current: 8, Target: 8}, {Current: 9, Target: 10}}))
}

func TestGoalProgress(t *testing.T) {
	assert.Equal(t, 50, Goal{Current: 5000, Target: 10000}.Progress())
	assert.Equal(t, 33, Goal{Current: 1, Target: 3}.Progress())
	assert.Equal(t, 100, Goal{Current: 12, Target: 8}.Progress())
	assert.Equal(t, 0, Goal{Current: 1, Target: 0}.Progress())
}

func TestDefaultGoalsUseLimit(t *testing.T) {
	goals := DefaultGoals(Limit{Steps: 6000, Sleep: 7})

	byType := map[GoalType]Goal{}
	for _, g := range goals {
		byType[g.Type] = g
	}
	assert.Equal(t, 6000.0, byType[GoalSteps].Target)
	assert.Equal(t, 7.0, byType[GoalSleep].Target)
	assert.Equal(t, 8.0, byType[GoalWater].Target)
	assert.Equal(t, 30.0, byType[GoalExercise].Target)
}

func TestApplySingleGoalCompletesDay(t *testing.T) {
	s := State{
		Day:   DateKey(monday),
		Goals: []Goal{{Type: GoalSteps, Target: 10000, Unit: "steps"}},
	}

	require.NoError(t, s.Apply(GoalSteps, 12000, monday))

	assert.Equal(t, 10000.0, s.Goals[0].Current)
	require.Len(t, s.ActivityLog, WindowDays)
	last := s.ActivityLog[WindowDays-1]
	assert.Equal(t, "2024-06-10", last.Date)
	assert.True(t, last.Completed)
}

func TestApplyCompletesOnlyWhenAllGoalsReached(t *testing.T) {
	s := NewState(Limit{}, monday)

	require.NoError(t, s.Apply(GoalSteps, 10000, monday))
	require.NoError(t, s.Apply(GoalWater, 8, monday))
	require.NoError(t, s.Apply(GoalExercise, 30, monday))
	assert.False(t, s.ActivityLog[WindowDays-1].Completed)

	require.NoError(t, s.Apply(GoalSleep, 8, monday))
	assert.True(t, s.ActivityLog[WindowDays-1].Completed)
}

func TestApplyRollsOverToNewDay(t *testing.T) {
	s := NewState(Limit{}, monday)
	s.LogMeal(Meal{Calories: 600, Protein: 30}, monday)
	for _, g := range s.Goals {
		require.NoError(t, s.Apply(g.Type, g.Target, monday))
	}

	tuesday := monday.Add(24 * time.Hour)
	require.NoError(t, s.Apply(GoalWater, 1, tuesday))

	assert.Equal(t, "2024-06-11", s.Day)
	assert.Equal(t, 0.0, s.CaloriesConsumed)
	for _, g := range s.Goals {
		if g.Type == GoalWater {
			assert.Equal(t, 1.0, g.Current)
		} else {
			assert.Equal(t, 0.0, g.Current)
		}
	}
	assert.True(t, s.ActivityLog[WindowDays-2].Completed, "monday keeps its completion")
	assert.False(t, s.ActivityLog[WindowDays-1].Completed)
}

func TestWindowKeepsSevenDays(t *testing.T) {
	log := ActivityLog{
		{Date: "2024-06-01", Completed: true},
		{Date: "2024-06-05", Completed: true},
		{Date: "2024-06-09", Completed: true},
	}

	w := log.Window(monday)
	require.Len(t, w, WindowDays)
	assert.Equal(t, "2024-06-04", w[0].Date)
	assert.Equal(t, "2024-06-10", w[6].Date)
	assert.Equal(t, 2, w.CompletedDays())
	assert.Equal(t, 0, w.Streak())
}

func TestStreak(t *testing.T) {
	log := ActivityLog{}.
		Mark(monday.AddDate(0, 0, -2), true).
		Mark(monday.AddDate(0, 0, -1), true).
		Mark(monday, true)

	assert.Equal(t, 3, log.Streak())
}

func TestMergeLeavesNilFieldsUntouched(t *testing.T) {
	s := NewState(Limit{}, monday)
	s.CaloriesBurned = 200

	consumed := 1500.0
	s.Merge(Updates{CaloriesConsumed: &consumed})

	assert.Equal(t, 1500.0, s.CaloriesConsumed)
	assert.Equal(t, 200.0, s.CaloriesBurned)
	assert.Len(t, s.Goals, 4)
}

func TestUpdatesFromRoundTrip(t *testing.T) {
	src := NewState(Limit{Steps: 5000}, monday)
	require.NoError(t, src.Apply(GoalSteps, 2500, monday))
	src.LogBurn(320, monday)

	var dst State
	dst.Merge(UpdatesFrom(src))
	assert.Equal(t, src, dst)
}

func TestClamp(t *testing.T) {
	goals := []Goal{
		{Type: GoalSteps, Current: 12000, Target: 10000},
		{Type: GoalWater, Current: -2, Target: 8},
		{Type: GoalSleep, Current: 5, Target: 8},
	}

	out := Clamp(goals)
	assert.Equal(t, 10000.0, out[0].Current)
	assert.Equal(t, 0.0, out[1].Current)
	assert.Equal(t, 5.0, out[2].Current)
	assert.Equal(t, 12000.0, goals[0].Current, "input must not be mutated")
}

func TestSettleMarksToday(t *testing.T) {
	s := State{Day: DateKey(monday), Goals: []Goal{{Type: GoalSteps, Current: 12000, Target: 10000}}}

	s.Settle(monday)
	assert.Equal(t, 10000.0, s.Goals[0].Current)
	require.Len(t, s.ActivityLog, WindowDays)
	assert.Equal(t, Day{Date: "2024-06-10", Completed: true}, s.ActivityLog[WindowDays-1])
}

func TestSettleLeavesOtherDaysLog(t *testing.T) {
	s := State{Day: "2024-06-09", Goals: []Goal{{Type: GoalSteps, Current: 10000, Target: 10000}}}

	s.Settle(monday)
	assert.Empty(t, s.ActivityLog)
}
