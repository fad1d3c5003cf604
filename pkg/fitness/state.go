package fitness

import "time"

type State struct {
	// Day is the date the goal counters and daily totals belong to.
	Day              string      `json:"day"`
	Goals            []Goal      `json:"goals"`
	ActivityLog      ActivityLog `json:"activityLog"`
	CaloriesConsumed float64     `json:"caloriesConsumed"`
	CaloriesBurned   float64     `json:"caloriesBurned"`
	Protein          float64     `json:"protein"`
	Carbs            float64     `json:"carbs"`
	Fat              float64     `json:"fat"`
}

// NewState returns a fresh state for today with default goals.
func NewState(limit Limit, now time.Time) State {
	return State{
		Day:         DateKey(now),
		Goals:       DefaultGoals(limit),
		ActivityLog: ActivityLog{}.Window(now),
	}
}

func (s State) Clone() State {
	out := s
	out.Goals = append([]Goal(nil), s.Goals...)
	out.ActivityLog = append(ActivityLog(nil), s.ActivityLog...)
	return out
}

// Rollover zeroes the daily counters when now falls on a later day than
// s.Day. Targets and the activity log are kept.
func (s *State) Rollover(now time.Time) {
	today := DateKey(now)
	if s.Day == today {
		return
	}
	s.Day = today
	for i := range s.Goals {
		s.Goals[i].Current = 0
	}
	s.CaloriesConsumed = 0
	s.CaloriesBurned = 0
	s.Protein = 0
	s.Carbs = 0
	s.Fat = 0
	s.ActivityLog = s.ActivityLog.Window(now)
}

// Apply increments goal t and marks today completed iff every goal is at
// target after the increment.
func (s *State) Apply(t GoalType, amount float64, now time.Time) error {
	s.Rollover(now)

	goals, err := Increment(s.Goals, t, amount)
	if err != nil {
		return err
	}
	s.Goals = goals
	s.ActivityLog = s.ActivityLog.Mark(now, AllComplete(goals))
	return nil
}

// Settle clamps the goals after an external write and, when the state
// belongs to today, marks today completed iff every goal is at target.
func (s *State) Settle(now time.Time) {
	s.Goals = Clamp(s.Goals)
	if s.Day == DateKey(now) {
		s.ActivityLog = s.ActivityLog.Mark(now, AllComplete(s.Goals))
	}
}

type Meal struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (s *State) LogMeal(m Meal, now time.Time) {
	s.Rollover(now)
	s.CaloriesConsumed += m.Calories
	s.Protein += m.Protein
	s.Carbs += m.Carbs
	s.Fat += m.Fat
}

func (s *State) LogBurn(calories float64, now time.Time) {
	s.Rollover(now)
	s.CaloriesBurned += calories
}

// NetCalories is consumed minus burned.
func (s State) NetCalories() float64 {
	return s.CaloriesConsumed - s.CaloriesBurned
}

// Updates is a partial state; nil fields are left untouched by Merge.
type Updates struct {
	Day              *string     `json:"day,omitempty"`
	Goals            []Goal      `json:"goals,omitempty"`
	ActivityLog      ActivityLog `json:"activityLog,omitempty"`
	CaloriesConsumed *float64    `json:"caloriesConsumed,omitempty"`
	CaloriesBurned   *float64    `json:"caloriesBurned,omitempty"`
	Protein          *float64    `json:"protein,omitempty"`
	Carbs            *float64    `json:"carbs,omitempty"`
	Fat              *float64    `json:"fat,omitempty"`
}

// UpdatesFrom captures every field of s.
func UpdatesFrom(s State) Updates {
	day := s.Day
	consumed, burned := s.CaloriesConsumed, s.CaloriesBurned
	protein, carbs, fat := s.Protein, s.Carbs, s.Fat
	return Updates{
		Day:              &day,
		Goals:            s.Goals,
		ActivityLog:      s.ActivityLog,
		CaloriesConsumed: &consumed,
		CaloriesBurned:   &burned,
		Protein:          &protein,
		Carbs:            &carbs,
		Fat:              &fat,
	}
}

func (s *State) Merge(u Updates) {
	if u.Day != nil {
		s.Day = *u.Day
	}
	if u.Goals != nil {
		s.Goals = append([]Goal(nil), u.Goals...)
	}
	if u.ActivityLog != nil {
		s.ActivityLog = append(ActivityLog(nil), u.ActivityLog...)
	}
	if u.CaloriesConsumed != nil {
		s.CaloriesConsumed = *u.CaloriesConsumed
	}
	if u.CaloriesBurned != nil {
		s.CaloriesBurned = *u.CaloriesBurned
	}
	if u.Protein != nil {
		s.Protein = *u.Protein
	}
	if u.Carbs != nil {
		s.Carbs = *u.Carbs
	}
	if u.Fat != nil {
		s.Fat = *u.Fat
	}
}
