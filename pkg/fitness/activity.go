package fitness

import "time"

// WindowDays is the length of the rolling activity log.
const WindowDays = 7

const dateLayout = "2006-01-02"

// DateKey is the calendar date of t in the log's format.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

type Day struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// ActivityLog is ordered oldest first.
type ActivityLog []Day

// Window returns exactly WindowDays entries ending at today. Days missing from
// the log are not completed; days outside the window are dropped.
func (l ActivityLog) Window(today time.Time) ActivityLog {
	known := make(map[string]bool, len(l))
	for _, d := range l {
		known[d.Date] = d.Completed
	}

	out := make(ActivityLog, 0, WindowDays)
	for i := WindowDays - 1; i >= 0; i-- {
		key := DateKey(today.AddDate(0, 0, -i))
		out = append(out, Day{Date: key, Completed: known[key]})
	}
	return out
}

// Mark records the completion flag for day and re-windows around it.
func (l ActivityLog) Mark(day time.Time, completed bool) ActivityLog {
	key := DateKey(day)
	out := make(ActivityLog, 0, len(l)+1)
	found := false
	for _, d := range l {
		if d.Date == key {
			d.Completed = completed
			found = true
		}
		out = append(out, d)
	}
	if !found {
		out = append(out, Day{Date: key, Completed: completed})
	}
	return out.Window(day)
}

// CompletedDays counts completed entries.
func (l ActivityLog) CompletedDays() int {
	n := 0
	for _, d := range l {
		if d.Completed {
			n++
		}
	}
	return n
}

// Streak counts consecutive completed days at the end of the log.
func (l ActivityLog) Streak() int {
	n := 0
	for i := len(l) - 1; i >= 0 && l[i].Completed; i-- {
		n++
	}
	return n
}
