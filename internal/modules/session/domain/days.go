package domain

import (
	"sort"
	"time"
)

// MaxStudyDays bounds the stored day set to a little over a year.
const MaxStudyDays = 400

// StudyDays holds the local dates (YYYY-MM-DD) on which a session started,
// ascending and without duplicates. It is kept apart from History so busy days
// cannot push older dates out of the streak.
type StudyDays []string

// Mark adds date, keeping the set sorted and bounded.
func (d StudyDays) Mark(date string) StudyDays {
	if date == "" {
		return d
	}
	i := sort.SearchStrings(d, date)
	if i < len(d) && d[i] == date {
		return d
	}
	out := make(StudyDays, 0, len(d)+1)
	out = append(out, d[:i]...)
	out = append(out, date)
	out = append(out, d[i:]...)
	if len(out) > MaxStudyDays {
		out = out[len(out)-MaxStudyDays:]
	}
	return out
}

// Merge returns the union of both sets.
func (d StudyDays) Merge(other StudyDays) StudyDays {
	out := append(StudyDays(nil), d...)
	for _, date := range other {
		out = out.Mark(date)
	}
	return out
}

// Streak counts consecutive study days ending today. A streak whose last day
// was yesterday is still alive.
func (d StudyDays) Streak(now time.Time, loc *time.Location) int {
	days := make(map[string]bool, len(d))
	for _, date := range d {
		days[date] = true
	}
	y, m, dd := now.In(loc).Date()
	day := time.Date(y, m, dd, 12, 0, 0, 0, loc)
	if !days[day.Format(dateLayout)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day.Format(dateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
