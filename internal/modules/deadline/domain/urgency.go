package domain

import (
	"fmt"
	"time"
)

type Tier string

const (
	TierOverdue  Tier = "overdue"
	TierCritical Tier = "critical"
	TierSoon     Tier = "soon"
	TierUpcoming Tier = "upcoming"
	TierFuture   Tier = "future"
)

func (t Tier) Label() string {
	switch t {
	case TierOverdue:
		return "Overdue"
	case TierCritical:
		return "Critical"
	case TierSoon:
		return "Due soon"
	case TierUpcoming:
		return "Upcoming"
	default:
		return "Later"
	}
}

// Windows are inclusive upper day bounds for the critical, soon and upcoming
// tiers. Anything past Upcoming is future; anything below zero is overdue.
type Windows struct {
	Critical int
	Soon     int
	Upcoming int
}

var (
	DeadlineWindows       = Windows{Critical: 3, Soon: 7, Upcoming: 14}
	FortyEightHourWindows = Windows{Critical: 2, Soon: 7, Upcoming: 14}
)

func (w Windows) Validate() error {
	if w.Critical < 0 || w.Critical >= w.Soon || w.Soon >= w.Upcoming {
		return fmt.Errorf("windows must satisfy 0 <= critical < soon < upcoming, got %d/%d/%d", w.Critical, w.Soon, w.Upcoming)
	}
	return nil
}

func (w Windows) Tier(days int) Tier {
	switch {
	case days < 0:
		return TierOverdue
	case days <= w.Critical:
		return TierCritical
	case days <= w.Soon:
		return TierSoon
	case days <= w.Upcoming:
		return TierUpcoming
	default:
		return TierFuture
	}
}

// DaysUntil counts calendar days from now to due in loc. Both instants are
// reduced to their civil date first, so DST shifts never produce a
// fractional day.
func DaysUntil(now, due time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	return int(civil(due, loc).Sub(civil(now, loc)).Hours() / 24)
}

func Classify(now, due time.Time, w Windows, loc *time.Location) Tier {
	return w.Tier(DaysUntil(now, due, loc))
}

func civil(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	return civil(a, loc).Equal(civil(b, loc))
}

func DaysUntilText(days int) string {
	switch {
	case days < 0:
		return "Past due"
	case days == 0:
		return "Today!"
	case days == 1:
		return "Tomorrow"
	case days <= 14:
		return fmt.Sprintf("%d days", days)
	}
	weeks := (days + 6) / 7
	return fmt.Sprintf("%d weeks", weeks)
}

// ReminderDays is how far ahead a high-priority assignment starts nagging.
const ReminderDays = 14

// ReminderText is the louder countdown used on reminder banners.
func ReminderText(days int) string {
	switch {
	case days < 0:
		return "OVERDUE!"
	case days == 0:
		return "DUE TODAY!"
	case days == 1:
		return "DUE TOMORROW!"
	case days <= 3:
		return fmt.Sprintf("%d DAYS LEFT!", days)
	}
	return fmt.Sprintf("%d days left", days)
}
