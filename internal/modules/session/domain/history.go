package domain

import (
	"fmt"
	"time"
)

type HistoryEntry struct {
	SessionID string    `json:"sessionId"`
	Date      string    `json:"date"`
	Kind      Kind      `json:"type"`
	SubjectID string    `json:"subjectId"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"startedAt"`
	Minutes   int       `json:"minutes"`
}

// History is ordered oldest first.
type History []HistoryEntry

const dateLayout = "2006-01-02"

func NewHistoryEntry(s StudySession, loc *time.Location) HistoryEntry {
	return HistoryEntry{
		SessionID: s.SessionID,
		Date:      s.StartTime.In(loc).Format(dateLayout),
		Kind:      s.Kind,
		SubjectID: s.SubjectID,
		Title:     s.Title,
		StartedAt: s.StartTime,
	}
}

// Append adds e and drops the oldest entries beyond limit.
func (h History) Append(e HistoryEntry, limit int) History {
	out := append(append(History(nil), h...), e)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// SetMinutes records the duration of a session already in history.
func (h History) SetMinutes(sessionID string, minutes int) bool {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].SessionID == sessionID {
			h[i].Minutes = minutes
			return true
		}
	}
	return false
}

// Days lists the distinct dates in the history.
func (h History) Days() StudyDays {
	var d StudyDays
	for _, e := range h {
		d = d.Mark(e.Date)
	}
	return d
}

// WeekKey names the ISO week containing t, e.g. "2026-W10".
func WeekKey(t time.Time, loc *time.Location) string {
	year, week := t.In(loc).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeeklyCount counts sessions started in the ISO week containing now.
func (h History) WeeklyCount(now time.Time, loc *time.Location) int {
	key := WeekKey(now, loc)
	n := 0
	for _, e := range h {
		if WeekKey(e.StartedAt, loc) == key {
			n++
		}
	}
	return n
}

// Subjects lists distinct subject ids of the given kind, oldest first.
func (h History) Subjects(kind Kind) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range h {
		if e.Kind != kind || seen[e.SubjectID] {
			continue
		}
		seen[e.SubjectID] = true
		out = append(out, e.SubjectID)
	}
	return out
}
