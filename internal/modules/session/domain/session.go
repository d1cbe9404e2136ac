package domain

import (
	"fmt"
	"time"
)

const SchemaVersion = 1

type Kind string

const (
	KindChapter Kind = "chapter"
	KindEssay   Kind = "essay"
)

func (k Kind) Validate() error {
	switch k {
	case KindChapter, KindEssay:
		return nil
	default:
		return fmt.Errorf("unsupported session type: %s", k)
	}
}

// StudySession is the single "what was I doing" record.
type StudySession struct {
	SessionID  string    `json:"id"`
	Kind       Kind      `json:"type"`
	SubjectID  string    `json:"subjectId"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Progress   float64   `json:"progress"`
	StartTime  time.Time `json:"startTime"`
	LastActive time.Time `json:"lastActive"`
}

// ActiveAt reports whether the session is still live: strictly less than
// idle has passed since the last activity.
func (s StudySession) ActiveAt(now time.Time, idle time.Duration) bool {
	if s.SessionID == "" {
		return false
	}
	return now.Sub(s.LastActive) < idle
}

// Minutes is the whole minutes between start and last activity.
func (s StudySession) Minutes() int {
	d := s.LastActive.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

// Closed is a finished session as written to the journal.
type Closed struct {
	Session StudySession
	EndedAt time.Time
	Reason  string
}
