package domain

import "time"

type ChapterStat struct {
	Overall           int
	Sections          int
	CompletedSections int
	Complete          bool
	// Practice counts the sections whose id names a practice set.
	Practice          int
	PracticeCompleted int
}

type TestPrep struct {
	ID     string
	Title  string
	Covers []string
}

type SessionStat struct {
	Active    bool
	SessionID string
	Kind      string
	SubjectID string
	Minutes   int
	Progress  float64
}

type Activity struct {
	Session     SessionStat
	Streak      int
	WeekKey     string
	WeeklyCount int
	Essays      []string
}

// Snapshot is everything a rule may look at during one evaluation pass.
type Snapshot struct {
	Now          time.Time
	Chapters     map[string]ChapterStat
	ChapterOrder []string
	Tests        []TestPrep
	Activity     Activity
}

// Curriculum is the catalog chapter order, falling back to the ledger's
// chapters when the catalog names none.
func (s Snapshot) Curriculum() []string {
	if len(s.ChapterOrder) > 0 {
		return s.ChapterOrder
	}
	out := make([]string, 0, len(s.Chapters))
	for id := range s.Chapters {
		out = append(out, id)
	}
	return out
}
