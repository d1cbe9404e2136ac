package dto

import "time"

type TouchInput struct {
	Kind      string
	SubjectID string
	Title     string
	URL       string
	Progress  float64
}

type SessionOutput struct {
	SessionID  string
	Kind       string
	SubjectID  string
	Title      string
	URL        string
	Progress   float64
	StartTime  time.Time
	LastActive time.Time
	Minutes    int
	Started    bool
}

type HistoryEntryOutput struct {
	SessionID string
	Date      string
	Kind      string
	SubjectID string
	Title     string
	StartedAt time.Time
	Minutes   int
}

type ActivityOutput struct {
	Active        bool
	Current       SessionOutput
	Streak        int
	WeekKey       string
	WeeklyCount   int
	Essays        []string
	TotalSessions int
}
