package dto

import "time"

type AssignmentOutput struct {
	ID          string
	CourseID    string
	CourseName  string
	Color       string
	Title       string
	Due         time.Time
	End         time.Time
	Category    string
	Priority    string
	Recurrence  string
	Description string
	URL         string
	Covers      []string
	Days        int
	Tier        string
	TierLabel   string
	DaysText    string
}

type ClassifyInput struct {
	Due time.Time
	// FortyEightHour selects the urgent-view windows instead of the deadline ones.
	FortyEightHour bool
}

type ClassifyOutput struct {
	Due      time.Time
	Days     int
	Tier     string
	Label    string
	DaysText string
}

type OccurrencesInput struct {
	AssignmentID string
	From         time.Time
	To           time.Time
}

type OccurrencesOutput struct {
	AssignmentID string
	Title        string
	Dates        []time.Time
}

type CourseOutput struct {
	ID       string
	Name     string
	Color    string
	Start    time.Time
	End      time.Time
	Chapters []string
}
