package dto

import "time"

type UpdateSectionInput struct {
	ChapterID string
	SectionID string
	Percent   float64
}

type SectionOutput struct {
	ChapterID       string
	SectionID       string
	PercentComplete float64
	Completed       bool
	LastAccessed    time.Time
}

type ChapterOutput struct {
	ChapterID       string
	OverallProgress int
	Complete        bool
	LastAccessed    time.Time
	Sections        []SectionOutput
}

type ResumeOutput struct {
	ChapterID       string
	SectionID       string
	OverallProgress int
	LastAccessed    time.Time
}
