package domain

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryTest       Category = "test"
	CategoryAssignment Category = "assignment"
	CategoryDiscussion Category = "discussion"
	CategoryDeadline   Category = "deadline"
	CategoryRecurring  Category = "recurring"
)

func (c Category) Validate() error {
	switch c {
	case CategoryTest, CategoryAssignment, CategoryDiscussion, CategoryDeadline, CategoryRecurring:
		return nil
	default:
		return fmt.Errorf("unsupported category: %s", c)
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Validate() error {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	default:
		return fmt.Errorf("unsupported priority: %s", p)
	}
}

type Recurrence string

const (
	RecurrenceNone   Recurrence = ""
	RecurrenceWeekly Recurrence = "weekly"
)

type Course struct {
	ID       string
	Name     string
	Start    time.Time
	End      time.Time
	Color    string
	Chapters []string
}

type Assignment struct {
	ID          string
	CourseID    string
	Title       string
	Due         time.Time
	End         time.Time
	Category    Category
	Priority    Priority
	Recurrence  Recurrence
	Description string
	URL         string
	Covers      []string
}

func (a Assignment) HasEnd() bool {
	return !a.End.IsZero()
}

func (a Assignment) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("assignment id is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("assignment %s: title is required", a.ID)
	}
	if a.Due.IsZero() {
		return fmt.Errorf("assignment %s: due date is required", a.ID)
	}
	if a.HasEnd() && a.End.Before(a.Due) {
		return fmt.Errorf("assignment %s: end date precedes due date", a.ID)
	}
	if err := a.Category.Validate(); err != nil {
		return fmt.Errorf("assignment %s: %w", a.ID, err)
	}
	if err := a.Priority.Validate(); err != nil {
		return fmt.Errorf("assignment %s: %w", a.ID, err)
	}
	switch a.Recurrence {
	case RecurrenceNone, RecurrenceWeekly:
	default:
		return fmt.Errorf("assignment %s: unsupported recurrence %q", a.ID, a.Recurrence)
	}
	return nil
}

// Pending reports whether the assignment still counts as upcoming: due in the
// future, or spanning a window that has not closed yet.
func (a Assignment) Pending(now time.Time) bool {
	return a.Due.After(now) || (a.HasEnd() && a.End.After(now))
}

// Occurrences expands the assignment into due instants inside [from, to].
// Weekly assignments repeat every seven calendar days from their first due
// date and never before it.
func (a Assignment) Occurrences(from, to time.Time) []time.Time {
	if to.Before(from) {
		return nil
	}
	if a.Recurrence != RecurrenceWeekly {
		if !a.Due.Before(from) && !a.Due.After(to) {
			return []time.Time{a.Due}
		}
		return nil
	}
	var out []time.Time
	for week := 0; ; week++ {
		at := a.Due.AddDate(0, 0, 7*week)
		if at.After(to) {
			break
		}
		if !at.Before(from) {
			out = append(out, at)
		}
	}
	return out
}

type Catalog struct {
	Courses     []Course
	Assignments []Assignment
}

func (c Catalog) Validate() error {
	seen := map[string]bool{}
	for _, a := range c.Assignments {
		if err := a.Validate(); err != nil {
			return err
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate assignment id: %s", a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}

// ChapterOrder lists chapter ids in course order, first occurrence wins.
func (c Catalog) ChapterOrder() []string {
	seen := map[string]bool{}
	var out []string
	for _, course := range c.Courses {
		for _, ch := range course.Chapters {
			if seen[ch] {
				continue
			}
			seen[ch] = true
			out = append(out, ch)
		}
	}
	return out
}

func (c Catalog) Course(id string) (Course, bool) {
	for _, course := range c.Courses {
		if course.ID == id {
			return course, true
		}
	}
	return Course{}, false
}

// Next rolls a weekly assignment forward to its first due instant that is
// still pending at now. Rolling stops at until when until is set; other
// assignments are returned unchanged.
func (a Assignment) Next(now, until time.Time) Assignment {
	if a.Recurrence != RecurrenceWeekly || a.Pending(now) {
		return a
	}
	span := time.Duration(0)
	if a.HasEnd() {
		span = a.End.Sub(a.Due)
	}
	next := a
	for week := 1; ; week++ {
		next.Due = a.Due.AddDate(0, 0, 7*week)
		if !until.IsZero() && next.Due.After(until) {
			return a
		}
		if a.HasEnd() {
			next.End = next.Due.Add(span)
		}
		if next.Pending(now) {
			return next
		}
	}
}

// Final is the last weekly occurrence due on or before until. Non-weekly
// assignments and a zero until return the assignment unchanged.
func (a Assignment) Final(until time.Time) Assignment {
	if a.Recurrence != RecurrenceWeekly || until.IsZero() {
		return a
	}
	dates := a.Occurrences(a.Due, until)
	if len(dates) == 0 {
		return a
	}
	last := a
	last.Due = dates[len(dates)-1]
	if a.HasEnd() {
		last.End = last.Due.Add(a.End.Sub(a.Due))
	}
	return last
}
