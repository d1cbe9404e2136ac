package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"studydesk/internal/modules/deadline/domain"
	"studydesk/internal/modules/deadline/dto"
	deadlinein "studydesk/internal/modules/deadline/port/in"
	"studydesk/internal/modules/deadline/service"
	"studydesk/internal/modules/deadline/usecase"
	"studydesk/internal/platform/clock"
	apperrors "studydesk/internal/platform/errors"
)

type staticCatalog struct {
	catalog domain.Catalog
	err     error
}

func (s staticCatalog) Load(context.Context) (domain.Catalog, error) {
	return s.catalog, s.err
}

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func assignment(id string, due time.Time) domain.Assignment {
	return domain.Assignment{
		ID:       id,
		CourseID: "bio101",
		Title:    id,
		Due:      due,
		Category: domain.CategoryAssignment,
		Priority: domain.PriorityMedium,
	}
}

func newInteractor(catalog domain.Catalog) deadlinein.Usecase {
	svc := service.NewRegistryService(clock.Fixed{At: now}, staticCatalog{catalog: catalog}, time.UTC, domain.DeadlineWindows, domain.FortyEightHourWindows)
	return usecase.NewInteractor(svc)
}

func TestUpcomingTodayAndFifteenDaysOut(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	uc := newInteractor(domain.Catalog{
		Courses: []domain.Course{{ID: "bio101", Name: "Biology", Color: "#fff"}},
		Assignments: []domain.Assignment{
			assignment("later", today.AddDate(0, 0, 15)),
			assignment("today", today),
		},
	})

	all, err := uc.Upcoming(context.Background(), 0)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 upcoming, got %d", len(all))
	}
	if all[0].ID != "today" || all[0].Tier != string(domain.TierCritical) || all[0].DaysText != "Today!" {
		t.Fatalf("unexpected first entry: %+v", all[0])
	}
	if all[1].Tier != string(domain.TierFuture) {
		t.Fatalf("15 days out must be future, got %s", all[1].Tier)
	}
	if all[0].CourseName != "Biology" {
		t.Fatalf("course name must be joined, got %q", all[0].CourseName)
	}

	top, err := uc.Upcoming(context.Background(), 1)
	if err != nil {
		t.Fatalf("upcoming limit: %v", err)
	}
	if len(top) != 1 || top[0].ID != "today" {
		t.Fatalf("expected only today's assignment, got %+v", top)
	}
}

func TestUpcomingKeepsOpenWindowsAndTieOrder(t *testing.T) {
	t.Parallel()
	due := now.Add(48 * time.Hour)
	window := assignment("window", now.Add(-24*time.Hour))
	window.End = now.Add(24 * time.Hour)
	uc := newInteractor(domain.Catalog{Assignments: []domain.Assignment{
		assignment("b", due),
		assignment("a", due),
		window,
		assignment("past", now.Add(-time.Hour)),
	}})

	got, err := uc.Upcoming(context.Background(), 0)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	ids := []string{}
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	if len(ids) != 3 || ids[0] != "window" || ids[1] != "b" || ids[2] != "a" {
		t.Fatalf("unexpected order: %v", ids)
	}

	overdue, err := uc.Overdue(context.Background())
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	// due an hour ago is the same calendar day, yet the overdue list labels it past due
	if len(overdue) != 1 || overdue[0].ID != "past" || overdue[0].Tier != string(domain.TierOverdue) || overdue[0].DaysText != "Past due" {
		t.Fatalf("unexpected overdue: %+v", overdue)
	}
	if overdue[0].TierLabel != domain.TierOverdue.Label() {
		t.Fatalf("unexpected tier label: %q", overdue[0].TierLabel)
	}
}

func TestWeeklyAssignmentBecomesOverdueAfterCourseEnds(t *testing.T) {
	t.Parallel()
	weekly := assignment("journal", time.Date(2026, 2, 2, 23, 59, 0, 0, time.UTC))
	weekly.Recurrence = domain.RecurrenceWeekly

	running := newInteractor(domain.Catalog{
		Courses:     []domain.Course{{ID: "bio101", End: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)}},
		Assignments: []domain.Assignment{weekly},
	})
	overdue, err := running.Overdue(context.Background())
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(overdue) != 0 {
		t.Fatalf("weekly assignment must not be overdue while the course runs, got %+v", overdue)
	}

	ended := newInteractor(domain.Catalog{
		Courses:     []domain.Course{{ID: "bio101", End: time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)}},
		Assignments: []domain.Assignment{weekly},
	})
	upcoming, err := ended.Upcoming(context.Background(), 0)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 0 {
		t.Fatalf("expected nothing upcoming after the course ended, got %+v", upcoming)
	}
	overdue, err = ended.Overdue(context.Background())
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	want := time.Date(2026, 2, 23, 23, 59, 0, 0, time.UTC)
	if len(overdue) != 1 || !overdue[0].Due.Equal(want) || overdue[0].Tier != string(domain.TierOverdue) {
		t.Fatalf("expected the final occurrence %s overdue, got %+v", want, overdue)
	}
}

func TestUrgentUsesFortyEightHourWindow(t *testing.T) {
	t.Parallel()
	uc := newInteractor(domain.Catalog{Assignments: []domain.Assignment{
		assignment("two", now.AddDate(0, 0, 2)),
		assignment("three", now.AddDate(0, 0, 3)),
	}})
	got, err := uc.Urgent(context.Background())
	if err != nil {
		t.Fatalf("urgent: %v", err)
	}
	if len(got) != 1 || got[0].ID != "two" {
		t.Fatalf("expected only the two-day assignment, got %+v", got)
	}
	// the deadline list still calls day three critical
	three, err := uc.Classify(context.Background(), dto.ClassifyInput{Due: now.AddDate(0, 0, 3)})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if three.Tier != string(domain.TierCritical) {
		t.Fatalf("expected critical, got %s", three.Tier)
	}
	urgentThree, err := uc.Classify(context.Background(), dto.ClassifyInput{Due: now.AddDate(0, 0, 3), FortyEightHour: true})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if urgentThree.Tier != string(domain.TierSoon) {
		t.Fatalf("expected soon under the urgent windows, got %s", urgentThree.Tier)
	}
}

func TestRemindersOnlyNagAboutNearHighPriorityWork(t *testing.T) {
	t.Parallel()
	essay := assignment("essay", now.AddDate(0, 0, 2))
	essay.Priority = domain.PriorityHigh
	far := assignment("far", now.AddDate(0, 0, 20))
	far.Priority = domain.PriorityHigh
	uc := newInteractor(domain.Catalog{Assignments: []domain.Assignment{
		essay,
		far,
		assignment("reading", now.AddDate(0, 0, 1)),
	}})
	got, err := uc.Reminders(context.Background())
	if err != nil {
		t.Fatalf("reminders: %v", err)
	}
	if len(got) != 1 || got[0].ID != "essay" {
		t.Fatalf("expected only the near high-priority essay, got %+v", got)
	}
	if got[0].DaysText != "2 DAYS LEFT!" || got[0].Tier != string(domain.TierCritical) {
		t.Fatalf("unexpected reminder countdown: %+v", got[0])
	}
}

func TestForDateAndWeeklyOccurrences(t *testing.T) {
	t.Parallel()
	weekly := assignment("discussion", time.Date(2026, 2, 20, 23, 59, 0, 0, time.UTC))
	weekly.Recurrence = domain.RecurrenceWeekly
	uc := newInteractor(domain.Catalog{
		Courses:     []domain.Course{{ID: "bio101", End: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)}},
		Assignments: []domain.Assignment{weekly, assignment("quiz", time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC))},
	})

	onDay, err := uc.ForDate(context.Background(), time.Date(2026, 3, 6, 15, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("for date: %v", err)
	}
	if len(onDay) != 2 || onDay[0].ID != "quiz" || onDay[1].ID != "discussion" {
		t.Fatalf("unexpected assignments for date: %+v", onDay)
	}

	occ, err := uc.Occurrences(context.Background(), dto.OccurrencesInput{
		AssignmentID: "discussion",
		From:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:           time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("occurrences: %v", err)
	}
	if len(occ.Dates) != 2 {
		t.Fatalf("expected occurrences capped at course end, got %v", occ.Dates)
	}

	upcoming, err := uc.Upcoming(context.Background(), 0)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 2 || upcoming[1].ID != "discussion" || upcoming[1].Due.Day() != 6 {
		t.Fatalf("weekly assignment must roll to its next occurrence, got %+v", upcoming)
	}

	if _, err := uc.Occurrences(context.Background(), dto.OccurrencesInput{AssignmentID: "nope"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTestsAndChapterOrder(t *testing.T) {
	t.Parallel()
	exam := assignment("midterm", now.AddDate(0, 0, 10))
	exam.Category = domain.CategoryTest
	exam.Covers = []string{"1", "2"}
	uc := newInteractor(domain.Catalog{
		Courses:     []domain.Course{{ID: "bio101", Chapters: []string{"1", "2", "3"}}},
		Assignments: []domain.Assignment{exam, assignment("essay", now.AddDate(0, 0, 3))},
	})
	tests, err := uc.Tests(context.Background())
	if err != nil {
		t.Fatalf("tests: %v", err)
	}
	if len(tests) != 1 || len(tests[0].Covers) != 2 {
		t.Fatalf("unexpected tests: %+v", tests)
	}
	order, err := uc.ChapterOrder(context.Background())
	if err != nil {
		t.Fatalf("chapter order: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("unexpected chapter order: %v", order)
	}
}

func TestInvalidCatalogSurfacesInvalidInput(t *testing.T) {
	t.Parallel()
	bad := assignment("bad", now)
	bad.End = now.Add(-time.Hour)
	uc := newInteractor(domain.Catalog{Assignments: []domain.Assignment{bad}})
	if _, err := uc.Upcoming(context.Background(), 3); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
