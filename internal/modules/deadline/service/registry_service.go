package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"studydesk/internal/modules/deadline/domain"
	deadlineout "studydesk/internal/modules/deadline/port/out"
	"studydesk/internal/platform/clock"
	apperrors "studydesk/internal/platform/errors"
)

type RegistryService struct {
	clock   clock.Clock
	catalog deadlineout.CatalogSource
	loc     *time.Location
	windows domain.Windows
	urgent  domain.Windows
}

func NewRegistryService(clock clock.Clock, catalog deadlineout.CatalogSource, loc *time.Location, windows, urgent domain.Windows) *RegistryService {
	if loc == nil {
		loc = time.UTC
	}
	return &RegistryService{clock: clock, catalog: catalog, loc: loc, windows: windows, urgent: urgent}
}

func (s *RegistryService) Now() time.Time {
	return s.clock.Now()
}

func (s *RegistryService) Location() *time.Location {
	return s.loc
}

func (s *RegistryService) Catalog(ctx context.Context) (domain.Catalog, error) {
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return catalog, nil
}

// Upcoming lists pending assignments by ascending due date. Weekly
// assignments contribute their next pending occurrence. limit <= 0 means all.
func (s *RegistryService) Upcoming(ctx context.Context, limit int) ([]domain.Assignment, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]domain.Assignment, 0, len(catalog.Assignments))
	for _, a := range catalog.Assignments {
		a = a.Next(now, courseEnd(catalog, a))
		if a.Pending(now) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Due.Before(out[j].Due) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Overdue lists assignments that are no longer pending, most recent first.
// A weekly assignment shows up at its final occurrence once none before the
// course end is still pending.
func (s *RegistryService) Overdue(ctx context.Context) ([]domain.Assignment, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var out []domain.Assignment
	for _, a := range catalog.Assignments {
		if a.Recurrence == domain.RecurrenceWeekly {
			end := courseEnd(catalog, a)
			if a.Next(now, end).Pending(now) {
				continue
			}
			a = a.Final(end)
		}
		if !a.Pending(now) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Due.After(out[j].Due) })
	return out, nil
}

// ForDate lists assignments (weekly occurrences included) due on the calendar
// day of date.
func (s *RegistryService) ForDate(ctx context.Context, date time.Time) ([]domain.Assignment, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	y, m, d := date.In(s.loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	var out []domain.Assignment
	for _, a := range catalog.Assignments {
		for _, at := range a.Occurrences(start, end) {
			inst := a
			if a.HasEnd() {
				inst.End = at.Add(a.End.Sub(a.Due))
			}
			inst.Due = at
			out = append(out, inst)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Due.Before(out[j].Due) })
	return out, nil
}

// Urgent is the short-horizon view: pending assignments in the critical tier
// of the urgent windows.
func (s *RegistryService) Urgent(ctx context.Context) ([]domain.Assignment, error) {
	pending, err := s.Upcoming(ctx, 0)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var out []domain.Assignment
	for _, a := range pending {
		if domain.Classify(now, a.Due, s.urgent, s.loc) == domain.TierCritical {
			out = append(out, a)
		}
	}
	return out, nil
}

// Reminders are the pending high-priority assignments due within
// ReminderDays.
func (s *RegistryService) Reminders(ctx context.Context) ([]domain.Assignment, error) {
	pending, err := s.Upcoming(ctx, 0)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var out []domain.Assignment
	for _, a := range pending {
		if a.Priority == domain.PriorityHigh && domain.DaysUntil(now, a.Due, s.loc) <= domain.ReminderDays {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *RegistryService) Classify(due time.Time, fortyEight bool) (int, domain.Tier) {
	w := s.windows
	if fortyEight {
		w = s.urgent
	}
	days := domain.DaysUntil(s.clock.Now(), due, s.loc)
	return days, w.Tier(days)
}

func (s *RegistryService) Occurrences(ctx context.Context, assignmentID string, from, to time.Time) (domain.Assignment, []time.Time, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return domain.Assignment{}, nil, err
	}
	for _, a := range catalog.Assignments {
		if a.ID != assignmentID {
			continue
		}
		if end := courseEnd(catalog, a); !end.IsZero() && to.After(end) {
			to = end
		}
		return a, a.Occurrences(from, to), nil
	}
	return domain.Assignment{}, nil, fmt.Errorf("assignment %s: %w", assignmentID, apperrors.ErrNotFound)
}

func courseEnd(catalog domain.Catalog, a domain.Assignment) time.Time {
	if course, ok := catalog.Course(a.CourseID); ok {
		return course.End
	}
	return time.Time{}
}
