package usecase

import (
	"context"
	"fmt"
	"time"

	"studydesk/internal/modules/deadline/domain"
	"studydesk/internal/modules/deadline/dto"
	deadlinein "studydesk/internal/modules/deadline/port/in"
	"studydesk/internal/modules/deadline/service"
	apperrors "studydesk/internal/platform/errors"
)

type Interactor struct {
	svc *service.RegistryService
}

func NewInteractor(svc *service.RegistryService) deadlinein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Upcoming(ctx context.Context, limit int) ([]dto.AssignmentOutput, error) {
	items, err := i.svc.Upcoming(ctx, limit)
	if err != nil {
		return nil, err
	}
	return i.toOutputs(ctx, items)
}

func (i *Interactor) ForDate(ctx context.Context, date time.Time) ([]dto.AssignmentOutput, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", apperrors.ErrInvalidInput)
	}
	items, err := i.svc.ForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return i.toOutputs(ctx, items)
}

func (i *Interactor) Overdue(ctx context.Context) ([]dto.AssignmentOutput, error) {
	items, err := i.svc.Overdue(ctx)
	if err != nil {
		return nil, err
	}
	out, err := i.toOutputs(ctx, items)
	if err != nil {
		return nil, err
	}
	// Something due earlier today classifies as critical, but it is already
	// past due here.
	for n := range out {
		out[n].Tier = string(domain.TierOverdue)
		out[n].TierLabel = domain.TierOverdue.Label()
		out[n].DaysText = domain.DaysUntilText(-1)
	}
	return out, nil
}

func (i *Interactor) Urgent(ctx context.Context) ([]dto.AssignmentOutput, error) {
	items, err := i.svc.Urgent(ctx)
	if err != nil {
		return nil, err
	}
	return i.toOutputs(ctx, items)
}

func (i *Interactor) Reminders(ctx context.Context) ([]dto.AssignmentOutput, error) {
	items, err := i.svc.Reminders(ctx)
	if err != nil {
		return nil, err
	}
	out, err := i.toOutputs(ctx, items)
	if err != nil {
		return nil, err
	}
	for n := range out {
		out[n].DaysText = domain.ReminderText(out[n].Days)
	}
	return out, nil
}

func (i *Interactor) Classify(_ context.Context, input dto.ClassifyInput) (dto.ClassifyOutput, error) {
	if input.Due.IsZero() {
		return dto.ClassifyOutput{}, fmt.Errorf("%w: due date is required", apperrors.ErrInvalidInput)
	}
	days, tier := i.svc.Classify(input.Due, input.FortyEightHour)
	return dto.ClassifyOutput{
		Due:      input.Due,
		Days:     days,
		Tier:     string(tier),
		Label:    tier.Label(),
		DaysText: domain.DaysUntilText(days),
	}, nil
}

func (i *Interactor) Occurrences(ctx context.Context, input dto.OccurrencesInput) (dto.OccurrencesOutput, error) {
	if input.AssignmentID == "" {
		return dto.OccurrencesOutput{}, fmt.Errorf("%w: assignment id is required", apperrors.ErrInvalidInput)
	}
	from, to := input.From, input.To
	if from.IsZero() {
		from = i.svc.Now()
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 28)
	}
	a, dates, err := i.svc.Occurrences(ctx, input.AssignmentID, from, to)
	if err != nil {
		return dto.OccurrencesOutput{}, err
	}
	return dto.OccurrencesOutput{AssignmentID: a.ID, Title: a.Title, Dates: dates}, nil
}

func (i *Interactor) Courses(ctx context.Context) ([]dto.CourseOutput, error) {
	catalog, err := i.svc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CourseOutput, 0, len(catalog.Courses))
	for _, c := range catalog.Courses {
		out = append(out, dto.CourseOutput{
			ID:       c.ID,
			Name:     c.Name,
			Color:    c.Color,
			Start:    c.Start,
			End:      c.End,
			Chapters: append([]string(nil), c.Chapters...),
		})
	}
	return out, nil
}

func (i *Interactor) ChapterOrder(ctx context.Context) ([]string, error) {
	catalog, err := i.svc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.ChapterOrder(), nil
}

func (i *Interactor) Tests(ctx context.Context) ([]dto.AssignmentOutput, error) {
	catalog, err := i.svc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	var tests []domain.Assignment
	for _, a := range catalog.Assignments {
		if a.Category == domain.CategoryTest {
			tests = append(tests, a)
		}
	}
	return i.mapAssignments(catalog, tests), nil
}

func (i *Interactor) toOutputs(ctx context.Context, items []domain.Assignment) ([]dto.AssignmentOutput, error) {
	catalog, err := i.svc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return i.mapAssignments(catalog, items), nil
}

func (i *Interactor) mapAssignments(catalog domain.Catalog, items []domain.Assignment) []dto.AssignmentOutput {
	out := make([]dto.AssignmentOutput, 0, len(items))
	for _, a := range items {
		days, tier := i.svc.Classify(a.Due, false)
		item := dto.AssignmentOutput{
			ID:          a.ID,
			CourseID:    a.CourseID,
			Title:       a.Title,
			Due:         a.Due,
			End:         a.End,
			Category:    string(a.Category),
			Priority:    string(a.Priority),
			Recurrence:  string(a.Recurrence),
			Description: a.Description,
			URL:         a.URL,
			Covers:      append([]string(nil), a.Covers...),
			Days:        days,
			Tier:        string(tier),
			TierLabel:   tier.Label(),
			DaysText:    domain.DaysUntilText(days),
		}
		if course, ok := catalog.Course(a.CourseID); ok {
			item.CourseName = course.Name
			item.Color = course.Color
		}
		out = append(out, item)
	}
	return out
}
