package in

import (
	"context"
	"time"

	"studydesk/internal/modules/deadline/dto"
	deadlinein "studydesk/internal/modules/deadline/port/in"
)

type CLIHandler struct {
	usecase deadlinein.Usecase
}

func NewCLIHandler(usecase deadlinein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Upcoming(ctx context.Context, limit int) ([]dto.AssignmentOutput, error) {
	return h.usecase.Upcoming(ctx, limit)
}

func (h CLIHandler) ForDate(ctx context.Context, date time.Time) ([]dto.AssignmentOutput, error) {
	return h.usecase.ForDate(ctx, date)
}

func (h CLIHandler) Overdue(ctx context.Context) ([]dto.AssignmentOutput, error) {
	return h.usecase.Overdue(ctx)
}

func (h CLIHandler) Urgent(ctx context.Context) ([]dto.AssignmentOutput, error) {
	return h.usecase.Urgent(ctx)
}

func (h CLIHandler) Reminders(ctx context.Context) ([]dto.AssignmentOutput, error) {
	return h.usecase.Reminders(ctx)
}

func (h CLIHandler) Classify(ctx context.Context, due time.Time, fortyEight bool) (dto.ClassifyOutput, error) {
	return h.usecase.Classify(ctx, dto.ClassifyInput{Due: due, FortyEightHour: fortyEight})
}

func (h CLIHandler) Occurrences(ctx context.Context, assignmentID string, from, to time.Time) (dto.OccurrencesOutput, error) {
	return h.usecase.Occurrences(ctx, dto.OccurrencesInput{AssignmentID: assignmentID, From: from, To: to})
}

func (h CLIHandler) Courses(ctx context.Context) ([]dto.CourseOutput, error) {
	return h.usecase.Courses(ctx)
}
