package in

import (
	"context"
	"time"

	"studydesk/internal/modules/deadline/dto"
)

type Usecase interface {
	Upcoming(ctx context.Context, limit int) ([]dto.AssignmentOutput, error)
	ForDate(ctx context.Context, date time.Time) ([]dto.AssignmentOutput, error)
	Overdue(ctx context.Context) ([]dto.AssignmentOutput, error)
	Urgent(ctx context.Context) ([]dto.AssignmentOutput, error)
	Reminders(ctx context.Context) ([]dto.AssignmentOutput, error)
	Classify(ctx context.Context, input dto.ClassifyInput) (dto.ClassifyOutput, error)
	Occurrences(ctx context.Context, input dto.OccurrencesInput) (dto.OccurrencesOutput, error)
	Courses(ctx context.Context) ([]dto.CourseOutput, error)
	ChapterOrder(ctx context.Context) ([]string, error)
	Tests(ctx context.Context) ([]dto.AssignmentOutput, error)
}
