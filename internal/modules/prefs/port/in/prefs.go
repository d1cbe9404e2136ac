package in

import (
	"context"
	"time"

	"studydesk/internal/modules/prefs/dto"
)

type Usecase interface {
	Show(ctx context.Context) (dto.PrefsOutput, error)
	SetBreak(ctx context.Context, input dto.BreakInput) (dto.PrefsOutput, error)
	SetFocus(ctx context.Context, enabled bool) (dto.PrefsOutput, error)
	ToggleFocus(ctx context.Context) (dto.PrefsOutput, error)
	SetReading(ctx context.Context, input dto.ReadingInput) (dto.PrefsOutput, error)
	Reset(ctx context.Context) (dto.PrefsOutput, error)
	NextBreak(ctx context.Context, start, now time.Time) (time.Duration, error)
	DismissReminder(ctx context.Context, assignmentID string) error
	ActiveReminders(ctx context.Context, assignmentIDs []string) ([]string, error)
}
