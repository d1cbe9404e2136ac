package in

import (
	"context"
	"time"

	prefsdto "studydesk/internal/modules/prefs/dto"
	prefsin "studydesk/internal/modules/prefs/port/in"
)

type CLIHandler struct {
	usecase prefsin.Usecase
}

func NewCLIHandler(usecase prefsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (prefsdto.PrefsOutput, error) {
	return h.usecase.Show(ctx)
}

func (h CLIHandler) SetBreak(ctx context.Context, interval, duration *int) (prefsdto.PrefsOutput, error) {
	return h.usecase.SetBreak(ctx, prefsdto.BreakInput{Interval: interval, Duration: duration})
}

func (h CLIHandler) SetFocus(ctx context.Context, enabled bool) (prefsdto.PrefsOutput, error) {
	return h.usecase.SetFocus(ctx, enabled)
}

func (h CLIHandler) ToggleFocus(ctx context.Context) (prefsdto.PrefsOutput, error) {
	return h.usecase.ToggleFocus(ctx)
}

func (h CLIHandler) SetReading(ctx context.Context, fontSize *int, lineSpacing *float64, highContrast *bool) (prefsdto.PrefsOutput, error) {
	return h.usecase.SetReading(ctx, prefsdto.ReadingInput{FontSize: fontSize, LineSpacing: lineSpacing, HighContrast: highContrast})
}

func (h CLIHandler) Reset(ctx context.Context) (prefsdto.PrefsOutput, error) {
	return h.usecase.Reset(ctx)
}

// NextBreak reports the time left before a break is due for study that began at start.
func (h CLIHandler) NextBreak(ctx context.Context, start, now time.Time) (time.Duration, error) {
	return h.usecase.NextBreak(ctx, start, now)
}

func (h CLIHandler) DismissReminder(ctx context.Context, assignmentID string) error {
	return h.usecase.DismissReminder(ctx, assignmentID)
}

// ActiveReminders filters out the assignment ids whose reminder was dismissed recently.
func (h CLIHandler) ActiveReminders(ctx context.Context, assignmentIDs []string) ([]string, error) {
	return h.usecase.ActiveReminders(ctx, assignmentIDs)
}
