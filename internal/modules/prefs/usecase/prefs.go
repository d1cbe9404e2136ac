package usecase

import (
	"context"
	"time"

	"studydesk/internal/modules/prefs/domain"
	prefsdto "studydesk/internal/modules/prefs/dto"
	prefsin "studydesk/internal/modules/prefs/port/in"
	"studydesk/internal/modules/prefs/service"
)

type Interactor struct {
	svc *service.PrefsService
}

func NewInteractor(svc *service.PrefsService) prefsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Show(ctx context.Context) (prefsdto.PrefsOutput, error) {
	return toOutput(i.svc.Load(ctx))
}

func (i *Interactor) SetBreak(ctx context.Context, input prefsdto.BreakInput) (prefsdto.PrefsOutput, error) {
	return toOutput(i.svc.SetBreak(ctx, input.Interval, input.Duration))
}

func (i *Interactor) SetFocus(ctx context.Context, enabled bool) (prefsdto.PrefsOutput, error) {
	return toOutput(i.svc.SetFocus(ctx, enabled))
}

func (i *Interactor) ToggleFocus(ctx context.Context) (prefsdto.PrefsOutput, error) {
	cur, err := i.svc.Load(ctx)
	if err != nil {
		return prefsdto.PrefsOutput{}, err
	}
	return toOutput(i.svc.SetFocus(ctx, !cur.Focus.Enabled))
}

func (i *Interactor) SetReading(ctx context.Context, input prefsdto.ReadingInput) (prefsdto.PrefsOutput, error) {
	return toOutput(i.svc.SetReading(ctx, input.FontSize, input.LineSpacing, input.HighContrast))
}

func (i *Interactor) Reset(ctx context.Context) (prefsdto.PrefsOutput, error) {
	return toOutput(i.svc.Reset(ctx))
}

func (i *Interactor) NextBreak(ctx context.Context, start, now time.Time) (time.Duration, error) {
	p, err := i.svc.Load(ctx)
	if err != nil {
		return 0, err
	}
	return p.Break.NextBreak(start, now), nil
}

func (i *Interactor) DismissReminder(ctx context.Context, assignmentID string) error {
	return i.svc.DismissReminder(ctx, assignmentID)
}

func (i *Interactor) ActiveReminders(ctx context.Context, assignmentIDs []string) ([]string, error) {
	return i.svc.ActiveReminders(ctx, assignmentIDs)
}

func toOutput(p domain.Preferences, err error) (prefsdto.PrefsOutput, error) {
	if err != nil {
		return prefsdto.PrefsOutput{}, err
	}
	return prefsdto.PrefsOutput{
		BreakInterval: p.Break.Interval,
		BreakDuration: p.Break.Duration,
		Focus:         p.Focus.Enabled,
		FontSize:      p.Reading.FontSize,
		LineSpacing:   p.Reading.LineSpacing,
		HighContrast:  p.Reading.HighContrast,
	}, nil
}
