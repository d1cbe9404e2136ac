package usecase

import (
	"context"

	"studydesk/internal/modules/session/domain"
	sessiondto "studydesk/internal/modules/session/dto"
	sessionin "studydesk/internal/modules/session/port/in"
	"studydesk/internal/modules/session/service"
	apperrors "studydesk/internal/platform/errors"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Touch(ctx context.Context, input sessiondto.TouchInput) (sessiondto.SessionOutput, error) {
	kind := domain.Kind(input.Kind)
	if kind == "" {
		kind = domain.KindChapter
	}
	sess, started, err := i.svc.Touch(ctx, service.TouchInput{
		Kind:      kind,
		SubjectID: input.SubjectID,
		Title:     input.Title,
		URL:       input.URL,
		Progress:  input.Progress,
	})
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	out := toOutput(sess)
	out.Started = started
	return out, nil
}

func (i *Interactor) RecordActivity(ctx context.Context) (sessiondto.SessionOutput, error) {
	sess, live, err := i.svc.RecordActivity(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if !live {
		return sessiondto.SessionOutput{}, apperrors.ErrNoActiveSession
	}
	return toOutput(sess), nil
}

func (i *Interactor) Current(ctx context.Context) (sessiondto.SessionOutput, error) {
	sess, live, err := i.svc.Current(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if !live {
		return sessiondto.SessionOutput{}, apperrors.ErrNoActiveSession
	}
	return toOutput(sess), nil
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}

func (i *Interactor) Sweep(ctx context.Context) (bool, error) {
	return i.svc.Sweep(ctx)
}

func (i *Interactor) History(ctx context.Context) ([]sessiondto.HistoryEntryOutput, error) {
	h, err := i.svc.History(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.HistoryEntryOutput, 0, len(h))
	for _, e := range h {
		out = append(out, sessiondto.HistoryEntryOutput{
			SessionID: e.SessionID,
			Date:      e.Date,
			Kind:      string(e.Kind),
			SubjectID: e.SubjectID,
			Title:     e.Title,
			StartedAt: e.StartedAt,
			Minutes:   e.Minutes,
		})
	}
	return out, nil
}

// Activity summarises session state for rules and dashboards.
func (i *Interactor) Activity(ctx context.Context) (sessiondto.ActivityOutput, error) {
	h, err := i.svc.History(ctx)
	if err != nil {
		return sessiondto.ActivityOutput{}, err
	}
	days, err := i.svc.StudyDays(ctx)
	if err != nil {
		return sessiondto.ActivityOutput{}, err
	}
	sess, live, err := i.svc.Current(ctx)
	if err != nil {
		return sessiondto.ActivityOutput{}, err
	}
	now, loc := i.svc.Now(), i.svc.Location()
	out := sessiondto.ActivityOutput{
		Active:        live,
		Streak:        days.Streak(now, loc),
		WeekKey:       domain.WeekKey(now, loc),
		WeeklyCount:   h.WeeklyCount(now, loc),
		Essays:        h.Subjects(domain.KindEssay),
		TotalSessions: len(h),
	}
	if live {
		out.Current = toOutput(sess)
	}
	return out, nil
}

func toOutput(s domain.StudySession) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		SessionID:  s.SessionID,
		Kind:       string(s.Kind),
		SubjectID:  s.SubjectID,
		Title:      s.Title,
		URL:        s.URL,
		Progress:   s.Progress,
		StartTime:  s.StartTime,
		LastActive: s.LastActive,
		Minutes:    s.Minutes(),
	}
}
