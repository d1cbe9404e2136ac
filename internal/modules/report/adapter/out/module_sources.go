package out

import (
	"context"
	"errors"

	achievementin "studydesk/internal/modules/achievement/port/in"
	deadlinein "studydesk/internal/modules/deadline/port/in"
	progressin "studydesk/internal/modules/progress/port/in"
	"studydesk/internal/modules/report/domain"
	reportout "studydesk/internal/modules/report/port/out"
	sessionin "studydesk/internal/modules/session/port/in"
	apperrors "studydesk/internal/platform/errors"
)

type ProgressSource struct {
	progress progressin.Usecase
}

func NewProgressSource(progress progressin.Usecase) reportout.ProgressSource {
	return ProgressSource{progress: progress}
}

func (s ProgressSource) Chapters(ctx context.Context) ([]domain.ChapterLine, error) {
	chapters, err := s.progress.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ChapterLine, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, domain.ChapterLine{ID: ch.ChapterID, Overall: ch.OverallProgress, Complete: ch.Complete})
	}
	return out, nil
}

type DeadlineSource struct {
	deadlines deadlinein.Usecase
}

func NewDeadlineSource(deadlines deadlinein.Usecase) reportout.DeadlineSource {
	return DeadlineSource{deadlines: deadlines}
}

func (s DeadlineSource) Upcoming(ctx context.Context, limit int) ([]domain.DeadlineLine, error) {
	items, err := s.deadlines.Upcoming(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DeadlineLine, 0, len(items))
	for _, a := range items {
		out = append(out, domain.DeadlineLine{Title: a.Title, Course: a.CourseName, Due: a.Due, Tier: a.Tier, DaysText: a.DaysText})
	}
	return out, nil
}

type AchievementSource struct {
	achievements achievementin.Usecase
}

func NewAchievementSource(achievements achievementin.Usecase) reportout.AchievementSource {
	return AchievementSource{achievements: achievements}
}

func (s AchievementSource) Recent(ctx context.Context, limit int) ([]domain.AchievementLine, error) {
	items, err := s.achievements.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AchievementLine, 0, len(items))
	for _, a := range items {
		out = append(out, domain.AchievementLine{Title: a.Title, Message: a.Message, EarnedAt: a.EarnedAt})
	}
	return out, nil
}

type SessionSource struct {
	sessions sessionin.Usecase
}

func NewSessionSource(sessions sessionin.Usecase) reportout.SessionSource {
	return SessionSource{sessions: sessions}
}

func (s SessionSource) Session(ctx context.Context) (domain.SessionLine, error) {
	a, err := s.sessions.Activity(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNoActiveSession) {
		return domain.SessionLine{}, err
	}
	return domain.SessionLine{
		Active:      a.Active,
		Kind:        a.Current.Kind,
		Title:       a.Current.Title,
		Minutes:     a.Current.Minutes,
		Streak:      a.Streak,
		WeeklyCount: a.WeeklyCount,
	}, nil
}
