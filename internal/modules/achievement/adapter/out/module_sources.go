package out

import (
	"context"
	"strings"

	"studydesk/internal/modules/achievement/domain"
	achievementout "studydesk/internal/modules/achievement/port/out"
	deadlinein "studydesk/internal/modules/deadline/port/in"
	progressin "studydesk/internal/modules/progress/port/in"
	sessionin "studydesk/internal/modules/session/port/in"
)

type ProgressSource struct {
	progress progressin.Usecase
}

func NewProgressSource(progress progressin.Usecase) achievementout.ProgressSource {
	return ProgressSource{progress: progress}
}

func (s ProgressSource) Chapters(ctx context.Context) (map[string]domain.ChapterStat, error) {
	chapters, err := s.progress.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ChapterStat, len(chapters))
	for _, ch := range chapters {
		stat := domain.ChapterStat{Overall: ch.OverallProgress, Sections: len(ch.Sections), Complete: ch.Complete}
		for _, sec := range ch.Sections {
			practice := isPractice(sec.SectionID)
			if practice {
				stat.Practice++
			}
			if sec.Completed {
				stat.CompletedSections++
				if practice {
					stat.PracticeCompleted++
				}
			}
		}
		out[ch.ChapterID] = stat
	}
	return out, nil
}

// isPractice matches section ids such as "practice", "1-4-practice" or
// "Practice-Problems".
func isPractice(sectionID string) bool {
	return strings.Contains(strings.ToLower(sectionID), "practice")
}

type CurriculumSource struct {
	deadlines deadlinein.Usecase
}

func NewCurriculumSource(deadlines deadlinein.Usecase) achievementout.CurriculumSource {
	return CurriculumSource{deadlines: deadlines}
}

func (s CurriculumSource) ChapterOrder(ctx context.Context) ([]string, error) {
	return s.deadlines.ChapterOrder(ctx)
}

func (s CurriculumSource) Tests(ctx context.Context) ([]domain.TestPrep, error) {
	tests, err := s.deadlines.Tests(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TestPrep, 0, len(tests))
	for _, t := range tests {
		out = append(out, domain.TestPrep{ID: t.ID, Title: t.Title, Covers: t.Covers})
	}
	return out, nil
}

type ActivitySource struct {
	sessions sessionin.Usecase
}

func NewActivitySource(sessions sessionin.Usecase) achievementout.ActivitySource {
	return ActivitySource{sessions: sessions}
}

func (s ActivitySource) Activity(ctx context.Context) (domain.Activity, error) {
	a, err := s.sessions.Activity(ctx)
	if err != nil {
		return domain.Activity{}, err
	}
	return domain.Activity{
		Session: domain.SessionStat{
			Active:    a.Active,
			SessionID: a.Current.SessionID,
			Kind:      a.Current.Kind,
			SubjectID: a.Current.SubjectID,
			Minutes:   a.Current.Minutes,
			Progress:  a.Current.Progress,
		},
		Streak:      a.Streak,
		WeekKey:     a.WeekKey,
		WeeklyCount: a.WeeklyCount,
		Essays:      a.Essays,
	}, nil
}
