package out

import (
	"context"

	"studydesk/internal/modules/achievement/domain"
)

type ProgressSource interface {
	Chapters(ctx context.Context) (map[string]domain.ChapterStat, error)
}

type CurriculumSource interface {
	ChapterOrder(ctx context.Context) ([]string, error)
	Tests(ctx context.Context) ([]domain.TestPrep, error)
}

type ActivitySource interface {
	Activity(ctx context.Context) (domain.Activity, error)
}

// Store persists the earned set and the bounded history. Record is atomic
// per id and reports false when the id was already earned.
type Store interface {
	Earned(ctx context.Context) (domain.Earned, error)
	History(ctx context.Context) (domain.History, error)
	Record(ctx context.Context, a domain.Achievement, historyCap int) (bool, error)
}
