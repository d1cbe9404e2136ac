package out

import (
	"context"

	"studydesk/internal/modules/report/domain"
)

type ProgressSource interface {
	Chapters(ctx context.Context) ([]domain.ChapterLine, error)
}

type DeadlineSource interface {
	Upcoming(ctx context.Context, limit int) ([]domain.DeadlineLine, error)
}

type AchievementSource interface {
	Recent(ctx context.Context, limit int) ([]domain.AchievementLine, error)
}

type SessionSource interface {
	Session(ctx context.Context) (domain.SessionLine, error)
}

// NoteStore reads and writes Markdown files.
type NoteStore interface {
	Read(ctx context.Context, path string) (string, bool, error)
	Write(ctx context.Context, path, content string) error
}
