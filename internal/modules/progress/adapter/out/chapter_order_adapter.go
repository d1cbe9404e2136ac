package out

import (
	"context"

	deadlinein "studydesk/internal/modules/deadline/port/in"
	progressout "studydesk/internal/modules/progress/port/out"
)

type DeadlineChapterOrder struct {
	deadlines deadlinein.Usecase
}

func NewDeadlineChapterOrder(deadlines deadlinein.Usecase) progressout.ChapterOrder {
	return DeadlineChapterOrder{deadlines: deadlines}
}

func (a DeadlineChapterOrder) ChapterOrder(ctx context.Context) ([]string, error) {
	return a.deadlines.ChapterOrder(ctx)
}
