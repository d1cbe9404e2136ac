package in

import (
	"context"

	"studydesk/internal/modules/progress/dto"
)

type Usecase interface {
	UpdateSection(ctx context.Context, input dto.UpdateSectionInput) (dto.ChapterOutput, error)
	GetSection(ctx context.Context, chapterID, sectionID string) (dto.SectionOutput, error)
	GetChapter(ctx context.Context, chapterID string) (dto.ChapterOutput, error)
	LastAccessed(ctx context.Context) (dto.ResumeOutput, error)
	ResetSection(ctx context.Context, chapterID, sectionID string) error
	ResetChapter(ctx context.Context, chapterID string) error
	ClearAll(ctx context.Context) error
	List(ctx context.Context) ([]dto.ChapterOutput, error)
}
