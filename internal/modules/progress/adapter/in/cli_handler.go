package in

import (
	"context"

	"studydesk/internal/modules/progress/dto"
	progressin "studydesk/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Update(ctx context.Context, chapterID, sectionID string, percent float64) (dto.ChapterOutput, error) {
	return h.usecase.UpdateSection(ctx, dto.UpdateSectionInput{ChapterID: chapterID, SectionID: sectionID, Percent: percent})
}

func (h CLIHandler) Section(ctx context.Context, chapterID, sectionID string) (dto.SectionOutput, error) {
	return h.usecase.GetSection(ctx, chapterID, sectionID)
}

func (h CLIHandler) Chapter(ctx context.Context, chapterID string) (dto.ChapterOutput, error) {
	return h.usecase.GetChapter(ctx, chapterID)
}

func (h CLIHandler) Resume(ctx context.Context) (dto.ResumeOutput, error) {
	return h.usecase.LastAccessed(ctx)
}

// Reset clears one section, or the whole chapter when sectionID is empty.
func (h CLIHandler) Reset(ctx context.Context, chapterID, sectionID string) error {
	if sectionID == "" {
		return h.usecase.ResetChapter(ctx, chapterID)
	}
	return h.usecase.ResetSection(ctx, chapterID, sectionID)
}

func (h CLIHandler) ClearAll(ctx context.Context) error {
	return h.usecase.ClearAll(ctx)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.ChapterOutput, error) {
	return h.usecase.List(ctx)
}
