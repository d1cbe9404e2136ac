package usecase

import (
	"context"
	"sort"
	"strings"

	"studydesk/internal/modules/progress/domain"
	"studydesk/internal/modules/progress/dto"
	progressin "studydesk/internal/modules/progress/port/in"
	"studydesk/internal/modules/progress/service"
)

type Interactor struct {
	svc *service.LedgerService
}

func NewInteractor(svc *service.LedgerService) progressin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) UpdateSection(ctx context.Context, input dto.UpdateSectionInput) (dto.ChapterOutput, error) {
	ch, err := i.svc.UpdateSection(ctx, input.ChapterID, input.SectionID, input.Percent)
	if err != nil {
		return dto.ChapterOutput{}, err
	}
	return toChapterOutput(strings.TrimSpace(input.ChapterID), ch), nil
}

func (i *Interactor) GetSection(ctx context.Context, chapterID, sectionID string) (dto.SectionOutput, error) {
	s, err := i.svc.GetSection(ctx, chapterID, sectionID)
	if err != nil {
		return dto.SectionOutput{}, err
	}
	return toSectionOutput(chapterID, sectionID, s), nil
}

func (i *Interactor) GetChapter(ctx context.Context, chapterID string) (dto.ChapterOutput, error) {
	ch, err := i.svc.GetChapter(ctx, chapterID)
	if err != nil {
		return dto.ChapterOutput{}, err
	}
	return toChapterOutput(chapterID, ch), nil
}

func (i *Interactor) LastAccessed(ctx context.Context) (dto.ResumeOutput, error) {
	chapterID, sectionID, ch, err := i.svc.LastAccessed(ctx)
	if err != nil {
		return dto.ResumeOutput{}, err
	}
	return dto.ResumeOutput{
		ChapterID:       chapterID,
		SectionID:       sectionID,
		OverallProgress: ch.OverallProgress,
		LastAccessed:    ch.LastAccessed,
	}, nil
}

func (i *Interactor) ResetSection(ctx context.Context, chapterID, sectionID string) error {
	return i.svc.ResetSection(ctx, chapterID, sectionID)
}

func (i *Interactor) ResetChapter(ctx context.Context, chapterID string) error {
	return i.svc.ResetChapter(ctx, chapterID)
}

func (i *Interactor) ClearAll(ctx context.Context) error {
	return i.svc.ClearAll(ctx)
}

// List returns every chapter with progress, catalog chapters first in
// curriculum order, then the rest by id.
func (i *Interactor) List(ctx context.Context) ([]dto.ChapterOutput, error) {
	l, err := i.svc.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	rank := map[string]int{}
	for idx, id := range i.svc.ChapterOrder(ctx) {
		if _, ok := rank[id]; !ok {
			rank[id] = idx
		}
	}
	ids := make([]string, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		ra, okA := rank[ids[a]]
		rb, okB := rank[ids[b]]
		if okA && okB {
			return ra < rb
		}
		if okA != okB {
			return okA
		}
		return ids[a] < ids[b]
	})
	out := make([]dto.ChapterOutput, 0, len(ids))
	for _, id := range ids {
		out = append(out, toChapterOutput(id, l[id]))
	}
	return out, nil
}

func toChapterOutput(chapterID string, ch domain.ChapterProgress) dto.ChapterOutput {
	out := dto.ChapterOutput{
		ChapterID:       chapterID,
		OverallProgress: ch.OverallProgress,
		Complete:        ch.Complete(),
		LastAccessed:    ch.LastAccessed,
	}
	ids := make([]string, 0, len(ch.Sections))
	for id := range ch.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out.Sections = append(out.Sections, toSectionOutput(chapterID, id, ch.Sections[id]))
	}
	return out
}

func toSectionOutput(chapterID, sectionID string, s domain.SectionProgress) dto.SectionOutput {
	return dto.SectionOutput{
		ChapterID:       chapterID,
		SectionID:       sectionID,
		PercentComplete: s.PercentComplete,
		Completed:       s.Completed,
		LastAccessed:    s.LastAccessed,
	}
}
