package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"studydesk/internal/modules/progress/domain"
	progressout "studydesk/internal/modules/progress/port/out"
	"studydesk/internal/platform/clock"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/platform/events"
)

type LedgerService struct {
	clock     clock.Clock
	store     progressout.LedgerStore
	order     progressout.ChapterOrder
	publisher events.Publisher
	logger    *zap.Logger
}

func NewLedgerService(clock clock.Clock, store progressout.LedgerStore, order progressout.ChapterOrder, publisher events.Publisher, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{clock: clock, store: store, order: order, publisher: publisher, logger: logger}
}

// UpdateSection records percent for one section and returns the refreshed
// chapter aggregate. Out-of-range percentages are clamped.
func (s *LedgerService) UpdateSection(ctx context.Context, chapterID, sectionID string, percent float64) (domain.ChapterProgress, error) {
	chapterID, sectionID, err := normalizeIDs(chapterID, sectionID)
	if err != nil {
		return domain.ChapterProgress{}, err
	}
	if math.IsNaN(percent) {
		return domain.ChapterProgress{}, fmt.Errorf("%w: percent is not a number", apperrors.ErrInvalidInput)
	}
	now := s.clock.Now()
	section := domain.NewSection(percent, now)

	var chapter domain.ChapterProgress
	err = s.store.Update(ctx, func(l domain.Ledger) (bool, error) {
		ch := l[chapterID]
		if ch.Sections == nil {
			ch.Sections = map[string]domain.SectionProgress{}
		}
		ch.Sections[sectionID] = section
		ch.Recompute()
		l[chapterID] = ch
		chapter = ch
		return true, nil
	})
	if err != nil {
		return domain.ChapterProgress{}, fmt.Errorf("update section %s/%s: %w", chapterID, sectionID, err)
	}

	s.logger.Debug("section updated",
		zap.String("chapter", chapterID), zap.String("section", sectionID),
		zap.Float64("percent", section.PercentComplete), zap.Int("overall", chapter.OverallProgress))
	s.publish(events.ProgressPayload{ChapterID: chapterID, SectionID: sectionID, PercentComplete: section.PercentComplete})
	return chapter, nil
}

func (s *LedgerService) GetSection(ctx context.Context, chapterID, sectionID string) (domain.SectionProgress, error) {
	chapterID, sectionID, err := normalizeIDs(chapterID, sectionID)
	if err != nil {
		return domain.SectionProgress{}, err
	}
	l, err := s.store.Load(ctx)
	if err != nil {
		return domain.SectionProgress{}, err
	}
	return l[chapterID].Sections[sectionID], nil
}

func (s *LedgerService) GetChapter(ctx context.Context, chapterID string) (domain.ChapterProgress, error) {
	chapterID = strings.TrimSpace(chapterID)
	if chapterID == "" {
		return domain.ChapterProgress{}, fmt.Errorf("%w: chapter id is required", apperrors.ErrInvalidInput)
	}
	l, err := s.store.Load(ctx)
	if err != nil {
		return domain.ChapterProgress{}, err
	}
	return l[chapterID], nil
}

func (s *LedgerService) Ledger(ctx context.Context) (domain.Ledger, error) {
	return s.store.Load(ctx)
}

func (s *LedgerService) ChapterOrder(ctx context.Context) []string {
	if s.order == nil {
		return nil
	}
	order, err := s.order.ChapterOrder(ctx)
	if err != nil {
		s.logger.Warn("chapter order unavailable, falling back to lexical order", zap.Error(err))
		return nil
	}
	return order
}

// LastAccessed finds the chapter and section to resume.
func (s *LedgerService) LastAccessed(ctx context.Context) (string, string, domain.ChapterProgress, error) {
	l, err := s.store.Load(ctx)
	if err != nil {
		return "", "", domain.ChapterProgress{}, err
	}
	chapterID, ok := l.LastAccessed(s.ChapterOrder(ctx))
	if !ok {
		return "", "", domain.ChapterProgress{}, fmt.Errorf("no progress recorded: %w", apperrors.ErrNotFound)
	}
	ch := l[chapterID]
	sectionID, _ := ch.LastSection()
	return chapterID, sectionID, ch, nil
}

func (s *LedgerService) ResetSection(ctx context.Context, chapterID, sectionID string) error {
	chapterID, sectionID, err := normalizeIDs(chapterID, sectionID)
	if err != nil {
		return err
	}
	changed := false
	err = s.store.Update(ctx, func(l domain.Ledger) (bool, error) {
		ch, ok := l[chapterID]
		if !ok {
			return false, nil
		}
		if _, ok := ch.Sections[sectionID]; !ok {
			return false, nil
		}
		delete(ch.Sections, sectionID)
		if len(ch.Sections) == 0 {
			delete(l, chapterID)
		} else {
			ch.Recompute()
			l[chapterID] = ch
		}
		changed = true
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("reset section %s/%s: %w", chapterID, sectionID, err)
	}
	if changed {
		s.publish(events.ProgressPayload{ChapterID: chapterID, SectionID: sectionID, Reset: true})
	}
	return nil
}

func (s *LedgerService) ResetChapter(ctx context.Context, chapterID string) error {
	chapterID = strings.TrimSpace(chapterID)
	if chapterID == "" {
		return fmt.Errorf("%w: chapter id is required", apperrors.ErrInvalidInput)
	}
	changed := false
	err := s.store.Update(ctx, func(l domain.Ledger) (bool, error) {
		if _, ok := l[chapterID]; !ok {
			return false, nil
		}
		delete(l, chapterID)
		changed = true
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("reset chapter %s: %w", chapterID, err)
	}
	if changed {
		s.publish(events.ProgressPayload{ChapterID: chapterID, Reset: true})
	}
	return nil
}

func (s *LedgerService) ClearAll(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	s.publish(events.ProgressPayload{Reset: true})
	return nil
}

func (s *LedgerService) publish(payload events.ProgressPayload) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.Event{Type: events.ProgressChanged, At: s.clock.Now(), Payload: payload})
}

func normalizeIDs(chapterID, sectionID string) (string, string, error) {
	chapterID = strings.TrimSpace(chapterID)
	sectionID = strings.TrimSpace(sectionID)
	if chapterID == "" || sectionID == "" {
		return "", "", fmt.Errorf("%w: chapter and section ids are required", apperrors.ErrInvalidInput)
	}
	return chapterID, sectionID, nil
}
