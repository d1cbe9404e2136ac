package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"studydesk/internal/modules/report/domain"
	reportout "studydesk/internal/modules/report/port/out"
	"studydesk/internal/platform/clock"
	"studydesk/internal/platform/markdown"
)

type Sources struct {
	Progress     reportout.ProgressSource
	Deadlines    reportout.DeadlineSource
	Achievements reportout.AchievementSource
	Session      reportout.SessionSource
}

type ReportService struct {
	clock   clock.Clock
	sources Sources
	notes   reportout.NoteStore
	loc     *time.Location
	logger  *zap.Logger
}

func NewReportService(clock clock.Clock, sources Sources, notes reportout.NoteStore, loc *time.Location, logger *zap.Logger) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{clock: clock, sources: sources, notes: notes, loc: loc, logger: logger}
}

func (s *ReportService) Build(ctx context.Context, upcoming, achievements int) (domain.Report, error) {
	r := domain.Report{GeneratedAt: s.clock.Now()}
	var err error
	if s.sources.Progress != nil {
		if r.Chapters, err = s.sources.Progress.Chapters(ctx); err != nil {
			return r, fmt.Errorf("report progress: %w", err)
		}
	}
	if s.sources.Deadlines != nil {
		if r.Deadlines, err = s.sources.Deadlines.Upcoming(ctx, upcoming); err != nil {
			return r, fmt.Errorf("report deadlines: %w", err)
		}
	}
	if s.sources.Achievements != nil {
		if r.Achievements, err = s.sources.Achievements.Recent(ctx, achievements); err != nil {
			return r, fmt.Errorf("report achievements: %w", err)
		}
	}
	if s.sources.Session != nil {
		if r.Session, err = s.sources.Session.Session(ctx); err != nil {
			return r, fmt.Errorf("report session: %w", err)
		}
	}
	return r, nil
}

// Document renders a standalone note.
func (s *ReportService) Document(r domain.Report) (string, error) {
	title := fmt.Sprintf("# Study report %s\n\n", r.GeneratedAt.In(s.loc).Format("2006-01-02"))
	return markdown.RenderFrontmatter(r.Meta(), title+r.Sections(s.loc))
}

// Embed replaces the managed report block of the note at path, creating the
// note when it does not exist. Frontmatter and text outside the block are
// preserved.
func (s *ReportService) Embed(ctx context.Context, r domain.Report, path string) (string, error) {
	existing, found, err := s.notes.Read(ctx, path)
	if err != nil {
		return "", err
	}
	meta := map[string]any{}
	body := ""
	if found {
		m, b, splitErr := markdown.SplitFrontmatter(existing)
		if splitErr != nil {
			s.logger.Warn("note frontmatter unreadable, keeping note text as body", zap.String("path", path), zap.Error(splitErr))
			body = existing
		} else {
			meta, body = m, b
		}
	}
	body = markdown.ReplaceManagedBlock(body, domain.ManagedStart, domain.ManagedEnd, r.Sections(s.loc))
	if len(meta) == 0 {
		return body, nil
	}
	meta["report_generated_at"] = r.GeneratedAt.Format(time.RFC3339)
	return markdown.RenderFrontmatter(meta, body)
}

func (s *ReportService) Write(ctx context.Context, path, content string) error {
	if err := s.notes.Write(ctx, path, content); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	s.logger.Info("report written", zap.String("path", path))
	return nil
}
