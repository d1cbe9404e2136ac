package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"studydesk/internal/modules/session/domain"
	sessionout "studydesk/internal/modules/session/port/out"
	"studydesk/internal/platform/markdown"
	"studydesk/internal/platform/slug"
)

// MarkdownJournal writes one note per finished session under
// <home>/sessions/YYYY/MM/DD.
type MarkdownJournal struct {
	homePath string
	loc      *time.Location
}

func NewMarkdownJournal(homePath string, loc *time.Location) sessionout.Journal {
	if loc == nil {
		loc = time.UTC
	}
	return &MarkdownJournal{homePath: homePath, loc: loc}
}

func (j *MarkdownJournal) Record(_ context.Context, closed domain.Closed) (string, error) {
	sess := closed.Session
	started := sess.StartTime.In(j.loc)
	dir := filepath.Join(j.homePath, "sessions", started.Format("2006"), started.Format("01"), started.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	title := sess.Title
	if title == "" {
		title = sess.SubjectID
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", started.Format("150405"), slug.Make(title)))

	meta := map[string]any{
		"schema_version":   domain.SchemaVersion,
		"id":               sess.SessionID,
		"type":             string(sess.Kind),
		"subject_id":       sess.SubjectID,
		"started_at":       sess.StartTime.Format(time.RFC3339),
		"ended_at":         closed.EndedAt.Format(time.RFC3339),
		"duration_minutes": sess.Minutes(),
		"progress":         sess.Progress,
		"reason":           closed.Reason,
	}
	body := fmt.Sprintf("# %s\n\n- Subject: %s\n- Duration: %d minutes\n- Ended: %s\n", title, sess.SubjectID, sess.Minutes(), closed.Reason)
	if sess.URL != "" {
		body += fmt.Sprintf("- Link: %s\n", sess.URL)
	}
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}
