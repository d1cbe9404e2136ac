package out

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"studydesk/internal/modules/session/domain"
	"studydesk/internal/platform/markdown"
)

func TestMarkdownJournalRecord(t *testing.T) {
	home := t.TempDir()
	j := NewMarkdownJournal(home, time.UTC)
	start := time.Date(2026, 3, 4, 9, 15, 0, 0, time.UTC)
	closed := domain.Closed{
		Session: domain.StudySession{
			SessionID:  "s-1",
			Kind:       domain.KindChapter,
			SubjectID:  "chapter-4",
			Title:      "Chapter 4: Sampling",
			StartTime:  start,
			LastActive: start.Add(42 * time.Minute),
		},
		EndedAt: start.Add(42 * time.Minute),
		Reason:  "idle",
	}

	path, err := j.Record(context.Background(), closed)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	want := filepath.Join(home, "sessions", "2026", "03", "04", "091500-chapter-4-sampling.md")
	if path != want {
		t.Fatalf("path = %s, want %s", path, want)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	meta, body, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		t.Fatalf("split frontmatter: %v", err)
	}
	if meta["id"] != "s-1" || meta["reason"] != "idle" {
		t.Fatalf("unexpected frontmatter: %v", meta)
	}
	if meta["duration_minutes"] != 42 {
		t.Fatalf("duration = %v, want 42", meta["duration_minutes"])
	}
	if body == "" {
		t.Fatalf("expected a body")
	}
}
