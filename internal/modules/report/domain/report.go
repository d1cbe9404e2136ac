package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	SchemaVersion = 1

	ManagedStart = "<!-- studydesk:report:start -->"
	ManagedEnd   = "<!-- studydesk:report:end -->"
)

type ChapterLine struct {
	ID       string
	Overall  int
	Complete bool
}

type DeadlineLine struct {
	Title    string
	Course   string
	Due      time.Time
	Tier     string
	DaysText string
}

type AchievementLine struct {
	Title    string
	Message  string
	EarnedAt time.Time
}

type SessionLine struct {
	Active      bool
	Kind        string
	Title       string
	Minutes     int
	Streak      int
	WeeklyCount int
}

type Report struct {
	GeneratedAt  time.Time
	Chapters     []ChapterLine
	Deadlines    []DeadlineLine
	Achievements []AchievementLine
	Session      SessionLine
}

func (r Report) CompletedChapters() int {
	n := 0
	for _, ch := range r.Chapters {
		if ch.Complete {
			n++
		}
	}
	return n
}

func (r Report) Meta() map[string]any {
	return map[string]any{
		"schema_version":     SchemaVersion,
		"generated_at":       r.GeneratedAt.Format(time.RFC3339),
		"chapters_tracked":   len(r.Chapters),
		"chapters_completed": r.CompletedChapters(),
		"upcoming_deadlines": len(r.Deadlines),
		"streak_days":        r.Session.Streak,
		"sessions_this_week": r.Session.WeeklyCount,
	}
}

// Sections renders the report body without a top-level heading, so it can
// be placed inside a managed block of another note.
func (r Report) Sections(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	var b strings.Builder

	b.WriteString("## Progress\n\n")
	if len(r.Chapters) == 0 {
		b.WriteString("No progress recorded yet.\n")
	}
	for _, ch := range r.Chapters {
		mark := " "
		if ch.Complete {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s %s %d%%\n", mark, ch.ID, Bar(ch.Overall, 10), ch.Overall)
	}

	b.WriteString("\n## Upcoming deadlines\n\n")
	if len(r.Deadlines) == 0 {
		b.WriteString("Nothing due.\n")
	}
	for _, d := range r.Deadlines {
		course := ""
		if d.Course != "" {
			course = " (" + d.Course + ")"
		}
		fmt.Fprintf(&b, "- **%s**%s: %s, %s\n", d.Title, course, d.Due.In(loc).Format("Mon Jan 2 15:04"), d.DaysText)
	}

	b.WriteString("\n## Recent achievements\n\n")
	if len(r.Achievements) == 0 {
		b.WriteString("None yet.\n")
	}
	for _, a := range r.Achievements {
		fmt.Fprintf(&b, "- %s %s (%s)\n", a.Title, a.Message, a.EarnedAt.In(loc).Format("2006-01-02"))
	}

	b.WriteString("\n## Study session\n\n")
	if r.Session.Active {
		fmt.Fprintf(&b, "- Current: %s %s, %d minutes\n", r.Session.Kind, r.Session.Title, r.Session.Minutes)
	} else {
		b.WriteString("- Current: none\n")
	}
	fmt.Fprintf(&b, "- Streak: %d days\n- Sessions this week: %d\n", r.Session.Streak, r.Session.WeeklyCount)
	return b.String()
}

// Bar draws a fixed-width text progress bar.
func Bar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
