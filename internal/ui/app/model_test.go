package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	achievementdto "studydesk/internal/modules/achievement/dto"
	deadlinedto "studydesk/internal/modules/deadline/dto"
	prefsdto "studydesk/internal/modules/prefs/dto"
	progressdto "studydesk/internal/modules/progress/dto"
	reportdto "studydesk/internal/modules/report/dto"
	sessiondto "studydesk/internal/modules/session/dto"
	tasksdto "studydesk/internal/modules/tasks/dto"
	"studydesk/internal/ui/components"
)

type fakeDesk struct {
	mu        sync.Mutex
	updates   []string
	touches   []string
	activity  int
	focus     bool
	exportArg string
	tasks     []string
	completed []string
	dismissed []string
}

func (f *fakeDesk) Upcoming(context.Context, int) ([]deadlinedto.AssignmentOutput, error) {
	return nil, nil
}
func (f *fakeDesk) Overdue(context.Context) ([]deadlinedto.AssignmentOutput, error) { return nil, nil }
func (f *fakeDesk) Urgent(context.Context) ([]deadlinedto.AssignmentOutput, error)  { return nil, nil }
func (f *fakeDesk) List(context.Context) ([]progressdto.ChapterOutput, error)       { return nil, nil }
func (f *fakeDesk) Resume(context.Context) (progressdto.ResumeOutput, error) {
	return progressdto.ResumeOutput{}, nil
}

func (f *fakeDesk) Update(_ context.Context, chapterID, sectionID string, percent float64) (progressdto.ChapterOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, chapterID+"/"+sectionID)
	return progressdto.ChapterOutput{ChapterID: chapterID, OverallProgress: int(percent)}, nil
}

func (f *fakeDesk) Touch(_ context.Context, kind, subjectID, title, _ string, _ float64) (sessiondto.SessionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touches = append(f.touches, kind+":"+subjectID+":"+title)
	return sessiondto.SessionOutput{SubjectID: subjectID, Started: len(f.touches) == 1}, nil
}

func (f *fakeDesk) Activity(context.Context) (sessiondto.SessionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activity++
	return sessiondto.SessionOutput{}, nil
}

func (f *fakeDesk) Clear(context.Context) error { return nil }
func (f *fakeDesk) Summary(context.Context) (sessiondto.ActivityOutput, error) {
	return sessiondto.ActivityOutput{}, nil
}
func (f *fakeDesk) Check(context.Context) ([]achievementdto.AchievementOutput, error) {
	return []achievementdto.AchievementOutput{{ID: "streak-3"}}, nil
}
func (f *fakeDesk) Recent(context.Context, int) ([]achievementdto.AchievementOutput, error) {
	return nil, nil
}
func (f *fakeDesk) Show(context.Context) (prefsdto.PrefsOutput, error) {
	return prefsdto.PrefsOutput{Focus: f.focus}, nil
}
func (f *fakeDesk) ToggleFocus(context.Context) (prefsdto.PrefsOutput, error) {
	f.focus = !f.focus
	return prefsdto.PrefsOutput{Focus: f.focus}, nil
}
func (f *fakeDesk) NextBreak(context.Context, time.Time, time.Time) (time.Duration, error) {
	return time.Minute, nil
}
func (f *fakeDesk) Export(_ context.Context, path string, _ bool, _, _ int) (reportdto.ExportOutput, error) {
	f.exportArg = path
	return reportdto.ExportOutput{Path: path, Content: "# report", Written: path != ""}, nil
}

func (f *fakeDesk) Add(_ context.Context, text, _ string) (tasksdto.TaskOutput, error) {
	f.tasks = append(f.tasks, text)
	return tasksdto.TaskOutput{Text: text}, nil
}
func (f *fakeDesk) Done(_ context.Context, ref string) (tasksdto.TaskOutput, error) {
	f.completed = append(f.completed, ref)
	return tasksdto.TaskOutput{ID: ref, Completed: true}, nil
}
func (f *fakeDesk) Tasks(context.Context, bool) ([]tasksdto.TaskOutput, error) { return nil, nil }
func (f *fakeDesk) Reminders(context.Context) ([]deadlinedto.AssignmentOutput, error) {
	return nil, nil
}
func (f *fakeDesk) DismissReminder(_ context.Context, id string) error {
	f.dismissed = append(f.dismissed, id)
	return nil
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestModel(desk *fakeDesk, clk *testClock) Model {
	return NewModel(Ports{
		Deadlines:    desk,
		Progress:     desk,
		Session:      desk,
		Achievements: desk,
		Prefs:        desk,
		Report:       desk,
		Tasks:        desk,
		Reminders:    desk,
		Now:          clk.Now,
	})
}

// submit runs a palette command and feeds its result back into the model.
func submit(t *testing.T, m Model, input string) Model {
	t.Helper()
	next, cmd := m.Update(components.PaletteSubmitMsg{Input: input})
	m = next.(Model)
	if cmd == nil {
		return m
	}
	msg := cmd()
	if done, ok := msg.(actionDoneMsg); ok {
		next, _ = m.Update(done)
		m = next.(Model)
	}
	return m
}

func TestPaletteProgressCommand(t *testing.T) {
	desk := &fakeDesk{}
	m := newTestModel(desk, &testClock{now: time.Now()})

	m = submit(t, m, "progress chapter-4 4-1 75%")
	if len(desk.updates) != 1 || desk.updates[0] != "chapter-4/4-1" {
		t.Fatalf("unexpected updates: %v", desk.updates)
	}
	if m.status != "chapter-4 now 75%" {
		t.Fatalf("unexpected status: %q", m.status)
	}

	m = submit(t, m, "progress chapter-4 4-1 lots")
	if !strings.HasPrefix(m.status, "invalid percent") {
		t.Fatalf("expected invalid percent status, got %q", m.status)
	}
}

func TestPaletteTouchKeepsTitle(t *testing.T) {
	desk := &fakeDesk{}
	m := newTestModel(desk, &testClock{now: time.Now()})

	m = submit(t, m, "touch essay essay-2 Causes of the war")
	if len(desk.touches) != 1 || desk.touches[0] != "essay:essay-2:Causes of the war" {
		t.Fatalf("unexpected touches: %v", desk.touches)
	}
	if m.status != "session started: essay-2" {
		t.Fatalf("unexpected status: %q", m.status)
	}

	m = submit(t, m, "touch essay")
	if !strings.HasPrefix(m.status, "usage:") {
		t.Fatalf("expected usage hint, got %q", m.status)
	}
}

func TestPaletteReportAndUnknown(t *testing.T) {
	desk := &fakeDesk{}
	m := newTestModel(desk, &testClock{now: time.Now()})

	m = submit(t, m, "report")
	if !strings.HasPrefix(m.status, "report rendered") {
		t.Fatalf("unexpected status: %q", m.status)
	}
	m = submit(t, m, "report /tmp/report.md")
	if desk.exportArg != "/tmp/report.md" || m.status != "report written to /tmp/report.md" {
		t.Fatalf("unexpected export: %q %q", desk.exportArg, m.status)
	}
	m = submit(t, m, "launch rockets")
	if m.status != "unknown command: launch" {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestPaletteTasksAndReminders(t *testing.T) {
	desk := &fakeDesk{}
	m := newTestModel(desk, &testClock{now: time.Now()})

	m = submit(t, m, "task read pages 40-52")
	if len(desk.tasks) != 1 || desk.tasks[0] != "read pages 40-52" || m.status != "task added" {
		t.Fatalf("unexpected task add: %v %q", desk.tasks, m.status)
	}
	m = submit(t, m, "done 3f2a")
	if len(desk.completed) != 1 || desk.completed[0] != "3f2a" || m.status != "✅ Task completed! Nice work!" {
		t.Fatalf("unexpected completion: %v %q", desk.completed, m.status)
	}
	m = submit(t, m, "dismiss hist/essay")
	if len(desk.dismissed) != 1 || desk.dismissed[0] != "hist/essay" {
		t.Fatalf("unexpected dismissals: %v", desk.dismissed)
	}
	m = submit(t, m, "task")
	if !strings.HasPrefix(m.status, "usage:") {
		t.Fatalf("expected usage hint, got %q", m.status)
	}
}

func TestKeyActivityIsDebounced(t *testing.T) {
	desk := &fakeDesk{}
	clk := &testClock{now: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)}
	m := newTestModel(desk, clk)

	press := func() {
		if cmd := m.noteActivity(); cmd != nil {
			cmd()
		}
	}
	press()
	clk.now = clk.now.Add(30 * time.Second)
	press()
	clk.now = clk.now.Add(31 * time.Second)
	press()

	if desk.activity != 2 {
		t.Fatalf("expected 2 activity calls, got %d", desk.activity)
	}
	if !m.lastActivity.Equal(clk.now) {
		t.Fatalf("expected activity recorded at %s, got %s", clk.now, m.lastActivity)
	}
}

func TestAchievementMsgShowsToast(t *testing.T) {
	desk := &fakeDesk{}
	m := newTestModel(desk, &testClock{now: time.Now()})
	next, _ := m.Update(AchievementMsg{Icon: "*", Title: "On Fire", Message: "3 day streak"})
	m = next.(Model)
	if m.toasts.Len() != 1 {
		t.Fatalf("expected one toast, got %d", m.toasts.Len())
	}
}
