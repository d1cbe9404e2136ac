// Package dashboard renders the at-a-glance home tab: where to resume, what
// is due next, the current streak and the break timer.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	achievementdto "studydesk/internal/modules/achievement/dto"
	deadlinedto "studydesk/internal/modules/deadline/dto"
	prefsdto "studydesk/internal/modules/prefs/dto"
	progressdto "studydesk/internal/modules/progress/dto"
	sessiondto "studydesk/internal/modules/session/dto"
	tasksdto "studydesk/internal/modules/tasks/dto"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/ui/theme"
)

const (
	upcomingShown = 5
	tasksShown    = 5
)

type Port interface {
	Now() time.Time
	Resume(ctx context.Context) (progressdto.ResumeOutput, error)
	Upcoming(ctx context.Context, limit int) ([]deadlinedto.AssignmentOutput, error)
	Summary(ctx context.Context) (sessiondto.ActivityOutput, error)
	Recent(ctx context.Context, limit int) ([]achievementdto.AchievementOutput, error)
	Prefs(ctx context.Context) (prefsdto.PrefsOutput, error)
	NextBreak(ctx context.Context, start, now time.Time) (time.Duration, error)
	Reminders(ctx context.Context) ([]deadlinedto.AssignmentOutput, error)
	Tasks(ctx context.Context, all bool) ([]tasksdto.TaskOutput, error)
}

type Snapshot struct {
	Now          time.Time
	Resume       *progressdto.ResumeOutput
	Upcoming     []deadlinedto.AssignmentOutput
	Activity     sessiondto.ActivityOutput
	Achievements []achievementdto.AchievementOutput
	Prefs        prefsdto.PrefsOutput
	BreakIn      time.Duration
	Reminders    []deadlinedto.AssignmentOutput
	Tasks        []tasksdto.TaskOutput
}

type LoadedMsg struct {
	Snapshot Snapshot
	Err      error
}

// Load gathers everything the dashboard shows. Sections that fail are left
// empty and their errors joined.
func Load(ctx context.Context, port Port) (Snapshot, error) {
	s := Snapshot{Now: port.Now()}
	var errs []error
	if r, err := port.Resume(ctx); err == nil {
		s.Resume = &r
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		errs = append(errs, err)
	}
	var err error
	if s.Upcoming, err = port.Upcoming(ctx, upcomingShown); err != nil {
		errs = append(errs, err)
	}
	if s.Activity, err = port.Summary(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.Achievements, err = port.Recent(ctx, 3); err != nil {
		errs = append(errs, err)
	}
	if s.Prefs, err = port.Prefs(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.Reminders, err = port.Reminders(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.Tasks, err = port.Tasks(ctx, false); err != nil {
		errs = append(errs, err)
	}
	if s.Activity.Active {
		if s.BreakIn, err = port.NextBreak(ctx, s.Activity.Current.StartTime, s.Now); err != nil {
			errs = append(errs, err)
		}
	}
	return s, errors.Join(errs...)
}

type Model struct {
	port   Port
	snap   Snapshot
	err    error
	vp     viewport.Model
	width  int
	height int
}

func New(port Port) Model {
	return Model{port: port, vp: viewport.New(0, 0)}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		snap, err := Load(context.Background(), m.port)
		return LoadedMsg{Snapshot: snap, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp.Width, m.vp.Height = msg.Width, msg.Height
		m.vp.SetContent(m.render())
		return m, nil
	case LoadedMsg:
		m.snap, m.err = msg.Snapshot, msg.Err
		m.vp.SetContent(m.render())
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.vp.View()
}

// Focus reports whether focus mode hides the secondary cards.
func (m Model) Focus() bool { return m.snap.Prefs.Focus }

func (m Model) render() string {
	half := max(m.width/2-2, 20)
	s := m.snap

	left := []string{card("Pick up where you left off", resumeCard(s), half)}
	if s.Activity.Active {
		left = append(left, card("Studying now", sessionCard(s), half))
	}
	left = append(left, card("To do", tasksCard(s), half))
	right := []string{card("Due next", deadlinesCard(s), half)}
	if !s.Prefs.Focus {
		right = append(right, card("Momentum", momentumCard(s), half))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, left...),
		lipgloss.JoinVertical(lipgloss.Left, right...),
	)
	if len(s.Reminders) > 0 {
		body = reminderBanner(s) + "\n" + body
	}
	if m.err != nil {
		body += "\n" + theme.Hot.Render("some cards could not load: "+m.err.Error())
	}
	return body
}

func card(title, body string, width int) string {
	return theme.Pane.Width(width).Render(theme.Title.Render(title) + "\n" + body)
}

func resumeCard(s Snapshot) string {
	if s.Resume == nil {
		return theme.Muted.Render("Nothing started yet.")
	}
	r := s.Resume
	return fmt.Sprintf("%s · section %s\n%s %d%%\n%s",
		r.ChapterID, r.SectionID,
		theme.Bar(r.OverallProgress, 24), r.OverallProgress,
		theme.Muted.Render("last studied "+r.LastAccessed.Local().Format("Mon Jan 2 15:04")))
}

func sessionCard(s Snapshot) string {
	cur := s.Activity.Current
	title := cur.Title
	if title == "" {
		title = cur.SubjectID
	}
	line := fmt.Sprintf("%s (%s) · %d min", title, cur.Kind, cur.Minutes)
	if s.BreakIn <= 0 {
		return line + "\n" + theme.Hot.Render(fmt.Sprintf("Time for a %d minute break.", s.Prefs.BreakDuration))
	}
	return line + "\n" + theme.Muted.Render(fmt.Sprintf("break in %d min", int((s.BreakIn+time.Minute-1)/time.Minute)))
}

func deadlinesCard(s Snapshot) string {
	if len(s.Upcoming) == 0 {
		return theme.Muted.Render("Nothing due.")
	}
	var b strings.Builder
	for _, a := range s.Upcoming {
		fmt.Fprintf(&b, "%s %s\n", theme.Tier(a.Tier).Render(fmt.Sprintf("%-11s", a.DaysText)), a.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

// reminderBanner nags about near high-priority work until dismissed.
func reminderBanner(s Snapshot) string {
	var b strings.Builder
	for _, r := range s.Reminders {
		fmt.Fprintf(&b, "%s %s  %s\n", theme.Hot.Render(r.DaysText), r.Title, theme.Muted.Render("(dismiss "+r.ID+")"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func tasksCard(s Snapshot) string {
	if len(s.Tasks) == 0 {
		return theme.Muted.Render("No tasks. Add one with: task <text>")
	}
	var b strings.Builder
	for n, t := range s.Tasks {
		if n == tasksShown {
			fmt.Fprintf(&b, "%s\n", theme.Muted.Render(fmt.Sprintf("… %d more", len(s.Tasks)-tasksShown)))
			break
		}
		line := t.Text
		if t.Subject != "" {
			line += theme.Muted.Render(" · " + t.Subject)
		}
		fmt.Fprintf(&b, "%s %s\n", theme.Muted.Render(t.ShortID), line)
	}
	return strings.TrimRight(b.String(), "\n")
}

func momentumCard(s Snapshot) string {
	a := s.Activity
	var b strings.Builder
	fmt.Fprintf(&b, "streak %d day(s) · %d session(s) in %s\n", a.Streak, a.WeeklyCount, a.WeekKey)
	for _, ach := range s.Achievements {
		fmt.Fprintf(&b, "%s %s\n", ach.Icon, ach.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}
