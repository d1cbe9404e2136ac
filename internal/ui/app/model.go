package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	achievementdto "studydesk/internal/modules/achievement/dto"
	deadlinedto "studydesk/internal/modules/deadline/dto"
	prefsdto "studydesk/internal/modules/prefs/dto"
	progressdto "studydesk/internal/modules/progress/dto"
	reportdto "studydesk/internal/modules/report/dto"
	sessiondto "studydesk/internal/modules/session/dto"
	tasksdto "studydesk/internal/modules/tasks/dto"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/ui/components"
	"studydesk/internal/ui/theme"
	dashboardview "studydesk/internal/ui/views/dashboard"
	deadlinesview "studydesk/internal/ui/views/deadlines"
	progressview "studydesk/internal/ui/views/progress"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the slice of a module's CLI handler this layer needs.

type DeadlinePort interface {
	Upcoming(ctx context.Context, limit int) ([]deadlinedto.AssignmentOutput, error)
	Overdue(ctx context.Context) ([]deadlinedto.AssignmentOutput, error)
	Urgent(ctx context.Context) ([]deadlinedto.AssignmentOutput, error)
}

type ProgressPort interface {
	List(ctx context.Context) ([]progressdto.ChapterOutput, error)
	Resume(ctx context.Context) (progressdto.ResumeOutput, error)
	Update(ctx context.Context, chapterID, sectionID string, percent float64) (progressdto.ChapterOutput, error)
}

type SessionPort interface {
	Touch(ctx context.Context, kind, subjectID, title, url string, progress float64) (sessiondto.SessionOutput, error)
	Activity(ctx context.Context) (sessiondto.SessionOutput, error)
	Clear(ctx context.Context) error
	Summary(ctx context.Context) (sessiondto.ActivityOutput, error)
}

type AchievementPort interface {
	Check(ctx context.Context) ([]achievementdto.AchievementOutput, error)
	Recent(ctx context.Context, limit int) ([]achievementdto.AchievementOutput, error)
}

type PrefsPort interface {
	Show(ctx context.Context) (prefsdto.PrefsOutput, error)
	ToggleFocus(ctx context.Context) (prefsdto.PrefsOutput, error)
	NextBreak(ctx context.Context, start, now time.Time) (time.Duration, error)
}

type ReportPort interface {
	Export(ctx context.Context, path string, into bool, upcoming, achievements int) (reportdto.ExportOutput, error)
}

type TaskPort interface {
	Add(ctx context.Context, text, subject string) (tasksdto.TaskOutput, error)
	Done(ctx context.Context, ref string) (tasksdto.TaskOutput, error)
	Tasks(ctx context.Context, all bool) ([]tasksdto.TaskOutput, error)
}

type ReminderPort interface {
	Reminders(ctx context.Context) ([]deadlinedto.AssignmentOutput, error)
	DismissReminder(ctx context.Context, assignmentID string) error
}

type Ports struct {
	Deadlines    DeadlinePort
	Progress     ProgressPort
	Session      SessionPort
	Achievements AchievementPort
	Prefs        PrefsPort
	Report       ReportPort
	Tasks        TaskPort
	Reminders    ReminderPort
	Now          func() time.Time
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabDeadlines
	tabProgress
	tabCount
)

var tabLabels = [tabCount]string{"Dashboard", "Deadlines", "Progress"}

const (
	tickInterval     = 5 * time.Second
	activityDebounce = time.Minute
	toastTTL         = 6 * time.Second
)

// ─── messages ────────────────────────────────────────────────────────────────

// AchievementMsg is sent into the program when an achievement is earned.
type AchievementMsg struct {
	Icon    string
	Title   string
	Message string
}

// NoticeMsg replaces the status line, e.g. when storage degrades.
type NoticeMsg struct{ Text string }

// RefreshMsg reports a scheduled urgency refresh.
type RefreshMsg struct{ Urgent int }

type tickMsg time.Time

type actionDoneMsg struct {
	status string
	err    error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Focus   key.Binding
	Refresh key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "study chapter")),
		Focus:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus mode")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter},
		{k.Focus, k.Refresh},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the toast stack
// and the command palette; everything else is delegated to ports and views.
type Model struct {
	ports Ports

	dashView     dashboardview.Model
	deadlineView deadlinesview.Model
	progressView progressview.Model

	activeTab    tabID
	keys         keyMap
	help         help.Model
	showHelp     bool
	palette      components.Palette
	toasts       components.Toasts
	lastActivity time.Time
	urgent       int
	status       string
	width        int
	height       int
}

func NewModel(ports Ports) Model {
	if ports.Now == nil {
		ports.Now = time.Now
	}
	return Model{
		ports:        ports,
		dashView:     dashboardview.New(dashboardBridge{p: ports}),
		deadlineView: deadlinesview.New(ports.Deadlines),
		progressView: progressview.New(ports.Progress),
		activeTab:    tabDashboard,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(paletteCommands...),
		toasts:       components.NewToasts(toastTTL),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dashView.Init(),
		m.deadlineView.Init(),
		m.progressView.Init(),
		tick(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Async results and messages pushed from outside the program are
	// handled even while the palette is open.
	switch msg := msg.(type) {
	case AchievementMsg:
		m.toasts.Push(m.ports.Now(), msg.Icon, msg.Title, msg.Message)
		return m, m.dashView.Reload()
	case NoticeMsg:
		m.status = msg.Text
		return m, m.dashView.Reload()
	case RefreshMsg:
		m.urgent = msg.Urgent
		return m, tea.Batch(m.dashView.Reload(), m.deadlineView.Reload())
	case tickMsg:
		m.toasts.Expire(m.ports.Now())
		return m, tea.Batch(tick(), m.dashView.Reload())

	case dashboardview.LoadedMsg:
		m.dashView, _ = m.dashView.Update(msg)
		return m, nil

	case deadlinesview.LoadedMsg:
		var cmd tea.Cmd
		m.deadlineView, cmd = m.deadlineView.Update(msg)
		return m, cmd

	case progressview.LoadedMsg:
		var cmd tea.Cmd
		m.progressView, cmd = m.progressView.Update(msg)
		return m, cmd

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.status
		}
		return m, m.reloadAll()
	}

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if cmd := m.noteActivity(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, tea.Batch(cmds...)
		}

		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, tea.Batch(cmds...)
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, tea.Batch(cmds...)
		case "?":
			m.showHelp = !m.showHelp
			return m, tea.Batch(cmds...)
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "f":
			return m, tea.Batch(append(cmds, m.toggleFocusCmd())...)
		case "r":
			m.status = "refreshing"
			return m, tea.Batch(append(cmds, m.reloadAll())...)
		case "enter":
			if m.activeTab == tabProgress {
				if id, ok := m.progressView.Selected(); ok {
					return m, tea.Batch(append(cmds, m.touchCmd("chapter", id, ""))...)
				}
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, tabCmd = m.dashView.Update(msg)
	case tabDeadlines:
		m.deadlineView, tabCmd = m.deadlineView.Update(msg)
	case tabProgress:
		m.progressView, tabCmd = m.progressView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// noteActivity keeps the study session alive while the user is at the
// keyboard, at most once per debounce window.
func (m *Model) noteActivity() tea.Cmd {
	if m.ports.Session == nil {
		return nil
	}
	now := m.ports.Now()
	if !m.lastActivity.IsZero() && now.Sub(m.lastActivity) < activityDebounce {
		return nil
	}
	m.lastActivity = now
	session := m.ports.Session
	return func() tea.Msg {
		_, err := session.Activity(context.Background())
		if err != nil && !errors.Is(err, apperrors.ErrNoActiveSession) {
			return NoticeMsg{Text: "activity: " + err.Error()}
		}
		return nil
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	if m.toasts.Len() > 0 {
		content = lipgloss.JoinVertical(lipgloss.Right, m.toasts.View(min(m.width, 48)), content)
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabDeadlines:
		return m.deadlineView.View()
	case tabProgress:
		return m.progressView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == tabDeadlines && m.urgent > 0 {
			label = fmt.Sprintf("%s (%d)", label, m.urgent)
		}
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "studydesk  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.dashView.Focus() {
		left = theme.Good.Render("focus") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

// paletteCommands mirrors the verbs handled by executePalette.
var paletteCommands = []components.Command{
	{Verb: "progress", Args: "<chapter> <section> <percent>"},
	{Verb: "touch", Args: "<chapter|essay> <id> [title]"},
	{Verb: "clear"},
	{Verb: "focus"},
	{Verb: "check"},
	{Verb: "task", Args: "<text>"},
	{Verb: "done", Args: "<task-id>"},
	{Verb: "dismiss", Args: "<assignment-id>"},
	{Verb: "report", Args: "[path]"},
	{Verb: "refresh"},
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "progress":
		if len(parts) != 4 {
			m.status = "usage: progress <chapter> <section> <percent>"
			return m, nil
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(parts[3], "%"), 64)
		if err != nil {
			m.status = "invalid percent: " + parts[3]
			return m, nil
		}
		return m, m.updateProgressCmd(parts[1], parts[2], pct)

	case "touch":
		if len(parts) < 3 {
			m.status = "usage: touch <chapter|essay> <id> [title]"
			return m, nil
		}
		return m, m.touchCmd(parts[1], parts[2], strings.Join(parts[3:], " "))

	case "clear":
		return m, m.run("session cleared", func(ctx context.Context) error {
			return m.ports.Session.Clear(ctx)
		})

	case "focus":
		return m, m.toggleFocusCmd()

	case "check":
		return m, m.checkCmd()

	case "task":
		if len(parts) < 2 {
			m.status = "usage: task <text>"
			return m, nil
		}
		text := strings.Join(parts[1:], " ")
		return m, m.run("task added", func(ctx context.Context) error {
			_, err := m.ports.Tasks.Add(ctx, text, "")
			return err
		})

	case "done":
		if len(parts) != 2 {
			m.status = "usage: done <task-id>"
			return m, nil
		}
		return m, m.run("✅ Task completed! Nice work!", func(ctx context.Context) error {
			_, err := m.ports.Tasks.Done(ctx, parts[1])
			return err
		})

	case "dismiss":
		if len(parts) != 2 {
			m.status = "usage: dismiss <assignment-id>"
			return m, nil
		}
		return m, m.run("reminder dismissed for an hour", func(ctx context.Context) error {
			return m.ports.Reminders.DismissReminder(ctx, parts[1])
		})

	case "report":
		path := ""
		if len(parts) > 1 {
			path = parts[1]
		}
		return m, m.reportCmd(path)

	case "refresh":
		m.status = "refreshing"
		return m, m.reloadAll()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabDeadlines:
		return m.deadlineView.Filtering()
	case tabProgress:
		return m.progressView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.deadlineView, _ = m.deadlineView.Update(sz)
	m.progressView, _ = m.progressView.Update(sz)
}

func (m Model) reloadAll() tea.Cmd {
	return tea.Batch(m.dashView.Reload(), m.deadlineView.Reload(), m.progressView.Reload())
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) run(ok string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{status: ok, err: fn(context.Background())}
	}
}

func (m Model) updateProgressCmd(chapterID, sectionID string, pct float64) tea.Cmd {
	progress := m.ports.Progress
	return func() tea.Msg {
		ch, err := progress.Update(context.Background(), chapterID, sectionID, pct)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("%s now %d%%", ch.ChapterID, ch.OverallProgress)}
	}
}

func (m Model) touchCmd(kind, subjectID, title string) tea.Cmd {
	session := m.ports.Session
	return func() tea.Msg {
		out, err := session.Touch(context.Background(), kind, subjectID, title, "", 0)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if out.Started {
			return actionDoneMsg{status: "session started: " + out.SubjectID}
		}
		return actionDoneMsg{status: "studying " + out.SubjectID}
	}
}

func (m Model) toggleFocusCmd() tea.Cmd {
	prefs := m.ports.Prefs
	return func() tea.Msg {
		p, err := prefs.ToggleFocus(context.Background())
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if p.Focus {
			return actionDoneMsg{status: "focus mode on"}
		}
		return actionDoneMsg{status: "focus mode off"}
	}
}

func (m Model) checkCmd() tea.Cmd {
	achievements := m.ports.Achievements
	return func() tea.Msg {
		earned, err := achievements.Check(context.Background())
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("%d new achievement(s)", len(earned))}
	}
}

func (m Model) reportCmd(path string) tea.Cmd {
	report := m.ports.Report
	return func() tea.Msg {
		out, err := report.Export(context.Background(), path, false, 0, 0)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !out.Written {
			return actionDoneMsg{status: fmt.Sprintf("report rendered (%d bytes), pass a path to save it", len(out.Content))}
		}
		return actionDoneMsg{status: "report written to " + out.Path}
	}
}

// ─── port bridges ────────────────────────────────────────────────────────────

type dashboardBridge struct{ p Ports }

func (b dashboardBridge) Now() time.Time { return b.p.Now() }

func (b dashboardBridge) Resume(ctx context.Context) (progressdto.ResumeOutput, error) {
	return b.p.Progress.Resume(ctx)
}

func (b dashboardBridge) Upcoming(ctx context.Context, limit int) ([]deadlinedto.AssignmentOutput, error) {
	return b.p.Deadlines.Upcoming(ctx, limit)
}

func (b dashboardBridge) Summary(ctx context.Context) (sessiondto.ActivityOutput, error) {
	return b.p.Session.Summary(ctx)
}

func (b dashboardBridge) Recent(ctx context.Context, limit int) ([]achievementdto.AchievementOutput, error) {
	return b.p.Achievements.Recent(ctx, limit)
}

func (b dashboardBridge) Prefs(ctx context.Context) (prefsdto.PrefsOutput, error) {
	return b.p.Prefs.Show(ctx)
}

func (b dashboardBridge) NextBreak(ctx context.Context, start, now time.Time) (time.Duration, error) {
	return b.p.Prefs.NextBreak(ctx, start, now)
}

func (b dashboardBridge) Reminders(ctx context.Context) ([]deadlinedto.AssignmentOutput, error) {
	if b.p.Reminders == nil {
		return nil, nil
	}
	return b.p.Reminders.Reminders(ctx)
}

func (b dashboardBridge) Tasks(ctx context.Context, all bool) ([]tasksdto.TaskOutput, error) {
	if b.p.Tasks == nil {
		return nil, nil
	}
	return b.p.Tasks.Tasks(ctx, all)
}
