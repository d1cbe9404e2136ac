package deadlines

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	deadlinedto "studydesk/internal/modules/deadline/dto"
	"studydesk/internal/ui/theme"
)

type DeadlinePort interface {
	Upcoming(ctx context.Context, limit int) ([]deadlinedto.AssignmentOutput, error)
	Overdue(ctx context.Context) ([]deadlinedto.AssignmentOutput, error)
}

type LoadedMsg struct {
	Upcoming []deadlinedto.AssignmentOutput
	Overdue  []deadlinedto.AssignmentOutput
	Err      error
}

type assignmentItem struct {
	a deadlinedto.AssignmentOutput
}

func (i assignmentItem) Title() string {
	return theme.Tier(i.a.Tier).Render(i.a.Title)
}

func (i assignmentItem) Description() string {
	course := i.a.CourseName
	if course == "" {
		course = i.a.CourseID
	}
	return fmt.Sprintf("%s · %s · %s", course, i.a.Due.Format("Mon Jan 2 15:04"), i.a.DaysText)
}

func (i assignmentItem) FilterValue() string { return i.a.Title + " " + i.a.CourseName }

type Model struct {
	port    DeadlinePort
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func New(port DeadlinePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Deadlines"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, detail: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches every pending and overdue assignment.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		ctx := context.Background()
		upcoming, err := m.port.Upcoming(ctx, 0)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		overdue, err := m.port.Overdue(ctx)
		return LoadedMsg{Upcoming: upcoming, Overdue: overdue, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			m.list.Title = "Deadlines: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = fmt.Sprintf("Deadlines (%d pending, %d overdue)", len(msg.Upcoming), len(msg.Overdue))
		items := make([]list.Item, 0, len(msg.Upcoming)+len(msg.Overdue))
		for _, a := range msg.Upcoming {
			items = append(items, assignmentItem{a: a})
		}
		for _, a := range msg.Overdue {
			items = append(items, assignmentItem{a: a})
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		prev := m.list.Index()
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
		if m.list.Index() != prev {
			m.detail.SetContent(m.renderDetail())
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Loading deadlines…")
	}
	listW := m.width * 5 / 10
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Pane.Width(m.width - listW - 2).Height(m.height - 2).Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 5 / 10
	m.list.SetSize(listW, m.height)
	m.detail.Width = m.width - listW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(assignmentItem)
	if !ok {
		return theme.Muted.Render("Nothing due. Enjoy the breathing room.")
	}
	a := item.a
	var b strings.Builder
	b.WriteString(theme.Title.Render(a.Title) + "\n\n")
	fmt.Fprintf(&b, "%s  %s\n", theme.Tier(a.Tier).Render(strings.ToUpper(a.TierLabel)), a.DaysText)
	fmt.Fprintf(&b, "Due:      %s\n", a.Due.Format("Monday, January 2 at 15:04"))
	if !a.End.IsZero() {
		fmt.Fprintf(&b, "Closes:   %s\n", a.End.Format("Monday, January 2 at 15:04"))
	}
	fmt.Fprintf(&b, "Course:   %s\n", a.CourseName)
	fmt.Fprintf(&b, "Type:     %s (%s priority)\n", a.Category, a.Priority)
	if a.Recurrence != "" {
		fmt.Fprintf(&b, "Repeats:  %s\n", a.Recurrence)
	}
	if len(a.Covers) > 0 {
		fmt.Fprintf(&b, "Covers:   %s\n", strings.Join(a.Covers, ", "))
	}
	if a.Description != "" {
		b.WriteString("\n" + a.Description + "\n")
	}
	if a.URL != "" {
		b.WriteString("\n" + theme.Muted.Render(a.URL) + "\n")
	}
	return b.String()
}
