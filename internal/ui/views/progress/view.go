package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "studydesk/internal/modules/progress/dto"
	"studydesk/internal/ui/theme"
)

type ProgressPort interface {
	List(ctx context.Context) ([]progressdto.ChapterOutput, error)
}

type LoadedMsg struct {
	Chapters []progressdto.ChapterOutput
	Err      error
}

type chapterItem struct {
	ch progressdto.ChapterOutput
}

func (i chapterItem) Title() string { return i.ch.ChapterID }

func (i chapterItem) Description() string {
	return fmt.Sprintf("%s %3d%%", theme.Bar(i.ch.OverallProgress, 20), i.ch.OverallProgress)
}

func (i chapterItem) FilterValue() string { return i.ch.ChapterID }

type Model struct {
	port   ProgressPort
	list   list.Model
	detail viewport.Model
	width  int
	height int
}

func New(port ProgressPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Progress"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)
	return Model{port: port, list: l, detail: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		chapters, err := m.port.List(context.Background())
		return LoadedMsg{Chapters: chapters, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listW := m.width / 2
		m.list.SetSize(listW, m.height)
		m.detail.Width = m.width - listW - 4
		m.detail.Height = m.height - 4

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Progress: " + msg.Err.Error()
			return m, nil
		}
		done := 0
		items := make([]list.Item, 0, len(msg.Chapters))
		for _, ch := range msg.Chapters {
			if ch.Complete {
				done++
			}
			items = append(items, chapterItem{ch: ch})
		}
		m.list.Title = fmt.Sprintf("Progress (%d/%d chapters complete)", done, len(msg.Chapters))
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())
	}

	prev := m.list.Index()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	if m.list.Index() != prev {
		m.detail.SetContent(m.renderDetail())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width / 2
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Pane.Width(m.width - listW - 2).Height(m.height - 2).Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Selected returns the highlighted chapter id.
func (m Model) Selected() (string, bool) {
	if item, ok := m.list.SelectedItem().(chapterItem); ok {
		return item.ch.ChapterID, true
	}
	return "", false
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(chapterItem)
	if !ok {
		return theme.Muted.Render("No progress yet. Try  :progress chapter-1 1-1 50")
	}
	ch := item.ch
	var b strings.Builder
	b.WriteString(theme.Title.Render(ch.ChapterID) + "\n")
	fmt.Fprintf(&b, "%s %d%%\n", theme.Bar(ch.OverallProgress, 30), ch.OverallProgress)
	if !ch.LastAccessed.IsZero() {
		b.WriteString(theme.Muted.Render("last studied "+ch.LastAccessed.Local().Format("Jan 2 15:04")) + "\n")
	}
	b.WriteString("\n")
	for _, sec := range ch.Sections {
		mark := theme.Muted.Render("○")
		if sec.Completed {
			mark = theme.Good.Render("●")
		}
		fmt.Fprintf(&b, "%s %-10s %s %3.0f%%\n", mark, sec.SectionID, theme.Bar(int(sec.PercentComplete), 12), sec.PercentComplete)
	}
	return b.String()
}
