package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studydesk/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// Command describes one palette verb and its argument shape.
type Command struct {
	Verb string
	Args string
}

func (c Command) usage() string {
	if c.Args == "" {
		return c.Verb
	}
	return c.Verb + " " + c.Args
}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	usageStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
	verbStyle  = lipgloss.NewStyle().Foreground(theme.Sapphire).Bold(true)
)

const (
	maxShown   = 5
	maxHistory = 10
)

// Palette is a one-line command prompt. Tab completes a unique verb and
// up/down walk the commands submitted earlier in this run.
type Palette struct {
	input    textinput.Model
	commands []Command
	visible  bool
	width    int
	history  []string
	cursor   int
}

// NewPalette returns a hidden palette offering commands.
func NewPalette(commands ...Command) Palette {
	ti := textinput.New()
	ti.Placeholder = "progress, touch, focus, report…"
	ti.CharLimit = 256
	return Palette{input: ti, commands: commands}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty prompt.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.cursor = len(p.history)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Value is the current prompt text.
func (p Palette) Value() string { return p.input.Value() }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.remember(val)
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			p.complete()
			return p, nil
		case "up":
			p.recall(-1)
			return p, nil
		case "down":
			p.recall(1)
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Palette) remember(val string) {
	if val == "" {
		return
	}
	if n := len(p.history); n > 0 && p.history[n-1] == val {
		return
	}
	p.history = append(p.history, val)
	if len(p.history) > maxHistory {
		p.history = p.history[len(p.history)-maxHistory:]
	}
}

func (p *Palette) recall(step int) {
	next := p.cursor + step
	if next < 0 || next > len(p.history) {
		return
	}
	p.cursor = next
	if next == len(p.history) {
		p.input.SetValue("")
		return
	}
	p.input.SetValue(p.history[next])
	p.input.CursorEnd()
}

// complete replaces a partial verb with the only command it prefixes.
func (p *Palette) complete() {
	word := strings.TrimSpace(p.input.Value())
	if word == "" || strings.Contains(word, " ") {
		return
	}
	matches := p.matching(strings.ToLower(word))
	if len(matches) != 1 {
		return
	}
	p.input.SetValue(matches[0].Verb + " ")
	p.input.CursorEnd()
}

func (p Palette) matching(word string) []Command {
	var out []Command
	for _, c := range p.commands {
		if word == "" || strings.HasPrefix(c.Verb, word) || strings.HasPrefix(word, c.Verb+" ") {
			out = append(out, c)
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")

	matches := p.matching(strings.ToLower(strings.TrimLeft(p.input.Value(), " ")))
	if len(matches) > 0 {
		sb.WriteString("\n")
	}
	for i, c := range matches {
		if i == maxShown {
			sb.WriteString(usageStyle.Render("  …") + "\n")
			break
		}
		sb.WriteString("  " + verbStyle.Render(c.Verb) + usageStyle.Render(strings.TrimPrefix(c.usage(), c.Verb)) + "\n")
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
