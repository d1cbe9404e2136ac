package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeInto(p Palette, s string) Palette {
	for _, r := range s {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func press(p Palette, k tea.KeyType) (Palette, tea.Msg) {
	p, cmd := p.Update(tea.KeyMsg{Type: k})
	if cmd == nil {
		return p, nil
	}
	return p, cmd()
}

func testPalette() Palette {
	return NewPalette(
		Command{Verb: "progress", Args: "<chapter> <section> <percent>"},
		Command{Verb: "focus"},
		Command{Verb: "refresh"},
		Command{Verb: "report", Args: "[path]"},
	)
}

func TestPaletteCompletesUniqueVerb(t *testing.T) {
	p := testPalette()
	p.Open()

	p = typeInto(p, "f")
	p, _ = press(p, tea.KeyTab)
	if p.Value() != "focus " {
		t.Fatalf("expected completion to focus, got %q", p.Value())
	}

	p.Open()
	p = typeInto(p, "re")
	p, _ = press(p, tea.KeyTab)
	if p.Value() != "re" {
		t.Fatalf("ambiguous prefix should not complete, got %q", p.Value())
	}
}

func TestPaletteSubmitAndRecall(t *testing.T) {
	p := testPalette()
	p.Open()
	p = typeInto(p, " focus ")
	p, msg := press(p, tea.KeyEnter)
	if sub, ok := msg.(PaletteSubmitMsg); !ok || sub.Input != "focus" {
		t.Fatalf("unexpected submit: %#v", msg)
	}
	if p.Visible() {
		t.Fatalf("palette should close on submit")
	}

	p.Open()
	p = typeInto(p, "refresh")
	p, _ = press(p, tea.KeyEnter)

	p.Open()
	p, _ = press(p, tea.KeyUp)
	if p.Value() != "refresh" {
		t.Fatalf("expected last command, got %q", p.Value())
	}
	p, _ = press(p, tea.KeyUp)
	if p.Value() != "focus" {
		t.Fatalf("expected earlier command, got %q", p.Value())
	}
	p, _ = press(p, tea.KeyDown)
	p, _ = press(p, tea.KeyDown)
	if p.Value() != "" {
		t.Fatalf("expected empty prompt past newest entry, got %q", p.Value())
	}

	_, msg = press(p, tea.KeyEsc)
	if _, ok := msg.(PaletteCancelMsg); !ok {
		t.Fatalf("expected cancel, got %#v", msg)
	}
}
