package components

import (
	"strings"
	"time"

	"studydesk/internal/ui/theme"
)

type toast struct {
	icon    string
	title   string
	message string
	until   time.Time
}

// Toasts is a short queue of achievement notices, newest last.
type Toasts struct {
	items []toast
	ttl   time.Duration
	max   int
}

func NewToasts(ttl time.Duration) Toasts {
	return Toasts{ttl: ttl, max: 3}
}

func (t *Toasts) Push(now time.Time, icon, title, message string) {
	t.items = append(t.items, toast{icon: icon, title: title, message: message, until: now.Add(t.ttl)})
	if len(t.items) > t.max {
		t.items = t.items[len(t.items)-t.max:]
	}
}

// Expire drops toasts whose time is up and reports whether any remain.
func (t *Toasts) Expire(now time.Time) bool {
	kept := t.items[:0]
	for _, it := range t.items {
		if now.Before(it.until) {
			kept = append(kept, it)
		}
	}
	t.items = kept
	return len(t.items) > 0
}

func (t Toasts) Len() int { return len(t.items) }

func (t Toasts) View(width int) string {
	if len(t.items) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(t.items))
	for _, it := range t.items {
		body := theme.Hot.Render(it.title) + "\n" + it.message
		rendered = append(rendered, theme.Toast.Width(min(width, 60)).Render(body))
	}
	return strings.Join(rendered, "\n")
}
