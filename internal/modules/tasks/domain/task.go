package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNoTask = errors.New("no such task")

const (
	MaxTextLength = 280
	// MinRefLength is the shortest id prefix accepted as a task reference.
	MinRefLength = 4
)

type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Subject     string    `json:"subject,omitempty"`
	Completed   bool      `json:"completed"`
	Created     time.Time `json:"created"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
}

// NewTask trims text and subject; blank text is rejected.
func NewTask(id, text, subject string, at time.Time) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, fmt.Errorf("task text is required")
	}
	if len([]rune(text)) > MaxTextLength {
		return Task{}, fmt.Errorf("task text must be at most %d characters", MaxTextLength)
	}
	return Task{ID: id, Text: text, Subject: strings.TrimSpace(subject), Created: at}, nil
}

// List is the persisted task list in creation order.
type List []Task

// Find resolves ref to an index: an exact id, or an id prefix of at least
// MinRefLength characters that matches a single task.
func (l List) Find(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("task id is required")
	}
	match := -1
	for n, t := range l {
		if t.ID == ref {
			return n, nil
		}
		if len(ref) >= MinRefLength && strings.HasPrefix(t.ID, ref) {
			if match >= 0 {
				return -1, fmt.Errorf("task id %q is ambiguous", ref)
			}
			match = n
		}
	}
	if match < 0 {
		return -1, ErrNoTask
	}
	return match, nil
}

// Open lists the incomplete tasks.
func (l List) Open() List {
	out := make(List, 0, len(l))
	for _, t := range l {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// WithoutCompleted drops finished tasks and reports how many went.
func (l List) WithoutCompleted() (List, int) {
	open := l.Open()
	return open, len(l) - len(open)
}
