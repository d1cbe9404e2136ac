package out

import (
	"context"

	"studydesk/internal/modules/session/domain"
)

type Decision int

const (
	Leave Decision = iota
	Save
	Remove
)

// SessionStore holds the singleton session. Mutate is an atomic
// read-modify-write; fn edits cur in place and decides what to persist.
type SessionStore interface {
	Load(ctx context.Context) (domain.StudySession, bool, error)
	Mutate(ctx context.Context, fn func(cur *domain.StudySession, found bool) (Decision, error)) error
}

// HistoryStore keeps the capped session log and the separate set of study
// days used for streaks.
type HistoryStore interface {
	Load(ctx context.Context) (domain.History, error)
	Update(ctx context.Context, fn func(domain.History) domain.History) error
	Days(ctx context.Context) (domain.StudyDays, error)
	MarkDay(ctx context.Context, date string) error
}

// Journal keeps a human-readable record of finished sessions.
type Journal interface {
	Record(ctx context.Context, closed domain.Closed) (string, error)
}
