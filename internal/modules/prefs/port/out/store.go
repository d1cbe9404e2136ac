package out

import (
	"context"

	"studydesk/internal/modules/prefs/domain"
)

// Store reads return found=false for absent or unreadable records.
type Store interface {
	Break(ctx context.Context) (domain.Break, bool, error)
	SaveBreak(ctx context.Context, b domain.Break) error
	Focus(ctx context.Context) (domain.Focus, bool, error)
	SaveFocus(ctx context.Context, f domain.Focus) error
	Reading(ctx context.Context) (domain.Reading, bool, error)
	SaveReading(ctx context.Context, r domain.Reading) error
	Dismissals(ctx context.Context) (domain.Dismissals, error)
	UpdateDismissals(ctx context.Context, fn func(domain.Dismissals) domain.Dismissals) error
	Reset(ctx context.Context) error
}
