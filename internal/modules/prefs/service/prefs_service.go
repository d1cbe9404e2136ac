package service

import (
	"context"
	"fmt"
	"strings"

	"studydesk/internal/modules/prefs/domain"
	prefsout "studydesk/internal/modules/prefs/port/out"
	"studydesk/internal/platform/clock"
	apperrors "studydesk/internal/platform/errors"
)

type PrefsService struct {
	store prefsout.Store
	clock clock.Clock
}

func NewPrefsService(store prefsout.Store, clock clock.Clock) *PrefsService {
	return &PrefsService{store: store, clock: clock}
}

func (s *PrefsService) Load(ctx context.Context) (domain.Preferences, error) {
	prefs := domain.Defaults()
	b, _, err := s.store.Break(ctx)
	if err != nil {
		return prefs, err
	}
	prefs.Break = b.WithDefaults()
	f, _, err := s.store.Focus(ctx)
	if err != nil {
		return prefs, err
	}
	prefs.Focus = f
	r, _, err := s.store.Reading(ctx)
	if err != nil {
		return prefs, err
	}
	prefs.Reading = r.Clamp()
	return prefs, nil
}

func (s *PrefsService) SetBreak(ctx context.Context, interval, duration *int) (domain.Preferences, error) {
	prefs, err := s.Load(ctx)
	if err != nil {
		return prefs, err
	}
	next := prefs.Break
	if interval != nil {
		next.Interval = *interval
	}
	if duration != nil {
		next.Duration = *duration
	}
	if err := next.Validate(); err != nil {
		return prefs, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.store.SaveBreak(ctx, next); err != nil {
		return prefs, fmt.Errorf("save break preferences: %w", err)
	}
	prefs.Break = next
	return prefs, nil
}

func (s *PrefsService) SetFocus(ctx context.Context, enabled bool) (domain.Preferences, error) {
	prefs, err := s.Load(ctx)
	if err != nil {
		return prefs, err
	}
	prefs.Focus = domain.Focus{Enabled: enabled}
	if err := s.store.SaveFocus(ctx, prefs.Focus); err != nil {
		return prefs, fmt.Errorf("save focus preference: %w", err)
	}
	return prefs, nil
}

// SetReading clamps out-of-range values instead of rejecting them.
func (s *PrefsService) SetReading(ctx context.Context, fontSize *int, lineSpacing *float64, highContrast *bool) (domain.Preferences, error) {
	prefs, err := s.Load(ctx)
	if err != nil {
		return prefs, err
	}
	next := prefs.Reading
	if fontSize != nil {
		next.FontSize = *fontSize
	}
	if lineSpacing != nil {
		next.LineSpacing = *lineSpacing
	}
	if highContrast != nil {
		next.HighContrast = *highContrast
	}
	next = next.Clamp()
	if err := s.store.SaveReading(ctx, next); err != nil {
		return prefs, fmt.Errorf("save reading preferences: %w", err)
	}
	prefs.Reading = next
	return prefs, nil
}

func (s *PrefsService) Reset(ctx context.Context) (domain.Preferences, error) {
	if err := s.store.Reset(ctx); err != nil {
		return domain.Preferences{}, fmt.Errorf("reset preferences: %w", err)
	}
	return domain.Defaults(), nil
}

// DismissReminder quiets the reminder for assignmentID for DismissWindow.
// Expired dismissals are dropped on the way.
func (s *PrefsService) DismissReminder(ctx context.Context, assignmentID string) error {
	assignmentID = strings.TrimSpace(assignmentID)
	if assignmentID == "" {
		return fmt.Errorf("%w: assignment id is required", apperrors.ErrInvalidInput)
	}
	now := s.clock.Now()
	err := s.store.UpdateDismissals(ctx, func(d domain.Dismissals) domain.Dismissals {
		d = d.Prune(now)
		d[assignmentID] = now
		return d
	})
	if err != nil {
		return fmt.Errorf("save reminder dismissal: %w", err)
	}
	return nil
}

// ActiveReminders keeps the ids, in order, that were not dismissed within
// the last DismissWindow.
func (s *PrefsService) ActiveReminders(ctx context.Context, ids []string) ([]string, error) {
	d, err := s.store.Dismissals(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !d.Quiet(id, now) {
			out = append(out, id)
		}
	}
	return out, nil
}
