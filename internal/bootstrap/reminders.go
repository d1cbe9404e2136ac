package bootstrap

import (
	"context"

	deadlinedto "studydesk/internal/modules/deadline/dto"
)

// Reminders are the near high-priority deadlines whose reminder has not been
// dismissed within the last hour.
func (a *App) Reminders(ctx context.Context) ([]deadlinedto.AssignmentOutput, error) {
	due, err := a.DeadlineCLI.Reminders(ctx)
	if err != nil || len(due) == 0 {
		return nil, err
	}
	ids := make([]string, 0, len(due))
	for _, d := range due {
		ids = append(ids, d.ID)
	}
	active, err := a.PrefsCLI.ActiveReminders(ctx, ids)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(active))
	for _, id := range active {
		keep[id] = true
	}
	out := due[:0]
	for _, d := range due {
		if keep[d.ID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (a *App) DismissReminder(ctx context.Context, assignmentID string) error {
	return a.PrefsCLI.DismissReminder(ctx, assignmentID)
}
