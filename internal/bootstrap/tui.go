package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	progressdomain "studydesk/internal/modules/progress/domain"
	"studydesk/internal/platform/events"
	"studydesk/internal/platform/schedule"
	uiapp "studydesk/internal/ui/app"
)

func (a *App) uiPorts() uiapp.Ports {
	return uiapp.Ports{
		Deadlines:    a.DeadlineCLI,
		Progress:     a.ProgressCLI,
		Session:      a.SessionCLI,
		Achievements: a.AchievementCLI,
		Prefs:        a.PrefsCLI,
		Report:       a.ReportCLI,
		Tasks:        a.TasksCLI,
		Reminders:    a,
		Now:          a.Clock.Now,
	}
}

// SectionMilestone is the half or full completion toast carried by a
// progress.changed event. Resets never announce.
func SectionMilestone(e events.Event) (progressdomain.Milestone, bool) {
	p, ok := e.Payload.(events.ProgressPayload)
	if !ok || p.Reset || p.SectionID == "" {
		return progressdomain.Milestone{}, false
	}
	return progressdomain.SectionMilestone(p.SectionID, p.PercentComplete)
}

// Forward relays bus events the TUI surfaces into send and returns a func
// that unsubscribes them.
func (a *App) Forward(bus events.Subscriber, send func(tea.Msg)) func() {
	stops := []func(){
		bus.Subscribe(events.AchievementEarned, func(e events.Event) {
			if p, ok := e.Payload.(events.AchievementPayload); ok {
				send(uiapp.AchievementMsg{Icon: p.Icon, Title: p.Title, Message: p.Message})
			}
		}),
		bus.Subscribe(events.ProgressChanged, func(e events.Event) {
			if m, ok := SectionMilestone(e); ok {
				send(uiapp.AchievementMsg{Icon: m.Icon, Title: m.Title, Message: m.Message})
			}
		}),
		bus.Subscribe(events.StoreDegraded, func(e events.Event) {
			if p, ok := e.Payload.(events.DegradedPayload); ok {
				send(uiapp.NoticeMsg{Text: fmt.Sprintf("storage unavailable (%s), changes kept in memory only", p.Reason)})
			}
		}),
		bus.Subscribe(events.SessionEnded, func(e events.Event) {
			if p, ok := e.Payload.(events.SessionPayload); ok {
				send(uiapp.NoticeMsg{Text: fmt.Sprintf("session on %s ended after %d min (%s)", p.SubjectID, p.Minutes, p.Reason)})
			}
		}),
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

func RunTUI(ctx context.Context, app *App) error {
	program := tea.NewProgram(uiapp.NewModel(app.uiPorts()), tea.WithAltScreen(), tea.WithContext(ctx))

	stop := app.Forward(app.Bus, program.Send)
	defer stop()

	ticker := schedule.NewTicker(ctx, app.Logger.Named("schedule"))
	defer ticker.Close()
	app.Schedule(ticker, func(urgent int) { program.Send(uiapp.RefreshMsg{Urgent: urgent}) })

	if err := app.Degraded(); err != nil {
		go program.Send(uiapp.NoticeMsg{Text: "storage unavailable, changes kept in memory only: " + err.Error()})
	}

	_, err := program.Run()
	return err
}
