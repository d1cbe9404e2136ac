package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studydesk/internal/bootstrap"
	deadlinedto "studydesk/internal/modules/deadline/dto"
	prefsdto "studydesk/internal/modules/prefs/dto"
	sessiondto "studydesk/internal/modules/session/dto"
	tasksdto "studydesk/internal/modules/tasks/dto"
	"studydesk/internal/platform/config"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/platform/events"
	"studydesk/internal/platform/schedule"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	home      string
	now       string
	ephemeral bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "studydesk",
		Short:         "Deadlines, chapter progress and study sessions for one course load",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.home, "home", defaultHome(), "data directory (config.yaml, catalog.yaml, store)")
	root.PersistentFlags().StringVar(&flags.now, "now", "", "pin the clock: YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339")
	root.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "keep all state in memory for this run")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newWatchCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newDeadlinesCmd(flags))
	root.AddCommand(newProgressCmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newAchievementsCmd(flags))
	root.AddCommand(newPrefsCmd(flags))
	root.AddCommand(newTasksCmd(flags))
	return root
}

func defaultHome() string {
	if home := os.Getenv("STUDYDESK_HOME"); home != "" {
		return home
	}
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".studydesk")
	}
	return ".studydesk"
}

func loadApp(cmd *cobra.Command, flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := config.New(flags.home)
	if err != nil {
		return nil, err
	}
	opts := bootstrap.Options{Ephemeral: flags.ephemeral}
	if flags.now != "" {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		if opts.Now, err = parseWhen(flags.now, loc); err != nil {
			return nil, fmt.Errorf("--now: %w", err)
		}
	}
	app, err := bootstrap.New(cmd.Context(), cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := app.Degraded(); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "note: storage unavailable, changes will not persist: %v\n", err)
	}
	return app, nil
}

// withApp loads the app, runs fn and closes the app again.
func withApp(flags *globalFlags, fn func(cmd *cobra.Command, args []string, app *bootstrap.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd, flags)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()
		return fn(cmd, args, app)
	}
}

func parseWhen(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised time %q", apperrors.ErrInvalidInput, value)
}

func location(app *bootstrap.App) *time.Location {
	loc, err := app.Config.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

// ─── tui / watch / report ────────────────────────────────────────────────────

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the studydesk dashboard",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			return bootstrap.RunTUI(cmd.Context(), app)
		}),
	}
}

func newWatchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the scheduled jobs headless, printing notices until interrupted",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			unsubscribe := []func(){
				app.Bus.Subscribe(events.AchievementEarned, func(e events.Event) {
					if p, ok := e.Payload.(events.AchievementPayload); ok {
						_, _ = fmt.Fprintf(out, "%s achievement: %s %s\n", e.At.Format(time.Kitchen), p.Title, p.Message)
					}
				}),
				app.Bus.Subscribe(events.ProgressChanged, func(e events.Event) {
					if m, ok := bootstrap.SectionMilestone(e); ok {
						_, _ = fmt.Fprintf(out, "%s %s %s\n", e.At.Format(time.Kitchen), m.Title, m.Message)
					}
				}),
				app.Bus.Subscribe(events.SessionEnded, func(e events.Event) {
					if p, ok := e.Payload.(events.SessionPayload); ok {
						_, _ = fmt.Fprintf(out, "%s session on %s ended after %d min (%s)\n", e.At.Format(time.Kitchen), p.SubjectID, p.Minutes, p.Reason)
					}
				}),
				app.Bus.Subscribe(events.StoreDegraded, func(e events.Event) {
					if p, ok := e.Payload.(events.DegradedPayload); ok {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "note: storage %s unavailable: %s\n", p.Backend, p.Reason)
					}
				}),
			}
			defer func() {
				for _, u := range unsubscribe {
					u()
				}
			}()

			ticker := schedule.NewTicker(ctx, app.Logger.Named("schedule"))
			defer ticker.Close()
			app.Schedule(ticker, func(urgent int) {
				_, _ = fmt.Fprintf(out, "%s %d urgent deadline(s)\n", app.Clock.Now().Format(time.Kitchen), urgent)
			})
			_, _ = fmt.Fprintln(out, "watching; ctrl+c to stop")
			<-ctx.Done()
			return nil
		}),
	}
}

func newReportCmd(flags *globalFlags) *cobra.Command {
	var out string
	var into bool
	var upcoming, achievements int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a Markdown progress report, optionally into a note",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			res, err := app.ReportCLI.Export(cmd.Context(), out, into, upcoming, achievements)
			if err != nil {
				return err
			}
			if !res.Written {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), res.Content)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", res.Path)
			return nil
		}),
	}
	cmd.Flags().StringVar(&out, "out", "", "write the report to this Markdown file")
	cmd.Flags().BoolVar(&into, "into", false, "replace only the managed block inside --out, keeping the rest of the note")
	cmd.Flags().IntVar(&upcoming, "upcoming", 5, "upcoming deadlines to include")
	cmd.Flags().IntVar(&achievements, "achievements", 5, "recent achievements to include")
	return cmd
}

// ─── deadlines ───────────────────────────────────────────────────────────────

func printAssignments(w io.Writer, items []deadlinedto.AssignmentOutput, empty string) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, empty)
		return
	}
	for _, a := range items {
		_, _ = fmt.Fprintf(w, "%s\t%-8s\t%s\t%s\t%s\n", a.Due.Format("Mon Jan 02 15:04"), a.Tier, a.DaysText, a.CourseName, a.Title)
	}
}

func newDeadlinesCmd(flags *globalFlags) *cobra.Command {
	deadlines := &cobra.Command{Use: "deadlines", Short: "Query the assignment catalog"}

	var limit int
	upcoming := &cobra.Command{
		Use:   "upcoming",
		Short: "Pending assignments, soonest first",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if !cmd.Flags().Changed("limit") {
				limit = app.Config.Urgency.UpcomingLimit
			}
			items, err := app.DeadlineCLI.Upcoming(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printAssignments(cmd.OutOrStdout(), items, "nothing due")
			return nil
		}),
	}
	upcoming.Flags().IntVar(&limit, "limit", 0, "maximum assignments (0 = all; default from config)")

	overdue := &cobra.Command{
		Use:   "overdue",
		Short: "Past-due one-off assignments",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			items, err := app.DeadlineCLI.Overdue(cmd.Context())
			if err != nil {
				return err
			}
			printAssignments(cmd.OutOrStdout(), items, "nothing overdue")
			return nil
		}),
	}

	urgent := &cobra.Command{
		Use:   "urgent",
		Short: "Assignments due within the 48-hour window",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			items, err := app.DeadlineCLI.Urgent(cmd.Context())
			if err != nil {
				return err
			}
			printAssignments(cmd.OutOrStdout(), items, "nothing urgent")
			return nil
		}),
	}

	reminders := &cobra.Command{
		Use:   "reminders",
		Short: "High-priority work due within two weeks that has not been dismissed",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			items, err := app.Reminders(cmd.Context())
			if err != nil {
				return err
			}
			printAssignments(cmd.OutOrStdout(), items, "no reminders")
			return nil
		}),
	}

	on := &cobra.Command{
		Use:   "on <date>",
		Short: "Assignments due on a calendar day",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			day, err := parseWhen(args[0], location(app))
			if err != nil {
				return err
			}
			items, err := app.DeadlineCLI.ForDate(cmd.Context(), day)
			if err != nil {
				return err
			}
			printAssignments(cmd.OutOrStdout(), items, "nothing due that day")
			return nil
		}),
	}

	var fortyEight bool
	classify := &cobra.Command{
		Use:   "classify <due>",
		Short: "Urgency tier of an arbitrary due date",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			due, err := parseWhen(args[0], location(app))
			if err != nil {
				return err
			}
			out, err := app.DeadlineCLI.Classify(cmd.Context(), due, fortyEight)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tier=%s label=%q days=%d text=%q\n", out.Tier, out.Label, out.Days, out.DaysText)
			return nil
		}),
	}
	classify.Flags().BoolVar(&fortyEight, "48h", false, "use the urgent-view windows")

	var from, to string
	recurring := &cobra.Command{
		Use:   "recurring <assignment-id>",
		Short: "Occurrences of a weekly assignment in a range",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			loc := location(app)
			start, end := app.Clock.Now(), time.Time{}
			var err error
			if from != "" {
				if start, err = parseWhen(from, loc); err != nil {
					return err
				}
			}
			if to != "" {
				if end, err = parseWhen(to, loc); err != nil {
					return err
				}
			} else {
				end = start.AddDate(0, 0, 28)
			}
			out, err := app.DeadlineCLI.Occurrences(cmd.Context(), args[0], start, end)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d occurrence(s))\n", out.Title, len(out.Dates))
			for _, d := range out.Dates {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", d.In(loc).Format("Mon Jan 02 15:04"))
			}
			return nil
		}),
	}
	recurring.Flags().StringVar(&from, "from", "", "range start (default now)")
	recurring.Flags().StringVar(&to, "to", "", "range end (default four weeks after --from)")

	courses := &cobra.Command{
		Use:   "courses",
		Short: "Courses in the catalog",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			items, err := app.DeadlineCLI.Courses(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tchapters=%s\n", c.ID, c.Name, strings.Join(c.Chapters, ","))
			}
			return nil
		}),
	}

	deadlines.AddCommand(upcoming, overdue, urgent, reminders, on, classify, recurring, courses)
	return deadlines
}

// ─── progress ────────────────────────────────────────────────────────────────

func newProgressCmd(flags *globalFlags) *cobra.Command {
	progress := &cobra.Command{Use: "progress", Short: "Chapter and section progress"}

	update := &cobra.Command{
		Use:   "update <chapter> <section> <percent>",
		Short: "Record a section's completion percentage",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			pct, err := strconv.ParseFloat(strings.TrimSuffix(args[2], "%"), 64)
			if err != nil {
				return fmt.Errorf("%w: percent %q", apperrors.ErrInvalidInput, args[2])
			}
			ch, err := app.ProgressCLI.Update(cmd.Context(), args[0], args[1], pct)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s now %d%% (complete=%t)\n", ch.ChapterID, ch.OverallProgress, ch.Complete)
			return nil
		}),
	}

	show := &cobra.Command{
		Use:   "show <chapter> [section]",
		Short: "Show a chapter, or one of its sections",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			w := cmd.OutOrStdout()
			if len(args) == 2 {
				sec, err := app.ProgressCLI.Section(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "%s/%s %.1f%% completed=%t\n", sec.ChapterID, sec.SectionID, sec.PercentComplete, sec.Completed)
				return nil
			}
			ch, err := app.ProgressCLI.Chapter(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "%s %d%% complete=%t\n", ch.ChapterID, ch.OverallProgress, ch.Complete)
			for _, sec := range ch.Sections {
				_, _ = fmt.Fprintf(w, "  %s\t%.1f%%\n", sec.SectionID, sec.PercentComplete)
			}
			return nil
		}),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "All chapters with recorded progress",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			chapters, err := app.ProgressCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(chapters) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no progress recorded")
				return nil
			}
			for _, ch := range chapters {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%3d%%\t%d section(s)\n", ch.ChapterID, ch.OverallProgress, len(ch.Sections))
			}
			return nil
		}),
	}

	resume := &cobra.Command{
		Use:   "resume",
		Short: "Where to pick up",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			r, err := app.ProgressCLI.Resume(cmd.Context())
			if errors.Is(err, apperrors.ErrNotFound) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing started yet")
				return nil
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s section %s (%d%%), last studied %s\n", r.ChapterID, r.SectionID, r.OverallProgress, r.LastAccessed.In(location(app)).Format("Mon Jan 02 15:04"))
			return nil
		}),
	}

	reset := &cobra.Command{
		Use:   "reset <chapter> [section]",
		Short: "Forget a section, or a whole chapter",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			section := ""
			if len(args) == 2 {
				section = args[1]
			}
			if err := app.ProgressCLI.Reset(cmd.Context(), args[0], section); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reset")
			return nil
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase all progress",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := app.ProgressCLI.ClearAll(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "progress cleared")
			return nil
		}),
	}

	progress.AddCommand(update, show, list, resume, reset, clearCmd)
	return progress
}

// ─── session ─────────────────────────────────────────────────────────────────

func printSession(w io.Writer, s sessiondto.SessionOutput, loc *time.Location) {
	title := s.Title
	if title == "" {
		title = s.SubjectID
	}
	_, _ = fmt.Fprintf(w, "%s %s %q started=%s last=%s minutes=%d\n",
		s.SessionID, s.Kind, title,
		s.StartTime.In(loc).Format("15:04"), s.LastActive.In(loc).Format("15:04"), s.Minutes)
}

func newSessionCmd(flags *globalFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Study session tracking"}

	var title, url string
	var progress float64
	touch := &cobra.Command{
		Use:   "touch <chapter|essay> <id>",
		Short: "Note that you are studying something, starting a session if needed",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.SessionCLI.Touch(cmd.Context(), args[0], args[1], title, url, progress)
			if err != nil {
				return err
			}
			if out.Started {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "started ")
			}
			printSession(cmd.OutOrStdout(), out, location(app))
			return nil
		}),
	}
	touch.Flags().StringVar(&title, "title", "", "display title")
	touch.Flags().StringVar(&url, "url", "", "where the material lives")
	touch.Flags().Float64Var(&progress, "progress", 0, "progress snapshot 0..100")

	activity := &cobra.Command{
		Use:   "activity",
		Short: "Keep the current session alive",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.SessionCLI.Activity(cmd.Context())
			if errors.Is(err, apperrors.ErrNoActiveSession) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no active session")
				return nil
			}
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), out, location(app))
			return nil
		}),
	}

	current := &cobra.Command{
		Use:   "current",
		Short: "Show the active session and streak",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			w := cmd.OutOrStdout()
			sum, err := app.SessionCLI.Summary(cmd.Context())
			if err != nil {
				return err
			}
			if sum.Active {
				printSession(w, sum.Current, location(app))
			} else {
				_, _ = fmt.Fprintln(w, "no active session")
			}
			_, _ = fmt.Fprintf(w, "streak=%d week=%s sessions=%d total=%d\n", sum.Streak, sum.WeekKey, sum.WeeklyCount, sum.TotalSessions)
			return nil
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "End the active session now",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := app.SessionCLI.Clear(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return nil
		}),
	}

	history := &cobra.Command{
		Use:   "history",
		Short: "Recent sessions, oldest first",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			entries, err := app.SessionCLI.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions yet")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d min\n", e.Date, e.Kind, e.SubjectID, e.Minutes)
			}
			return nil
		}),
	}

	session.AddCommand(touch, activity, current, clearCmd, history)
	return session
}

// ─── achievements ────────────────────────────────────────────────────────────

func newAchievementsCmd(flags *globalFlags) *cobra.Command {
	achievements := &cobra.Command{Use: "achievements", Short: "Earned milestones"}

	var limit int
	var rules bool
	list := &cobra.Command{
		Use:   "list",
		Short: "Recent achievements, newest first",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			w := cmd.OutOrStdout()
			if rules {
				all, err := app.AchievementCLI.Rules(cmd.Context())
				if err != nil {
					return err
				}
				for _, r := range all {
					_, _ = fmt.Fprintf(w, "%s\t%s\tearned=%d\n", r.ID, r.Title, r.Earned)
				}
				return nil
			}
			items, err := app.AchievementCLI.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(w, "no achievements yet")
				return nil
			}
			for _, a := range items {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", a.EarnedAt.In(location(app)).Format("2006-01-02 15:04"), a.Title, a.Message)
			}
			return nil
		}),
	}
	list.Flags().IntVar(&limit, "limit", 10, "maximum entries (0 = all)")
	list.Flags().BoolVar(&rules, "rules", false, "list rules with how often each was earned")

	check := &cobra.Command{
		Use:   "check",
		Short: "Evaluate rules now",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			earned, err := app.AchievementCLI.Check(cmd.Context())
			if err != nil {
				return err
			}
			if len(earned) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing new")
				return nil
			}
			for _, a := range earned {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "earned %s: %s\n", a.Title, a.Message)
			}
			return nil
		}),
	}

	achievements.AddCommand(list, check)
	return achievements
}

// ─── prefs ───────────────────────────────────────────────────────────────────

func printPrefs(w io.Writer, p prefsdto.PrefsOutput) {
	_, _ = fmt.Fprintf(w, "break: every %d min for %d min\nfocus: %t\nreading: font %d%% spacing %.1f high-contrast %t\n",
		p.BreakInterval, p.BreakDuration, p.Focus, p.FontSize, p.LineSpacing, p.HighContrast)
}

func newPrefsCmd(flags *globalFlags) *cobra.Command {
	prefs := &cobra.Command{Use: "prefs", Short: "Break, focus and reading preferences"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show preferences",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			p, err := app.PrefsCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			printPrefs(cmd.OutOrStdout(), p)
			return nil
		}),
	}

	var interval, duration int
	brk := &cobra.Command{
		Use:   "break",
		Short: "Set the break reminder",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			var ip, dp *int
			if cmd.Flags().Changed("interval") {
				ip = &interval
			}
			if cmd.Flags().Changed("duration") {
				dp = &duration
			}
			p, err := app.PrefsCLI.SetBreak(cmd.Context(), ip, dp)
			if err != nil {
				return err
			}
			printPrefs(cmd.OutOrStdout(), p)
			return nil
		}),
	}
	brk.Flags().IntVar(&interval, "interval", 0, "minutes between breaks (1-240)")
	brk.Flags().IntVar(&duration, "duration", 0, "break length in minutes (1-60)")

	focus := &cobra.Command{
		Use:       "focus [on|off]",
		Short:     "Set or toggle focus mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			var (
				p   prefsdto.PrefsOutput
				err error
			)
			switch {
			case len(args) == 0:
				p, err = app.PrefsCLI.ToggleFocus(cmd.Context())
			case args[0] == "on":
				p, err = app.PrefsCLI.SetFocus(cmd.Context(), true)
			case args[0] == "off":
				p, err = app.PrefsCLI.SetFocus(cmd.Context(), false)
			default:
				return fmt.Errorf("%w: expected on or off, got %q", apperrors.ErrInvalidInput, args[0])
			}
			if err != nil {
				return err
			}
			printPrefs(cmd.OutOrStdout(), p)
			return nil
		}),
	}

	var fontSize int
	var spacing float64
	var contrast bool
	reading := &cobra.Command{
		Use:   "reading",
		Short: "Set reading preferences (out-of-range values are clamped)",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			var fp *int
			var sp *float64
			var cp *bool
			if cmd.Flags().Changed("font-size") {
				fp = &fontSize
			}
			if cmd.Flags().Changed("line-spacing") {
				sp = &spacing
			}
			if cmd.Flags().Changed("high-contrast") {
				cp = &contrast
			}
			p, err := app.PrefsCLI.SetReading(cmd.Context(), fp, sp, cp)
			if err != nil {
				return err
			}
			printPrefs(cmd.OutOrStdout(), p)
			return nil
		}),
	}
	reading.Flags().IntVar(&fontSize, "font-size", 100, "font size percent (80-150)")
	reading.Flags().Float64Var(&spacing, "line-spacing", 1.6, "line spacing (1.2-2.5)")
	reading.Flags().BoolVar(&contrast, "high-contrast", false, "high-contrast mode")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore default preferences",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			p, err := app.PrefsCLI.Reset(cmd.Context())
			if err != nil {
				return err
			}
			printPrefs(cmd.OutOrStdout(), p)
			return nil
		}),
	}

	dismiss := &cobra.Command{
		Use:   "dismiss <assignment-id>",
		Short: "Silence an assignment reminder for an hour",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			if err := app.DismissReminder(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reminder for %s dismissed\n", args[0])
			return nil
		}),
	}

	prefs.AddCommand(show, brk, focus, reading, dismiss, reset)
	return prefs
}

// ─── tasks ───────────────────────────────────────────────────────────────────

func printTasks(w io.Writer, items []tasksdto.TaskOutput) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "no tasks")
		return
	}
	for _, t := range items {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		subject := t.Subject
		if subject == "" {
			subject = "-"
		}
		_, _ = fmt.Fprintf(w, "[%s] %s\t%s\t%s\n", mark, t.ShortID, subject, t.Text)
	}
}

func newTasksCmd(flags *globalFlags) *cobra.Command {
	tasks := &cobra.Command{Use: "tasks", Short: "A simple study to-do list"}

	var subject string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			t, err := app.TasksCLI.Add(cmd.Context(), strings.Join(args, " "), subject)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s: %s\n", t.ShortID, t.Text)
			return nil
		}),
	}
	add.Flags().StringVar(&subject, "subject", "", "course or chapter the task belongs to")

	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task by id or id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			t, err := app.TasksCLI.Done(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ Task completed! Nice work! (%s)\n", t.Text)
			return nil
		}),
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List open tasks",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			items, err := app.TasksCLI.Tasks(cmd.Context(), all)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), items)
			return nil
		}),
	}
	list.Flags().BoolVar(&all, "all", false, "include completed tasks")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove completed tasks",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			n, err := app.TasksCLI.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d completed task(s)\n", n)
			return nil
		}),
	}

	tasks.AddCommand(add, done, list, clearCmd)
	return tasks
}
