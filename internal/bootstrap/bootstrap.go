package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	achievementinadapter "studydesk/internal/modules/achievement/adapter/in"
	achievementoutadapter "studydesk/internal/modules/achievement/adapter/out"
	achievementservice "studydesk/internal/modules/achievement/service"
	achievementusecase "studydesk/internal/modules/achievement/usecase"
	deadlineinadapter "studydesk/internal/modules/deadline/adapter/in"
	deadlineoutadapter "studydesk/internal/modules/deadline/adapter/out"
	deadlinedomain "studydesk/internal/modules/deadline/domain"
	deadlineservice "studydesk/internal/modules/deadline/service"
	deadlineusecase "studydesk/internal/modules/deadline/usecase"
	prefsinadapter "studydesk/internal/modules/prefs/adapter/in"
	prefsoutadapter "studydesk/internal/modules/prefs/adapter/out"
	prefsservice "studydesk/internal/modules/prefs/service"
	prefsusecase "studydesk/internal/modules/prefs/usecase"
	progressinadapter "studydesk/internal/modules/progress/adapter/in"
	progressoutadapter "studydesk/internal/modules/progress/adapter/out"
	progressservice "studydesk/internal/modules/progress/service"
	progressusecase "studydesk/internal/modules/progress/usecase"
	reportinadapter "studydesk/internal/modules/report/adapter/in"
	reportoutadapter "studydesk/internal/modules/report/adapter/out"
	reportservice "studydesk/internal/modules/report/service"
	reportusecase "studydesk/internal/modules/report/usecase"
	sessioninadapter "studydesk/internal/modules/session/adapter/in"
	sessionoutadapter "studydesk/internal/modules/session/adapter/out"
	sessionservice "studydesk/internal/modules/session/service"
	sessionusecase "studydesk/internal/modules/session/usecase"
	tasksinadapter "studydesk/internal/modules/tasks/adapter/in"
	tasksoutadapter "studydesk/internal/modules/tasks/adapter/out"
	tasksservice "studydesk/internal/modules/tasks/service"
	tasksusecase "studydesk/internal/modules/tasks/usecase"
	"studydesk/internal/platform/clock"
	"studydesk/internal/platform/config"
	"studydesk/internal/platform/events"
	"studydesk/internal/platform/id"
	"studydesk/internal/platform/kv"
	"studydesk/internal/platform/logging"
	"studydesk/internal/platform/schedule"
)

const (
	JobUrgencyRefresh   = "urgency-refresh"
	JobIdleSweep        = "idle-sweep"
	JobAchievementCheck = "achievement-check"
)

type Options struct {
	// Now pins the clock, for reproducing a day's view.
	Now time.Time
	// Ephemeral keeps all state in memory for this run.
	Ephemeral bool
	Logger    *zap.Logger
}

type App struct {
	DeadlineCLI    deadlineinadapter.CLIHandler
	ProgressCLI    progressinadapter.CLIHandler
	SessionCLI     sessioninadapter.CLIHandler
	AchievementCLI achievementinadapter.CLIHandler
	PrefsCLI       prefsinadapter.CLIHandler
	ReportCLI      reportinadapter.CLIHandler
	TasksCLI       tasksinadapter.CLIHandler

	Config config.Config
	Clock  clock.Clock
	Bus    *events.Bus
	Store  *kv.Store
	Logger *zap.Logger

	detach []func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = logging.New(cfg.Log); err != nil {
			return nil, fmt.Errorf("new logger: %w", err)
		}
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	var clk clock.Clock = clock.SystemClock{}
	if !opts.Now.IsZero() {
		clk = clock.Fixed{At: opts.Now}
	}
	if opts.Ephemeral {
		cfg.Store.Backend = "memory"
	}

	bus := events.NewBus(logger.Named("events"))
	store, err := kv.Open(ctx, cfg.Store, clk, logger, bus)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	deadlineUC := deadlineusecase.NewInteractor(deadlineservice.NewRegistryService(
		clk,
		deadlineoutadapter.NewYAMLCatalog(cfg.CatalogPath, loc),
		loc,
		deadlinedomain.Windows{Critical: cfg.Urgency.CriticalDays, Soon: cfg.Urgency.SoonDays, Upcoming: cfg.Urgency.UpcomingDays},
		deadlinedomain.Windows{Critical: cfg.Urgency.UrgentViewDays, Soon: cfg.Urgency.SoonDays, Upcoming: cfg.Urgency.UpcomingDays},
	))

	progressUC := progressusecase.NewInteractor(progressservice.NewLedgerService(
		clk,
		progressoutadapter.NewKVLedgerStore(store),
		progressoutadapter.NewDeadlineChapterOrder(deadlineUC),
		bus,
		logger.Named("progress"),
	))

	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(
		clk,
		id.UUID{},
		sessionoutadapter.NewKVSessionStore(store),
		sessionoutadapter.NewKVHistoryStore(store),
		sessionoutadapter.NewMarkdownJournal(cfg.HomePath, loc),
		bus,
		logger.Named("session"),
		sessionservice.Config{IdleTimeout: cfg.Session.IdleTimeout, HistoryCap: cfg.Session.StudyHistoryCap, Location: loc},
	))

	evaluator, err := achievementservice.NewEvaluatorService(
		clk,
		achievementservice.Sources{
			Progress:   achievementoutadapter.NewProgressSource(progressUC),
			Curriculum: achievementoutadapter.NewCurriculumSource(deadlineUC),
			Activity:   achievementoutadapter.NewActivitySource(sessionUC),
		},
		achievementoutadapter.NewKVAchievementStore(store),
		nil,
		bus,
		logger.Named("achievement"),
		cfg.Achievements.HistoryCap,
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("new achievement evaluator: %w", err)
	}
	achievementUC := achievementusecase.NewInteractor(evaluator)

	prefsUC := prefsusecase.NewInteractor(prefsservice.NewPrefsService(prefsoutadapter.NewKVPrefsStore(store), clk))

	tasksUC := tasksusecase.NewInteractor(tasksservice.NewTaskService(
		clk,
		id.UUID{},
		tasksoutadapter.NewKVTaskStore(store),
		logger.Named("tasks"),
	))

	reportUC := reportusecase.NewInteractor(reportservice.NewReportService(
		clk,
		reportservice.Sources{
			Progress:     reportoutadapter.NewProgressSource(progressUC),
			Deadlines:    reportoutadapter.NewDeadlineSource(deadlineUC),
			Achievements: reportoutadapter.NewAchievementSource(achievementUC),
			Session:      reportoutadapter.NewSessionSource(sessionUC),
		},
		reportoutadapter.NewFileNoteStore(),
		loc,
		logger.Named("report"),
	))

	return &App{
		DeadlineCLI:    deadlineinadapter.NewCLIHandler(deadlineUC),
		ProgressCLI:    progressinadapter.NewCLIHandler(progressUC),
		SessionCLI:     sessioninadapter.NewCLIHandler(sessionUC),
		AchievementCLI: achievementinadapter.NewCLIHandler(achievementUC),
		PrefsCLI:       prefsinadapter.NewCLIHandler(prefsUC),
		ReportCLI:      reportinadapter.NewCLIHandler(reportUC),
		TasksCLI:       tasksinadapter.NewCLIHandler(tasksUC),
		Config:         cfg,
		Clock:          clk,
		Bus:            bus,
		Store:          store,
		Logger:         logger,
		detach:         []func(){evaluator.Attach(bus)},
	}, nil
}

// Schedule registers the recurring jobs: urgency refresh, idle-session sweep
// and achievement re-check.
func (a *App) Schedule(s schedule.Scheduler, onRefresh func(urgent int)) []schedule.Task {
	log := a.Logger.Named("schedule")
	return []schedule.Task{
		s.Every(JobUrgencyRefresh, a.Config.Schedule.RefreshInterval, func(ctx context.Context) error {
			urgent, err := a.DeadlineCLI.Urgent(ctx)
			if err != nil {
				return err
			}
			log.Debug("urgency refreshed", zap.Int("urgent", len(urgent)))
			if onRefresh != nil {
				onRefresh(len(urgent))
			}
			return nil
		}),
		s.Every(JobIdleSweep, a.Config.Schedule.IdleCheckInterval, func(ctx context.Context) error {
			expired, err := a.SessionCLI.Sweep(ctx)
			if err == nil && expired {
				log.Debug("idle session expired")
			}
			return err
		}),
		s.Every(JobAchievementCheck, a.Config.Schedule.AchievementInterval, func(ctx context.Context) error {
			earned, err := a.AchievementCLI.Check(ctx)
			log.Debug("achievements checked", zap.Int("earned", len(earned)))
			return err
		}),
	}
}

// Degraded reports the storage failure that forced in-memory state, if any.
func (a *App) Degraded() error {
	return a.Store.Degraded()
}

func (a *App) Close() error {
	for _, d := range a.detach {
		d()
	}
	var errs []error
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}
