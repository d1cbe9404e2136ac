package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"studydesk/internal/modules/achievement/domain"
	achievementout "studydesk/internal/modules/achievement/port/out"
	"studydesk/internal/platform/clock"
	"studydesk/internal/platform/events"
)

const DefaultHistoryCap = 50

type Sources struct {
	Progress   achievementout.ProgressSource
	Curriculum achievementout.CurriculumSource
	Activity   achievementout.ActivitySource
}

type EvaluatorService struct {
	clock      clock.Clock
	sources    Sources
	store      achievementout.Store
	rules      []domain.Rule
	publisher  events.Publisher
	logger     *zap.Logger
	historyCap int

	mu sync.Mutex
}

func NewEvaluatorService(clock clock.Clock, sources Sources, store achievementout.Store, rules []domain.Rule, publisher events.Publisher, logger *zap.Logger, historyCap int) (*EvaluatorService, error) {
	if rules == nil {
		rules = domain.DefaultRules()
	}
	seen := map[string]bool{}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate rule %s", r.ID)
		}
		seen[r.ID] = true
	}
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluatorService{
		clock:      clock,
		sources:    sources,
		store:      store,
		rules:      rules,
		publisher:  publisher,
		logger:     logger,
		historyCap: historyCap,
	}, nil
}

// Evaluate runs every rule against a fresh snapshot and records what is newly
// earned. Passes are serialised; events go out after the pass finishes.
func (s *EvaluatorService) Evaluate(ctx context.Context) ([]domain.Achievement, error) {
	earned, err := s.evaluate(ctx)
	for _, a := range earned {
		s.logger.Info("achievement earned", zap.String("id", a.ID), zap.String("title", a.Title))
		if s.publisher != nil {
			s.publisher.Publish(events.Event{
				Type:    events.AchievementEarned,
				At:      a.EarnedAt,
				Payload: events.AchievementPayload{ID: a.ID, Title: a.Title, Message: a.Message, Icon: a.Icon},
			})
		}
	}
	return earned, err
}

func (s *EvaluatorService) evaluate(ctx context.Context) ([]domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	have, err := s.store.Earned(ctx)
	if err != nil {
		return nil, fmt.Errorf("load earned achievements: %w", err)
	}

	var out []domain.Achievement
	for _, rule := range s.rules {
		for _, m := range rule.Check(snap) {
			id := domain.EarnedID(rule.ID, m.Scope)
			if have.Has(id) {
				continue
			}
			a := domain.Achievement{
				ID:       id,
				Rule:     rule.ID,
				Title:    rule.Title,
				Message:  domain.Render(rule.Template, m.Values),
				Icon:     rule.Icon,
				EarnedAt: snap.Now,
			}
			recorded, err := s.store.Record(ctx, a, s.historyCap)
			if err != nil {
				return out, fmt.Errorf("record achievement %s: %w", id, err)
			}
			if recorded {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// snapshot tolerates a failing source by leaving its part empty; the rules
// depending on it simply do not fire this pass.
func (s *EvaluatorService) snapshot(ctx context.Context) (domain.Snapshot, error) {
	snap := domain.Snapshot{Now: s.clock.Now(), Chapters: map[string]domain.ChapterStat{}}
	var errs []error
	if s.sources.Progress != nil {
		chapters, err := s.sources.Progress.Chapters(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("progress: %w", err))
		} else if chapters != nil {
			snap.Chapters = chapters
		}
	}
	if s.sources.Curriculum != nil {
		order, err := s.sources.Curriculum.ChapterOrder(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("chapter order: %w", err))
		}
		snap.ChapterOrder = order
		tests, err := s.sources.Curriculum.Tests(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("tests: %w", err))
		}
		snap.Tests = tests
	}
	if s.sources.Activity != nil {
		activity, err := s.sources.Activity.Activity(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("activity: %w", err))
		}
		snap.Activity = activity
	}
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	if len(errs) > 0 {
		s.logger.Warn("partial achievement snapshot", zap.Error(errors.Join(errs...)))
	}
	return snap, nil
}

// Attach re-evaluates after ledger mutations and session changes. The
// returned func detaches every subscription.
func (s *EvaluatorService) Attach(bus events.Subscriber) func() {
	handler := func(e events.Event) {
		if _, err := s.Evaluate(context.Background()); err != nil {
			s.logger.Warn("achievement check failed", zap.String("trigger", string(e.Type)), zap.Error(err))
		}
	}
	unsubs := []func(){
		bus.Subscribe(events.ProgressChanged, handler),
		bus.Subscribe(events.SessionStarted, handler),
		bus.Subscribe(events.SessionActivity, handler),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (s *EvaluatorService) Has(ctx context.Context, id string) (bool, error) {
	earned, err := s.store.Earned(ctx)
	if err != nil {
		return false, err
	}
	return earned.Has(strings.TrimSpace(id)), nil
}

func (s *EvaluatorService) History(ctx context.Context) (domain.History, error) {
	return s.store.History(ctx)
}

// Rules reports each rule with the number of scopes it has been earned for.
func (s *EvaluatorService) Rules(ctx context.Context) ([]domain.Rule, map[string]int, error) {
	earned, err := s.store.Earned(ctx)
	if err != nil {
		return nil, nil, err
	}
	counts := map[string]int{}
	for id := range earned {
		rule, _, _ := strings.Cut(id, ":")
		counts[rule]++
	}
	return s.rules, counts, nil
}
