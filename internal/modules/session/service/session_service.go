package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"studydesk/internal/modules/session/domain"
	sessionout "studydesk/internal/modules/session/port/out"
	"studydesk/internal/platform/clock"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/platform/events"
	"studydesk/internal/platform/id"
)

const (
	ReasonIdle    = "idle"
	ReasonCleared = "cleared"
)

type Config struct {
	IdleTimeout time.Duration
	HistoryCap  int
	Location    *time.Location
}

type SessionService struct {
	clock     clock.Clock
	idGen     id.Generator
	sessions  sessionout.SessionStore
	history   sessionout.HistoryStore
	journal   sessionout.Journal
	publisher events.Publisher
	logger    *zap.Logger
	cfg       Config
}

func NewSessionService(clock clock.Clock, idGen id.Generator, sessions sessionout.SessionStore, history sessionout.HistoryStore, journal sessionout.Journal, publisher events.Publisher, logger *zap.Logger, cfg Config) *SessionService {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = 30
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		clock:     clock,
		idGen:     idGen,
		sessions:  sessions,
		history:   history,
		journal:   journal,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

type TouchInput struct {
	Kind      domain.Kind
	SubjectID string
	Title     string
	URL       string
	Progress  float64
}

// Touch marks the user as working on a subject. A live session keeps its id
// and start time; otherwise a new session starts and is added to history.
func (s *SessionService) Touch(ctx context.Context, in TouchInput) (domain.StudySession, bool, error) {
	if err := in.Kind.Validate(); err != nil {
		return domain.StudySession{}, false, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	subject := strings.TrimSpace(in.SubjectID)
	if subject == "" {
		return domain.StudySession{}, false, fmt.Errorf("%w: subject id is required", apperrors.ErrInvalidInput)
	}

	now := s.clock.Now()
	var (
		result  domain.StudySession
		stale   *domain.StudySession
		started bool
	)
	err := s.sessions.Mutate(ctx, func(cur *domain.StudySession, found bool) (sessionout.Decision, error) {
		if !found || !cur.ActiveAt(now, s.cfg.IdleTimeout) {
			if found && cur.SessionID != "" {
				prev := *cur
				stale = &prev
			}
			*cur = domain.StudySession{SessionID: s.idGen.New(), StartTime: now}
			started = true
		}
		cur.Kind = in.Kind
		cur.SubjectID = subject
		cur.Title = in.Title
		cur.URL = in.URL
		cur.Progress = in.Progress
		cur.LastActive = now
		result = *cur
		return sessionout.Save, nil
	})
	if err != nil {
		return domain.StudySession{}, false, fmt.Errorf("touch session: %w", err)
	}

	if stale != nil {
		s.finish(ctx, *stale, ReasonIdle)
	}
	if started {
		entry := domain.NewHistoryEntry(result, s.cfg.Location)
		if err := s.history.Update(ctx, func(h domain.History) domain.History {
			return h.Append(entry, s.cfg.HistoryCap)
		}); err != nil {
			return domain.StudySession{}, false, fmt.Errorf("append study history: %w", err)
		}
		if err := s.history.MarkDay(ctx, entry.Date); err != nil {
			return domain.StudySession{}, false, fmt.Errorf("mark study day: %w", err)
		}
		s.logger.Info("session started", zap.String("session", result.SessionID), zap.String("subject", result.SubjectID))
		s.publish(events.SessionStarted, result, "")
	} else {
		s.publish(events.SessionActivity, result, "")
	}
	return result, started, nil
}

// RecordActivity bumps the live session. It never creates one.
func (s *SessionService) RecordActivity(ctx context.Context) (domain.StudySession, bool, error) {
	now := s.clock.Now()
	var (
		result domain.StudySession
		stale  *domain.StudySession
		live   bool
	)
	err := s.sessions.Mutate(ctx, func(cur *domain.StudySession, found bool) (sessionout.Decision, error) {
		if !found {
			return sessionout.Leave, nil
		}
		if !cur.ActiveAt(now, s.cfg.IdleTimeout) {
			prev := *cur
			stale = &prev
			return sessionout.Remove, nil
		}
		cur.LastActive = now
		result = *cur
		live = true
		return sessionout.Save, nil
	})
	if err != nil {
		return domain.StudySession{}, false, fmt.Errorf("record activity: %w", err)
	}
	if stale != nil {
		s.finish(ctx, *stale, ReasonIdle)
	}
	if live {
		s.publish(events.SessionActivity, result, "")
	}
	return result, live, nil
}

// Current returns the live session. A stale stored session is removed on
// the way out.
func (s *SessionService) Current(ctx context.Context) (domain.StudySession, bool, error) {
	stored, found, err := s.sessions.Load(ctx)
	if err != nil {
		return domain.StudySession{}, false, err
	}
	if !found {
		return domain.StudySession{}, false, nil
	}
	now := s.clock.Now()
	if stored.ActiveAt(now, s.cfg.IdleTimeout) {
		return stored, true, nil
	}
	if _, err := s.expire(ctx, now); err != nil {
		return domain.StudySession{}, false, err
	}
	return domain.StudySession{}, false, nil
}

// Sweep is the periodic idle check.
func (s *SessionService) Sweep(ctx context.Context) (bool, error) {
	return s.expire(ctx, s.clock.Now())
}

func (s *SessionService) expire(ctx context.Context, now time.Time) (bool, error) {
	var stale *domain.StudySession
	err := s.sessions.Mutate(ctx, func(cur *domain.StudySession, found bool) (sessionout.Decision, error) {
		if !found || cur.ActiveAt(now, s.cfg.IdleTimeout) {
			return sessionout.Leave, nil
		}
		prev := *cur
		stale = &prev
		return sessionout.Remove, nil
	})
	if err != nil {
		return false, fmt.Errorf("expire session: %w", err)
	}
	if stale == nil {
		return false, nil
	}
	s.finish(ctx, *stale, ReasonIdle)
	return true, nil
}

func (s *SessionService) Clear(ctx context.Context) error {
	var cleared *domain.StudySession
	err := s.sessions.Mutate(ctx, func(cur *domain.StudySession, found bool) (sessionout.Decision, error) {
		if !found {
			return sessionout.Leave, nil
		}
		prev := *cur
		cleared = &prev
		return sessionout.Remove, nil
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if cleared != nil {
		s.finish(ctx, *cleared, ReasonCleared)
	}
	return nil
}

func (s *SessionService) History(ctx context.Context) (domain.History, error) {
	return s.history.Load(ctx)
}

// StudyDays is every day with a started session. Dates still only present in
// the session log are folded in.
func (s *SessionService) StudyDays(ctx context.Context) (domain.StudyDays, error) {
	days, err := s.history.Days(ctx)
	if err != nil {
		return nil, err
	}
	h, err := s.history.Load(ctx)
	if err != nil {
		return nil, err
	}
	return days.Merge(h.Days()), nil
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

func (s *SessionService) Location() *time.Location {
	return s.cfg.Location
}

// finish writes the session length back to history and journals it. Both
// are best effort: the session itself is already gone.
func (s *SessionService) finish(ctx context.Context, closed domain.StudySession, reason string) {
	minutes := closed.Minutes()
	if err := s.history.Update(ctx, func(h domain.History) domain.History {
		h.SetMinutes(closed.SessionID, minutes)
		return h
	}); err != nil {
		s.logger.Warn("could not record session minutes", zap.String("session", closed.SessionID), zap.Error(err))
	}
	if s.journal != nil {
		path, err := s.journal.Record(ctx, domain.Closed{Session: closed, EndedAt: closed.LastActive, Reason: reason})
		if err != nil {
			s.logger.Warn("could not journal session", zap.String("session", closed.SessionID), zap.Error(err))
		} else {
			s.logger.Debug("session journaled", zap.String("path", path))
		}
	}
	s.logger.Info("session ended", zap.String("session", closed.SessionID), zap.String("reason", reason), zap.Int("minutes", minutes))
	s.publish(events.SessionEnded, closed, reason)
}

func (s *SessionService) publish(t events.Type, sess domain.StudySession, reason string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.Event{
		Type: t,
		At:   s.clock.Now(),
		Payload: events.SessionPayload{
			SessionID: sess.SessionID,
			Kind:      string(sess.Kind),
			SubjectID: sess.SubjectID,
			Title:     sess.Title,
			Minutes:   sess.Minutes(),
			Reason:    reason,
		},
	})
}
