package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	sessionout "studydesk/internal/modules/session/adapter/out"
	"studydesk/internal/modules/session/domain"
	"studydesk/internal/modules/session/dto"
	sessionin "studydesk/internal/modules/session/port/in"
	"studydesk/internal/modules/session/service"
	"studydesk/internal/modules/session/usecase"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/platform/events"
	"studydesk/internal/platform/kv"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("s-%d", s.n)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) count(t events.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type memJournal struct {
	mu     sync.Mutex
	closed []domain.Closed
}

func (j *memJournal) Record(_ context.Context, c domain.Closed) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = append(j.closed, c)
	return "mem://" + c.Session.SessionID, nil
}

type fixture struct {
	uc      sessionin.Usecase
	clock   *fakeClock
	events  *recorder
	journal *memJournal
	store   *kv.Store
}

func newTracker(t *testing.T, historyCap int) fixture {
	t.Helper()
	f := fixture{
		clock:   &fakeClock{now: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)},
		events:  &recorder{},
		journal: &memJournal{},
		store:   kv.New(kv.NewMemoryBackend(), "test"),
	}
	svc := service.NewSessionService(
		f.clock,
		&seqIDs{},
		sessionout.NewKVSessionStore(f.store),
		sessionout.NewKVHistoryStore(f.store),
		f.journal,
		f.events,
		nil,
		service.Config{IdleTimeout: 10 * time.Minute, HistoryCap: historyCap, Location: time.UTC},
	)
	f.uc = usecase.NewInteractor(svc)
	return f
}

func touchChapter(t *testing.T, uc sessionin.Usecase, id string) dto.SessionOutput {
	t.Helper()
	out, err := uc.Touch(context.Background(), dto.TouchInput{Kind: "chapter", SubjectID: id, Title: "Chapter " + id})
	if err != nil {
		t.Fatalf("touch %s: %v", id, err)
	}
	return out
}

func TestTouchStartsAndKeepsSession(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 30)

	first := touchChapter(t, f.uc, "chapter-4")
	if !first.Started || first.SessionID != "s-1" {
		t.Fatalf("expected a new session s-1, got %+v", first)
	}

	f.clock.advance(5 * time.Minute)
	second := touchChapter(t, f.uc, "chapter-5")
	if second.Started {
		t.Fatalf("touch inside the idle window must not start a new session")
	}
	if second.SessionID != first.SessionID || !second.StartTime.Equal(first.StartTime) {
		t.Fatalf("expected same id and start time, got %+v", second)
	}
	if second.SubjectID != "chapter-5" || second.Minutes != 5 {
		t.Fatalf("unexpected session after second touch: %+v", second)
	}
	if f.events.count(events.SessionStarted) != 1 || f.events.count(events.SessionActivity) != 1 {
		t.Fatalf("unexpected events: %+v", f.events.events)
	}
}

func TestIdleBoundary(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 30)
	ctx := context.Background()
	touchChapter(t, f.uc, "chapter-1")

	f.clock.advance(10*time.Minute - time.Second)
	if _, err := f.uc.Current(ctx); err != nil {
		t.Fatalf("session should still be active at 9m59s: %v", err)
	}

	f.clock.advance(time.Second)
	if _, err := f.uc.Current(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session at exactly 10m, got %v", err)
	}
	if ok, err := f.store.Get(ctx, "session", &domain.StudySession{}); err != nil || ok {
		t.Fatalf("expired session must be removed from storage, ok=%v err=%v", ok, err)
	}
	if f.events.count(events.SessionEnded) != 1 {
		t.Fatalf("expected one session.ended event")
	}
	if len(f.journal.closed) != 1 || f.journal.closed[0].Reason != service.ReasonIdle {
		t.Fatalf("expected idle journal entry, got %+v", f.journal.closed)
	}
}

func TestTouchAfterIdleStartsFreshSession(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 30)
	touchChapter(t, f.uc, "chapter-1")
	f.clock.advance(8 * time.Minute)
	touchChapter(t, f.uc, "chapter-1")

	f.clock.advance(15 * time.Minute)
	fresh := touchChapter(t, f.uc, "chapter-2")
	if !fresh.Started || fresh.SessionID != "s-2" {
		t.Fatalf("expected fresh session s-2, got %+v", fresh)
	}

	history, err := f.uc.History(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Minutes != 8 {
		t.Fatalf("expected first session to record 8 minutes, got %d", history[0].Minutes)
	}
}

func TestRecordActivityNeverCreatesSession(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 30)
	ctx := context.Background()

	if _, err := f.uc.RecordActivity(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
	if ok, _ := f.store.Get(ctx, "session", &domain.StudySession{}); ok {
		t.Fatalf("activity without a session must not write one")
	}

	touchChapter(t, f.uc, "chapter-1")
	f.clock.advance(9 * time.Minute)
	bumped, err := f.uc.RecordActivity(ctx)
	if err != nil {
		t.Fatalf("record activity: %v", err)
	}
	if !bumped.LastActive.Equal(f.clock.Now()) {
		t.Fatalf("lastActive not bumped: %+v", bumped)
	}
	f.clock.advance(9 * time.Minute)
	if _, err := f.uc.Current(ctx); err != nil {
		t.Fatalf("bumped session should still be active: %v", err)
	}
}

func TestTouchValidatesInput(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 30)
	ctx := context.Background()

	if _, err := f.uc.Touch(ctx, dto.TouchInput{Kind: "chapter", SubjectID: " "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank subject, got %v", err)
	}
	if _, err := f.uc.Touch(ctx, dto.TouchInput{Kind: "video", SubjectID: "x"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown kind, got %v", err)
	}
}

func TestClearEndsSession(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 30)
	ctx := context.Background()
	touchChapter(t, f.uc, "chapter-1")

	if err := f.uc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := f.uc.Current(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no session after clear, got %v", err)
	}
	if err := f.uc.Clear(ctx); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
	if len(f.journal.closed) != 1 || f.journal.closed[0].Reason != service.ReasonCleared {
		t.Fatalf("expected one cleared journal entry, got %+v", f.journal.closed)
	}
}

func TestSweepExpiresIdleSession(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 30)
	ctx := context.Background()
	touchChapter(t, f.uc, "chapter-1")

	expired, err := f.uc.Sweep(ctx)
	if err != nil || expired {
		t.Fatalf("fresh session must survive sweep, expired=%v err=%v", expired, err)
	}
	f.clock.advance(11 * time.Minute)
	expired, err = f.uc.Sweep(ctx)
	if err != nil || !expired {
		t.Fatalf("idle session must expire on sweep, expired=%v err=%v", expired, err)
	}
	expired, _ = f.uc.Sweep(ctx)
	if expired {
		t.Fatalf("sweep must be idempotent")
	}
}

func TestHistoryCapDropsOldest(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 3)
	for i := 1; i <= 5; i++ {
		touchChapter(t, f.uc, fmt.Sprintf("chapter-%d", i))
		f.clock.advance(time.Hour)
	}
	history, err := f.uc.History(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	if history[0].SubjectID != "chapter-3" || history[2].SubjectID != "chapter-5" {
		t.Fatalf("expected oldest entries dropped, got %+v", history)
	}
}

func TestActivitySummary(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 30)
	ctx := context.Background()

	// Wednesday, Thursday and Friday of ISO week 10.
	touchChapter(t, f.uc, "chapter-1")
	f.clock.advance(24 * time.Hour)
	if _, err := f.uc.Touch(ctx, dto.TouchInput{Kind: "essay", SubjectID: "essay-1", Title: "Essay"}); err != nil {
		t.Fatalf("touch essay: %v", err)
	}
	f.clock.advance(24 * time.Hour)
	touchChapter(t, f.uc, "chapter-2")

	summary, err := f.uc.Activity(ctx)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if !summary.Active || summary.Current.SubjectID != "chapter-2" {
		t.Fatalf("expected active chapter-2, got %+v", summary.Current)
	}
	if summary.Streak != 3 {
		t.Fatalf("expected streak 3, got %d", summary.Streak)
	}
	if summary.WeekKey != "2026-W10" || summary.WeeklyCount != 3 {
		t.Fatalf("unexpected week stats: %s %d", summary.WeekKey, summary.WeeklyCount)
	}
	if len(summary.Essays) != 1 || summary.Essays[0] != "essay-1" {
		t.Fatalf("unexpected essays: %v", summary.Essays)
	}
	if summary.TotalSessions != 3 {
		t.Fatalf("expected 3 sessions, got %d", summary.TotalSessions)
	}
}

func TestStreakSurvivesBusyDays(t *testing.T) {
	t.Parallel()
	f := newTracker(t, 30)
	ctx := context.Background()

	for day := 0; day < 7; day++ {
		for n := 0; n < 5; n++ {
			touchChapter(t, f.uc, fmt.Sprintf("chapter-%d-%d", day, n))
			f.clock.advance(20 * time.Minute)
		}
		f.clock.advance(24*time.Hour - 100*time.Minute)
	}

	summary, err := f.uc.Activity(ctx)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if summary.TotalSessions != 30 {
		t.Fatalf("expected the session log capped at 30, got %d", summary.TotalSessions)
	}
	if summary.Streak != 7 {
		t.Fatalf("expected a 7 day streak, got %d", summary.Streak)
	}
}
