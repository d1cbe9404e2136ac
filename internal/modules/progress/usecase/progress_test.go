package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	progressout "studydesk/internal/modules/progress/adapter/out"
	"studydesk/internal/modules/progress/dto"
	progressin "studydesk/internal/modules/progress/port/in"
	"studydesk/internal/modules/progress/service"
	"studydesk/internal/modules/progress/usecase"
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

type fakeOrder []string

func (f fakeOrder) ChapterOrder(context.Context) ([]string, error) { return f, nil }

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func newLedger(t *testing.T, order []string) (progressin.Usecase, *fakeClock, *recorder, *kv.Store) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	store := kv.New(kv.NewMemoryBackend(), "test")
	svc := service.NewLedgerService(clk, progressout.NewKVLedgerStore(store), fakeOrder(order), rec, nil)
	return usecase.NewInteractor(svc), clk, rec, store
}

func TestChapterFourScenario(t *testing.T) {
	t.Parallel()
	uc, _, rec, _ := newLedger(t, nil)
	ctx := context.Background()

	first, err := uc.UpdateSection(ctx, dto.UpdateSectionInput{ChapterID: "chapter-4", SectionID: "4-1", Percent: 50})
	if err != nil {
		t.Fatalf("update 4-1: %v", err)
	}
	if first.OverallProgress != 50 {
		t.Fatalf("expected 50, got %d", first.OverallProgress)
	}
	if _, err := uc.UpdateSection(ctx, dto.UpdateSectionInput{ChapterID: "chapter-4", SectionID: "4-2", Percent: 100}); err != nil {
		t.Fatalf("update 4-2: %v", err)
	}
	ch, err := uc.GetChapter(ctx, "chapter-4")
	if err != nil {
		t.Fatalf("get chapter: %v", err)
	}
	if ch.OverallProgress != 75 || ch.Complete {
		t.Fatalf("expected 75 and incomplete, got %+v", ch)
	}
	if len(ch.Sections) != 2 || !ch.Sections[1].Completed {
		t.Fatalf("unexpected sections: %+v", ch.Sections)
	}
	if len(rec.events) != 2 || rec.events[1].Type != events.ProgressChanged {
		t.Fatalf("expected two progress events, got %+v", rec.events)
	}
	payload := rec.events[1].Payload.(events.ProgressPayload)
	if payload.ChapterID != "chapter-4" || payload.SectionID != "4-2" || payload.PercentComplete != 100 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestUpdateSectionIsIdempotent(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newLedger(t, nil)
	ctx := context.Background()
	in := dto.UpdateSectionInput{ChapterID: "2", SectionID: "2-3", Percent: 40}

	a, err := uc.UpdateSection(ctx, in)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	b, err := uc.UpdateSection(ctx, in)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if a.OverallProgress != b.OverallProgress || !a.LastAccessed.Equal(b.LastAccessed) || len(b.Sections) != 1 {
		t.Fatalf("repeated update changed state: %+v vs %+v", a, b)
	}
}

func TestUpdateSectionClampsAndValidates(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newLedger(t, nil)
	ctx := context.Background()

	ch, err := uc.UpdateSection(ctx, dto.UpdateSectionInput{ChapterID: " 1 ", SectionID: "1-1", Percent: 180})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if ch.ChapterID != "1" || ch.OverallProgress != 100 || !ch.Complete {
		t.Fatalf("expected clamped complete chapter, got %+v", ch)
	}
	sec, err := uc.GetSection(ctx, "1", "1-1")
	if err != nil {
		t.Fatalf("get section: %v", err)
	}
	if sec.PercentComplete != 100 || !sec.Completed {
		t.Fatalf("unexpected section: %+v", sec)
	}

	if _, err := uc.UpdateSection(ctx, dto.UpdateSectionInput{ChapterID: "", SectionID: "x", Percent: 10}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty chapter, got %v", err)
	}
	if _, err := uc.UpdateSection(ctx, dto.UpdateSectionInput{ChapterID: "1", SectionID: "  ", Percent: 10}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank section, got %v", err)
	}
}

func TestMissingEntriesReadAsZero(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newLedger(t, nil)
	ctx := context.Background()
	sec, err := uc.GetSection(ctx, "9", "9-1")
	if err != nil {
		t.Fatalf("get section: %v", err)
	}
	if sec.PercentComplete != 0 || sec.Completed || !sec.LastAccessed.IsZero() {
		t.Fatalf("expected zero section, got %+v", sec)
	}
	ch, err := uc.GetChapter(ctx, "9")
	if err != nil {
		t.Fatalf("get chapter: %v", err)
	}
	if ch.OverallProgress != 0 {
		t.Fatalf("expected zero chapter, got %+v", ch)
	}
	if _, err := uc.LastAccessed(ctx); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on empty ledger, got %v", err)
	}
}

func TestLastAccessedFollowsClock(t *testing.T) {
	t.Parallel()
	uc, clk, _, _ := newLedger(t, []string{"1", "2", "3"})
	ctx := context.Background()
	mustUpdate(t, uc, "3", "3-1", 20)
	clk.advance(time.Minute)
	mustUpdate(t, uc, "1", "1-2", 60)
	clk.advance(time.Minute)
	mustUpdate(t, uc, "2", "2-1", 10)
	clk.advance(time.Minute)
	mustUpdate(t, uc, "1", "1-1", 70)

	resume, err := uc.LastAccessed(ctx)
	if err != nil {
		t.Fatalf("last accessed: %v", err)
	}
	if resume.ChapterID != "1" || resume.SectionID != "1-1" || resume.OverallProgress != 65 {
		t.Fatalf("unexpected resume target: %+v", resume)
	}

	list, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ChapterID != "1" || list[2].ChapterID != "3" {
		t.Fatalf("expected curriculum order, got %+v", list)
	}
}

func TestResetSectionAndChapter(t *testing.T) {
	t.Parallel()
	uc, _, rec, _ := newLedger(t, nil)
	ctx := context.Background()
	mustUpdate(t, uc, "5", "5-1", 100)
	mustUpdate(t, uc, "5", "5-2", 50)
	mustUpdate(t, uc, "6", "6-1", 30)

	if err := uc.ResetSection(ctx, "5", "5-1"); err != nil {
		t.Fatalf("reset section: %v", err)
	}
	ch, _ := uc.GetChapter(ctx, "5")
	if ch.OverallProgress != 50 || len(ch.Sections) != 1 {
		t.Fatalf("expected chapter recomputed to 50, got %+v", ch)
	}
	if err := uc.ResetSection(ctx, "5", "5-2"); err != nil {
		t.Fatalf("reset last section: %v", err)
	}
	list, _ := uc.List(ctx)
	if len(list) != 1 || list[0].ChapterID != "6" {
		t.Fatalf("chapter without sections must be dropped, got %+v", list)
	}

	before := len(rec.events)
	if err := uc.ResetSection(ctx, "5", "5-9"); err != nil {
		t.Fatalf("reset missing section: %v", err)
	}
	if len(rec.events) != before {
		t.Fatalf("no-op reset must not publish")
	}

	if err := uc.ResetChapter(ctx, "6"); err != nil {
		t.Fatalf("reset chapter: %v", err)
	}
	list, _ = uc.List(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty ledger, got %+v", list)
	}
}

func TestClearAllAndPersistenceFormat(t *testing.T) {
	t.Parallel()
	uc, _, _, store := newLedger(t, nil)
	ctx := context.Background()
	mustUpdate(t, uc, "1", "1-1", 25)

	var raw map[string]struct {
		Sections map[string]struct {
			PercentComplete float64 `json:"percentComplete"`
			Completed       bool    `json:"completed"`
		} `json:"sections"`
		OverallProgress int `json:"overallProgress"`
	}
	ok, err := store.Get(ctx, "progress", &raw)
	if err != nil || !ok {
		t.Fatalf("expected stored ledger, ok=%v err=%v", ok, err)
	}
	if raw["1"].OverallProgress != 25 || raw["1"].Sections["1-1"].PercentComplete != 25 {
		t.Fatalf("unexpected stored document: %+v", raw)
	}

	if err := uc.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	list, _ := uc.List(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty ledger after clear")
	}
}

func TestConcurrentUpdatesKeepEverySection(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newLedger(t, nil)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sec := string(rune('a' + i))
			if _, err := uc.UpdateSection(ctx, dto.UpdateSectionInput{ChapterID: "1", SectionID: sec, Percent: 100}); err != nil {
				t.Errorf("update %s: %v", sec, err)
			}
		}(i)
	}
	wg.Wait()
	ch, _ := uc.GetChapter(ctx, "1")
	if len(ch.Sections) != 20 || ch.OverallProgress != 100 {
		t.Fatalf("lost concurrent updates: %d sections, overall %d", len(ch.Sections), ch.OverallProgress)
	}
}

func mustUpdate(t *testing.T, uc progressin.Usecase, chapterID, sectionID string, percent float64) {
	t.Helper()
	if _, err := uc.UpdateSection(context.Background(), dto.UpdateSectionInput{ChapterID: chapterID, SectionID: sectionID, Percent: percent}); err != nil {
		t.Fatalf("update %s/%s: %v", chapterID, sectionID, err)
	}
}
