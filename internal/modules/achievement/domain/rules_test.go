package domain

import (
	"fmt"
	"testing"
	"time"
)

func ruleByID(t *testing.T, id string) Rule {
	t.Helper()
	for _, r := range DefaultRules() {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("rule %s not found", id)
	return Rule{}
}

func TestDefaultRulesAreValidAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range DefaultRules() {
		if err := r.Validate(); err != nil {
			t.Fatalf("invalid rule: %v", err)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate rule %s", r.ID)
		}
		seen[r.ID] = true
	}
	if len(seen) != 13 {
		t.Fatalf("expected 13 built-in rules, got %d", len(seen))
	}
}

func TestChapterRulesMatchPerChapter(t *testing.T) {
	snap := Snapshot{Chapters: map[string]ChapterStat{
		"chapter-2": {Overall: 100, Sections: 2, CompletedSections: 2, Complete: true},
		"chapter-1": {Overall: 50, Sections: 2, CompletedSections: 1},
		"chapter-3": {Overall: 10, Sections: 1},
	}}

	half := ruleByID(t, "chapter-50-percent").Check(snap)
	if len(half) != 2 || half[0].Scope != "chapter-1" || half[1].Scope != "chapter-2" {
		t.Fatalf("unexpected halfway matches: %+v", half)
	}
	done := ruleByID(t, "chapter-complete").Check(snap)
	if len(done) != 1 || done[0].Values["chapter"] != "chapter-2" {
		t.Fatalf("unexpected complete matches: %+v", done)
	}
	if len(ruleByID(t, "first-section").Check(snap)) != 1 {
		t.Fatalf("first-section should fire once a section is complete")
	}
}

func TestPracticeCompleteNeedsEveryPracticeSection(t *testing.T) {
	snap := Snapshot{Chapters: map[string]ChapterStat{
		"chapter-1": {Overall: 60, Sections: 3, CompletedSections: 2, Practice: 1, PracticeCompleted: 1},
		"chapter-2": {Overall: 70, Sections: 3, CompletedSections: 2, Practice: 2, PracticeCompleted: 1},
		"chapter-3": {Overall: 100, Sections: 2, CompletedSections: 2, Complete: true},
	}}
	got := ruleByID(t, "practice-complete").Check(snap)
	if len(got) != 1 || got[0].Scope != "chapter-1" {
		t.Fatalf("unexpected practice matches: %+v", got)
	}
}

func TestEssaySubmittedAtFullProgress(t *testing.T) {
	snap := Snapshot{Activity: Activity{
		Session: SessionStat{Active: true, SessionID: "s-1", Kind: "essay", SubjectID: "essay-2", Progress: 80},
	}}
	rule := ruleByID(t, "essay-submitted")
	if got := rule.Check(snap); len(got) != 0 {
		t.Fatalf("draft essay must not count, got %+v", got)
	}
	snap.Activity.Session.Progress = 100
	got := rule.Check(snap)
	if len(got) != 1 || got[0].Scope != "essay-2" {
		t.Fatalf("unexpected essay matches: %+v", got)
	}
	snap.Activity.Session.Kind = "chapter"
	if len(rule.Check(snap)) != 0 {
		t.Fatalf("chapter sessions are not essays")
	}
}

func TestTestPrepAndAllComplete(t *testing.T) {
	snap := Snapshot{
		Chapters: map[string]ChapterStat{
			"ch1": {Overall: 100, Complete: true},
			"ch2": {Overall: 100, Complete: true},
		},
		ChapterOrder: []string{"ch1", "ch2", "ch3"},
		Tests: []TestPrep{
			{ID: "test-1", Title: "Test 1", Covers: []string{"ch1", "ch2"}},
			{ID: "test-2", Title: "Test 2", Covers: []string{"ch3"}},
			{ID: "quiz", Title: "Quiz"},
		},
	}
	ready := ruleByID(t, "test-prep-ready").Check(snap)
	if len(ready) != 1 || ready[0].Scope != "test-1" {
		t.Fatalf("unexpected test prep matches: %+v", ready)
	}
	if got := ruleByID(t, "all-complete").Check(snap); len(got) != 0 {
		t.Fatalf("all-complete must wait for ch3, got %+v", got)
	}
	snap.Chapters["ch3"] = ChapterStat{Overall: 100, Complete: true}
	all := ruleByID(t, "all-complete").Check(snap)
	if len(all) != 1 || all[0].Values["percent"] != "100" {
		t.Fatalf("unexpected all-complete matches: %+v", all)
	}
}

func TestActivityRules(t *testing.T) {
	snap := Snapshot{Activity: Activity{
		Session:     SessionStat{Active: true, SessionID: "s-9", Minutes: 30},
		Streak:      3,
		WeekKey:     "2026-W10",
		WeeklyCount: 5,
		Essays:      []string{"essay-1", "essay-2"},
	}}
	if len(ruleByID(t, "streak-3").Check(snap)) != 1 || len(ruleByID(t, "streak-7").Check(snap)) != 0 {
		t.Fatalf("unexpected streak matches")
	}
	weekly := ruleByID(t, "weekly-5").Check(snap)
	if len(weekly) != 1 || weekly[0].Scope != "2026-W10" {
		t.Fatalf("unexpected weekly matches: %+v", weekly)
	}
	if len(ruleByID(t, "essay-started").Check(snap)) != 2 {
		t.Fatalf("expected one match per essay")
	}
	short := ruleByID(t, "study-25min").Check(snap)
	if len(short) != 1 || short[0].Scope != "s-9" {
		t.Fatalf("unexpected study-25min matches: %+v", short)
	}
	if len(ruleByID(t, "study-1hour").Check(snap)) != 0 {
		t.Fatalf("study-1hour must not fire at 30 minutes")
	}
	snap.Activity.Session.Active = false
	snap.Activity.Session.Minutes = 90
	if len(ruleByID(t, "study-1hour").Check(snap)) != 0 {
		t.Fatalf("inactive sessions do not count")
	}
}

func TestRenderAndEarnedID(t *testing.T) {
	got := Render("All chapters for {test} reviewed, {missing} stays", map[string]string{"test": "Test 2"})
	if got != "All chapters for Test 2 reviewed, {missing} stays" {
		t.Fatalf("unexpected render: %q", got)
	}
	if EarnedID("streak-3", "") != "streak-3" || EarnedID("chapter-complete", "ch1") != "chapter-complete:ch1" {
		t.Fatalf("unexpected earned ids")
	}
}

func TestHistoryAppendEvictsOldest(t *testing.T) {
	var h History
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 51; i++ {
		h = h.Append(Achievement{ID: fmt.Sprintf("r-%d", i), EarnedAt: base.Add(time.Duration(i) * time.Minute)}, 50)
	}
	if len(h) != 50 {
		t.Fatalf("expected 50 records, got %d", len(h))
	}
	if !h[0].EarnedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("expected the first record to be evicted, head is %v", h[0].EarnedAt)
	}
	recent := h.Recent(2)
	if len(recent) != 2 || !recent[0].EarnedAt.Equal(base.Add(50*time.Minute)) {
		t.Fatalf("unexpected recent: %+v", recent)
	}
}
