package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// Match is one place where a rule holds.
type Match struct {
	Scope  string
	Values map[string]string
}

type Rule struct {
	ID       string
	Title    string
	Template string
	Icon     string
	Check    func(Snapshot) []Match
}

func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if r.Check == nil {
		return fmt.Errorf("rule %s has no check", r.ID)
	}
	return nil
}

func once(ok bool, values map[string]string) []Match {
	if !ok {
		return nil
	}
	return []Match{{Values: values}}
}

func sortedChapters(s Snapshot) []string {
	ids := make([]string, 0, len(s.Chapters))
	for id := range s.Chapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func perChapter(s Snapshot, pred func(ChapterStat) bool) []Match {
	var out []Match
	for _, id := range sortedChapters(s) {
		if pred(s.Chapters[id]) {
			out = append(out, Match{Scope: id, Values: map[string]string{"chapter": id}})
		}
	}
	return out
}

func DefaultRules() []Rule {
	return []Rule{
		{
			ID:       "first-section",
			Title:    "🎯 First Steps!",
			Template: "You completed your first section! You're off to a great start!",
			Icon:     "award",
			Check: func(s Snapshot) []Match {
				for _, ch := range s.Chapters {
					if ch.CompletedSections > 0 {
						return once(true, nil)
					}
				}
				return nil
			},
		},
		{
			ID:       "chapter-50-percent",
			Title:    "⭐ Halfway There!",
			Template: "You're halfway through {chapter}. Keep going!",
			Icon:     "trending-up",
			Check: func(s Snapshot) []Match {
				return perChapter(s, func(c ChapterStat) bool { return c.Overall >= 50 })
			},
		},
		{
			ID:       "chapter-complete",
			Title:    "🎉 Chapter Mastered!",
			Template: "Excellent work finishing {chapter}!",
			Icon:     "trophy",
			Check: func(s Snapshot) []Match {
				return perChapter(s, func(c ChapterStat) bool { return c.Complete })
			},
		},
		{
			ID:       "practice-complete",
			Title:    "💪 Practice Complete!",
			Template: "You finished all practice problems in {chapter}! The formulas are clicking!",
			Icon:     "target",
			Check: func(s Snapshot) []Match {
				return perChapter(s, func(c ChapterStat) bool {
					return c.Practice > 0 && c.PracticeCompleted == c.Practice
				})
			},
		},
		{
			ID:       "test-prep-ready",
			Title:    "🎯 Test Prep Complete!",
			Template: "All chapters for {test} reviewed - you're ready!",
			Icon:     "check-circle",
			Check: func(s Snapshot) []Match {
				var out []Match
				for _, test := range s.Tests {
					if len(test.Covers) == 0 {
						continue
					}
					ready := true
					for _, ch := range test.Covers {
						if !s.Chapters[ch].Complete {
							ready = false
							break
						}
					}
					if ready {
						out = append(out, Match{Scope: test.ID, Values: map[string]string{"test": test.Title}})
					}
				}
				return out
			},
		},
		{
			ID:       "all-complete",
			Title:    "🏆 ALL CHAPTERS COMPLETE!",
			Template: "{percent}% of the course material is done. You're killing it!",
			Icon:     "trophy",
			Check: func(s Snapshot) []Match {
				chapters := s.Curriculum()
				if len(chapters) == 0 {
					return nil
				}
				done := 0
				for _, id := range chapters {
					if s.Chapters[id].Complete {
						done++
					}
				}
				percent := done * 100 / len(chapters)
				return once(done == len(chapters), map[string]string{"percent": strconv.Itoa(percent)})
			},
		},
		{
			ID:       "streak-3",
			Title:    "🔥 3-Day Streak!",
			Template: "You've studied 3 days in a row! Consistency is 🔑!",
			Icon:     "flame",
			Check:    func(s Snapshot) []Match { return once(s.Activity.Streak >= 3, nil) },
		},
		{
			ID:       "streak-7",
			Title:    "⚡ 7-Day Streak!",
			Template: "A full week! You're unstoppable!",
			Icon:     "zap",
			Check:    func(s Snapshot) []Match { return once(s.Activity.Streak >= 7, nil) },
		},
		{
			ID:       "weekly-5",
			Title:    "📅 Five Sessions This Week!",
			Template: "{count} study sessions in {week}. Great rhythm!",
			Icon:     "calendar-check",
			Check: func(s Snapshot) []Match {
				if s.Activity.WeekKey == "" || s.Activity.WeeklyCount < 5 {
					return nil
				}
				return []Match{{
					Scope:  s.Activity.WeekKey,
					Values: map[string]string{"week": s.Activity.WeekKey, "count": strconv.Itoa(s.Activity.WeeklyCount)},
				}}
			},
		},
		{
			ID:       "essay-started",
			Title:    "✍️ Essay Started!",
			Template: "Getting started is huge - you've got this!",
			Icon:     "pen-tool",
			Check: func(s Snapshot) []Match {
				out := make([]Match, 0, len(s.Activity.Essays))
				for _, essay := range s.Activity.Essays {
					out = append(out, Match{Scope: essay, Values: map[string]string{"essay": essay}})
				}
				return out
			},
		},
		{
			ID:       "essay-submitted",
			Title:    "🚀 Essay Submitted!",
			Template: "Another essay down! You're unstoppable!",
			Icon:     "send",
			Check: func(s Snapshot) []Match {
				sess := s.Activity.Session
				if !sess.Active || sess.Kind != "essay" || sess.SubjectID == "" || sess.Progress < 100 {
					return nil
				}
				return []Match{{Scope: sess.SubjectID, Values: map[string]string{"essay": sess.SubjectID}}}
			},
		},
		{
			ID:       "study-25min",
			Title:    "⏱️ 25 Minutes of Focus!",
			Template: "Solid study session! Your brain is leveling up!",
			Icon:     "clock",
			Check:    func(s Snapshot) []Match { return sessionLength(s, 25) },
		},
		{
			ID:       "study-1hour",
			Title:    "💪 1 Hour of Study!",
			Template: "Wow! That's dedication! Take a well-earned break!",
			Icon:     "award",
			Check:    func(s Snapshot) []Match { return sessionLength(s, 60) },
		},
	}
}

// sessionLength fires once per study session.
func sessionLength(s Snapshot, minutes int) []Match {
	sess := s.Activity.Session
	if !sess.Active || sess.SessionID == "" || sess.Minutes < minutes {
		return nil
	}
	return []Match{{Scope: sess.SessionID, Values: map[string]string{"minutes": strconv.Itoa(sess.Minutes)}}}
}
