package domain

import (
	"math"
	"sort"
	"time"
)

type SectionProgress struct {
	PercentComplete float64   `json:"percentComplete"`
	Completed       bool      `json:"completed"`
	LastAccessed    time.Time `json:"lastAccessed"`
}

type ChapterProgress struct {
	Sections        map[string]SectionProgress `json:"sections"`
	OverallProgress int                        `json:"overallProgress"`
	LastAccessed    time.Time                  `json:"lastAccessed"`
}

// Ledger is the whole persisted progress document, keyed by chapter id.
type Ledger map[string]ChapterProgress

func ClampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func NewSection(percent float64, at time.Time) SectionProgress {
	percent = ClampPercent(percent)
	return SectionProgress{PercentComplete: percent, Completed: percent >= 100, LastAccessed: at}
}

// Recompute derives the aggregate fields from the sections. A chapter with
// no sections reports zero progress.
func (c *ChapterProgress) Recompute() {
	if len(c.Sections) == 0 {
		c.OverallProgress = 0
		c.LastAccessed = time.Time{}
		return
	}
	sum := 0.0
	latest := time.Time{}
	for id, s := range c.Sections {
		s.PercentComplete = ClampPercent(s.PercentComplete)
		s.Completed = s.PercentComplete >= 100
		c.Sections[id] = s
		sum += s.PercentComplete
		if s.LastAccessed.After(latest) {
			latest = s.LastAccessed
		}
	}
	c.OverallProgress = int(math.Round(sum / float64(len(c.Sections))))
	c.LastAccessed = latest
}

func (c ChapterProgress) Complete() bool {
	return len(c.Sections) > 0 && c.OverallProgress >= 100
}

// Recompute refreshes every chapter so stored aggregates never drift from
// their sections.
func (l Ledger) Recompute() {
	for id, ch := range l {
		if ch.Sections == nil {
			ch.Sections = map[string]SectionProgress{}
		}
		ch.Recompute()
		l[id] = ch
	}
}

// LastAccessed returns the chapter touched most recently. Ties go to the
// chapter that comes first in order, then to the lexically smaller id.
func (l Ledger) LastAccessed(order []string) (string, bool) {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}
	ids := make([]string, 0, len(l))
	for id, ch := range l {
		if len(ch.Sections) > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", false
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := l[ids[i]], l[ids[j]]
		if !a.LastAccessed.Equal(b.LastAccessed) {
			return a.LastAccessed.After(b.LastAccessed)
		}
		ra, okA := rank[ids[i]]
		rb, okB := rank[ids[j]]
		switch {
		case okA && okB && ra != rb:
			return ra < rb
		case okA != okB:
			return okA
		}
		return ids[i] < ids[j]
	})
	return ids[0], true
}

// LastSection is the most recently touched section of the chapter, with the
// same lexical tie-break.
func (c ChapterProgress) LastSection() (string, bool) {
	best := ""
	var bestAt time.Time
	for id, s := range c.Sections {
		if best == "" || s.LastAccessed.After(bestAt) || (s.LastAccessed.Equal(bestAt) && id < best) {
			best, bestAt = id, s.LastAccessed
		}
	}
	return best, best != ""
}
