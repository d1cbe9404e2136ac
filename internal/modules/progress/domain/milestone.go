package domain

import "fmt"

// Milestone is the toast shown when a single section update lands on half
// or full completion.
type Milestone struct {
	Icon    string
	Title   string
	Message string
}

// SectionMilestone reports the milestone for a section update, if any. Only
// exact hits count: moving a section from 40 to 60 announces nothing.
func SectionMilestone(sectionID string, percent float64) (Milestone, bool) {
	switch ClampPercent(percent) {
	case 100:
		return Milestone{
			Icon:    "check-circle",
			Title:   "Section Complete!",
			Message: fmt.Sprintf("Great job finishing Section %s!", sectionID),
		}, true
	case 50:
		return Milestone{
			Icon:    "trending-up",
			Title:   "Halfway There!",
			Message: fmt.Sprintf("You're making great progress on Section %s", sectionID),
		}, true
	}
	return Milestone{}, false
}
