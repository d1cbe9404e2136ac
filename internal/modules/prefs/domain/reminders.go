package domain

import "time"

// DismissWindow is how long a dismissed reminder stays quiet.
const DismissWindow = time.Hour

// Dismissals maps an assignment id to when its reminder was last dismissed.
type Dismissals map[string]time.Time

// Quiet reports whether id was dismissed less than DismissWindow before now.
func (d Dismissals) Quiet(id string, now time.Time) bool {
	at, ok := d[id]
	return ok && now.Sub(at) < DismissWindow
}

// Prune drops dismissals whose window has passed.
func (d Dismissals) Prune(now time.Time) Dismissals {
	out := make(Dismissals, len(d))
	for id, at := range d {
		if now.Sub(at) < DismissWindow {
			out[id] = at
		}
	}
	return out
}
