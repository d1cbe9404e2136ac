package domain

import (
	"sort"
	"strings"
	"time"
)

// Achievement is an earned milestone. Records are never edited once written.
type Achievement struct {
	ID       string    `json:"id"`
	Rule     string    `json:"type"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Icon     string    `json:"icon"`
	EarnedAt time.Time `json:"timestamp"`
}

// Earned maps achievement ids to the moment they were first earned. It is
// never trimmed.
type Earned map[string]time.Time

func (e Earned) Has(id string) bool {
	_, ok := e[id]
	return ok
}

// History is ordered oldest first and bounded by the caller.
type History []Achievement

// Append adds a and evicts the oldest records beyond limit.
func (h History) Append(a Achievement, limit int) History {
	out := append(append(History(nil), h...), a)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Recent returns up to n records, newest first. n <= 0 means all.
func (h History) Recent(n int) History {
	out := make(History, len(h))
	for i, a := range h {
		out[len(h)-1-i] = a
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// EarnedID is the rule id, suffixed with ":scope" for rules that fire once per
// chapter, test, week or essay.
func EarnedID(rule, scope string) string {
	if scope == "" {
		return rule
	}
	return rule + ":" + scope
}

// Render substitutes {key} placeholders. Unknown placeholders are left as is.
func Render(template string, values map[string]string) string {
	if len(values) == 0 {
		return template
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", values[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
