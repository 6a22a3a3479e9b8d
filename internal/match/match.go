// ABOUTME: First-match event search over a fetched working set
// ABOUTME: Scan order is fetch order; ambiguity is counted, not resolved

package match

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/meetbuddy/buddy/internal/graph"
)

// Match is the result of a term search. Event is the first hit in fetch
// order, or nil. Hits is the total number of matching events so callers
// can warn when the term was ambiguous; acting on the first hit anyway
// is deliberate and long-standing behavior.
type Match struct {
	Event *graph.Event
	Hits  int
}

// Found reports whether any event matched.
func (m Match) Found() bool {
	return m.Event != nil
}

// Ambiguous reports whether more than one event matched.
func (m Match) Ambiguous() bool {
	return m.Hits > 1
}

// Find scans events in order for the first whose subject or any
// attendee display name contains term case-insensitively.
func Find(events []graph.Event, term string) Match {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return Match{}
	}

	var m Match
	for i := range events {
		if !matches(&events[i], needle) {
			continue
		}
		if m.Event == nil {
			m.Event = &events[i]
		}
		m.Hits++
	}
	return m
}

func matches(ev *graph.Event, needle string) bool {
	if strings.Contains(strings.ToLower(ev.Subject), needle) {
		return true
	}
	for _, a := range ev.Attendees {
		if strings.Contains(strings.ToLower(a.Name), needle) {
			return true
		}
	}
	return false
}

// Suggest returns up to n event subjects fuzzy-ranked against term, for
// the "no match" message. Duplicate subjects collapse to one entry.
func Suggest(events []graph.Event, term string, n int) []string {
	seen := make(map[string]struct{}, len(events))
	var subjects []string
	for _, ev := range events {
		if ev.Subject == "" {
			continue
		}
		if _, ok := seen[ev.Subject]; ok {
			continue
		}
		seen[ev.Subject] = struct{}{}
		subjects = append(subjects, ev.Subject)
	}

	ranked := fuzzy.Find(term, subjects)
	out := make([]string, 0, n)
	for _, r := range ranked {
		if len(out) == n {
			break
		}
		out = append(out, r.Str)
	}
	return out
}
