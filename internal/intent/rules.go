// ABOUTME: Deterministic keyword-based intent classification fallback
// ABOUTME: Ordered tests: specific multi-keyword rules checked before generic ones

package intent

import (
	"regexp"
	"strings"
)

// keywords are matched on word boundaries, not substrings: "deleting"
// must not trip the delete rule in "schedule a meeting to discuss
// deleting old events".
var wordPatterns = map[string]*regexp.Regexp{}

// targetPattern pulls the meeting name out of phrasings like
// "delete the team sync meeting" or "reschedule my standup".
var targetPattern = regexp.MustCompile(`(?i)\b(?:delete|cancel|update|reschedule)\s+(?:the\s+|my\s+)?(.+?)(?:\s+meeting)?\s*$`)

func init() {
	for _, w := range []string{
		"meeting", "meetings", "list", "show", "delete", "cancel",
		"update", "reschedule", "schedule", "create",
	} {
		wordPatterns[w] = regexp.MustCompile(`\b` + w + `\b`)
	}
}

// ClassifyRules classifies text with ordered keyword tests. It is used
// when no model is configured and as the recovery path after an
// unparseable model response.
//
// The order is significant: multi-keyword tests run from most to least
// specific, and every mutation rule also requires the word "meeting" so
// generic verbs alone never select a calendar action.
func ClassifyRules(text string) Result {
	lower := strings.ToLower(text)
	has := func(words ...string) bool {
		for _, w := range words {
			if wordPatterns[w].MatchString(lower) {
				return true
			}
		}
		return false
	}

	meeting := has("meeting", "meetings")

	var in Intent
	switch {
	case meeting && has("list", "show"):
		in = IntentList
	case meeting && has("delete", "cancel"):
		in = IntentDelete
	case meeting && has("update", "reschedule"):
		in = IntentUpdate
	case meeting && has("schedule", "create"):
		in = IntentSchedule
	case strings.Contains(lower, "send email to") || strings.Contains(lower, "send an email to"):
		in = IntentEmail
	default:
		in = IntentQuestion
	}

	return Result{Intent: in, Entities: extractEntities(in, text, lower), Source: "rules"}
}

// extractEntities pulls the few entities the rule path can find without
// a model: the day qualifier, a "with <name> at <time>" pattern for
// scheduling, and the recipient of "send email to <name>".
func extractEntities(in Intent, text, lower string) Entities {
	ents := Entities{}

	switch {
	case strings.Contains(lower, "tomorrow"):
		ents[KeyDay] = "tomorrow"
	case strings.Contains(lower, "this week"):
		ents[KeyDay] = "this week"
	case strings.Contains(lower, "today"):
		ents[KeyDay] = "today"
	}

	switch in {
	case IntentSchedule:
		if names, rest, ok := between(text, lower, "with ", " at "); ok {
			ents[KeyContact] = strings.TrimSpace(names)
			ents[KeyTime] = strings.TrimSpace(rest)
		}
	case IntentDelete, IntentUpdate:
		if m := targetPattern.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" && !strings.EqualFold(name, "meeting") {
				ents[KeyEvent] = name
			}
		}
	case IntentEmail:
		if idx := strings.Index(lower, "email to "); idx >= 0 {
			ents[KeyRecipient] = strings.TrimSpace(text[idx+len("email to "):])
		}
	}
	return ents
}

// between extracts the text between the first open marker and the next
// close marker, plus everything after the close marker.
func between(text, lower, open, close string) (string, string, bool) {
	i := strings.Index(lower, open)
	if i < 0 {
		return "", "", false
	}
	rest := text[i+len(open):]
	j := strings.Index(strings.ToLower(rest), close)
	if j < 0 {
		return "", "", false
	}
	return rest[:j], rest[j+len(close):], true
}
