// ABOUTME: Pending-action plan types, state machine states, and pure decision helpers
// ABOUTME: Pure functions here are testable without a terminal or a live service

package action

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meetbuddy/buddy/internal/graph"
	"github.com/meetbuddy/buddy/internal/intent"
)

// State tracks a command through its lifecycle. A cancelled or failed
// plan is discarded; nothing carries over to the next command.
type State int

const (
	StateClassified State = iota
	StateResolved
	StateConfirmed
	StateExecuted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateClassified:
		return "classified"
	case StateResolved:
		return "resolved"
	case StateConfirmed:
		return "confirmed"
	case StateExecuted:
		return "executed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Failure sentinels. These describe why a command stopped; they are
// messages for the user, not session-fatal conditions.
var (
	ErrInvalidTime = errors.New("could not understand the time")
	ErrNoMatch     = errors.New("no matching meeting found")
	ErrNoChanges   = errors.New("nothing to change")
	ErrNeedInput   = errors.New("input required")
)

// Plan is the ephemeral record built while processing one command.
type Plan struct {
	Intent intent.Intent
	State  State

	Target     *graph.Event // update/delete target
	Draft      *graph.Draft // schedule payload
	Patch      graph.Patch  // update payload
	Recipients []string     // send_email
	Subject    string
	Body       string
}

// IsAffirmative reports whether input is the exact affirmative required
// by a confirmation gate. Anything else, including empty input, means
// no.
func IsAffirmative(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), "yes")
}

// FinalAttendees computes (current ∪ add) \ remove over email strings.
// Emails are trimmed before comparison but compared case-sensitively,
// matching the service's semantics. Order: current first, then new
// additions in the order given.
func FinalAttendees(current, add, remove []string) []string {
	removed := make(map[string]struct{}, len(remove))
	for _, r := range remove {
		if r = strings.TrimSpace(r); r != "" {
			removed[r] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	var final []string
	keep := func(email string) {
		email = strings.TrimSpace(email)
		if email == "" {
			return
		}
		if _, gone := removed[email]; gone {
			return
		}
		if _, dup := seen[email]; dup {
			return
		}
		seen[email] = struct{}{}
		final = append(final, email)
	}

	for _, c := range current {
		keep(c)
	}
	for _, a := range add {
		keep(a)
	}
	return final
}

// SplitEmails breaks comma-separated email input into trimmed entries.
func SplitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Window is a bounded fetch horizon with a human label.
type Window struct {
	From  time.Time
	Days  int
	Label string
}

// ListWindow derives the fetch window from the command's phrasing.
// "today" and "tomorrow" are single days; "this week" is seven; the
// default is the configured rolling window.
func ListWindow(ents intent.Entities, raw string, now time.Time, defaultDays int) Window {
	day := ents.Get(intent.KeyDay)
	if day == "" {
		lower := strings.ToLower(raw)
		switch {
		case strings.Contains(lower, "tomorrow"):
			day = "tomorrow"
		case strings.Contains(lower, "this week"):
			day = "this week"
		case strings.Contains(lower, "today"):
			day = "today"
		}
	}

	switch strings.ToLower(day) {
	case "today":
		return Window{From: now, Days: 1, Label: "today"}
	case "tomorrow":
		return Window{From: now.AddDate(0, 0, 1), Days: 1, Label: "tomorrow"}
	case "this week":
		return Window{From: now, Days: 7, Label: "this week"}
	}
	if defaultDays < 1 {
		defaultDays = 1
	}
	return Window{From: now, Days: defaultDays, Label: fmt.Sprintf("the next %d days", defaultDays)}
}

// ScheduleSummary renders a confirmation summary for a draft.
func ScheduleSummary(draft graph.Draft, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject   : %s\n", draft.Subject)
	fmt.Fprintf(&b, "Start     : %s\n", draft.Start.In(loc).Format("Mon, 02 Jan 2006 03:04 PM"))
	fmt.Fprintf(&b, "End       : %s\n", draft.End.In(loc).Format("Mon, 02 Jan 2006 03:04 PM"))
	if len(draft.Attendees) == 0 {
		b.WriteString("Attendees : none")
	} else {
		names := make([]string, 0, len(draft.Attendees))
		for _, a := range draft.Attendees {
			names = append(names, a.Email)
		}
		fmt.Fprintf(&b, "Attendees : %s", strings.Join(names, ", "))
	}
	return b.String()
}

// UpdateSummary renders a confirmation summary for a patch against its
// target, showing only what changes.
func UpdateSummary(target graph.Event, patch graph.Patch, loc *time.Location) string {
	var lines []string
	if patch.Subject != nil {
		lines = append(lines, fmt.Sprintf("Subject   : %s -> %s", target.Subject, *patch.Subject))
	}
	if patch.Start != nil {
		lines = append(lines, fmt.Sprintf("Start     : %s", patch.Start.In(loc).Format("Mon, 02 Jan 2006 03:04 PM")))
	}
	if patch.End != nil {
		lines = append(lines, fmt.Sprintf("End       : %s", patch.End.In(loc).Format("Mon, 02 Jan 2006 03:04 PM")))
	}
	if patch.Attendees != nil {
		emails := make([]string, 0, len(*patch.Attendees))
		for _, a := range *patch.Attendees {
			emails = append(emails, a.Email)
		}
		attendees := "none"
		if len(emails) > 0 {
			attendees = strings.Join(emails, ", ")
		}
		lines = append(lines, "Attendees : "+attendees)
	}
	return strings.Join(lines, "\n")
}
