// ABOUTME: Executes classified commands against the calendar service behind confirmation gates
// ABOUTME: Every write requires an explicit yes; failures never leave partial state

package action

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meetbuddy/buddy/internal/directory"
	"github.com/meetbuddy/buddy/internal/graph"
	"github.com/meetbuddy/buddy/internal/intent"
	"github.com/meetbuddy/buddy/internal/log"
	"github.com/meetbuddy/buddy/internal/match"
)

// UI is what the executor needs from the shell. The interactive and
// one-shot modes both implement it.
type UI interface {
	// Prompt asks for one line of input and returns it trimmed.
	Prompt(label string) (string, error)
	// Choose presents numbered options and returns a 1-based pick.
	Choose(label string, options []string) (int, error)
	// Confirm shows the summary and asks the question; only an explicit
	// affirmative returns true.
	Confirm(summary, question string) bool
	Say(format string, args ...any)
	ShowAnswer(markdown string)
	ShowEvents(label string, events []graph.Event)
}

// AnswerFunc produces a free-form answer to a general question. Nil
// when no model is configured.
type AnswerFunc func(ctx context.Context, question string) (string, error)

// Executor runs one command at a time. It holds no state between
// commands.
type Executor struct {
	Cal      graph.Calendar
	Dir      graph.Directory
	Mail     graph.Mailer
	UI       UI
	Answer   AnswerFunc
	Now      func() time.Time
	Loc      *time.Location
	Window   int           // rolling fetch window in days
	Duration time.Duration // default meeting length
}

func (e *Executor) now() time.Time {
	if e.Now != nil {
		return e.Now().In(e.loc())
	}
	return time.Now().In(e.loc())
}

func (e *Executor) loc() *time.Location {
	if e.Loc != nil {
		return e.Loc
	}
	return time.Local
}

func (e *Executor) duration() time.Duration {
	if e.Duration > 0 {
		return e.Duration
	}
	return 30 * time.Minute
}

// Dispatch routes a classified command to its handler. Returned errors
// are user-facing; the caller prints them and keeps the session alive.
func (e *Executor) Dispatch(ctx context.Context, res intent.Result, raw string) error {
	log.Debug("dispatch intent=%s source=%s", res.Intent, res.Source)
	switch res.Intent {
	case intent.IntentSchedule:
		return e.finish(e.Schedule(ctx, res.Entities))
	case intent.IntentList:
		return e.List(ctx, res.Entities, raw)
	case intent.IntentUpdate:
		return e.finish(e.Update(ctx, res.Entities))
	case intent.IntentDelete:
		return e.finish(e.Delete(ctx, res.Entities))
	case intent.IntentEmail:
		return e.finish(e.Email(ctx, res.Entities))
	case intent.IntentNone:
		e.UI.Say("Okay, nothing to do.")
		return nil
	default:
		return e.Question(ctx, raw)
	}
}

// finish logs the terminal state of a plan and passes the error on.
func (e *Executor) finish(plan *Plan, err error) error {
	log.Debug("plan intent=%s state=%s", plan.Intent, plan.State)
	return err
}

// Schedule creates a meeting: resolve attendees, parse the start time,
// confirm, then write. The returned plan carries the terminal state.
func (e *Executor) Schedule(ctx context.Context, ents intent.Entities) (*Plan, error) {
	plan := &Plan{Intent: intent.IntentSchedule, State: StateClassified}

	attendees, err := e.resolveAttendees(ctx, ents.Get(intent.KeyContact))
	if err != nil {
		plan.State = StateFailed
		return plan, err
	}

	timeText := ents.Get(intent.KeyTime)
	if day := ents.Get(intent.KeyDay); day != "" && !strings.Contains(strings.ToLower(timeText), strings.ToLower(day)) {
		timeText = strings.TrimSpace(day + " " + timeText)
	}
	if timeText == "" {
		if timeText, err = e.UI.Prompt("When should the meeting start?"); err != nil {
			plan.State = StateFailed
			return plan, err
		}
	}
	start, err := ParseTime(timeText, e.now())
	if err != nil {
		plan.State = StateFailed
		return plan, err
	}

	subject := ents.Get(intent.KeyTitle)
	if subject == "" {
		if subject, err = e.UI.Prompt("What is the meeting about?"); err != nil {
			plan.State = StateFailed
			return plan, err
		}
	}
	if subject = strings.TrimSpace(subject); subject == "" {
		plan.State = StateFailed
		return plan, fmt.Errorf("%w: a meeting needs a subject", ErrNeedInput)
	}

	plan.Draft = &graph.Draft{
		Subject:         subject,
		Start:           start,
		End:             start.Add(e.duration()),
		Attendees:       attendees,
		IsOnlineMeeting: true,
	}
	plan.State = StateResolved

	if !e.UI.Confirm(ScheduleSummary(*plan.Draft, e.loc()), "Schedule this meeting?") {
		plan.State = StateCancelled
		e.UI.Say("Cancelled, nothing was scheduled.")
		return plan, nil
	}
	plan.State = StateConfirmed

	created, err := e.Cal.CreateEvent(ctx, *plan.Draft)
	if err != nil {
		plan.State = StateFailed
		return plan, err
	}
	plan.State = StateExecuted
	e.UI.Say("Scheduled %q for %s.", created.Subject, created.Start.In(e.loc()).Format("Mon, 02 Jan 2006 03:04 PM"))
	return plan, nil
}

// List fetches the window and shows it. Fetch errors are surfaced, not
// rendered as an empty calendar.
func (e *Executor) List(ctx context.Context, ents intent.Entities, raw string) error {
	w := ListWindow(ents, raw, e.now(), e.Window)
	events, err := graph.FetchWindow(ctx, e.Cal, w.From, e.loc(), w.Days)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		e.UI.Say("You have no meetings scheduled for %s.", w.Label)
		return nil
	}
	e.UI.ShowEvents(fmt.Sprintf("Meetings for %s", w.Label), events)
	return nil
}

// Update finds a meeting, gathers the changes interactively, confirms,
// then patches only what changed.
func (e *Executor) Update(ctx context.Context, ents intent.Entities) (*Plan, error) {
	plan := &Plan{Intent: intent.IntentUpdate, State: StateClassified}

	target, err := e.findTarget(ctx, ents, "Which meeting should I update?")
	if err != nil {
		plan.State = StateFailed
		return plan, err
	}
	plan.Target = target

	var patch graph.Patch

	newSubject, err := e.UI.Prompt("New subject (press enter to keep current):")
	if err != nil {
		plan.State = StateFailed
		return plan, err
	}
	if newSubject = strings.TrimSpace(newSubject); newSubject != "" {
		patch.Subject = &newSubject
	}

	timeText := ents.Get(intent.KeyTime)
	if timeText == "" {
		if timeText, err = e.UI.Prompt("New start time (press enter to keep current):"); err != nil {
			plan.State = StateFailed
			return plan, err
		}
	}
	if timeText = strings.TrimSpace(timeText); timeText != "" {
		start, perr := ParseTime(timeText, e.now())
		if perr != nil {
			plan.State = StateFailed
			return plan, perr
		}
		end := start.Add(target.End.Sub(target.Start))
		patch.Start, patch.End = &start, &end
	}

	addText, err := e.UI.Prompt("Attendees to add, comma separated (press enter to skip):")
	if err != nil {
		plan.State = StateFailed
		return plan, err
	}
	removeText, err := e.UI.Prompt("Attendees to remove, comma separated (press enter to skip):")
	if err != nil {
		plan.State = StateFailed
		return plan, err
	}
	add, remove := SplitEmails(addText), SplitEmails(removeText)
	if len(add) > 0 || len(remove) > 0 {
		current := make([]string, 0, len(target.Attendees))
		for _, a := range target.Attendees {
			current = append(current, a.Email)
		}
		final := FinalAttendees(current, add, remove)
		attendees := make([]graph.Attendee, 0, len(final))
		for _, email := range final {
			attendees = append(attendees, graph.Attendee{Email: email})
		}
		patch.Attendees = &attendees
	}

	if patch.Empty() {
		plan.State = StateCancelled
		e.UI.Say("Nothing to change, the meeting stays as it is.")
		return plan, nil
	}
	plan.Patch = patch
	plan.State = StateResolved

	if !e.UI.Confirm(UpdateSummary(*target, patch, e.loc()), fmt.Sprintf("Apply these changes to %q?", target.Subject)) {
		plan.State = StateCancelled
		e.UI.Say("Cancelled, the meeting was not changed.")
		return plan, nil
	}
	plan.State = StateConfirmed

	if err := e.Cal.UpdateEvent(ctx, target.ID, patch); err != nil {
		plan.State = StateFailed
		return plan, err
	}
	plan.State = StateExecuted
	e.UI.Say("Updated %q.", target.Subject)
	return plan, nil
}

// Delete finds a meeting, confirms, then removes it.
func (e *Executor) Delete(ctx context.Context, ents intent.Entities) (*Plan, error) {
	plan := &Plan{Intent: intent.IntentDelete, State: StateClassified}

	target, err := e.findTarget(ctx, ents, "Which meeting should I delete?")
	if err != nil {
		plan.State = StateFailed
		return plan, err
	}
	plan.Target = target
	plan.State = StateResolved

	summary := fmt.Sprintf("Subject   : %s\nStart     : %s", target.Subject,
		target.Start.In(e.loc()).Format("Mon, 02 Jan 2006 03:04 PM"))
	if !e.UI.Confirm(summary, fmt.Sprintf("Delete %q? This cannot be undone.", target.Subject)) {
		plan.State = StateCancelled
		e.UI.Say("Cancelled, the meeting stays on your calendar.")
		return plan, nil
	}
	plan.State = StateConfirmed

	if err := e.Cal.DeleteEvent(ctx, target.ID); err != nil {
		plan.State = StateFailed
		return plan, err
	}
	plan.State = StateExecuted
	e.UI.Say("Deleted %q.", target.Subject)
	return plan, nil
}

// Email resolves recipients, gathers subject and body, confirms, then
// sends.
func (e *Executor) Email(ctx context.Context, ents intent.Entities) (*Plan, error) {
	plan := &Plan{Intent: intent.IntentEmail, State: StateClassified}

	names := ents.Get(intent.KeyRecipient)
	if names == "" {
		names = ents.Get(intent.KeyContact)
	}
	if names == "" {
		var err error
		if names, err = e.UI.Prompt("Who should receive the email?"); err != nil {
			plan.State = StateFailed
			return plan, err
		}
	}
	recipients, err := e.resolveAttendees(ctx, names)
	if err != nil {
		plan.State = StateFailed
		return plan, err
	}
	if len(recipients) == 0 {
		plan.State = StateFailed
		return plan, fmt.Errorf("%w: could not resolve any recipients", ErrNeedInput)
	}
	for _, r := range recipients {
		plan.Recipients = append(plan.Recipients, r.Email)
	}

	subject := ents.Get(intent.KeyTitle)
	if subject == "" {
		if subject, err = e.UI.Prompt("Subject:"); err != nil {
			plan.State = StateFailed
			return plan, err
		}
	}
	body := ents.Get(intent.KeyBody)
	if body == "" {
		if body, err = e.UI.Prompt("Body:"); err != nil {
			plan.State = StateFailed
			return plan, err
		}
	}
	plan.Subject, plan.Body = strings.TrimSpace(subject), body
	if plan.Subject == "" {
		plan.State = StateFailed
		return plan, fmt.Errorf("%w: an email needs a subject", ErrNeedInput)
	}
	if strings.TrimSpace(plan.Body) == "" {
		plan.State = StateFailed
		return plan, fmt.Errorf("%w: an email needs a body", ErrNeedInput)
	}
	plan.State = StateResolved

	summary := fmt.Sprintf("To        : %s\nSubject   : %s\nBody      : %s",
		strings.Join(plan.Recipients, ", "), plan.Subject, plan.Body)
	if !e.UI.Confirm(summary, "Send this email?") {
		plan.State = StateCancelled
		e.UI.Say("Cancelled, nothing was sent.")
		return plan, nil
	}
	plan.State = StateConfirmed

	if err := e.Mail.SendMail(ctx, plan.Recipients, plan.Subject, plan.Body); err != nil {
		plan.State = StateFailed
		return plan, err
	}
	plan.State = StateExecuted
	e.UI.Say("Email sent to %s.", strings.Join(plan.Recipients, ", "))
	return plan, nil
}

// Question answers free-form questions through the model, or explains
// that no model is configured.
func (e *Executor) Question(ctx context.Context, raw string) error {
	if e.Answer == nil {
		e.UI.Say("No model is configured, so I can't answer %q.", raw)
		e.UI.Say("I can still schedule, list, update, and delete meetings, and send email.")
		return nil
	}
	answer, err := e.Answer(ctx, raw)
	if err != nil {
		return err
	}
	e.UI.ShowAnswer(answer)
	return nil
}

// resolveAttendees turns free-form names into directory-backed
// attendees. Names that resolve to nothing are reported and skipped;
// ambiguous names go through a pick.
func (e *Executor) resolveAttendees(ctx context.Context, names string) ([]graph.Attendee, error) {
	parts := directory.SplitNames(names)
	if len(parts) == 0 {
		return nil, nil
	}

	resolutions := directory.NewResolver(e.Dir).Resolve(ctx, parts)

	var attendees []graph.Attendee
	for i := range resolutions {
		res := &resolutions[i]
		switch res.Outcome() {
		case directory.Resolved:
			attendees = append(attendees, graph.Attendee{
				Name:  res.User.DisplayName,
				Email: res.User.Address(),
			})
		case directory.NotFound:
			e.UI.Say("No matching users found for %q, skipping.", res.Name)
		case directory.Ambiguous:
			options := make([]string, 0, len(res.Candidates))
			for _, c := range res.Candidates {
				options = append(options, fmt.Sprintf("%s <%s>", c.DisplayName, c.Address()))
			}
			pick, err := e.UI.Choose(fmt.Sprintf("Multiple matches for %q, which one?", res.Name), options)
			if err != nil {
				return nil, err
			}
			if err := res.Pick(pick); err != nil {
				e.UI.Say("%v, skipping %q.", err, res.Name)
				continue
			}
			attendees = append(attendees, graph.Attendee{
				Name:  res.User.DisplayName,
				Email: res.User.Address(),
			})
		}
	}
	return attendees, nil
}

// findTarget fetches the window and locates the meeting named by the
// command, prompting when the command did not name one.
func (e *Executor) findTarget(ctx context.Context, ents intent.Entities, prompt string) (*graph.Event, error) {
	term := ents.Get(intent.KeyEvent)
	if term == "" {
		term = ents.Get(intent.KeyTitle)
	}
	if term == "" {
		var err error
		if term, err = e.UI.Prompt(prompt); err != nil {
			return nil, err
		}
	}

	days := e.Window
	if days < 1 {
		days = 7
	}
	events, err := graph.FetchWindow(ctx, e.Cal, e.now(), e.loc(), days)
	if err != nil {
		return nil, err
	}

	m := match.Find(events, term)
	if !m.Found() {
		if sugg := match.Suggest(events, term, 3); len(sugg) > 0 {
			return nil, fmt.Errorf("%w for %q, did you mean: %s", ErrNoMatch, term, strings.Join(sugg, ", "))
		}
		return nil, fmt.Errorf("%w for %q in the next %d days", ErrNoMatch, term, days)
	}
	if m.Ambiguous() {
		log.Warn("%d meetings match %q, using the earliest", m.Hits, term)
		e.UI.Say("%d meetings match %q, using the earliest: %q.", m.Hits, term, m.Event.Subject)
	}
	return m.Event, nil
}
