// ABOUTME: Intent classification types for routing user commands to calendar actions
// ABOUTME: Defines the Intent enum, the entity bag, and the classification Result

package intent

// Intent represents the classified purpose of a user command.
type Intent string

const (
	IntentSchedule Intent = "schedule_meeting"
	IntentList     Intent = "list_meetings"
	IntentUpdate   Intent = "update_meeting"
	IntentDelete   Intent = "delete_meeting"
	IntentEmail    Intent = "send_email"
	IntentQuestion Intent = "general_question"
	IntentNone     Intent = "no_action"
)

// Well-known entity keys. The bag is open; these are the keys the
// executor looks for.
const (
	KeyTitle     = "title"        // meeting subject
	KeyTime      = "time"         // natural-language start time
	KeyContact   = "contact_name" // attendee name(s), comma separated
	KeyEvent     = "event_name"   // match term for update/delete
	KeyRecipient = "recipient"    // mail recipient name
	KeyDay       = "day"          // "today", "tomorrow", "this week"
	KeyBody      = "body"         // mail body
)

// Entities maps entity keys to extracted string values.
type Entities map[string]string

// Get returns the value for key, or "" when absent.
func (e Entities) Get(key string) string {
	if e == nil {
		return ""
	}
	return e[key]
}

// Has reports whether key is present and non-empty.
func (e Entities) Has(key string) bool {
	return e.Get(key) != ""
}

// Result holds the outcome of a classification.
type Result struct {
	Intent   Intent
	Entities Entities
	Source   string // "model" or "rules"
}

// ParseIntent maps a string to a known Intent. Unknown strings map to
// general_question so a creative model answer never crashes a turn.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentSchedule, IntentList, IntentUpdate, IntentDelete,
		IntentEmail, IntentQuestion, IntentNone:
		return Intent(s)
	}
	// Aliases observed from models that improvise.
	switch s {
	case "create_calendar_event", "create_meeting":
		return IntentSchedule
	case "list_calendar_events", "get_meetings":
		return IntentList
	case "update_calendar_event":
		return IntentUpdate
	case "delete_calendar_event", "cancel_meeting":
		return IntentDelete
	}
	return IntentQuestion
}
