// ABOUTME: In-memory calendar/directory/mail service for offline and demo use
// ABOUTME: Implements the same Service surface as the REST client; uuid-assigned IDs

package graph

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryService is an in-process stand-in for the remote service. It
// lets the whole pipeline run without credentials and backs the tests.
type MemoryService struct {
	mu     sync.Mutex
	events map[string]Event
	users  []User
	sent   []SentMail
}

// SentMail records one SendMail call.
type SentMail struct {
	To      []string
	Subject string
	Body    string
}

// NewMemoryService creates an empty in-memory service.
func NewMemoryService() *MemoryService {
	return &MemoryService{events: make(map[string]Event)}
}

// NewDemoService creates a memory service pre-seeded with a small
// directory and a few meetings around now, for --offline runs.
func NewDemoService(now time.Time) *MemoryService {
	s := NewMemoryService()
	s.users = []User{
		{DisplayName: "Ajay Kumar", Mail: "ajay.kumar@example.com", UserPrincipalName: "ajayk@example.com"},
		{DisplayName: "Shreya Patel", Mail: "shreya.patel@example.com", UserPrincipalName: "shreyap@example.com"},
		{DisplayName: "Shreya Nair", Mail: "", UserPrincipalName: "shreyan@example.com"},
		{DisplayName: "John Doe", Mail: "john@example.com", UserPrincipalName: "johnd@example.com"},
	}

	base := now.UTC().Truncate(time.Hour)
	s.AddEvent(Event{
		Subject:   "Team Sync",
		Start:     base.Add(2 * time.Hour),
		End:       base.Add(2*time.Hour + 30*time.Minute),
		Attendees: []Attendee{{Email: "ajay.kumar@example.com", Name: "Ajay Kumar"}},
	})
	s.AddEvent(Event{
		Subject:   "Shreya 1:1",
		Start:     base.Add(26 * time.Hour),
		End:       base.Add(27 * time.Hour),
		Attendees: []Attendee{{Email: "shreya.patel@example.com", Name: "Shreya Patel"}},
	})
	return s
}

// AddEvent inserts an event, assigning an ID if absent, and returns it.
func (s *MemoryService) AddEvent(ev Event) Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	s.events[ev.ID] = ev
	return ev
}

// AddUser appends a directory entry.
func (s *MemoryService) AddUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

// Sent returns a copy of recorded outbound mail.
func (s *MemoryService) Sent() []SentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMail(nil), s.sent...)
}

// FetchEvents returns events overlapping [startUTC, endUTC), ascending by start.
func (s *MemoryService) FetchEvents(_ context.Context, startUTC, endUTC time.Time) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event
	for _, ev := range s.events {
		if ev.Start.Before(endUTC) && ev.End.After(startUTC) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// CreateEvent stores the draft and returns the created event.
func (s *MemoryService) CreateEvent(_ context.Context, draft Draft) (Event, error) {
	ev := Event{
		ID:              uuid.NewString(),
		Subject:         draft.Subject,
		Start:           draft.Start.UTC(),
		End:             draft.End.UTC(),
		Attendees:       append([]Attendee(nil), draft.Attendees...),
		IsOnlineMeeting: draft.IsOnlineMeeting,
	}
	s.mu.Lock()
	s.events[ev.ID] = ev
	s.mu.Unlock()
	return ev, nil
}

// UpdateEvent applies non-nil patch fields in place.
func (s *MemoryService) UpdateEvent(_ context.Context, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[id]
	if !ok {
		return &ServiceError{Status: 404, Code: "ErrorItemNotFound", Message: "The specified object was not found in the store."}
	}
	if patch.Subject != nil {
		ev.Subject = *patch.Subject
	}
	if patch.Start != nil {
		ev.Start = patch.Start.UTC()
	}
	if patch.End != nil {
		ev.End = patch.End.UTC()
	}
	if patch.Attendees != nil {
		ev.Attendees = append([]Attendee(nil), (*patch.Attendees)...)
	}
	s.events[id] = ev
	return nil
}

// DeleteEvent removes the event.
func (s *MemoryService) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return &ServiceError{Status: 404, Code: "ErrorItemNotFound", Message: "The specified object was not found in the store."}
	}
	delete(s.events, id)
	return nil
}

// LookupUsers performs a case-insensitive prefix match on display name.
// Result order is insertion order, which is stable across calls.
func (s *MemoryService) LookupUsers(_ context.Context, namePrefix string) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := strings.ToLower(namePrefix)
	var out []User
	for _, u := range s.users {
		if strings.HasPrefix(strings.ToLower(u.DisplayName), prefix) {
			out = append(out, u)
		}
	}
	return out, nil
}

// SendMail records the message.
func (s *MemoryService) SendMail(_ context.Context, to []string, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, SentMail{To: append([]string(nil), to...), Subject: subject, Body: body})
	return nil
}
