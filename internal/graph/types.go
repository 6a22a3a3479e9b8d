// ABOUTME: Calendar, directory, and mail domain types plus service interfaces
// ABOUTME: Times are always UTC in transit; display conversion is the shell's job

package graph

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Attendee is one meeting participant. Email is unique within an event.
type Attendee struct {
	Email string
	Name  string
}

// Event is one calendar meeting. Start and End are UTC.
type Event struct {
	ID              string
	Subject         string
	Start           time.Time
	End             time.Time
	Attendees       []Attendee
	IsOnlineMeeting bool
}

// User is a directory identity. Read-only from this system's perspective.
type User struct {
	DisplayName       string
	Mail              string
	UserPrincipalName string
}

// Address returns the user's invitation address: the primary mail
// address when present, the principal name otherwise.
func (u User) Address() string {
	if strings.TrimSpace(u.Mail) != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// Draft is the payload for creating an event.
type Draft struct {
	Subject         string
	Start           time.Time
	End             time.Time
	Attendees       []Attendee
	IsOnlineMeeting bool
}

// Patch is a partial event update. Nil fields are left unchanged.
type Patch struct {
	Subject   *string
	Start     *time.Time
	End       *time.Time
	Attendees *[]Attendee
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Subject == nil && p.Start == nil && p.End == nil && p.Attendees == nil
}

// ServiceError is a non-success result from the remote service. Message
// carries the provider's detail verbatim for the user.
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("service error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("service error %d: %s", e.Status, e.Message)
}

// Calendar is the event CRUD surface consumed by the core.
type Calendar interface {
	// FetchEvents returns events overlapping [startUTC, endUTC), ordered
	// ascending by start time.
	FetchEvents(ctx context.Context, startUTC, endUTC time.Time) ([]Event, error)
	CreateEvent(ctx context.Context, draft Draft) (Event, error)
	UpdateEvent(ctx context.Context, id string, patch Patch) error
	DeleteEvent(ctx context.Context, id string) error
}

// Directory looks up users by case-insensitive display-name prefix.
type Directory interface {
	LookupUsers(ctx context.Context, namePrefix string) ([]User, error)
}

// Mailer sends plain-text mail.
type Mailer interface {
	SendMail(ctx context.Context, to []string, subject, body string) error
}

// Service is the full collaborator surface.
type Service interface {
	Calendar
	Directory
	Mailer
}
