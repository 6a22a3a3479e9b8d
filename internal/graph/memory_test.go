// ABOUTME: Tests for the in-memory service: CRUD, prefix lookup, read idempotence
// ABOUTME: Also covers the window fetch helper's ordering and failure propagation

package graph

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestMemoryService_CreateFetchRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewMemoryService()
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	created, err := s.CreateEvent(context.Background(), Draft{
		Subject: "Design Review",
		Start:   start,
		End:     start.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created event has no ID")
	}

	events, err := s.FetchEvents(context.Background(), start.Add(-time.Hour), start.Add(time.Hour))
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(events) != 1 || events[0].Subject != "Design Review" {
		t.Errorf("events = %+v", events)
	}
}

func TestMemoryService_FetchIdempotent(t *testing.T) {
	t.Parallel()

	s := NewDemoService(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	first, err := s.FetchEvents(context.Background(), from, to)
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	second, err := s.FetchEvents(context.Background(), from, to)
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two fetches with no mutation differ")
	}
}

func TestMemoryService_UpdateDeleteUnknownID(t *testing.T) {
	t.Parallel()

	s := NewMemoryService()
	subject := "x"

	var se *ServiceError
	if err := s.UpdateEvent(context.Background(), "nope", Patch{Subject: &subject}); !errors.As(err, &se) {
		t.Errorf("UpdateEvent error = %v; want *ServiceError", err)
	}
	if err := s.DeleteEvent(context.Background(), "nope"); !errors.As(err, &se) {
		t.Errorf("DeleteEvent error = %v; want *ServiceError", err)
	}
}

func TestMemoryService_LookupPrefix(t *testing.T) {
	t.Parallel()

	s := NewDemoService(time.Now())

	users, err := s.LookupUsers(context.Background(), "shre")
	if err != nil {
		t.Fatalf("LookupUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d; want 2 Shreyas", len(users))
	}

	// Stable order across calls.
	again, _ := s.LookupUsers(context.Background(), "shre")
	if !reflect.DeepEqual(users, again) {
		t.Error("lookup order not stable")
	}
}

func TestFetchWindow_OrderAndSpan(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	s := NewMemoryService()
	// Day 2 event inserted before day 0 event; window order must win.
	s.AddEvent(Event{Subject: "later", Start: now.AddDate(0, 0, 2), End: now.AddDate(0, 0, 2).Add(time.Hour)})
	s.AddEvent(Event{Subject: "sooner", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)})

	events, err := FetchWindow(context.Background(), s, now, time.UTC, 7)
	if err != nil {
		t.Fatalf("FetchWindow: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d; want 2", len(events))
	}
	if events[0].Subject != "sooner" || events[1].Subject != "later" {
		t.Errorf("order = [%s, %s]", events[0].Subject, events[1].Subject)
	}
}

func TestFetchWindow_MidnightSpannerOnce(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	s := NewMemoryService()
	// Overlaps both the day-0 and day-1 fetch ranges.
	s.AddEvent(Event{
		ID:      "spanner",
		Subject: "late call",
		Start:   time.Date(2025, 6, 2, 23, 30, 0, 0, time.UTC),
		End:     time.Date(2025, 6, 3, 0, 30, 0, 0, time.UTC),
	})

	events, err := FetchWindow(context.Background(), s, now, time.UTC, 2)
	if err != nil {
		t.Fatalf("FetchWindow: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d; want 1 for a midnight-spanning event", len(events))
	}
	if events[0].ID != "spanner" {
		t.Errorf("ID = %q", events[0].ID)
	}
}

type failingCalendar struct{}

func (failingCalendar) FetchEvents(context.Context, time.Time, time.Time) ([]Event, error) {
	return nil, &ServiceError{Status: 503, Message: "unavailable"}
}
func (failingCalendar) CreateEvent(context.Context, Draft) (Event, error) { return Event{}, nil }
func (failingCalendar) UpdateEvent(context.Context, string, Patch) error  { return nil }
func (failingCalendar) DeleteEvent(context.Context, string) error         { return nil }

func TestFetchWindow_PropagatesError(t *testing.T) {
	t.Parallel()

	_, err := FetchWindow(context.Background(), failingCalendar{}, time.Now(), time.UTC, 3)
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v; want *ServiceError", err)
	}
}

func TestDayBounds(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	now := time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC) // 01:30 June 3 IST

	start, end := DayBounds(now, loc, 0)
	// Local midnight June 3 IST is 18:30 June 2 UTC.
	wantStart := time.Date(2025, 6, 2, 18, 30, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v; want %v", start, wantStart)
	}
	if !end.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Errorf("end = %v", end)
	}
}
