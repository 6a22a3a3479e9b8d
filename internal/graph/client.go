// ABOUTME: Microsoft Graph REST client for calendar, directory, and mail operations
// ABOUTME: Bearer-token auth; writes are issued exactly once (no automatic retry)

package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/meetbuddy/buddy/internal/log"
)

const (
	defaultGraphURL = "https://graph.microsoft.com/v1.0"
	graphTimeLayout = "2006-01-02T15:04:05"
	fetchPageSize   = 50
)

// Client talks to the Microsoft Graph API. The token is read-only after
// construction; token acquisition happens elsewhere.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Graph client with the given bearer token.
// baseURL is overridable for tests.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultGraphURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// wire-format envelopes

type wireDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type wireEmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type wireAttendee struct {
	EmailAddress wireEmailAddress `json:"emailAddress"`
	Type         string           `json:"type,omitempty"`
}

type wireEvent struct {
	ID              string         `json:"id,omitempty"`
	Subject         string         `json:"subject,omitempty"`
	Start           *wireDateTime  `json:"start,omitempty"`
	End             *wireDateTime  `json:"end,omitempty"`
	Attendees       []wireAttendee `json:"attendees,omitempty"`
	IsOnlineMeeting bool           `json:"isOnlineMeeting,omitempty"`
	OnlineProvider  string         `json:"onlineMeetingProvider,omitempty"`
}

type wireError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FetchEvents returns events in [startUTC, endUTC), ascending by start.
func (c *Client) FetchEvents(ctx context.Context, startUTC, endUTC time.Time) ([]Event, error) {
	q := url.Values{}
	q.Set("startDateTime", startUTC.UTC().Format(time.RFC3339))
	q.Set("endDateTime", endUTC.UTC().Format(time.RFC3339))
	q.Set("$orderby", "start/dateTime")
	q.Set("$top", fmt.Sprint(fetchPageSize))

	var envelope struct {
		Value []wireEvent `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, "/me/calendarView?"+q.Encode(), nil, &envelope); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(envelope.Value))
	for _, we := range envelope.Value {
		ev, err := we.toEvent()
		if err != nil {
			log.Warn("skipping event %q: %v", we.Subject, err)
			continue
		}
		events = append(events, ev)
	}
	// The service orders by start; keep the guarantee even if it doesn't.
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events, nil
}

// CreateEvent creates a new calendar event and returns the stored version.
func (c *Client) CreateEvent(ctx context.Context, draft Draft) (Event, error) {
	body := wireEvent{
		Subject:         draft.Subject,
		Start:           toWireTime(draft.Start),
		End:             toWireTime(draft.End),
		Attendees:       toWireAttendees(draft.Attendees),
		IsOnlineMeeting: draft.IsOnlineMeeting,
	}
	if draft.IsOnlineMeeting {
		body.OnlineProvider = "teamsForBusiness"
	}

	var created wireEvent
	if err := c.do(ctx, http.MethodPost, "/me/events", body, &created); err != nil {
		return Event{}, err
	}
	return created.toEvent()
}

// UpdateEvent applies a partial patch; only non-nil fields are sent.
func (c *Client) UpdateEvent(ctx context.Context, id string, patch Patch) error {
	body := map[string]any{}
	if patch.Subject != nil {
		body["subject"] = *patch.Subject
	}
	if patch.Start != nil {
		body["start"] = toWireTime(*patch.Start)
	}
	if patch.End != nil {
		body["end"] = toWireTime(*patch.End)
	}
	if patch.Attendees != nil {
		body["attendees"] = toWireAttendees(*patch.Attendees)
	}
	return c.do(ctx, http.MethodPatch, "/me/events/"+url.PathEscape(id), body, nil)
}

// DeleteEvent removes the event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/me/events/"+url.PathEscape(id), nil, nil)
}

// LookupUsers queries the directory by display-name prefix. The Graph
// startswith filter is case-insensitive on the service side.
func (c *Client) LookupUsers(ctx context.Context, namePrefix string) ([]User, error) {
	filter := fmt.Sprintf("startswith(displayName,'%s')", strings.ReplaceAll(namePrefix, "'", "''"))
	q := url.Values{}
	q.Set("$filter", filter)
	q.Set("$select", "displayName,mail,userPrincipalName")

	var envelope struct {
		Value []struct {
			DisplayName       string `json:"displayName"`
			Mail              string `json:"mail"`
			UserPrincipalName string `json:"userPrincipalName"`
		} `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, "/users?"+q.Encode(), nil, &envelope); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(envelope.Value))
	for _, v := range envelope.Value {
		users = append(users, User{
			DisplayName:       v.DisplayName,
			Mail:              v.Mail,
			UserPrincipalName: v.UserPrincipalName,
		})
	}
	return users, nil
}

// SendMail sends a plain-text message.
func (c *Client) SendMail(ctx context.Context, to []string, subject, body string) error {
	recipients := make([]wireAttendee, 0, len(to))
	for _, addr := range to {
		recipients = append(recipients, wireAttendee{EmailAddress: wireEmailAddress{Address: addr}})
	}
	payload := map[string]any{
		"message": map[string]any{
			"subject": subject,
			"body": map[string]string{
				"contentType": "Text",
				"content":     body,
			},
			"toRecipients": recipients,
		},
		"saveToSentItems": true,
	}
	return c.do(ctx, http.MethodPost, "/me/sendMail", payload, nil)
}

// do issues one request. Writes are never retried; the remote service is
// the source of truth and duplicate mutations are worse than a reissued
// command.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug("graph: %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()
	log.Debug("graph: %s %s -> %d", method, path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeServiceError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeServiceError extracts the provider's error detail so it can be
// shown to the user verbatim.
func decodeServiceError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	se := &ServiceError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}

	var we wireError
	if err := json.Unmarshal(data, &we); err == nil && we.Error.Message != "" {
		se.Code = we.Error.Code
		se.Message = we.Error.Message
	}
	return se
}

func toWireTime(t time.Time) *wireDateTime {
	return &wireDateTime{
		DateTime: t.UTC().Format(graphTimeLayout),
		TimeZone: "UTC",
	}
}

func toWireAttendees(attendees []Attendee) []wireAttendee {
	out := make([]wireAttendee, 0, len(attendees))
	for _, a := range attendees {
		name := a.Name
		if name == "" {
			name, _, _ = strings.Cut(a.Email, "@")
		}
		out = append(out, wireAttendee{
			EmailAddress: wireEmailAddress{Address: a.Email, Name: name},
			Type:         "required",
		})
	}
	return out
}

func (we wireEvent) toEvent() (Event, error) {
	ev := Event{
		ID:              we.ID,
		Subject:         we.Subject,
		IsOnlineMeeting: we.IsOnlineMeeting,
	}
	var err error
	if we.Start != nil {
		if ev.Start, err = parseWireTime(*we.Start); err != nil {
			return Event{}, fmt.Errorf("start: %w", err)
		}
	}
	if we.End != nil {
		if ev.End, err = parseWireTime(*we.End); err != nil {
			return Event{}, fmt.Errorf("end: %w", err)
		}
	}
	for _, wa := range we.Attendees {
		ev.Attendees = append(ev.Attendees, Attendee{
			Email: wa.EmailAddress.Address,
			Name:  wa.EmailAddress.Name,
		})
	}
	return ev, nil
}

// parseWireTime handles the Graph dateTime shape, including its
// seven-digit fractional seconds.
func parseWireTime(w wireDateTime) (time.Time, error) {
	value := w.DateTime
	loc := time.UTC
	if w.TimeZone != "" && w.TimeZone != "UTC" {
		l, err := time.LoadLocation(w.TimeZone)
		if err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation(graphTimeLayout, strings.SplitN(value, ".", 2)[0], loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", value, err)
	}
	return t.UTC(), nil
}
