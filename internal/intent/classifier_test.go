// ABOUTME: Tests for the model-backed classifier and envelope parsing
// ABOUTME: Covers fenced JSON, unknown intents, provider errors, nil fallback

package intent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func fixedCompleter(response string, err error) CompleteFunc {
	return func(_ context.Context, system, user string) (string, error) {
		if !strings.Contains(system, "JSON") {
			panic("system instruction missing envelope constraint")
		}
		return response, err
	}
}

func TestClassify_ParsesEnvelope(t *testing.T) {
	t.Parallel()

	c := NewClassifier(fixedCompleter(`{"intent":"schedule_meeting","entities":{"contact_name":"Ajay","time":"3pm"}}`, nil))

	got, err := c.Classify(context.Background(), "set up a meeting with Ajay at 3pm")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Intent != IntentSchedule {
		t.Errorf("Intent = %s", got.Intent)
	}
	if got.Entities.Get(KeyContact) != "Ajay" || got.Entities.Get(KeyTime) != "3pm" {
		t.Errorf("Entities = %v", got.Entities)
	}
	if got.Source != "model" {
		t.Errorf("Source = %q", got.Source)
	}
}

func TestClassify_ToleratesFencedJSON(t *testing.T) {
	t.Parallel()

	c := NewClassifier(fixedCompleter("```json\n{\"intent\":\"list_meetings\",\"entities\":{}}\n```", nil))

	got, err := c.Classify(context.Background(), "what's on today?")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Intent != IntentList {
		t.Errorf("Intent = %s", got.Intent)
	}
}

func TestClassify_UnparseableOutput(t *testing.T) {
	t.Parallel()

	c := NewClassifier(fixedCompleter("Sure! I'd be happy to help with that.", nil))

	_, err := c.Classify(context.Background(), "hello")
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("error = %v; want ErrUnparseable", err)
	}
}

func TestClassify_ProviderErrorIsDistinct(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	c := NewClassifier(fixedCompleter("", boom))

	_, err := c.Classify(context.Background(), "hello")
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v; want wrapped provider error", err)
	}
	if errors.Is(err, ErrUnparseable) {
		t.Error("provider error must not be conflated with unparseable output")
	}
}

func TestClassify_NilCompleterUsesRules(t *testing.T) {
	t.Parallel()

	c := NewClassifier(nil)

	got, err := c.Classify(context.Background(), "list my meetings")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Intent != IntentList || got.Source != "rules" {
		t.Errorf("got %+v", got)
	}
}

func TestParseIntent_Aliases(t *testing.T) {
	t.Parallel()

	tests := map[string]Intent{
		"schedule_meeting":     IntentSchedule,
		"create_meeting":       IntentSchedule,
		"get_meetings":         IntentList,
		"cancel_meeting":       IntentDelete,
		"apply_leave":          IntentQuestion,
		"something_unexpected": IntentQuestion,
	}
	for in, want := range tests {
		if got := ParseIntent(in); got != want {
			t.Errorf("ParseIntent(%q) = %s; want %s", in, got, want)
		}
	}
}
