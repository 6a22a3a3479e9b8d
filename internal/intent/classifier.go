// ABOUTME: Model-backed intent classifier constrained to a JSON envelope
// ABOUTME: Parse failures surface as ErrUnparseable; callers fall back to the rules

package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseable means the model's output was not the required JSON
// envelope. The caller recovers by treating the turn as a general
// question (or by re-classifying with the rules); it never ends the
// session.
var ErrUnparseable = errors.New("model response is not a valid intent envelope")

// CompleteFunc sends system+user prompts to a model and returns the
// completion text. The implementation must request temperature 0 so the
// envelope is reproducible.
type CompleteFunc func(ctx context.Context, system, user string) (string, error)

// Classifier turns raw text into (intent, entities).
type Classifier struct {
	complete CompleteFunc
}

// NewClassifier creates a model-backed classifier. A nil complete
// function yields a rules-only classifier.
func NewClassifier(complete CompleteFunc) *Classifier {
	return &Classifier{complete: complete}
}

const systemInstruction = `You are a calendar assistant that classifies user commands.
Respond with ONLY one JSON object in this exact format:
{"intent": "<intent>", "entities": {"<key>": "<value>"}}
Valid intents: schedule_meeting, list_meetings, update_meeting, delete_meeting, send_email, general_question, no_action.
Entity keys when present: title, time, contact_name, event_name, recipient, day, body.
Do not include any extra explanation, text, or formatting.`

// Classify determines the intent of a user command. Model errors are
// returned as-is (provider failures are distinct from unparseable
// output); ErrUnparseable wraps the malformed completion case.
func (c *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	if c == nil || c.complete == nil {
		return ClassifyRules(text), nil
	}

	completion, err := c.complete(ctx, systemInstruction, text)
	if err != nil {
		return Result{}, fmt.Errorf("classification call: %w", err)
	}

	res, err := parseEnvelope(completion)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// envelope is the JSON shape the model must produce.
type envelope struct {
	Intent   string            `json:"intent"`
	Entities map[string]string `json:"entities"`
}

// parseEnvelope extracts the JSON object from the completion,
// tolerating surrounding prose or markdown fences.
func parseEnvelope(completion string) (Result, error) {
	jsonStr, ok := extractJSON(completion)
	if !ok {
		return Result{}, fmt.Errorf("%w: no JSON object in %q", ErrUnparseable, completion)
	}

	var env envelope
	if err := json.Unmarshal([]byte(jsonStr), &env); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if env.Intent == "" {
		return Result{}, fmt.Errorf("%w: missing intent field", ErrUnparseable)
	}

	ents := Entities{}
	for k, v := range env.Entities {
		if v != "" {
			ents[strings.TrimSpace(k)] = v
		}
	}
	return Result{Intent: ParseIntent(env.Intent), Entities: ents, Source: "model"}, nil
}

// extractJSON finds the first JSON object by locating matching braces.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
