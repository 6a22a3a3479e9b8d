// ABOUTME: Headless single-command mode for -p; useful for scripts and piping
// ABOUTME: Confirmation gates require --yes; any other missing input aborts

package oneshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/meetbuddy/buddy/internal/action"
	"github.com/meetbuddy/buddy/internal/graph"
	"github.com/meetbuddy/buddy/internal/intent"
	"github.com/meetbuddy/buddy/internal/log"
)

// ErrNonInteractive means the command needed input that headless mode
// cannot ask for.
var ErrNonInteractive = errors.New("input required but running non-interactively")

// UI satisfies action.UI without a terminal. Confirmation prompts are
// answered yes only when AssumeYes is set; every other prompt aborts.
type UI struct {
	Out       io.Writer
	Loc       *time.Location
	AssumeYes bool
}

func (u *UI) Prompt(label string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrNonInteractive, label)
}

func (u *UI) Confirm(summary, question string) bool {
	u.Say("%s", summary)
	if u.AssumeYes {
		return true
	}
	u.Say("Not executed. Re-run with --yes to confirm.")
	return false
}

func (u *UI) Choose(label string, options []string) (int, error) {
	if u.AssumeYes {
		// Take the first candidate; the caller asked not to be asked.
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNonInteractive, label)
}

func (u *UI) Say(format string, args ...any) {
	fmt.Fprintf(u.Out, format+"\n", args...)
}

func (u *UI) ShowAnswer(markdown string) {
	fmt.Fprintln(u.Out, markdown)
}

func (u *UI) ShowEvents(label string, events []graph.Event) {
	fmt.Fprintln(u.Out, label)
	for _, ev := range events {
		start := ev.Start.In(u.Loc)
		fmt.Fprintf(u.Out, "  %s  %s - %s  %s\n",
			start.Format("Mon 02 Jan"), start.Format("03:04 PM"),
			ev.End.In(u.Loc).Format("03:04 PM"), ev.Subject)
	}
}

// Deps wires one-shot mode.
type Deps struct {
	Exec       *action.Executor
	Classifier *intent.Classifier
}

// Run classifies and executes a single command, then exits. Unlike the
// interactive loop, failures propagate to the caller for a non-zero
// exit status.
func Run(ctx context.Context, deps Deps, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("empty command")
	}

	res, err := deps.Classifier.Classify(ctx, command)
	if err != nil {
		if !errors.Is(err, intent.ErrUnparseable) {
			return err
		}
		log.Warn("unparseable model envelope, using rules: %v", err)
		res = intent.ClassifyRules(command)
	}
	return deps.Exec.Dispatch(ctx, res, command)
}
