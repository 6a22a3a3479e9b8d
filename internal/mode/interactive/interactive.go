// ABOUTME: Interactive conversational shell; owns the read-classify-dispatch loop
// ABOUTME: Styled output on a TTY, plain text when piped; one command per turn

package interactive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/meetbuddy/buddy/internal/action"
	"github.com/meetbuddy/buddy/internal/graph"
	"github.com/meetbuddy/buddy/internal/intent"
	"github.com/meetbuddy/buddy/internal/log"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Shell is the terminal front end. It implements action.UI.
type Shell struct {
	in     *bufio.Reader
	out    io.Writer
	loc    *time.Location
	styled bool
	render *glamour.TermRenderer
}

// NewShell builds a shell on stdin/stdout. Styling and markdown
// rendering switch off when stdout is not a terminal.
func NewShell(loc *time.Location) *Shell {
	s := &Shell{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		loc:    loc,
		styled: term.IsTerminal(int(os.Stdout.Fd())),
	}
	if s.styled {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
			s.render = r
		}
	}
	return s
}

func (s *Shell) style(st lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}
	return st.Render(text)
}

// Prompt prints the label and reads one trimmed line.
func (s *Shell) Prompt(label string) (string, error) {
	fmt.Fprint(s.out, s.style(promptStyle, label)+" ")
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm shows the summary and asks for an explicit yes.
func (s *Shell) Confirm(summary, question string) bool {
	s.Say("%s", summary)
	input, err := s.Prompt(question + " (yes/no):")
	if err != nil {
		return false
	}
	return action.IsAffirmative(input)
}

// Choose prints numbered options and reads a 1-based pick. Non-numeric
// input gets a couple of retries before giving up.
func (s *Shell) Choose(label string, options []string) (int, error) {
	fmt.Fprintln(s.out, s.style(labelStyle, label))
	for i, opt := range options {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, opt)
	}
	for attempt := 0; attempt < 3; attempt++ {
		input, err := s.Prompt("Enter a number:")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(s.out, s.style(errorStyle, "Please enter a number."))
			continue
		}
		return n, nil
	}
	return 0, fmt.Errorf("no valid choice entered")
}

func (s *Shell) Say(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// ShowAnswer renders markdown when on a TTY, plain text otherwise.
func (s *Shell) ShowAnswer(markdown string) {
	if s.render != nil {
		if out, err := s.render.Render(markdown); err == nil {
			fmt.Fprint(s.out, out)
			return
		}
	}
	fmt.Fprintln(s.out, markdown)
}

// ShowEvents prints a labeled agenda in local time.
func (s *Shell) ShowEvents(label string, events []graph.Event) {
	fmt.Fprintln(s.out, s.style(labelStyle, label))
	for _, ev := range events {
		start := ev.Start.In(s.loc)
		end := ev.End.In(s.loc)
		line := fmt.Sprintf("  %s  %s - %s  %s",
			start.Format("Mon 02 Jan"), start.Format("03:04 PM"), end.Format("03:04 PM"), ev.Subject)
		fmt.Fprint(s.out, line)
		if n := len(ev.Attendees); n > 0 {
			fmt.Fprint(s.out, s.style(dimStyle, fmt.Sprintf("  (%d attendee", n)))
			if n > 1 {
				fmt.Fprint(s.out, s.style(dimStyle, "s"))
			}
			fmt.Fprint(s.out, s.style(dimStyle, ")"))
		}
		fmt.Fprintln(s.out)
	}
}

// Deps wires the loop to the rest of the system.
type Deps struct {
	Shell      *Shell
	Exec       *action.Executor
	Classifier *intent.Classifier
	Version    string
}

// Run drives the conversation until exit, quit, bye, or EOF. Command
// failures are printed and the loop continues; only context
// cancellation or a closed stdin ends it.
func Run(ctx context.Context, deps Deps) error {
	sh := deps.Shell
	sh.Say("%s", sh.style(labelStyle, "buddy "+deps.Version))
	sh.Say("Tell me what to do with your calendar. Type 'exit' to leave.")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, err := sh.Prompt("you>")
		if err != nil {
			if errors.Is(err, io.EOF) {
				sh.Say("Bye!")
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit", "bye":
			sh.Say("Bye! Have a great day.")
			return nil
		}

		res := classify(ctx, deps.Classifier, line)
		if err := deps.Exec.Dispatch(ctx, res, line); err != nil {
			sh.Say("%s", sh.style(errorStyle, err.Error()))
		}
	}
}

// classify runs the model classifier and falls back to the rules when
// the model output cannot be parsed. Provider failures also fall back;
// the session must survive a flaky model.
func classify(ctx context.Context, c *intent.Classifier, line string) intent.Result {
	res, err := c.Classify(ctx, line)
	if err != nil {
		if errors.Is(err, intent.ErrUnparseable) {
			log.Warn("unparseable model envelope, using rules: %v", err)
		} else {
			log.Warn("classification failed, using rules: %v", err)
		}
		return intent.ClassifyRules(line)
	}
	return res
}
