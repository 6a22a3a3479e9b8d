// ABOUTME: Builds the system prompt for free-form question answering
// ABOUTME: Combines the persona body with the current date and capability notes

package prompt

import (
	"fmt"
	"strings"
	"time"
)

// SystemPrompt composes the answering system prompt from the persona
// and the current moment. The date anchors relative phrases like
// "next week" in the model's answers.
func SystemPrompt(p *Persona, now time.Time) string {
	var b strings.Builder
	b.WriteString(p.Body)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Today is %s.\n", now.Format("Monday, 02 January 2006"))
	b.WriteString("The local time is ")
	b.WriteString(now.Format("03:04 PM (MST)"))
	b.WriteString(".\n")
	return b.String()
}
