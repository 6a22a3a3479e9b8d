// ABOUTME: Natural-language time parsing for meeting start times
// ABOUTME: Wraps the when parser with english and common rule sets

package action

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var timeParser *when.Parser

func init() {
	timeParser = when.New(nil)
	timeParser.Add(en.All...)
	timeParser.Add(common.All...)
}

// ParseTime resolves phrases like "tomorrow 3pm" or "friday at 10"
// relative to now. Unparseable input returns ErrInvalidTime; no write
// ever proceeds from it.
func ParseTime(text string, now time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrInvalidTime)
	}
	r, err := timeParser.Parse(text, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, text)
	}
	return r.Time, nil
}
