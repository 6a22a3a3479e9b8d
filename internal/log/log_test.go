// ABOUTME: Tests for the leveled logging wrapper
// ABOUTME: Covers level gating via SetLevel and Enabled

package log

import "testing"

func TestEnabled(t *testing.T) {
	defer SetLevel(LevelInfo)

	SetLevel(LevelWarn)
	if Enabled(LevelDebug) {
		t.Error("Enabled(Debug) = true at Warn level")
	}
	if Enabled(LevelInfo) {
		t.Error("Enabled(Info) = true at Warn level")
	}
	if !Enabled(LevelWarn) {
		t.Error("Enabled(Warn) = false at Warn level")
	}
	if !Enabled(LevelError) {
		t.Error("Enabled(Error) = false at Warn level")
	}

	SetLevel(LevelDebug)
	if !Enabled(LevelDebug) {
		t.Error("Enabled(Debug) = false at Debug level")
	}
}
