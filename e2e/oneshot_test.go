// ABOUTME: E2E tests running the real binary in one-shot mode against the demo calendar
// ABOUTME: Builds cmd/buddy once per run; a clean HOME isolates config and auth

package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	buildOnce sync.Once
	binDir    string
	binPath   string
	buildErr  error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if binDir != "" {
		os.RemoveAll(binDir)
	}
	os.Exit(code)
}

func buddyBin(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		binDir, buildErr = os.MkdirTemp("", "buddy-e2e")
		if buildErr != nil {
			return
		}
		binPath = filepath.Join(binDir, "buddy")
		cmd := exec.Command("go", "build", "-o", binPath, "github.com/meetbuddy/buddy/cmd/buddy")
		cmd.Dir = ".."
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = err
			t.Logf("build output: %s", out)
		}
	})
	if buildErr != nil {
		t.Fatalf("building buddy: %v", buildErr)
	}
	return binPath
}

// runBuddy executes the binary with a clean HOME and no credentials, so
// it always falls back to rules classification and the demo calendar.
func runBuddy(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(buddyBin(t), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = []string{
		"HOME=" + t.TempDir(),
		"PATH=" + os.Getenv("PATH"),
	}
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestOneShot_ListThisWeek(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	out, err := runBuddy(t, "--offline", "-p", "show my meetings this week")
	if err != nil {
		t.Fatalf("buddy failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Team Sync", "Shreya 1:1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestOneShot_DeleteNeedsYes(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	out, err := runBuddy(t, "--offline", "-p", "delete the team sync meeting")
	if err != nil {
		t.Fatalf("buddy failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "--yes") {
		t.Errorf("output missing --yes hint:\n%s", out)
	}
	if strings.Contains(out, "Deleted") {
		t.Errorf("meeting deleted without --yes:\n%s", out)
	}
}

func TestOneShot_DeleteWithYes(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	out, err := runBuddy(t, "--offline", "--yes", "-p", "delete the team sync meeting")
	if err != nil {
		t.Fatalf("buddy failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Deleted") {
		t.Errorf("output = %q", out)
	}
}

func TestOneShot_Version(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	out, err := runBuddy(t, "--version")
	if err != nil {
		t.Fatalf("buddy failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "buddy") {
		t.Errorf("output = %q", out)
	}
}
