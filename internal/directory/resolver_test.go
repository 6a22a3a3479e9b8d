// ABOUTME: Tests for name resolution outcomes and batch independence
// ABOUTME: Uses the in-memory directory; covers Pick bounds and name splitting

package directory

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/meetbuddy/buddy/internal/graph"
)

func demoResolver() *Resolver {
	return NewResolver(graph.NewDemoService(time.Now()))
}

func TestResolve_Outcomes(t *testing.T) {
	t.Parallel()

	got := demoResolver().Resolve(context.Background(), []string{"Ajay", "Shre", "Nobody"})
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}

	if got[0].Outcome() != Resolved {
		t.Errorf("Ajay outcome = %v; want Resolved", got[0].Outcome())
	}
	if got[1].Outcome() != Ambiguous || len(got[1].Candidates) != 2 {
		t.Errorf("Shre outcome = %v candidates = %d", got[1].Outcome(), len(got[1].Candidates))
	}
	if got[2].Outcome() != NotFound {
		t.Errorf("Nobody outcome = %v; want NotFound", got[2].Outcome())
	}
}

// A missing name must not block the rest of the batch.
func TestResolve_NotFoundDoesNotBlockBatch(t *testing.T) {
	t.Parallel()

	got := demoResolver().Resolve(context.Background(), []string{"Nobody", "Ajay"})
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Outcome() != NotFound {
		t.Errorf("first outcome = %v", got[0].Outcome())
	}
	if got[1].Outcome() != Resolved || got[1].User.DisplayName != "Ajay Kumar" {
		t.Errorf("second = %+v", got[1])
	}
}

func TestPick(t *testing.T) {
	t.Parallel()

	res := demoResolver().Resolve(context.Background(), []string{"Shre"})[0]

	if err := res.Pick(0); err == nil {
		t.Error("Pick(0) succeeded; want out-of-range error")
	}
	if err := res.Pick(3); err == nil {
		t.Error("Pick(3) succeeded; want out-of-range error")
	}
	if err := res.Pick(2); err != nil {
		t.Fatalf("Pick(2): %v", err)
	}
	if res.Outcome() != Resolved {
		t.Errorf("outcome after Pick = %v", res.Outcome())
	}
	// Shreya Nair has no primary mail; the principal name is the address.
	if got := res.User.Address(); got != "shreyan@example.com" {
		t.Errorf("Address() = %q", got)
	}
}

func TestSplitNames(t *testing.T) {
	t.Parallel()

	got := SplitNames("Ajay and Shreya, John ;  ")
	want := []string{"Ajay", "Shreya", "John"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitNames = %v; want %v", got, want)
	}
}
