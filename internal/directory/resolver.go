// ABOUTME: Resolves free-text names to directory identities
// ABOUTME: Outcomes (resolved/not-found/ambiguous) are values, not errors

package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/meetbuddy/buddy/internal/graph"
	"github.com/meetbuddy/buddy/internal/log"
)

// Outcome classifies one name's resolution result.
type Outcome int

const (
	Resolved Outcome = iota
	NotFound
	Ambiguous
)

// Resolution is the per-name result. For Ambiguous entries the caller
// presents Candidates (in the directory's stable order) and calls Pick
// with the user's 1-based choice.
type Resolution struct {
	Name       string
	User       *graph.User
	Candidates []graph.User
}

// Outcome reports the state of this resolution.
func (r *Resolution) Outcome() Outcome {
	switch {
	case r.User != nil:
		return Resolved
	case len(r.Candidates) > 1:
		return Ambiguous
	default:
		return NotFound
	}
}

// Pick selects a candidate by 1-based index. Out-of-range indices are a
// user error; the resolution stays ambiguous and can be re-picked.
func (r *Resolution) Pick(index int) error {
	if r.Outcome() != Ambiguous {
		return fmt.Errorf("nothing to pick for %q", r.Name)
	}
	if index < 1 || index > len(r.Candidates) {
		return fmt.Errorf("choice %d is out of range 1-%d", index, len(r.Candidates))
	}
	r.User = &r.Candidates[index-1]
	return nil
}

// Resolver looks up names against a directory.
type Resolver struct {
	dir graph.Directory
}

// NewResolver creates a Resolver backed by the given directory.
func NewResolver(dir graph.Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve looks up each name by case-insensitive display-name prefix.
// A failed or empty lookup never aborts the batch: the entry is marked
// NotFound and the remaining names still resolve.
func (r *Resolver) Resolve(ctx context.Context, names []string) []Resolution {
	out := make([]Resolution, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		res := Resolution{Name: name}
		users, err := r.dir.LookupUsers(ctx, name)
		if err != nil {
			log.Warn("directory lookup for %q failed: %v", name, err)
			out = append(out, res)
			continue
		}

		switch len(users) {
		case 0:
			// NotFound; nothing to record.
		case 1:
			res.User = &users[0]
		default:
			res.Candidates = users
		}
		out = append(out, res)
	}
	return out
}

// SplitNames breaks a contact entity like "Ajay and Shreya, John" into
// individual names.
func SplitNames(s string) []string {
	parts := strings.FieldsFunc(strings.ReplaceAll(s, " and ", ","), func(r rune) bool {
		return r == ',' || r == ';'
	})
	var names []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
