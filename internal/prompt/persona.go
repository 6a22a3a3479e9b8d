// ABOUTME: Persona loading and validation for the assistant's answering voice
// ABOUTME: Markdown files with YAML frontmatter; disk-first with embedded fallback

package prompt

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPersona is used when none is configured.
const DefaultPersona = "buddy"

// Persona is a named voice for free-form answers. The body is the
// system-prompt text; the frontmatter describes it.
type Persona struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tone        string `yaml:"tone"`
	Body        string `yaml:"-"`
}

// Validate checks required fields.
func (p *Persona) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("persona name is required")
	}
	if strings.TrimSpace(p.Body) == "" {
		return fmt.Errorf("persona %q has an empty body", p.Name)
	}
	return nil
}

// ParsePersona parses a persona file: YAML frontmatter between ---
// fences, then a markdown body.
func ParsePersona(data []byte) (*Persona, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return nil, fmt.Errorf("missing frontmatter")
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return nil, fmt.Errorf("unterminated frontmatter")
	}

	var p Persona
	if err := yaml.Unmarshal([]byte(rest[:end]), &p); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	p.Body = strings.TrimSpace(rest[end+len("\n---\n"):])

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPersona reads and parses one persona file from disk.
func LoadPersona(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona %s: %w", path, err)
	}
	p, err := ParsePersona(data)
	if err != nil {
		return nil, fmt.Errorf("persona %s: %w", path, err)
	}
	return p, nil
}

// FindPersona resolves a persona by name. Directories are searched in
// order; the embedded built-ins are the last resort.
func FindPersona(dirs []string, name string) (*Persona, error) {
	if name == "" {
		name = DefaultPersona
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, name+".md")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadPersona(path)
	}

	data, err := fs.ReadFile(embeddedPersonas, "personas/"+name+".md")
	if err != nil {
		return nil, fmt.Errorf("unknown persona %q", name)
	}
	return ParsePersona(data)
}

// ListPersonas returns the names available across dirs and built-ins,
// sorted, without duplicates.
func ListPersonas(dirs []string) []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(file string) {
		if !strings.HasSuffix(file, ".md") {
			return
		}
		name := strings.TrimSuffix(filepath.Base(file), ".md")
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(e.Name())
			}
		}
	}
	if entries, err := fs.ReadDir(embeddedPersonas, "personas"); err == nil {
		for _, e := range entries {
			add(e.Name())
		}
	}

	sort.Strings(names)
	return names
}
