// ABOUTME: Settings loading with global + project config deep merge
// ABOUTME: JSON-based configuration using encoding/json; CLI flags override both

package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Defaults applied when neither config files nor flags set a value.
const (
	DefaultWindowDays   = 7
	DefaultDurationMins = 30
	DefaultModel        = "gpt-4o-mini"
)

// Settings holds the merged configuration.
type Settings struct {
	Model        string  `json:"model,omitempty"`
	BaseURL      string  `json:"base_url,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	Timezone     string  `json:"timezone,omitempty"`
	WindowDays   int     `json:"window_days,omitempty"`
	DurationMins int     `json:"default_duration_mins,omitempty"`
	Persona      string  `json:"persona,omitempty"`
	Offline      bool    `json:"offline,omitempty"`
}

// Load reads and merges global and project-local settings, then applies
// CLI overrides on top. Project settings override global settings.
func Load(projectRoot string, overrides *Settings) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(merge(global, project), overrides)
	merged.applyDefaults()
	return merged, nil
}

// loadFile reads a Settings from a JSON file. Returns zero Settings if
// the file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge layers overlay onto base. Non-zero overlay values win.
func merge(base, overlay *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if overlay == nil {
		return base
	}

	result := *base

	if overlay.Model != "" {
		result.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		result.BaseURL = overlay.BaseURL
	}
	if overlay.Temperature != 0 {
		result.Temperature = overlay.Temperature
	}
	if overlay.Timezone != "" {
		result.Timezone = overlay.Timezone
	}
	if overlay.WindowDays != 0 {
		result.WindowDays = overlay.WindowDays
	}
	if overlay.DurationMins != 0 {
		result.DurationMins = overlay.DurationMins
	}
	if overlay.Persona != "" {
		result.Persona = overlay.Persona
	}
	if overlay.Offline {
		result.Offline = true
	}

	return &result
}

func (s *Settings) applyDefaults() {
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.WindowDays <= 0 {
		s.WindowDays = DefaultWindowDays
	}
	if s.DurationMins <= 0 {
		s.DurationMins = DefaultDurationMins
	}
}
