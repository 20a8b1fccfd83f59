// Package ratecard validates invoice lines that found no quote match against
// a rate card price list. A taxonomy maps charge descriptions to rate card
// sub-types; the engine then locates the applicable rate card row by
// sub-type, country, region, effective date window and IBX scope, extracts
// the sub-type's price field and applies the price tolerance check.
package ratecard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sub-type labels used by the built-in taxonomy. Rate card rows carry these
// labels in their sub-type column; price field selection keys off them.
const (
	SubTypeSpacePower      = "Space & Power"
	SubTypePowerInstallNRC = "Power Install NRC"
	SubTypeSecureCabinet   = "Secure Cabinet Express"
	SubTypeCabinetInstall  = "Cabinet Install NRC"
	SubTypeInterconnection = "Interconnection"
	SubTypeSmartHands      = "Smart Hands"
	SubTypePrecisionTime   = "Equinix Precision Time"
)

// Entry is one keyed matcher within a taxonomy category. The key must occur
// as a substring of the lowercased charge description. When subkeys are
// declared, at least one of them must also occur; a key match without any
// subkey match disqualifies the entry. Fields names rate card row columns
// whose values must additionally appear in the description for a row to be
// accepted.
type Entry struct {
	Key     string   `yaml:"key"`
	Subkeys []string `yaml:"subkeys,omitempty"`
	Fields  []string `yaml:"fields,omitempty"`
}

// Category groups keyed entries under a rate card sub-type label. Categories
// and their entries are evaluated in declared order; the first fully-matching
// entry wins.
type Category struct {
	Name    string  `yaml:"name"`
	Entries []Entry `yaml:"entries"`
}

// Window is the effective date range a service start date must fall in for
// rate card validation to apply. Both ends are inclusive.
type Window struct {
	From time.Time `yaml:"from"`
	Till time.Time `yaml:"till"`
}

// Contains reports whether t falls within the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.Till)
}

// IsZero reports whether the window was left unset.
func (w Window) IsZero() bool {
	return w.From.IsZero() && w.Till.IsZero()
}

// Taxonomy is the ordered category configuration driving rate card
// categorization, plus the global effective window.
type Taxonomy struct {
	Window     Window     `yaml:"effective_window"`
	Categories []Category `yaml:"categories"`
}

// Validate checks the taxonomy for structural problems: every category needs
// a name and at least one entry with a non-empty key, and the window must be
// ordered.
func (t Taxonomy) Validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("taxonomy has no categories")
	}
	for i, cat := range t.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("category %d has no name", i+1)
		}
		if len(cat.Entries) == 0 {
			return fmt.Errorf("category %q has no entries", cat.Name)
		}
		for j, e := range cat.Entries {
			if strings.TrimSpace(e.Key) == "" {
				return fmt.Errorf("category %q entry %d has an empty key", cat.Name, j+1)
			}
		}
	}
	if !t.Window.IsZero() && t.Window.Till.Before(t.Window.From) {
		return fmt.Errorf("effective window ends (%s) before it starts (%s)",
			t.Window.Till.Format("2006-01-02"), t.Window.From.Format("2006-01-02"))
	}
	return nil
}

// DefaultWindow returns the current rate card effective period,
// 2025-04-01 through 2026-03-31 inclusive.
func DefaultWindow() Window {
	return Window{
		From: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Till: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

// DefaultTaxonomy returns the built-in category configuration. Site teams
// override it with a YAML file when charge wording or the effective period
// changes; the shape is the same.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Window: DefaultWindow(),
		Categories: []Category{
			{
				Name: SubTypeSpacePower,
				Entries: []Entry{
					{Key: "space & power"},
					{Key: "space and power"},
					{Key: "power", Subkeys: []string{"kva", "kw"}},
				},
			},
			{
				Name: SubTypePowerInstallNRC,
				Entries: []Entry{
					{Key: "power install"},
					{Key: "power", Subkeys: []string{"install", "installation", "nrc"}},
				},
			},
			{
				Name: SubTypeSecureCabinet,
				Entries: []Entry{
					{Key: "secure cabinet"},
				},
			},
			{
				Name: SubTypeCabinetInstall,
				Entries: []Entry{
					{Key: "cabinet install"},
					{Key: "cabinet", Subkeys: []string{"install", "installation", "nrc"}},
				},
			},
			{
				Name: SubTypeInterconnection,
				Entries: []Entry{
					{Key: "cross connect"},
					{Key: "interconnection"},
					{Key: "fiber", Subkeys: []string{"connect", "patch"}},
				},
			},
			{
				Name: SubTypeSmartHands,
				Entries: []Entry{
					{Key: "smart hands"},
				},
			},
			{
				Name: SubTypePrecisionTime,
				Entries: []Entry{
					{Key: "precision time"},
					{Key: "time service", Subkeys: []string{"ntp", "ptp"}},
				},
			},
		},
	}
}

// LoadTaxonomy reads a taxonomy from a YAML file. A file that leaves the
// effective window unset inherits the default window.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}

	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Taxonomy{}, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}
	if t.Window.IsZero() {
		t.Window = DefaultWindow()
	}
	if err := t.Validate(); err != nil {
		return Taxonomy{}, fmt.Errorf("invalid taxonomy in %s: %w", path, err)
	}
	return t, nil
}
