package ratecard

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWindowContains(t *testing.T) {
	w := DefaultWindow()

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"before window", time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), false},
		{"first day", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"mid window", time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), true},
		{"last day", time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), true},
		{"after window", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.date); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestDefaultTaxonomyValid(t *testing.T) {
	taxonomy := DefaultTaxonomy()
	if err := taxonomy.Validate(); err != nil {
		t.Fatalf("default taxonomy should validate, got %v", err)
	}
	if len(taxonomy.Categories) != 7 {
		t.Errorf("default taxonomy has %d categories, want 7", len(taxonomy.Categories))
	}
}

func TestTaxonomyValidate(t *testing.T) {
	tests := []struct {
		name     string
		taxonomy Taxonomy
		wantErr  bool
	}{
		{
			name:    "no categories",
			wantErr: true,
		},
		{
			name: "unnamed category",
			taxonomy: Taxonomy{Categories: []Category{
				{Entries: []Entry{{Key: "power"}}},
			}},
			wantErr: true,
		},
		{
			name: "empty key",
			taxonomy: Taxonomy{Categories: []Category{
				{Name: "Power", Entries: []Entry{{Key: "  "}}},
			}},
			wantErr: true,
		},
		{
			name: "inverted window",
			taxonomy: Taxonomy{
				Window: Window{
					From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
					Till: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				},
				Categories: []Category{{Name: "Power", Entries: []Entry{{Key: "power"}}}},
			},
			wantErr: true,
		},
		{
			name: "valid",
			taxonomy: Taxonomy{Categories: []Category{
				{Name: "Power", Entries: []Entry{{Key: "power", Subkeys: []string{"kva"}}}},
			}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.taxonomy.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTaxonomy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")

	content := `categories:
  - name: Space & Power
    entries:
      - key: power
        subkeys: [kva, kw]
  - name: Smart Hands
    entries:
      - key: smart hands
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	taxonomy, err := LoadTaxonomy(path)
	if err != nil {
		t.Fatalf("LoadTaxonomy() error = %v", err)
	}
	if len(taxonomy.Categories) != 2 {
		t.Fatalf("loaded %d categories, want 2", len(taxonomy.Categories))
	}
	if taxonomy.Categories[0].Entries[0].Subkeys[1] != "kw" {
		t.Error("subkeys not parsed in order")
	}

	// File without a window inherits the default.
	if !taxonomy.Window.Contains(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected default effective window when file omits one")
	}

	if _, err := LoadTaxonomy(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("categories: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTaxonomy(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadTaxonomyCustomWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")

	content := `effective_window:
  from: 2026-04-01
  till: 2027-03-31
categories:
  - name: Smart Hands
    entries:
      - key: smart hands
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	taxonomy, err := LoadTaxonomy(path)
	if err != nil {
		t.Fatalf("LoadTaxonomy() error = %v", err)
	}
	if taxonomy.Window.Contains(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("custom window should replace the default")
	}
	if !taxonomy.Window.Contains(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("custom window should cover its own period")
	}
}
