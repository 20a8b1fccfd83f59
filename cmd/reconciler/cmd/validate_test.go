package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "valid.csv")
	if err := os.WriteFile(validFile, []byte("test"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name        string
		filePath    string
		expectError bool
	}{
		{"valid file", validFile, false},
		{"empty path", "", true},
		{"non-existent file", "/non/existent/file.csv", true},
		{"directory instead of file", tmpDir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFileExists(tt.filePath, "test file")
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCommandHelp(t *testing.T) {
	help := validateCmd.Long
	for _, want := range []string{"--invoice-file", "--quote-file", "--rate-card-file"} {
		if !strings.Contains(help, want) {
			t.Errorf("help text should mention %s", want)
		}
	}
}

func TestValidateCommandFlags(t *testing.T) {
	for _, name := range []string{
		"invoice-file", "quote-file", "rate-card-file", "taxonomy-file",
		"price-tolerance", "qty-tolerance", "as-of",
		"output-format", "output-file", "failed-only",
	} {
		if validateCmd.Flags().Lookup(name) == nil {
			t.Errorf("validate command is missing the --%s flag", name)
		}
	}

	if got := validateCmd.Flags().Lookup("price-tolerance").DefValue; got != "0.05" {
		t.Errorf("price-tolerance default = %s, want 0.05", got)
	}
	if got := validateCmd.Flags().Lookup("output-format").DefValue; got != "console" {
		t.Errorf("output-format default = %s, want console", got)
	}
}
