package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestReconcilerErrorError(t *testing.T) {
	err := New(CategoryValidation, CodeInvalidAmount, "bad amount")
	if err.Error() != "bad amount" {
		t.Errorf("Error() = %q", err.Error())
	}

	err.WithSuggestion("use decimal numbers")
	if !strings.Contains(err.Error(), "suggestion: use decimal numbers") {
		t.Errorf("Error() should include the suggestion, got %q", err.Error())
	}
}

func TestWrapNil(t *testing.T) {
	if got := Wrap(nil, CategoryFile, CodeFileNotFound, "x"); got != nil {
		t.Errorf("Wrap(nil) = %v, want nil", got)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, CategoryParse, CodeInvalidData, "row 3 unreadable")
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     int
	}{
		{CategoryFile, 2},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfiguration, 4},
		{CategoryReconciliation, 5},
		{CategoryInternal, 5},
	}
	for _, tt := range tests {
		err := New(tt.category, CodeUnexpectedError, "x")
		if got := err.GetExitCode(); got != tt.want {
			t.Errorf("GetExitCode(%s) = %d, want %d", tt.category, got, tt.want)
		}
	}

	if got := GetExitCode(fmt.Errorf("plain")); got != 1 {
		t.Errorf("GetExitCode(plain error) = %d, want 1", got)
	}
	if got := GetExitCode(nil); got != 0 {
		t.Errorf("GetExitCode(nil) = %d, want 0", got)
	}
}

func TestFileErrorContext(t *testing.T) {
	err := FileError(CodeFileNotFound, "/data/invoices.csv", nil)
	if err.Category != CategoryFile {
		t.Errorf("Category = %s", err.Category)
	}
	if err.Context["file_path"] != "/data/invoices.csv" {
		t.Errorf("Context = %v", err.Context)
	}
	if err.Suggestion == "" {
		t.Error("expected a suggestion")
	}
}

func TestReconciliationErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("bad header row")
	err := ReconciliationError(CodeProcessingError, "invoice parsing", cause)
	if err.Category != CategoryReconciliation {
		t.Errorf("Category = %s", err.Category)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}
	if err.Context["operation"] != "invoice parsing" {
		t.Errorf("Context = %v", err.Context)
	}
}

func TestGetCategory(t *testing.T) {
	err := ConfigurationError(CodeInvalidConfig, "price_tolerance", "-1", nil)
	category, ok := GetCategory(err)
	if !ok || category != CategoryConfiguration {
		t.Errorf("GetCategory() = %s, %v", category, ok)
	}

	if _, ok := GetCategory(fmt.Errorf("plain")); ok {
		t.Error("GetCategory(plain error) should report false")
	}
}

func TestFormatUserError(t *testing.T) {
	err := ValidationError(CodeInvalidDate, "service_start_date", "13/45/2025", nil)
	out := FormatUserError(err)
	if !strings.Contains(out, "Error:") || !strings.Contains(out, "Suggestion:") {
		t.Errorf("FormatUserError() = %q", out)
	}

	plain := fmt.Errorf("plain failure")
	if got := FormatUserError(plain); got != "plain failure" {
		t.Errorf("FormatUserError(plain) = %q", got)
	}
}
