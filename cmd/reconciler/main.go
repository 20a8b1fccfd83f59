package main

import (
	"fmt"
	"os"

	"invoice-reconciliation-service/cmd/reconciler/cmd"
	"invoice-reconciliation-service/pkg/errors"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.FormatUserError(err))
		if category, ok := errors.GetCategory(err); ok {
			if hint := categoryHint(category); hint != "" {
				fmt.Fprintln(os.Stderr, hint)
			}
		}
		os.Exit(errors.GetExitCode(err))
	}
}

// categoryHint returns a one-line pointer for the error category, printed
// after the formatted error.
func categoryHint(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return "Check that the file exists and is readable."
	case errors.CategoryParse:
		return "Check the CSV structure: header row, delimiter and quoting."
	case errors.CategoryValidation:
		return "Check the flag values and their formats."
	case errors.CategoryConfiguration:
		return "Check the configuration file, flags and RECONCILER_* environment variables."
	case errors.CategoryReconciliation:
		return "Check the input files; run with --verbose for details."
	default:
		return ""
	}
}
