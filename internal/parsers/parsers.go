// Package parsers loads the CSV inputs of a reconciliation run as
// loosely-typed records. Upstream exports disagree on column names, casing
// and even leading spaces in headers, so rows are kept as raw header-keyed
// maps and all interpretation is deferred to the field resolver.
//
// Parsing is lenient: a malformed data row is recorded as a row error and
// skipped rather than aborting the run. Only a missing file or an unreadable
// header is fatal.
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"invoice-reconciliation-service/internal/records"
	"invoice-reconciliation-service/pkg/errors"
	"invoice-reconciliation-service/pkg/logger"
)

// RowError records a recoverable problem with one data row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row error at line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ParseStats summarizes one parse operation.
type ParseStats struct {
	RowsRead    int
	RowsSkipped int
	RowErrors   []RowError
}

// Config holds configuration for CSV parsing.
type Config struct {
	Delimiter     rune
	Comment       rune
	SkipEmptyRows bool

	// MaxRowErrors aborts the parse when exceeded; zero means unlimited.
	MaxRowErrors int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Delimiter:     ',',
		SkipEmptyRows: true,
	}
}

// RecordParser reads header-keyed CSV rows into loose records.
type RecordParser struct {
	config *Config
	logger logger.Logger
}

// NewRecordParser creates a parser with the given configuration.
func NewRecordParser(config *Config) *RecordParser {
	if config == nil {
		config = DefaultConfig()
	}
	return &RecordParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("record_parser"),
	}
}

// ParseFile parses the CSV file at path.
func (p *RecordParser) ParseFile(path string) ([]records.Record, *ParseStats, error) {
	file, err := os.Open(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, nil, errors.FileError(errors.CodeFileNotFound, path, err)
		case os.IsPermission(err):
			return nil, nil, errors.FileError(errors.CodeFilePermission, path, err)
		default:
			return nil, nil, errors.FileError("", path, err)
		}
	}
	defer file.Close()

	return p.Parse(file, path)
}

// Parse reads header-keyed CSV rows from r. name identifies the source in
// errors and logs. Header cells are kept verbatim, including any stray
// spaces; the field resolver handles spelling variants downstream.
func (p *RecordParser) Parse(r io.Reader, name string) ([]records.Record, *ParseStats, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.config.Delimiter
	reader.Comment = p.config.Comment
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.ParseError(errors.CodeMissingHeader, name, 1, nil)
	}
	if err != nil {
		return nil, nil, errors.ParseError(errors.CodeInvalidFormat, name, 1, err)
	}
	if isBlankRow(header) {
		return nil, nil, errors.ParseError(errors.CodeMissingHeader, name, 1, nil)
	}

	stats := &ParseStats{}
	var recs []records.Record
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.RowErrors = append(stats.RowErrors, RowError{Line: line, Err: err})
			if p.config.MaxRowErrors > 0 && len(stats.RowErrors) > p.config.MaxRowErrors {
				return nil, stats, errors.ParseError(errors.CodeInvalidData, name, line, err).
					WithContext("row_errors", len(stats.RowErrors))
			}
			continue
		}
		stats.RowsRead++

		if p.config.SkipEmptyRows && isBlankRow(row) {
			stats.RowsSkipped++
			continue
		}

		rec := make(records.Record, len(header))
		for i, key := range header {
			if i >= len(row) {
				break
			}
			if strings.TrimSpace(key) == "" {
				continue
			}
			// Duplicate column names keep the first occurrence, matching
			// the resolver's earlier-spelling-wins rule.
			if _, exists := rec[key]; exists {
				continue
			}
			rec[key] = row[i]
		}
		recs = append(recs, rec)
	}

	p.logger.WithFields(logger.Fields{
		"file":       name,
		"rows":       len(recs),
		"skipped":    stats.RowsSkipped,
		"row_errors": len(stats.RowErrors),
	}).Debug("Parsed record file")

	return recs, stats, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
