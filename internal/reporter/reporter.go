// Package reporter renders reconciliation reports in the supported output
// formats: console for terminal review, JSON for programmatic consumption,
// and CSV for spreadsheet follow-up of the lines left under review.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/reconciler"

	"github.com/shopspring/decimal"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// Config holds configuration options for report generation
type Config struct {
	Format OutputFormat `json:"format"`

	// Console options. FailedOnly restricts the per-line table to lines
	// that did not pass.
	FailedOnly bool `json:"failed_only"`
	MaxLines   int  `json:"max_lines"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
}

// DefaultConfig returns a default report configuration
func DefaultConfig() *Config {
	return &Config{
		Format:       FormatConsole,
		FailedOnly:   false,
		MaxLines:     0,
		CSVDelimiter: ',',
	}
}

// Validate validates the report configuration
func (c *Config) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.MaxLines < 0 {
		return fmt.Errorf("max lines cannot be negative, got %d", c.MaxLines)
	}
	return nil
}

// Generator renders reconciliation reports.
type Generator struct {
	config *Config
}

// NewGenerator creates a report generator with the given configuration.
func NewGenerator(config *Config) (*Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Generator{config: config}, nil
}

// Generate writes the report in the configured format.
func (g *Generator) Generate(report *reconciler.Report, writer io.Writer) error {
	switch g.config.Format {
	case FormatJSON:
		return g.generateJSON(report, writer)
	case FormatCSV:
		return g.generateCSV(report, writer)
	default:
		return g.generateConsole(report, writer)
	}
}

func (g *Generator) generateConsole(report *reconciler.Report, writer io.Writer) error {
	fmt.Fprintln(writer, "INVOICE RECONCILIATION REPORT")
	fmt.Fprintln(writer, "=============================")
	fmt.Fprintf(writer, "Generated: %s\n\n", report.Timestamp.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintln(writer, "SUMMARY")
	fmt.Fprintln(writer, "-------")
	fmt.Fprintf(writer, "%-28s %d\n", "Total invoice lines:", report.TotalLines)
	fmt.Fprintf(writer, "%-28s %d (%.1f%%)\n", "Passed:", report.PassedCount, percentage(report.PassedCount, report.TotalLines))
	fmt.Fprintf(writer, "%-28s %d (%.1f%%)\n", "Failed:", report.FailedCount, percentage(report.FailedCount, report.TotalLines))
	fmt.Fprintf(writer, "%-28s %d (%.1f%%)\n", "For rate card validation:", report.RateCardCount, percentage(report.RateCardCount, report.TotalLines))
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, "LINE RESULTS")
	fmt.Fprintln(writer, "------------")
	fmt.Fprintf(writer, "%-5s %-16s %-8s %-30s %-12s %-26s\n",
		"Row", "PO Number", "IBX", "Description", "Unit Price", "Verdict")

	printed := 0
	for _, r := range report.ValidationResults {
		if g.config.FailedOnly && r.Verdict == models.VerdictPassed {
			continue
		}
		if g.config.MaxLines > 0 && printed >= g.config.MaxLines {
			fmt.Fprintf(writer, "... and %d more lines\n", remaining(report, printed, g.config.FailedOnly))
			break
		}
		fmt.Fprintf(writer, "%-5d %-16s %-8s %-30s %-12s %-26s\n",
			r.Row,
			truncate(r.PONumber, 16),
			truncate(r.IBX, 8),
			truncate(r.Description, 30),
			formatNullDecimal(r.UnitPrice),
			r.Verdict)
		printed++
	}

	return nil
}

func (g *Generator) generateJSON(report *reconciler.Report, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (g *Generator) generateCSV(report *reconciler.Report, writer io.Writer) error {
	w := csv.NewWriter(writer)
	w.Comma = g.config.CSVDelimiter
	defer w.Flush()

	header := []string{
		"row", "po_number", "ibx", "invoice_number", "serial_number", "line_number",
		"description", "quantity", "unit_price", "line_amount",
		"verdict", "remark", "price_used", "rate_card_sub_type",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range report.ValidationResults {
		priceUsed := decimal.NullDecimal{}
		subType := ""
		if r.Quote != nil {
			priceUsed = r.Quote.PriceUsed
		}
		if r.RateCard != nil {
			priceUsed = r.RateCard.PriceUsed
			subType = r.RateCard.SubType
		}

		row := []string{
			strconv.Itoa(r.Row),
			r.PONumber,
			r.IBX,
			r.InvoiceNumber,
			r.SerialNumber,
			r.LineNumber,
			r.Description,
			formatNullDecimal(r.Quantity),
			formatNullDecimal(r.UnitPrice),
			formatNullDecimal(r.LineAmount),
			string(r.Verdict),
			r.Remark,
			formatNullDecimal(priceUsed),
			subType,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", r.Row, err)
		}
	}

	w.Flush()
	return w.Error()
}

func formatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func remaining(report *reconciler.Report, printed int, failedOnly bool) int {
	total := 0
	for _, r := range report.ValidationResults {
		if failedOnly && r.Verdict == models.VerdictPassed {
			continue
		}
		total++
	}
	return total - printed
}
