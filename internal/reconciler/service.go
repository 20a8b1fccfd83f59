// Package reconciler orchestrates the reconciliation run: it converts the
// loosely-typed input records into typed lines, drives the quote matching
// pass over every invoice line, and re-visits the lines left under review
// through the rate card pass when rate card data was supplied.
//
// Every invoice line produces exactly one result record, in input order.
// The counts always satisfy passed + failed + rateCard == total.
package reconciler

import (
	"time"

	"invoice-reconciliation-service/internal/matching"
	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/ratecard"
	"invoice-reconciliation-service/internal/records"
	"invoice-reconciliation-service/pkg/errors"
	"invoice-reconciliation-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Config holds the configuration for a reconciliation run.
type Config struct {
	// Tolerances are fractions: 0.05 allows a 5% overrun.
	PriceTolerance decimal.Decimal
	QtyTolerance   decimal.Decimal

	// AsOf is the reference date for quote price escalation. Zero means now.
	AsOf time.Time

	// RateCardRecords and Taxonomy enable the rate card pass; both must be
	// supplied for it to run.
	RateCardRecords []records.Record
	Taxonomy        *ratecard.Taxonomy
}

// DefaultConfig returns the standard run configuration: 5% price tolerance,
// 20% quantity tolerance, no rate card pass.
func DefaultConfig() *Config {
	return &Config{
		PriceTolerance: decimal.NewFromFloat(0.05),
		QtyTolerance:   decimal.NewFromFloat(0.20),
	}
}

// Validate validates the run configuration.
func (c *Config) Validate() error {
	if c.PriceTolerance.IsNegative() {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "price_tolerance", c.PriceTolerance.String(), nil).
			WithSuggestion("use a non-negative fraction such as 0.05")
	}
	if c.QtyTolerance.IsNegative() {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "qty_tolerance", c.QtyTolerance.String(), nil).
			WithSuggestion("use a non-negative fraction such as 0.20")
	}
	if c.Taxonomy != nil {
		if err := c.Taxonomy.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryConfiguration, errors.CodeInvalidConfig, "invalid rate card taxonomy")
		}
	}
	return nil
}

// QuoteDetail carries the matched quote line's fields into a result record.
type QuoteDetail struct {
	PONumber    string              `json:"po_number"`
	SiteID      string              `json:"site_id,omitempty"`
	ProductCode string              `json:"product_code,omitempty"`
	ChargeDesc  string              `json:"charge_description,omitempty"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	PriceUsed   decimal.NullDecimal `json:"price_used"`
}

// RateCardDetail carries the matched rate card row's fields into a result
// record.
type RateCardDetail struct {
	SubType       string              `json:"sub_type"`
	Subkey        string              `json:"subkey,omitempty"`
	Country       string              `json:"country,omitempty"`
	Region        string              `json:"region,omitempty"`
	EffectiveFrom string              `json:"effective_from,omitempty"`
	EffectiveTill string              `json:"effective_till,omitempty"`
	PriceUsed     decimal.NullDecimal `json:"price_used"`
}

// LineResult is the verdict for one invoice line. Row is the 1-based input
// index; results are emitted in input order.
type LineResult struct {
	Row int `json:"row"`

	PONumber      string `json:"po_number"`
	IBX           string `json:"ibx,omitempty"`
	Description   string `json:"description,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	SerialNumber  string `json:"serial_number,omitempty"`
	LineNumber    string `json:"line_number,omitempty"`

	Quantity   decimal.NullDecimal `json:"quantity"`
	UnitPrice  decimal.NullDecimal `json:"unit_price"`
	LineAmount decimal.NullDecimal `json:"line_amount"`

	Verdict models.Verdict `json:"verdict"`
	Remark  string         `json:"remark"`

	Quote    *QuoteDetail    `json:"quote,omitempty"`
	RateCard *RateCardDetail `json:"rate_card,omitempty"`
}

// Report is the complete outcome of a reconciliation run.
type Report struct {
	TotalLines    int `json:"total_lines"`
	PassedCount   int `json:"passed_count"`
	FailedCount   int `json:"failed_count"`
	RateCardCount int `json:"rate_card_count"`

	ValidationResults []*LineResult `json:"validation_results"`

	Timestamp time.Time `json:"timestamp"`
}

// Service runs the reconciliation passes.
type Service struct {
	config *Config
	logger logger.Logger
}

// NewService creates a reconciliation service with the given configuration.
func NewService(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("reconciler"),
	}, nil
}

// Run reconciles the invoice records against the quote records, then against
// the rate card when one was configured. Every input record yields exactly
// one result, in input order.
func (s *Service) Run(invoiceRecords, quoteRecords []records.Record) *Report {
	invoices := make([]*models.InvoiceLine, len(invoiceRecords))
	for i, rec := range invoiceRecords {
		invoices[i] = models.NewInvoiceLine(rec)
	}
	quotes := make([]*models.QuoteLine, len(quoteRecords))
	for i, rec := range quoteRecords {
		quotes[i] = models.NewQuoteLine(rec)
	}

	index := matching.NewQuoteIndex(quotes)
	stats := index.GetStats()
	s.logger.WithFields(logger.Fields{
		"invoice_lines": len(invoices),
		"quote_lines":   stats.TotalQuotes,
		"unique_pos":    stats.UniquePOs,
	}).Info("Starting reconciliation run")

	engine := matching.NewEngine(matching.Config{
		PriceTolerance: s.config.PriceTolerance,
		QtyTolerance:   s.config.QtyTolerance,
		AsOf:           s.config.AsOf,
	})

	results := make([]*LineResult, len(invoices))
	for i, ili := range invoices {
		results[i] = s.matchLine(engine, index, ili, i+1)
	}

	if len(s.config.RateCardRecords) > 0 && s.config.Taxonomy != nil {
		s.rateCardPass(invoices, results)
	}

	report := &Report{
		TotalLines:        len(results),
		ValidationResults: results,
		Timestamp:         time.Now().UTC(),
	}
	for _, r := range results {
		switch r.Verdict {
		case models.VerdictPassed:
			report.PassedCount++
		case models.VerdictFailed:
			report.FailedCount++
		default:
			report.RateCardCount++
		}
	}

	s.logger.WithFields(logger.Fields{
		"total":     report.TotalLines,
		"passed":    report.PassedCount,
		"failed":    report.FailedCount,
		"rate_card": report.RateCardCount,
	}).Info("Reconciliation run complete")
	return report
}

// matchLine runs the quote matching pass for one invoice line.
func (s *Service) matchLine(engine *matching.Engine, index *matching.QuoteIndex, ili *models.InvoiceLine, row int) *LineResult {
	result := &LineResult{
		Row:           row,
		PONumber:      ili.PONumber,
		IBX:           ili.IBX,
		Description:   ili.Description,
		InvoiceNumber: ili.InvoiceNumber,
		SerialNumber:  ili.SerialNumber,
		LineNumber:    ili.LineNumber,
		Quantity:      ili.Quantity,
		UnitPrice:     ili.UnitPrice,
		LineAmount:    ili.LineAmount,
	}

	candidates := index.ForPO(ili.PONumber)
	if len(candidates) == 0 && !ili.IsZeroCharge() {
		result.Verdict = models.VerdictRateCardReview
		result.Remark = "No matching quote line items for this PO number."
		return result
	}

	outcome := engine.Match(ili, candidates)
	switch outcome.Status {
	case matching.StatusPassed:
		result.Verdict = models.VerdictPassed
		result.Remark = outcome.Remark
	case matching.StatusFailed:
		result.Verdict = models.VerdictFailed
		result.Remark = outcome.Remark
	default:
		result.Verdict = models.VerdictRateCardReview
		result.Remark = "No applicable quote line item; deferred to rate card validation."
	}

	if outcome.Quote != nil {
		result.Quote = &QuoteDetail{
			PONumber:    outcome.Quote.PONumber,
			SiteID:      outcome.Quote.SiteID,
			ProductCode: outcome.Quote.ProductCode,
			ChargeDesc:  outcome.Quote.ChargeDesc,
			Quantity:    outcome.Quote.Quantity,
			PriceUsed:   outcome.PriceUsed,
		}
	}
	return result
}

// rateCardPass re-visits every line left under review. Passed and Failed
// verdicts reclassify the line; skipped lines keep the review verdict with
// the skip remark explaining why.
func (s *Service) rateCardPass(invoices []*models.InvoiceLine, results []*LineResult) {
	rows := make([]*models.RateCardRow, len(s.config.RateCardRecords))
	for i, rec := range s.config.RateCardRecords {
		rows[i] = models.NewRateCardRow(rec)
	}
	engine := ratecard.NewEngine(rows, *s.config.Taxonomy, s.config.PriceTolerance)

	reviewed := 0
	for i, result := range results {
		if result.Verdict != models.VerdictRateCardReview {
			continue
		}
		reviewed++

		res := engine.Validate(invoices[i])
		result.Remark = res.Remark
		switch res.Status {
		case ratecard.StatusPassed:
			result.Verdict = models.VerdictPassed
		case ratecard.StatusFailed:
			result.Verdict = models.VerdictFailed
		}

		if res.Row != nil {
			detail := &RateCardDetail{
				SubType:   res.SubType,
				Subkey:    res.Subkey,
				Country:   res.Row.Country,
				Region:    res.Row.Region,
				PriceUsed: res.PriceUsed,
			}
			if res.Row.HasFrom {
				detail.EffectiveFrom = res.Row.EffectiveFrom.Format("2006-01-02")
			}
			if res.Row.HasTill {
				detail.EffectiveTill = res.Row.EffectiveTill.Format("2006-01-02")
			}
			result.RateCard = detail
		}
	}

	s.logger.WithField("reviewed_lines", reviewed).Debug("Rate card pass complete")
}
