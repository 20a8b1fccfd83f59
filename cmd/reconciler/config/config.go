// Package config builds the component configurations used by the CLI from
// flag values.
package config

import (
	"time"

	"invoice-reconciliation-service/internal/parsers"
	"invoice-reconciliation-service/internal/ratecard"
	"invoice-reconciliation-service/internal/reconciler"
	"invoice-reconciliation-service/internal/records"
	"invoice-reconciliation-service/internal/reporter"
	"invoice-reconciliation-service/pkg/errors"

	"github.com/shopspring/decimal"
)

// CreateParserConfig returns the CSV parser configuration used for all input
// files.
func CreateParserConfig() *parsers.Config {
	return parsers.DefaultConfig()
}

// CreateRunConfig builds the reconciliation run configuration from CLI
// values. The rate card pass is enabled when rate card records are present;
// a nil taxonomy then falls back to the built-in one.
func CreateRunConfig(priceTolerance, qtyTolerance float64, asOf string,
	rateCardRecords []records.Record, taxonomy *ratecard.Taxonomy) (*reconciler.Config, error) {

	cfg := reconciler.DefaultConfig()
	cfg.PriceTolerance = decimal.NewFromFloat(priceTolerance)
	cfg.QtyTolerance = decimal.NewFromFloat(qtyTolerance)

	if asOf != "" {
		t, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			return nil, errors.ValidationError(errors.CodeInvalidDate, "as-of", asOf, err)
		}
		cfg.AsOf = t
	}

	if len(rateCardRecords) > 0 {
		cfg.RateCardRecords = rateCardRecords
		if taxonomy == nil {
			def := ratecard.DefaultTaxonomy()
			taxonomy = &def
		}
		cfg.Taxonomy = taxonomy
	}

	return cfg, nil
}

// CreateReportConfig builds the report generator configuration from CLI
// values.
func CreateReportConfig(format string, failedOnly bool) (*reporter.Config, error) {
	cfg := reporter.DefaultConfig()
	cfg.Format = reporter.OutputFormat(format)
	cfg.FailedOnly = failedOnly
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
