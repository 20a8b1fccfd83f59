package cmd

import (
	"fmt"
	"os"

	"invoice-reconciliation-service/cmd/reconciler/config"
	"invoice-reconciliation-service/internal/parsers"
	"invoice-reconciliation-service/internal/ratecard"
	"invoice-reconciliation-service/internal/reconciler"
	"invoice-reconciliation-service/internal/records"
	"invoice-reconciliation-service/internal/reporter"
	"invoice-reconciliation-service/pkg/errors"
	"invoice-reconciliation-service/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the validate command
var (
	invoiceFile    string
	quoteFile      string
	rateCardFile   string
	taxonomyFile   string
	priceTolerance float64
	qtyTolerance   float64
	asOfDate       string
	outputFormat   string
	outputFile     string
	failedOnly     bool
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate invoice line items against quotes and the rate card",
	Long: `Validate compares invoice line items against the quote line items sharing
their PO number, applying price escalation, proration and tolerance checks.
Lines with no quote match fall through to rate card validation when a rate
card file is supplied; otherwise they are left for manual review.

Examples:
  # Basic validation
  reconciler validate --invoice-file invoices.csv --quote-file quotes.csv

  # With the rate card fallback and a custom taxonomy
  reconciler validate --invoice-file inv.csv --quote-file quo.csv \
    --rate-card-file rates.csv --taxonomy-file taxonomy.yaml

  # Custom tolerances and JSON output
  reconciler validate --invoice-file inv.csv --quote-file quo.csv \
    --price-tolerance 0.10 --qty-tolerance 0.25 \
    --output-format json --output-file report.json

  # Evaluate escalation as of a fixed date
  reconciler validate --invoice-file inv.csv --quote-file quo.csv --as-of 2025-07-01`,

	PreRunE: validateFlags,
	RunE:    runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	// Required flags
	validateCmd.Flags().StringVarP(&invoiceFile, "invoice-file", "i", "", "path to invoice line item CSV file (required)")
	validateCmd.Flags().StringVarP(&quoteFile, "quote-file", "q", "", "path to quote line item CSV file (required)")

	// Rate card flags
	validateCmd.Flags().StringVar(&rateCardFile, "rate-card-file", "", "path to rate card CSV file (enables the rate card pass)")
	validateCmd.Flags().StringVar(&taxonomyFile, "taxonomy-file", "", "path to rate card taxonomy YAML file (default: built-in taxonomy)")

	// Tolerance and date flags
	validateCmd.Flags().Float64Var(&priceTolerance, "price-tolerance", 0.05, "price tolerance as a fraction (0.05 = 5%)")
	validateCmd.Flags().Float64Var(&qtyTolerance, "qty-tolerance", 0.20, "quantity tolerance as a fraction (0.20 = 20%)")
	validateCmd.Flags().StringVar(&asOfDate, "as-of", "", "escalation reference date (YYYY-MM-DD, default: today)")

	// Output flags
	validateCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	validateCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	validateCmd.Flags().BoolVar(&failedOnly, "failed-only", false, "console output lists only lines that did not pass")

	validateCmd.MarkFlagRequired("invoice-file")
	validateCmd.MarkFlagRequired("quote-file")

	viper.BindPFlag("invoice-file", validateCmd.Flags().Lookup("invoice-file"))
	viper.BindPFlag("quote-file", validateCmd.Flags().Lookup("quote-file"))
	viper.BindPFlag("rate-card-file", validateCmd.Flags().Lookup("rate-card-file"))
	viper.BindPFlag("taxonomy-file", validateCmd.Flags().Lookup("taxonomy-file"))
	viper.BindPFlag("price-tolerance", validateCmd.Flags().Lookup("price-tolerance"))
	viper.BindPFlag("qty-tolerance", validateCmd.Flags().Lookup("qty-tolerance"))
	viper.BindPFlag("as-of", validateCmd.Flags().Lookup("as-of"))
	viper.BindPFlag("output-format", validateCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", validateCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("failed-only", validateCmd.Flags().Lookup("failed-only"))
}

func validateFlags(cmd *cobra.Command, args []string) error {
	// Viper values allow overrides from the config file and environment.
	invoiceFile = viper.GetString("invoice-file")
	quoteFile = viper.GetString("quote-file")
	rateCardFile = viper.GetString("rate-card-file")
	taxonomyFile = viper.GetString("taxonomy-file")
	priceTolerance = viper.GetFloat64("price-tolerance")
	qtyTolerance = viper.GetFloat64("qty-tolerance")
	asOfDate = viper.GetString("as-of")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	failedOnly = viper.GetBool("failed-only")

	if invoiceFile == "" {
		return fmt.Errorf("invoice-file is required")
	}
	if quoteFile == "" {
		return fmt.Errorf("quote-file is required")
	}

	if err := validateFileExists(invoiceFile, "invoice file"); err != nil {
		return err
	}
	if err := validateFileExists(quoteFile, "quote file"); err != nil {
		return err
	}
	if rateCardFile != "" {
		if err := validateFileExists(rateCardFile, "rate card file"); err != nil {
			return err
		}
	}
	if taxonomyFile != "" {
		if rateCardFile == "" {
			return fmt.Errorf("taxonomy-file requires rate-card-file")
		}
		if err := validateFileExists(taxonomyFile, "taxonomy file"); err != nil {
			return err
		}
	}

	if priceTolerance < 0 {
		return fmt.Errorf("price-tolerance cannot be negative: %g", priceTolerance)
	}
	if qtyTolerance < 0 {
		return fmt.Errorf("qty-tolerance cannot be negative: %g", qtyTolerance)
	}

	if !reporter.OutputFormat(outputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logger.GetGlobalLogger().WithComponent("cli")

	parser := parsers.NewRecordParser(config.CreateParserConfig())

	invoices, err := parseInput(parser, invoiceFile, "invoice parsing", log)
	if err != nil {
		return err
	}
	quotes, err := parseInput(parser, quoteFile, "quote parsing", log)
	if err != nil {
		return err
	}

	var rateCardRecords []records.Record
	var taxonomy *ratecard.Taxonomy
	if rateCardFile != "" {
		rateCardRecords, err = parseInput(parser, rateCardFile, "rate card parsing", log)
		if err != nil {
			return err
		}
		if taxonomyFile != "" {
			t, err := ratecard.LoadTaxonomy(taxonomyFile)
			if err != nil {
				return err
			}
			taxonomy = &t
		}
	}

	runConfig, err := config.CreateRunConfig(priceTolerance, qtyTolerance, asOfDate, rateCardRecords, taxonomy)
	if err != nil {
		return err
	}

	service, err := reconciler.NewService(runConfig)
	if err != nil {
		return err
	}
	report := service.Run(invoices, quotes)

	reportConfig, err := config.CreateReportConfig(outputFormat, failedOnly)
	if err != nil {
		return err
	}
	generator, err := reporter.NewGenerator(reportConfig)
	if err != nil {
		return err
	}

	writer := os.Stdout
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", outputFile, err)
		}
		defer file.Close()
		writer = file
	}

	if err := generator.Generate(report, writer); err != nil {
		return err
	}
	if outputFile != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputFile)
	}
	return nil
}

// parseInput parses one CSV input, logging recoverable row errors. Fatal
// parse failures are wrapped as reconciliation errors naming the operation
// that needed the file.
func parseInput(parser *parsers.RecordParser, path, operation string, log logger.Logger) ([]records.Record, error) {
	recs, stats, err := parser.ParseFile(path)
	if err != nil {
		return nil, errors.ReconciliationError(errors.CodeProcessingError, operation, err).
			WithContext("file", path)
	}
	for _, rowErr := range stats.RowErrors {
		log.WithFields(logger.Fields{
			"file": path,
			"line": rowErr.Line,
		}).WithError(rowErr.Err).Warn("Skipped unreadable row")
	}
	return recs, nil
}

func validateFileExists(path, description string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, path)
	}
	if err != nil {
		return fmt.Errorf("cannot access %s %s: %w", description, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file: %s", description, path)
	}
	return nil
}
