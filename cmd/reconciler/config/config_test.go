package config

import (
	"testing"
	"time"

	"invoice-reconciliation-service/internal/ratecard"
	"invoice-reconciliation-service/internal/records"
	"invoice-reconciliation-service/internal/reporter"
	"invoice-reconciliation-service/pkg/errors"

	"github.com/shopspring/decimal"
)

func TestCreateRunConfig(t *testing.T) {
	cfg, err := CreateRunConfig(0.05, 0.20, "", nil, nil)
	if err != nil {
		t.Fatalf("CreateRunConfig() error = %v", err)
	}
	if !cfg.PriceTolerance.Equal(decimal.NewFromFloat(0.05)) {
		t.Errorf("PriceTolerance = %s, want 0.05", cfg.PriceTolerance)
	}
	if !cfg.QtyTolerance.Equal(decimal.NewFromFloat(0.20)) {
		t.Errorf("QtyTolerance = %s, want 0.20", cfg.QtyTolerance)
	}
	if cfg.Taxonomy != nil || cfg.RateCardRecords != nil {
		t.Error("rate card pass should be off without rate card records")
	}
	if !cfg.AsOf.IsZero() {
		t.Error("as-of should stay unset without a flag value")
	}
}

func TestCreateRunConfigAsOf(t *testing.T) {
	cfg, err := CreateRunConfig(0.05, 0.20, "2025-07-01", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.AsOf.Equal(want) {
		t.Errorf("AsOf = %v, want %v", cfg.AsOf, want)
	}

	_, err = CreateRunConfig(0.05, 0.20, "07/01/2025", nil, nil)
	if err == nil {
		t.Fatal("expected error for a non-ISO as-of date")
	}
	if category, ok := errors.GetCategory(err); !ok || category != errors.CategoryValidation {
		t.Errorf("GetCategory() = %s, %v, want validation", category, ok)
	}
}

func TestCreateRunConfigRateCard(t *testing.T) {
	rows := []records.Record{{"u_rate_card_sub_type": "Smart Hands"}}

	// Without an explicit taxonomy the built-in one applies.
	cfg, err := CreateRunConfig(0.05, 0.20, "", rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Taxonomy == nil || len(cfg.Taxonomy.Categories) == 0 {
		t.Fatal("expected the default taxonomy")
	}

	custom := ratecard.Taxonomy{
		Window: ratecard.DefaultWindow(),
		Categories: []ratecard.Category{
			{Name: "Smart Hands", Entries: []ratecard.Entry{{Key: "smart hands"}}},
		},
	}
	cfg, err = CreateRunConfig(0.05, 0.20, "", rows, &custom)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Taxonomy.Categories) != 1 {
		t.Error("explicit taxonomy should win over the default")
	}
}

func TestCreateReportConfig(t *testing.T) {
	cfg, err := CreateReportConfig("json", true)
	if err != nil {
		t.Fatalf("CreateReportConfig() error = %v", err)
	}
	if cfg.Format != reporter.FormatJSON || !cfg.FailedOnly {
		t.Errorf("config = %+v", cfg)
	}

	if _, err := CreateReportConfig("xml", false); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestCreateParserConfig(t *testing.T) {
	cfg := CreateParserConfig()
	if cfg.Delimiter != ',' || !cfg.SkipEmptyRows {
		t.Errorf("parser config = %+v", cfg)
	}
}
