package models

import (
	"testing"
	"time"

	"invoice-reconciliation-service/internal/records"

	"github.com/shopspring/decimal"
)

func TestNewInvoiceLine(t *testing.T) {
	rec := records.Record{
		"PO Number":          "po-2001 ",
		"IBX":                "SV5",
		"item_code":          "XC-100",
		"CHARGE_DESCRIPTION": "Cross Connect Fiber",
		"quantity":           "2",
		"UNIT_SELLING_PRICE": "$150.00",
		"LINE_LEVEL_AMOUNT":  "300",
		"invoice_start_date": "2025-05-01",
		"BILLING_TILL":       "2025-05-31",
		"country":            "US",
		"invoice_number":     "INV-9",
	}

	ili := NewInvoiceLine(rec)
	if ili.PONumber != "po-2001" {
		t.Errorf("PONumber = %q", ili.PONumber)
	}
	if !ili.UnitPrice.Valid || !ili.UnitPrice.Decimal.Equal(decimal.NewFromInt(150)) {
		t.Errorf("UnitPrice = %+v", ili.UnitPrice)
	}
	if !ili.HasBillFrom || ili.BillingFrom.Day() != 1 {
		t.Errorf("BillingFrom = %v (has=%v)", ili.BillingFrom, ili.HasBillFrom)
	}
	if !ili.HasStart || !ili.ServiceStart.Equal(ili.BillingFrom) {
		t.Error("expected ServiceStart to mirror BillingFrom")
	}
	if ili.InvoiceNumber != "INV-9" {
		t.Errorf("InvoiceNumber = %q", ili.InvoiceNumber)
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	mk := func(price, lla, qty string) *InvoiceLine {
		return &InvoiceLine{
			UnitPrice:  records.ParseAmount(price),
			LineAmount: records.ParseAmount(lla),
			Quantity:   records.ParseAmount(qty),
		}
	}

	// Present price is used as-is.
	if got := mk("200", "400", "2").EffectiveUnitPrice(); !got.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Errorf("got %s, want 200", got.Decimal)
	}

	// Missing price backfills from LLA / quantity.
	got := mk("", "400", "2").EffectiveUnitPrice()
	if !got.Valid || !got.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Errorf("backfill = %+v, want 200", got)
	}

	// Zero price also backfills.
	got = mk("0", "90", "3").EffectiveUnitPrice()
	if !got.Valid || !got.Decimal.Equal(decimal.NewFromInt(30)) {
		t.Errorf("zero-price backfill = %+v, want 30", got)
	}

	// No quantity: stays missing.
	if got := mk("", "400", ""); got.EffectiveUnitPrice().Valid {
		t.Error("expected missing price without quantity")
	}
}

func TestIsZeroCharge(t *testing.T) {
	zero := &InvoiceLine{
		UnitPrice:  decimal.NullDecimal{Decimal: decimal.Zero, Valid: true},
		LineAmount: decimal.NullDecimal{Decimal: decimal.Zero, Valid: true},
	}
	if !zero.IsZeroCharge() {
		t.Error("expected zero-charge line")
	}

	missing := &InvoiceLine{}
	if missing.IsZeroCharge() {
		t.Error("missing values are not a zero charge")
	}
}

func TestNewQuoteLine(t *testing.T) {
	rec := records.Record{
		"Po Number":                 "PO-2001",
		"Site ID":                   "SV5",
		"Item Code":                 "XC-100",
		"Item Description":          "Cross Connect Fiber",
		"Changed Item Description":  "Cross Connect Single Mode Fiber",
		"Quantity":                  "2",
		"Unit Price":                "145.00",
		"service_start_date":        "2024-01-01",
		"initial_term":              "12",
		"term":                      "12",
		"Initial_term_Increment":    "5",
		"price_increase_percentage": "3",
	}

	qli := NewQuoteLine(rec)
	if qli.POKey() != "PO-2001" {
		t.Errorf("POKey = %q", qli.POKey())
	}
	if !qli.InitialEscalation.Equal(decimal.NewFromFloat(0.05)) {
		t.Errorf("InitialEscalation = %s, want 0.05", qli.InitialEscalation)
	}
	if !qli.SubsequentEscalation.Equal(decimal.NewFromFloat(0.03)) {
		t.Errorf("SubsequentEscalation = %s, want 0.03", qli.SubsequentEscalation)
	}
	if !qli.HasStart || qli.ServiceStart.Year() != 2024 {
		t.Errorf("ServiceStart = %v", qli.ServiceStart)
	}
}

func TestNormalizePO(t *testing.T) {
	if NormalizePO("  po-77 ") != "PO-77" {
		t.Error("expected trimmed upper-cased key")
	}
}

func TestRateCardRowIBXScope(t *testing.T) {
	include := NewRateCardRow(records.Record{
		"u_all_ibx": "false",
		"u_ibxs":    "SV1, SV5 ,DC2",
	})
	if !include.AppliesToIBX("sv5") {
		t.Error("include list should match case-insensitively")
	}
	if include.AppliesToIBX("LD4") {
		t.Error("IBX outside include list must not match")
	}

	exclude := NewRateCardRow(records.Record{
		"u_all_ibx":       "true",
		"u_excluded_ibxs": "LD4",
	})
	if exclude.AppliesToIBX("LD4") {
		t.Error("excluded IBX must not match")
	}
	if !exclude.AppliesToIBX("SV5") {
		t.Error("non-excluded IBX should match under all-IBX")
	}

	all := NewRateCardRow(records.Record{"u_all_ibx": "yes"})
	if !all.AppliesToIBX("ANY") {
		t.Error("all-IBX row without exclusions applies everywhere")
	}

	// Lines without a site are never filtered by scope.
	if !include.AppliesToIBX("") {
		t.Error("empty invoice IBX passes scope")
	}
}

func TestNewRateCardRow(t *testing.T) {
	rec := records.Record{
		"u_rate_card_sub_type": "Space & Power",
		"u_country":            "US",
		"u_effective_from":     "2025-04-01",
		"effective_till":       "2026-04-01",
		"u_icb_flag":           "true",
		"u_pricekva":           "310",
	}

	row := NewRateCardRow(rec)
	if row.SubType != "Space & Power" || !row.ICB {
		t.Errorf("row = %+v", row)
	}
	if !row.HasFrom || row.EffectiveFrom.Month() != time.April {
		t.Errorf("EffectiveFrom = %v", row.EffectiveFrom)
	}
	if row.Field("u_pricekva") != "310" {
		t.Errorf("Field(u_pricekva) = %q", row.Field("u_pricekva"))
	}
	if row.Field("U_PRICEKVA") != "310" {
		t.Error("Field lookup should be case-insensitive")
	}
}
