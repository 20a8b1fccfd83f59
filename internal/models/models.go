// Package models defines the typed views of the loosely-typed input records:
// invoice lines, quote lines and rate card rows, plus the verdict enum shared
// by both validation passes.
//
// Each view is built once from a records.Record through the field resolver;
// after that the engines never touch raw column names. Absent or unparseable
// numerics are carried as invalid decimal.NullDecimal values and absent dates
// as zero times with an ok flag, so downstream checks degrade instead of
// failing the run.
package models

import (
	"strings"
	"time"

	"invoice-reconciliation-service/internal/records"

	"github.com/shopspring/decimal"
)

// Verdict classifies one invoice line after validation.
type Verdict string

const (
	// VerdictPassed means the line matched a quote or rate card row within
	// tolerance.
	VerdictPassed Verdict = "Passed"
	// VerdictFailed means a tolerance check failed against the matched
	// reference price or quantity.
	VerdictFailed Verdict = "Failed"
	// VerdictRateCardReview means the line could not be auto-validated and
	// stays under manual / rate-card review.
	VerdictRateCardReview Verdict = "For Rate Card Validation"
)

// String returns the string representation of the Verdict
func (v Verdict) String() string {
	return string(v)
}

// InvoiceLine is the typed view of one invoice line item (ILI).
type InvoiceLine struct {
	PONumber    string
	IBX         string
	ItemCode    string
	Description string
	Quantity    decimal.NullDecimal
	UnitPrice   decimal.NullDecimal
	LineAmount  decimal.NullDecimal

	BillingFrom  time.Time
	HasBillFrom  bool
	BillingTill  time.Time
	HasBillTill  bool
	ServiceStart time.Time
	HasStart     bool
	// StartText keeps the raw service-start value for remarks that must
	// distinguish a missing date from an unparseable one.
	StartText string

	Country string
	Region  string

	// Identifying fields carried through to the result rows.
	SerialNumber  string
	LineNumber    string
	InvoiceNumber string
}

// NewInvoiceLine builds an InvoiceLine from a loosely-typed record.
func NewInvoiceLine(rec records.Record) *InvoiceLine {
	ili := &InvoiceLine{
		PONumber:      records.Resolve(rec, ILIPOVariants),
		IBX:           records.Resolve(rec, ILIIBXVariants),
		ItemCode:      records.Resolve(rec, ILIItemCodeVariants),
		Description:   records.Resolve(rec, ILIDescVariants),
		Quantity:      records.ResolveNumeric(rec, ILIQtyVariants),
		UnitPrice:     records.ResolveNumeric(rec, ILIUnitPriceVariants),
		LineAmount:    records.ResolveNumeric(rec, ILILLAVariants),
		Country:       records.Resolve(rec, ILICountryVariants),
		Region:        records.Resolve(rec, ILIRegionVariants),
		SerialNumber:  records.Resolve(rec, ILISerialVariants),
		LineNumber:    records.Resolve(rec, ILILineNumberVariants),
		InvoiceNumber: records.Resolve(rec, ILITrxNumberVariants),
	}
	ili.BillingFrom, ili.HasBillFrom = records.ResolveDate(rec, ILIBillingFromVariants)
	ili.BillingTill, ili.HasBillTill = records.ResolveDate(rec, ILIBillingTillVariants)
	// The billing-from variants double as the service start; both views of
	// the same column are needed by different passes.
	ili.ServiceStart, ili.HasStart = ili.BillingFrom, ili.HasBillFrom
	ili.StartText = records.Resolve(rec, ILIBillingFromVariants)
	return ili
}

// EffectiveUnitPrice returns the unit price, backfilling LLA/quantity when the
// price is missing or zero and both the line amount and a positive quantity
// are present.
func (ili *InvoiceLine) EffectiveUnitPrice() decimal.NullDecimal {
	price := ili.UnitPrice
	missing := !price.Valid || price.Decimal.IsZero()
	if missing && ili.LineAmount.Valid && ili.Quantity.Valid && ili.Quantity.Decimal.IsPositive() {
		return decimal.NullDecimal{
			Decimal: ili.LineAmount.Decimal.Div(ili.Quantity.Decimal),
			Valid:   true,
		}
	}
	return price
}

// IsZeroCharge reports whether both the unit price and the line amount are
// present and exactly zero, meaning the line carries no charge at all.
func (ili *InvoiceLine) IsZeroCharge() bool {
	return ili.UnitPrice.Valid && ili.UnitPrice.Decimal.IsZero() &&
		ili.LineAmount.Valid && ili.LineAmount.Decimal.IsZero()
}

// QuoteLine is the typed view of one contractual quote line item (QLI).
type QuoteLine struct {
	PONumber    string
	SiteID      string
	ProductCode string
	ChargeDesc  string
	ChangeDesc  string
	Quantity    decimal.NullDecimal
	UnitPrice   decimal.NullDecimal

	ServiceStart time.Time
	HasStart     bool

	// Term lengths in months; non-positive or absent values default to 12
	// at escalation time.
	InitialTermMonths decimal.NullDecimal
	RenewalTermMonths decimal.NullDecimal

	// Escalation fractions (source columns carry percentages; divided by 100
	// here). Absent values default to zero.
	InitialEscalation    decimal.Decimal
	SubsequentEscalation decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// NewQuoteLine builds a QuoteLine from a loosely-typed record.
func NewQuoteLine(rec records.Record) *QuoteLine {
	qli := &QuoteLine{
		PONumber:          records.Resolve(rec, QLIPOVariants),
		SiteID:            records.Resolve(rec, QLISiteVariants),
		ProductCode:       records.Resolve(rec, QLIProductCodeVariants),
		ChargeDesc:        records.Resolve(rec, QLIChargeDescVariants),
		ChangeDesc:        records.Resolve(rec, QLIChangeDescVariants),
		Quantity:          records.ResolveNumeric(rec, QLIQtyVariants),
		UnitPrice:         records.ResolveNumeric(rec, QLIUnitPriceVariants),
		InitialTermMonths: records.ResolveNumeric(rec, QLIInitialTermVariants),
		RenewalTermMonths: records.ResolveNumeric(rec, QLIRenewalTermVariants),
	}
	qli.ServiceStart, qli.HasStart = records.ResolveDate(rec, QLIServiceStartVariants)

	if esc := records.ResolveNumeric(rec, QLIInitialEscVariants); esc.Valid {
		qli.InitialEscalation = esc.Decimal.Div(hundred)
	}
	if esc := records.ResolveNumeric(rec, QLISubsequentEscVariants); esc.Valid {
		qli.SubsequentEscalation = esc.Decimal.Div(hundred)
	}
	return qli
}

// POKey returns the normalized PO grouping key (trimmed, upper-cased).
func (q *QuoteLine) POKey() string {
	return NormalizePO(q.PONumber)
}

// NormalizePO trims and upper-cases a PO number for case-insensitive grouping.
func NormalizePO(po string) string {
	return strings.ToUpper(strings.TrimSpace(po))
}

// RateCardRow is the typed view of one rate card price-list row. The raw
// record is retained because taxonomy rules reference arbitrary row fields by
// name for the required-field containment check.
type RateCardRow struct {
	Type    string
	SubType string
	Country string
	Region  string

	EffectiveFrom time.Time
	HasFrom       bool
	EffectiveTill time.Time
	HasTill       bool

	// IBX scope: when AllIBX is false the row applies only to IBXs in the
	// include list; when true it applies everywhere except the excluded list.
	AllIBX       bool
	IBXs         []string
	ExcludedIBXs []string

	// ICB rows are individually contracted and must never auto-validate.
	ICB bool

	Subkeys string

	Raw records.Record
}

// NewRateCardRow builds a RateCardRow from a loosely-typed record.
func NewRateCardRow(rec records.Record) *RateCardRow {
	row := &RateCardRow{
		Type:    records.Resolve(rec, RCTypeVariants),
		SubType: records.Resolve(rec, RCSubTypeVariants),
		Country: records.Resolve(rec, RCCountryVariants),
		Region:  records.Resolve(rec, RCRegionVariants),
		AllIBX:  parseFlag(records.Resolve(rec, RCAllIBXVariants)),
		ICB:     parseFlag(records.Resolve(rec, RCICBFlagVariants)),
		Subkeys: records.Resolve(rec, RCSubkeysVariants),
		Raw:     rec,
	}
	row.EffectiveFrom, row.HasFrom = records.ResolveDate(rec, RCEffectiveFromVariants)
	row.EffectiveTill, row.HasTill = records.ResolveDate(rec, RCEffectiveTillVariants)
	row.IBXs = splitCodes(records.Resolve(rec, RCIBXListVariants))
	row.ExcludedIBXs = splitCodes(records.Resolve(rec, RCExcludedIBXVariants))
	return row
}

// Field resolves an arbitrary raw column of the rate card row by name,
// falling back to a case-insensitive key scan.
func (r *RateCardRow) Field(name string) string {
	return records.Resolve(r.Raw, []string{name})
}

// AppliesToIBX reports whether this row's IBX scope covers the given site.
// An empty invoice IBX is never filtered out here; scope only restricts lines
// that actually name a site.
func (r *RateCardRow) AppliesToIBX(ibx string) bool {
	if ibx == "" {
		return true
	}
	code := strings.ToUpper(strings.TrimSpace(ibx))

	if !r.AllIBX {
		for _, c := range r.IBXs {
			if c == code {
				return true
			}
		}
		return false
	}

	for _, c := range r.ExcludedIBXs {
		if c == code {
			return false
		}
	}
	return true
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.ToUpper(strings.TrimSpace(p)); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
