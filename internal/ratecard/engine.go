package ratecard

import (
	"fmt"
	"strings"

	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/records"

	"github.com/shopspring/decimal"
)

// Status is the outcome class of a rate card validation attempt.
type Status int

const (
	// StatusPassed means the invoice price held within tolerance of the
	// rate card price.
	StatusPassed Status = iota
	// StatusFailed means the invoice price exceeded the rate card price
	// beyond tolerance.
	StatusFailed
	// StatusSkipped means no verdict could be reached; the line stays under
	// manual review.
	StatusSkipped
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "Passed"
	case StatusFailed:
		return "Failed"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// Match identifies the taxonomy entry a charge description resolved to.
type Match struct {
	SubType string
	Entry   Entry
	// Subkey is the subkey substring that matched, empty when the entry
	// declares none.
	Subkey string
}

// Result is the outcome of validating one invoice line against the rate
// card. Row and SubType are set whenever a rate card row was located,
// including on failure and on the skips that happen after row selection.
type Result struct {
	Status  Status
	Remark  string
	Row     *models.RateCardRow
	SubType string
	Subkey  string

	// PriceUsed is the rate card price the invoice was compared against,
	// valid only when a price check ran.
	PriceUsed decimal.NullDecimal
}

// Engine validates invoice lines against rate card rows using a taxonomy.
type Engine struct {
	rows      []*models.RateCardRow
	taxonomy  Taxonomy
	tolerance decimal.Decimal
}

// NewEngine creates a rate card engine over the given rows and taxonomy.
// tolerance is a fraction: 0.05 allows a 5% price overrun.
func NewEngine(rows []*models.RateCardRow, taxonomy Taxonomy, tolerance decimal.Decimal) *Engine {
	return &Engine{rows: rows, taxonomy: taxonomy, tolerance: tolerance}
}

// Categorize resolves a charge description to a taxonomy entry. Categories
// and entries are scanned in declared order; an entry whose key matches but
// whose subkeys all miss is ambiguous and the scan continues. The first
// fully-matching entry wins.
func (e *Engine) Categorize(description string) (Match, bool) {
	desc := strings.ToLower(description)
	if desc == "" {
		return Match{}, false
	}

	for _, cat := range e.taxonomy.Categories {
		for _, entry := range cat.Entries {
			key := strings.ToLower(entry.Key)
			if key == "" || !strings.Contains(desc, key) {
				continue
			}
			if len(entry.Subkeys) == 0 {
				return Match{SubType: cat.Name, Entry: entry}, true
			}
			for _, sk := range entry.Subkeys {
				skLower := strings.ToLower(sk)
				if skLower != "" && strings.Contains(desc, skLower) {
					return Match{SubType: cat.Name, Entry: entry, Subkey: sk}, true
				}
			}
			// Key matched but no subkey did: ambiguous, keep scanning.
		}
	}
	return Match{}, false
}

// FindRow locates the first rate card row applicable to the invoice line
// under the given taxonomy match. A row must carry the matched sub-type,
// agree on country and region when both sides specify them, cover the
// service start date, cover the invoice IBX, not be ICB, and have every
// entry field value present in the charge description.
func (e *Engine) FindRow(ili *models.InvoiceLine, m Match) *models.RateCardRow {
	if !ili.HasStart {
		return nil
	}
	desc := strings.ToLower(ili.Description)

rows:
	for _, row := range e.rows {
		if row.SubType != m.SubType {
			continue
		}
		if ili.Country != "" && row.Country != "" && !strings.EqualFold(row.Country, ili.Country) {
			continue
		}
		if ili.Region != "" && row.Region != "" && !strings.EqualFold(row.Region, ili.Region) {
			continue
		}
		// Effective range is half-open: from <= start < till.
		if row.HasFrom && ili.ServiceStart.Before(row.EffectiveFrom) {
			continue
		}
		if row.HasTill && !ili.ServiceStart.Before(row.EffectiveTill) {
			continue
		}
		if !row.AppliesToIBX(ili.IBX) {
			continue
		}
		if row.ICB {
			continue
		}
		if m.Subkey != "" && row.Subkeys != "" &&
			!strings.Contains(strings.ToLower(row.Subkeys), strings.ToLower(m.Subkey)) {
			continue
		}
		for _, field := range m.Entry.Fields {
			v := strings.ToLower(row.Field(field))
			if v != "" && !strings.Contains(desc, v) {
				continue rows
			}
		}
		return row
	}
	return nil
}

const outOfScopeRemark = "Out-of-Scope Item. This line item is not a part of the contract; " +
	"and no rate card reference is available to validate the price. Validation has been " +
	"skipped due to missing rate card information. This Line item will be handled manually."

var one = decimal.NewFromInt(1)

// Validate checks one invoice line against the rate card. Lines whose
// service start date is missing, unparseable or outside the effective window
// are skipped up front; lines that resolve to no category or no row are
// skipped with an out-of-scope remark.
func (e *Engine) Validate(ili *models.InvoiceLine) Result {
	if ili.StartText == "" {
		return Result{
			Status: StatusSkipped,
			Remark: "Out-of-Scope Item. Service Start Date is missing. This Line Item will be handled manually. Validation has been skipped.",
		}
	}
	if !ili.HasStart {
		return Result{
			Status: StatusSkipped,
			Remark: "Out-of-Scope Item. Service Start Date is invalid. This Line Item will be handled manually. Validation has been skipped.",
		}
	}
	if !e.taxonomy.Window.Contains(ili.ServiceStart) {
		return Result{
			Status: StatusSkipped,
			Remark: fmt.Sprintf("Out-of-Scope Item. Service Start Date (%s) does not fall within the rate card effective window (%s to %s). This Line Item will be handled manually. Validation has been skipped.",
				ili.StartText,
				e.taxonomy.Window.From.Format("2006-01-02"),
				e.taxonomy.Window.Till.Format("2006-01-02")),
		}
	}

	m, ok := e.Categorize(ili.Description)
	if !ok {
		return Result{Status: StatusSkipped, Remark: outOfScopeRemark}
	}

	row := e.FindRow(ili, m)
	if row == nil {
		return Result{Status: StatusSkipped, Remark: outOfScopeRemark}
	}

	res := Result{Row: row, SubType: m.SubType, Subkey: m.Subkey}

	if row.ICB {
		res.Status = StatusSkipped
		res.Remark = "Out-of-Scope Item. Rate card reference is available with ICB. This Line Item will be handled manually. Validation has been skipped."
		return res
	}

	desc := strings.ToLower(ili.Description)
	if m.SubType == SubTypeSmartHands &&
		(strings.Contains(desc, "mrc") || strings.Contains(desc, "monthly")) {
		res.Status = StatusSkipped
		res.Remark = "Smart Hands recurring (MRC/monthly) charges are handled manually; validation skipped."
		return res
	}

	cup := e.unitPrice(row, m.SubType, desc)
	if !cup.Valid {
		res.Status = StatusSkipped
		res.Remark = "Rate card unit price not found for this sub type."
		return res
	}
	res.PriceUsed = cup

	invPrice := decimal.Zero
	if p := ili.EffectiveUnitPrice(); p.Valid {
		invPrice = p.Decimal
	}

	if invPrice.IsZero() && cup.Decimal.IsZero() {
		res.Status = StatusPassed
		res.Remark = "Both invoice and rate card unit price are zero; validation passed."
		return res
	}

	allowed := cup.Decimal.Mul(one.Add(e.tolerance))
	if invPrice.GreaterThan(allowed) {
		res.Status = StatusFailed
		res.Remark = fmt.Sprintf("Rate card validation failed. Invoice unit price %s exceeds rate card price %s with tolerance (%s allowed).",
			invPrice.StringFixed(2), cup.Decimal.StringFixed(2), allowed.StringFixed(2))
		return res
	}

	res.Status = StatusPassed
	res.Remark = "Rate card validation passed."
	return res
}

// unitPrice extracts the sub-type's price column from a rate card row.
// Precision Time rows carry four tiered prices selected by whether the
// description names the standard or enterprise tier crossed with NTP or PTP,
// defaulting to the standard NTP column.
func (e *Engine) unitPrice(row *models.RateCardRow, subType, descLower string) decimal.NullDecimal {
	switch subType {
	case SubTypeSpacePower, SubTypeSecureCabinet:
		return records.ResolveNumeric(row.Raw, models.RCPriceKVAVariants)
	case SubTypePowerInstallNRC, SubTypeSmartHands:
		return records.ResolveNumeric(row.Raw, models.RCRateVariants)
	case SubTypeCabinetInstall, SubTypeInterconnection:
		return records.ResolveNumeric(row.Raw, models.RCNRCVariants)
	case SubTypePrecisionTime:
		if strings.Contains(descLower, "standard") {
			if strings.Contains(descLower, "ntp") {
				return records.ResolveNumeric(row.Raw, models.RCStdNTPVariants)
			}
			if strings.Contains(descLower, "ptp") {
				return records.ResolveNumeric(row.Raw, models.RCStdPTPVariants)
			}
		} else if strings.Contains(descLower, "enterprise") {
			if strings.Contains(descLower, "ntp") {
				return records.ResolveNumeric(row.Raw, models.RCEntNTPVariants)
			}
			if strings.Contains(descLower, "ptp") {
				return records.ResolveNumeric(row.Raw, models.RCEntPTPVariants)
			}
		}
		if p := records.ResolveNumeric(row.Raw, models.RCStdNTPVariants); p.Valid {
			return p
		}
		return records.ResolveNumeric(row.Raw, models.RCRateVariants)
	default:
		for _, variants := range [][]string{models.RCRateVariants, models.RCNRCVariants, models.RCPriceKVAVariants} {
			if p := records.ResolveNumeric(row.Raw, variants); p.Valid {
				return p
			}
		}
		return decimal.NullDecimal{}
	}
}
