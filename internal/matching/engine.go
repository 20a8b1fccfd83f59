// Package matching implements the quote matching engine: candidate selection
// among the quote lines sharing an invoice line's PO, best-match ranking by
// description overlap, and the price / amount / quantity tolerance checks.
//
// Matching is layered: a site mismatch disqualifies a quote line outright;
// a product-code containment match qualifies one; description matching alone
// qualifies only when at least one side has no product code, so codes that
// could decisively disagree are never overruled by wording. Among qualified
// candidates the highest description overlap wins, ties broken by first-seen
// order.
package matching

import (
	"fmt"
	"strings"
	"time"

	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/pricing"
	"invoice-reconciliation-service/internal/textmatch"

	"github.com/shopspring/decimal"
)

// Status is the outcome class of a quote matching attempt.
type Status int

const (
	// StatusPassed means every applicable check held within tolerance.
	StatusPassed Status = iota
	// StatusFailed means a tolerance check was exceeded.
	StatusFailed
	// StatusDeferred means no verdict could be reached here; the line falls
	// through to rate card validation.
	StatusDeferred
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "Passed"
	case StatusFailed:
		return "Failed"
	case StatusDeferred:
		return "Deferred"
	default:
		return "Unknown"
	}
}

// Outcome is the result of matching one invoice line against its PO's quote
// lines. Quote is set whenever a candidate was selected, including on failure.
type Outcome struct {
	Status Status
	Remark string
	Quote  *models.QuoteLine

	// PriceUsed is the escalated quote price the invoice was compared
	// against, valid only when a price check ran.
	PriceUsed decimal.NullDecimal
}

// Config holds the tolerances and reference date for quote matching.
// Tolerances are fractions: 0.05 allows a 5% overrun.
type Config struct {
	PriceTolerance decimal.Decimal
	QtyTolerance   decimal.Decimal
	AsOf           time.Time
}

// DefaultConfig returns the standard tolerances: 5% on price, 20% on
// quantity, evaluated as of now.
func DefaultConfig() Config {
	return Config{
		PriceTolerance: decimal.NewFromFloat(0.05),
		QtyTolerance:   decimal.NewFromFloat(0.20),
		AsOf:           time.Now(),
	}
}

// Validate checks the configuration for usable tolerance values.
func (c Config) Validate() error {
	if c.PriceTolerance.IsNegative() {
		return fmt.Errorf("price tolerance cannot be negative: %s", c.PriceTolerance)
	}
	if c.QtyTolerance.IsNegative() {
		return fmt.Errorf("quantity tolerance cannot be negative: %s", c.QtyTolerance)
	}
	return nil
}

// Engine matches invoice lines against quote lines.
type Engine struct {
	cfg Config
}

// NewEngine creates a matching engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	if cfg.AsOf.IsZero() {
		cfg.AsOf = time.Now()
	}
	return &Engine{cfg: cfg}
}

var one = decimal.NewFromInt(1)

// Match validates one invoice line against the quote lines sharing its PO.
// Candidates failing the site/product/description filters are skipped; if
// none qualify, or the selected quote's price or quantity cannot be
// determined, the outcome is deferred.
func (e *Engine) Match(ili *models.InvoiceLine, candidates []*models.QuoteLine) Outcome {
	// A line with zero unit price and zero amount carries no charge and
	// needs no quote.
	if ili.IsZeroCharge() {
		return Outcome{
			Status: StatusPassed,
			Remark: "Unit price and line amount are zero; no charge.",
		}
	}

	invPrice := ili.EffectiveUnitPrice()

	best := e.selectCandidate(ili, candidates)
	if best == nil {
		return Outcome{Status: StatusDeferred}
	}

	cup, ok := pricing.CurrentUnitPrice(best, e.cfg.AsOf)
	if !ok {
		return Outcome{Status: StatusDeferred}
	}
	priceUsed := decimal.NullDecimal{Decimal: cup, Valid: true}

	allowedPrice := cup.Mul(one.Add(e.cfg.PriceTolerance))
	if invPrice.Valid && invPrice.Decimal.GreaterThan(allowedPrice) {
		return Outcome{
			Status: StatusFailed,
			Quote:  best,
			Remark: fmt.Sprintf("Unit price %s exceeds current quote price %s with tolerance (%s allowed).",
				invPrice.Decimal.StringFixed(2), cup.StringFixed(2), allowedPrice.StringFixed(2)),
			PriceUsed: priceUsed,
		}
	}

	qty := decimal.Zero
	if ili.Quantity.Valid {
		qty = ili.Quantity.Decimal
	}

	pf := pricing.ProrationFactor(ili.BillingFrom, ili.BillingTill, ili.HasBillFrom, ili.HasBillTill)
	expectedAmount := cup.Mul(qty).Mul(pf)
	allowedAmount := expectedAmount.Mul(one.Add(e.cfg.PriceTolerance))
	if ili.LineAmount.Valid && ili.LineAmount.Decimal.GreaterThan(allowedAmount) {
		return Outcome{
			Status: StatusFailed,
			Quote:  best,
			Remark: fmt.Sprintf("Line amount %s exceeds expected amount %s with tolerance (%s allowed).",
				ili.LineAmount.Decimal.StringFixed(2), expectedAmount.StringFixed(2), allowedAmount.StringFixed(2)),
			PriceUsed: priceUsed,
		}
	}

	if !best.Quantity.Valid || !best.Quantity.Decimal.IsPositive() {
		return Outcome{Status: StatusDeferred}
	}
	allowedQty := best.Quantity.Decimal.Mul(one.Add(e.cfg.QtyTolerance))
	if qty.GreaterThan(allowedQty) {
		return Outcome{
			Status: StatusFailed,
			Quote:  best,
			Remark: fmt.Sprintf("Quantity %s exceeds quote quantity %s with tolerance (%s allowed).",
				qty.String(), best.Quantity.Decimal.String(), allowedQty.String()),
			PriceUsed: priceUsed,
		}
	}

	return Outcome{
		Status:    StatusPassed,
		Quote:     best,
		Remark:    "All validations passed.",
		PriceUsed: priceUsed,
	}
}

// scoredCandidate pairs a qualified quote line with its description overlap
// count for ranking.
type scoredCandidate struct {
	quote   *models.QuoteLine
	overlap int
}

// selectCandidate applies the site, product and description filters and
// returns the qualified quote line with the highest description overlap.
// Ties keep the first-seen candidate.
func (e *Engine) selectCandidate(ili *models.InvoiceLine, candidates []*models.QuoteLine) *models.QuoteLine {
	var scored []scoredCandidate

	for _, q := range candidates {
		if q.SiteID != "" && ili.IBX != "" && !strings.EqualFold(q.SiteID, ili.IBX) {
			continue
		}

		productMatch := productCodesMatch(ili.ItemCode, q.ProductCode)
		descScore := textmatch.BestScore(ili.Description, q.ChargeDesc, q.ChangeDesc)

		// Description-only matching is allowed only when the product codes
		// cannot decisively agree or disagree.
		descOnly := descScore.Accepted && (ili.ItemCode == "" || q.ProductCode == "")
		if !productMatch && !descOnly {
			continue
		}

		scored = append(scored, scoredCandidate{quote: q, overlap: descScore.Overlap})
	}

	if len(scored) == 0 {
		return nil
	}

	best := scored[0]
	for _, c := range scored[1:] {
		if c.overlap > best.overlap {
			best = c
		}
	}
	return best.quote
}

// productCodesMatch reports whether either normalized item code contains the
// other. Both codes must be present.
func productCodesMatch(invoiceCode, quoteCode string) bool {
	if invoiceCode == "" || quoteCode == "" {
		return false
	}
	ni := textmatch.Normalize(invoiceCode)
	nq := textmatch.Normalize(quoteCode)
	if ni == "" || nq == "" {
		return false
	}
	return strings.Contains(ni, nq) || strings.Contains(nq, ni)
}
