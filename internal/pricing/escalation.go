// Package pricing computes time-based price escalation for quote lines and
// prorated billing-period factors.
//
// A quote's unit price escalates over the contract lifetime: the base price
// holds through the initial term, rises once by the initial escalation for the
// first renewal term, then compounds by the subsequent escalation once per
// completed renewal period. Term boundaries use calendar month arithmetic;
// the completed-period count past the first renewal uses a fixed 30.44-day
// average month. The mix can disagree by one period around irregular month
// lengths and is kept deliberately for compatibility with the upstream
// contract system.
package pricing

import (
	"time"

	"invoice-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

const defaultTermMonths = 12

// avgDaysPerMonth is the fixed average month length used only for counting
// completed renewal periods.
const avgDaysPerMonth = 30.44

var one = decimal.NewFromInt(1)

// CurrentUnitPrice returns the quote line's currently applicable unit price
// (CUP) as of the given date. The ok result is false when the base unit price
// is absent or non-positive, in which case no price can be determined. A quote
// without a service start date returns the base price unescalated.
func CurrentUnitPrice(q *models.QuoteLine, asOf time.Time) (decimal.Decimal, bool) {
	if !q.UnitPrice.Valid || !q.UnitPrice.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	base := q.UnitPrice.Decimal

	if !q.HasStart {
		return base, true
	}

	initialMonths := termMonths(q.InitialTermMonths)
	renewalMonths := termMonths(q.RenewalTermMonths)

	endInitial := q.ServiceStart.AddDate(0, initialMonths, 0)
	endFirstRenewal := endInitial.AddDate(0, renewalMonths, 0)

	if asOf.Before(endInitial) {
		return base, true
	}

	escalated := base.Mul(one.Add(q.InitialEscalation))
	if asOf.Before(endFirstRenewal) {
		return escalated, true
	}

	periods := completedRenewalPeriods(endInitial, asOf, renewalMonths)
	compound := one.Add(q.SubsequentEscalation).Pow(decimal.NewFromInt(periods))
	return escalated.Mul(compound), true
}

// completedRenewalPeriods counts whole renewal periods elapsed since the end
// of the initial term, each period approximated as renewalMonths * 30.44 days.
func completedRenewalPeriods(endInitial, asOf time.Time, renewalMonths int) int64 {
	period := time.Duration(float64(renewalMonths) * avgDaysPerMonth * 24 * float64(time.Hour))
	if period <= 0 {
		return 0
	}
	elapsed := asOf.Sub(endInitial)
	if elapsed <= 0 {
		return 0
	}
	return int64(elapsed / period)
}

func termMonths(d decimal.NullDecimal) int {
	if !d.Valid || !d.Decimal.IsPositive() {
		return defaultTermMonths
	}
	return int(d.Decimal.IntPart())
}

// ProrationFactor returns the fraction of the billing-from month covered by
// the billing window: (till - from + 1 day) / days in from's month, clamped
// to [0, 1]. When either date is missing the full month factor 1 applies.
func ProrationFactor(from, till time.Time, haveFrom, haveTill bool) decimal.Decimal {
	if !haveFrom || !haveTill {
		return one
	}

	days := till.Sub(from).Hours() / 24
	if days < 0 {
		days = 0
	}
	days++

	daysInMonth := time.Date(from.Year(), from.Month()+1, 0, 0, 0, 0, 0, from.Location()).Day()
	factor := decimal.NewFromFloat(days).Div(decimal.NewFromInt(int64(daysInMonth)))
	if factor.GreaterThan(one) {
		return one
	}
	return factor
}
