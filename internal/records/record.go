// Package records provides the loosely-typed record abstraction shared by all
// engine inputs, together with a tolerant field resolver.
//
// Invoice, quote and rate-card data arrive from many upstream sources that do
// not agree on column names ("po_number", "PO Number", "PO_NUMBER", ...). The
// resolver probes an ordered list of accepted spellings and coerces values to
// strings, decimals or dates. Every lookup degrades gracefully: a missing or
// unparseable value yields an empty string, an invalid decimal.NullDecimal or
// a false ok flag, never an error. Variant lists are kept as data so adding a
// new spelling never touches engine logic.
package records

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single loosely-typed input row: raw column name to raw value.
type Record map[string]string

// Resolve returns the first non-empty, trimmed value found by probing the
// variant names in order. Exact keys are tried first; if none hit, a
// case-insensitive scan over the record's keys is used as a fallback.
// Returns "" when no variant resolves.
func Resolve(rec Record, variants []string) string {
	if rec == nil {
		return ""
	}

	for _, name := range variants {
		if v, ok := rec[name]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}

	for _, name := range variants {
		lower := strings.ToLower(name)
		for key, v := range rec {
			if strings.ToLower(key) != lower {
				continue
			}
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}

	return ""
}

// ResolveNumeric resolves a field and parses it as a decimal amount. Currency
// symbols and thousand separators are stripped before parsing. The result is
// invalid when the field is absent or unparseable.
func ResolveNumeric(rec Record, variants []string) decimal.NullDecimal {
	s := Resolve(rec, variants)
	if s == "" {
		return decimal.NullDecimal{}
	}
	return ParseAmount(s)
}

// ResolveDate resolves a field and parses it with calendar-date semantics.
// The ok result is false when the field is absent or no known format matches.
func ResolveDate(rec Record, variants []string) (time.Time, bool) {
	s := Resolve(rec, variants)
	if s == "" {
		return time.Time{}, false
	}
	return ParseDate(s)
}

// ParseAmount parses a decimal value from a raw cell, tolerating currency
// symbols and comma separators. Invalid input yields an invalid NullDecimal.
func ParseAmount(s string) decimal.NullDecimal {
	cleaned := strings.NewReplacer("$", "", ",", "", "€", "", "£", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// dateFormats lists the calendar formats seen across invoice and rate-card
// exports, tried in order.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate attempts the known date formats in order and reports whether any
// of them matched.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
