package matching

import "invoice-reconciliation-service/internal/models"

// QuoteIndex groups quote lines by normalized PO number for fast candidate
// lookup. It is built once per run and read-only afterwards.
type QuoteIndex struct {
	byPO map[string][]*models.QuoteLine

	// AllQuotes holds every indexed quote line, including lines without a
	// PO number (which are never candidates).
	AllQuotes []*models.QuoteLine
}

// NewQuoteIndex builds a PO index over the given quote lines. Lines without a
// PO number are kept in AllQuotes but not indexed.
func NewQuoteIndex(quotes []*models.QuoteLine) *QuoteIndex {
	idx := &QuoteIndex{
		byPO:      make(map[string][]*models.QuoteLine),
		AllQuotes: quotes,
	}

	for _, q := range quotes {
		key := q.POKey()
		if key == "" {
			continue
		}
		idx.byPO[key] = append(idx.byPO[key], q)
	}

	return idx
}

// ForPO returns the quote lines sharing the given PO number, matched
// case-insensitively and ignoring surrounding whitespace. The returned slice
// preserves input order; a missing PO yields nil.
func (idx *QuoteIndex) ForPO(po string) []*models.QuoteLine {
	key := models.NormalizePO(po)
	if key == "" {
		return nil
	}
	return idx.byPO[key]
}

// Stats summarizes the index contents.
type Stats struct {
	TotalQuotes int
	UniquePOs   int
}

// GetStats returns statistics about the indexed quote lines.
func (idx *QuoteIndex) GetStats() Stats {
	return Stats{
		TotalQuotes: len(idx.AllQuotes),
		UniquePOs:   len(idx.byPO),
	}
}
