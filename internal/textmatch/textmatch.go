// Package textmatch provides word-overlap scoring for free-text charge
// descriptions.
//
// Contract wording and invoice wording rarely agree verbatim: abbreviations,
// pluralization and punctuation drift are common. The matcher normalizes both
// sides into lowercase alphanumeric word sequences and accepts a candidate
// when all but one of its words appear in the reference ((n-1)-of-n rule).
package textmatch

import "strings"

// Words splits text into lowercase alphanumeric tokens. Any run of
// non-alphanumeric characters acts as a separator, so "item-code" and
// "item code" produce the same words. Empty tokens are dropped.
func Words(text string) []string {
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(text)
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

// Normalize strips all non-alphanumeric characters and lowercases the rest,
// collapsing "XC-100" and "xc 100" to the same comparable form.
func Normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Result holds the outcome of scoring one candidate text against a reference.
type Result struct {
	Accepted bool
	Overlap  int
}

// Score compares candidate against reference word sets. With n candidate
// words, acceptance requires at least n-1 of them to be present in the
// reference (set membership, not positional). An empty candidate is accepted
// with overlap zero.
func Score(candidate, reference string) Result {
	candidateWords := Words(candidate)
	n := len(candidateWords)
	if n == 0 {
		return Result{Accepted: true}
	}

	refSet := make(map[string]struct{}, len(reference))
	for _, w := range Words(reference) {
		refSet[w] = struct{}{}
	}

	overlap := 0
	for _, w := range candidateWords {
		if _, ok := refSet[w]; ok {
			overlap++
		}
	}

	return Result{Accepted: overlap >= n-1, Overlap: overlap}
}

// BestScore evaluates each candidate description variant independently against
// the reference and keeps the accepted one with the highest overlap. Empty
// candidates are ignored, so a record with only one description variant filled
// in scores on that variant alone. When no non-empty candidate is accepted the
// result is not accepted.
func BestScore(reference string, candidates ...string) Result {
	best := Result{}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		r := Score(c, reference)
		if r.Accepted && (!best.Accepted || r.Overlap >= best.Overlap) {
			best = r
		}
	}
	return best
}
