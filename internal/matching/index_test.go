package matching

import (
	"testing"

	"invoice-reconciliation-service/internal/models"
)

func TestQuoteIndex(t *testing.T) {
	quotes := []*models.QuoteLine{
		{PONumber: "PO-100", SiteID: "SV5"},
		{PONumber: "po-100 ", SiteID: "SV1"},
		{PONumber: "PO-200"},
		{PONumber: ""},
	}

	idx := NewQuoteIndex(quotes)

	if got := idx.ForPO("PO-100"); len(got) != 2 {
		t.Fatalf("ForPO(PO-100) returned %d lines, want 2", len(got))
	}

	// Case-insensitive, trimmed lookup.
	if got := idx.ForPO("  po-100"); len(got) != 2 {
		t.Errorf("normalized lookup returned %d lines, want 2", len(got))
	}

	// Input order preserved.
	got := idx.ForPO("PO-100")
	if got[0].SiteID != "SV5" || got[1].SiteID != "SV1" {
		t.Error("expected quote lines in input order")
	}

	if got := idx.ForPO("PO-999"); got != nil {
		t.Errorf("unknown PO returned %v, want nil", got)
	}
	if got := idx.ForPO(""); got != nil {
		t.Errorf("empty PO returned %v, want nil", got)
	}

	stats := idx.GetStats()
	if stats.TotalQuotes != 4 || stats.UniquePOs != 2 {
		t.Errorf("stats = %+v, want 4 quotes over 2 POs", stats)
	}
}
