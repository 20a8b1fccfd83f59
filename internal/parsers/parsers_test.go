package parsers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseBasic(t *testing.T) {
	input := `po_number,description,unit_price
PO-1,Cabinet Rental,100.00
PO-2,Smart Hands Support,55.50
`
	p := NewRecordParser(nil)
	recs, stats, err := p.Parse(strings.NewReader(input), "invoices.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0]["po_number"] != "PO-1" || recs[1]["unit_price"] != "55.50" {
		t.Errorf("records = %v", recs)
	}
	if stats.RowsRead != 2 || len(stats.RowErrors) != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestParseKeepsHeaderVerbatim(t *testing.T) {
	// Upstream invoice exports carry padded headers; they must survive so
	// the field resolver can match its spaced spelling variants.
	input := "po_number, UNIT_SELLING_PRICE \nPO-1,42\n"
	p := NewRecordParser(nil)
	recs, _, err := p.Parse(strings.NewReader(input), "invoices.csv")
	if err != nil {
		t.Fatal(err)
	}
	if recs[0][" UNIT_SELLING_PRICE "] != "42" {
		t.Errorf("padded header lost: %v", recs[0])
	}
}

func TestParseSkipsEmptyRows(t *testing.T) {
	input := "a,b\n1,2\n,\n3,4\n"
	p := NewRecordParser(nil)
	recs, stats, err := p.Parse(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d records, want 2", len(recs))
	}
	if stats.RowsSkipped != 1 {
		t.Errorf("RowsSkipped = %d, want 1", stats.RowsSkipped)
	}
}

func TestParseRaggedRows(t *testing.T) {
	// Short rows take the columns they have; long rows drop the excess.
	input := "a,b,c\n1,2\n1,2,3,4\n"
	p := NewRecordParser(nil)
	recs, _, err := p.Parse(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if _, ok := recs[0]["c"]; ok {
		t.Error("short row should not set missing columns")
	}
	if recs[1]["c"] != "3" {
		t.Errorf("long row lost a column: %v", recs[1])
	}
}

func TestParseDuplicateColumns(t *testing.T) {
	input := "po,amount,amount\nPO-1,10,20\n"
	p := NewRecordParser(nil)
	recs, _, err := p.Parse(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if recs[0]["amount"] != "10" {
		t.Errorf("duplicate column should keep the first value, got %q", recs[0]["amount"])
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := NewRecordParser(nil)
	if _, _, err := p.Parse(strings.NewReader(""), "empty.csv"); err == nil {
		t.Error("expected error for empty input")
	}
	if _, _, err := p.Parse(strings.NewReader(",,\n"), "blank.csv"); err == nil {
		t.Error("expected error for blank header")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quotes.csv")
	if err := os.WriteFile(path, []byte("po_number,Quantity\nPO-1,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewRecordParser(nil)
	recs, _, err := p.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(recs) != 1 || recs[0]["Quantity"] != "5" {
		t.Errorf("records = %v", recs)
	}

	if _, _, err := p.ParseFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
