package stats

import (
	"testing"

	"github.com/shopspring/decimal"

	"monocle-reconciliation-service/internal/models"
)

func TestCurrencyFormatter_Format(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "TSh 0.00"},
		{"no grouping", "999.9", "TSh 999.90"},
		{"single group", "1234.5", "TSh 1,234.50"},
		{"two groups", "1234567.89", "TSh 1,234,567.89"},
		{"exact thousand", "1000", "TSh 1,000.00"},
		{"negative", "-1234.5", "TSh -1,234.50"},
		{"rounds to two places", "10.005", "TSh 10.01"},
	}

	formatter := NewCurrencyFormatter("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatalf("bad amount %q: %v", tt.amount, err)
			}
			if got := formatter.Format(amount); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestCurrencyFormatter_CustomCode(t *testing.T) {
	formatter := NewCurrencyFormatter("KES")
	got := formatter.Format(decimal.NewFromInt(5000))
	if got != "KES 5,000.00" {
		t.Errorf("Format = %q, want %q", got, "KES 5,000.00")
	}
}

func TestCurrencyFormatter_FormatNull(t *testing.T) {
	formatter := NewCurrencyFormatter("")
	if got := formatter.FormatNull(decimal.NullDecimal{}); got != "TSh 0.00" {
		t.Errorf("FormatNull(null) = %q, want %q", got, "TSh 0.00")
	}
}

func bankRecord(postingDate, debit, credit, details string) *models.BankRecord {
	return models.NewBankRecord(postingDate, postingDate, debit, credit, details)
}

func TestComputeBankStats(t *testing.T) {
	records := []*models.BankRecord{
		bankRecord("05.01.2024 10:00:00", "500.00", "0", "ramani a"),
		bankRecord("02.01.2024 09:00:00", "250.50", "0", "ramani b"),
		bankRecord("garbage date", "100.00", "0", "ramani c"),
		bankRecord("09.01.2024 12:00:00", "", "0", "ramani d"),
	}

	bs := ComputeBankStats(records)

	if bs.TotalRecords != 4 {
		t.Errorf("expected 4 records, got %d", bs.TotalRecords)
	}
	if !bs.TotalDebit.Equal(decimal.RequireFromString("850.50")) {
		t.Errorf("expected total debit 850.50, got %s", bs.TotalDebit)
	}
	if !bs.TotalCredit.IsZero() {
		t.Errorf("expected zero total credit, got %s", bs.TotalCredit)
	}

	// The unparseable posting date must not shift the range.
	if !bs.HasDateRange {
		t.Fatal("expected a date range")
	}
	if got := bs.DateFromDisplay(); got != "02.01.2024" {
		t.Errorf("expected range start 02.01.2024, got %q", got)
	}
	if got := bs.DateToDisplay(); got != "09.01.2024" {
		t.Errorf("expected range end 09.01.2024, got %q", got)
	}
}

func TestComputeBankStats_NoParsedDates(t *testing.T) {
	records := []*models.BankRecord{
		bankRecord("not a date", "100.00", "0", "ramani a"),
	}

	bs := ComputeBankStats(records)
	if bs.HasDateRange {
		t.Error("expected no date range when nothing parsed")
	}
	if got := bs.DateFromDisplay(); got != "n/a" {
		t.Errorf("expected n/a, got %q", got)
	}
}

func lenderRecord(credit, matched, pop string) *models.LenderRecord {
	return models.NewLenderRecord("02.01.2024 10:00:00", credit, "", "RAMANI PAYMENT", matched, pop)
}

func TestComputeLenderStats(t *testing.T) {
	records := []*models.LenderRecord{
		lenderRecord("500.00", "checked", "receipt-1.pdf"),
		lenderRecord("250.00", "Not Checked", "No PoP Provided"),
		lenderRecord("bad", "Not Checked", "receipt-2.pdf"),
	}

	ls := ComputeLenderStats(records)

	if ls.TotalRecords != 3 {
		t.Errorf("expected 3 records, got %d", ls.TotalRecords)
	}
	if ls.MatchedCount != 1 {
		t.Errorf("expected 1 matched, got %d", ls.MatchedCount)
	}
	if ls.UnmatchedCount != 2 {
		t.Errorf("expected 2 unmatched, got %d", ls.UnmatchedCount)
	}
	if ls.WithProofCount != 2 {
		t.Errorf("expected 2 with proof, got %d", ls.WithProofCount)
	}
	if ls.WithoutProofCount != 1 {
		t.Errorf("expected 1 without proof, got %d", ls.WithoutProofCount)
	}
	// The unparseable credit contributes nothing to the total.
	if !ls.TotalCredit.Equal(decimal.NewFromInt(750)) {
		t.Errorf("expected total credit 750, got %s", ls.TotalCredit)
	}
}

func TestComputeLenderStats_NoMatchColumnDefaults(t *testing.T) {
	// When the export has no match status column every row is default
	// filled to the not-checked sentinel.
	records := []*models.LenderRecord{
		lenderRecord("100.00", "", ""),
		lenderRecord("200.00", "", ""),
	}
	models.ApplyLenderDefaults(records)

	ls := ComputeLenderStats(records)
	if ls.MatchedCount != 0 {
		t.Errorf("expected 0 matched, got %d", ls.MatchedCount)
	}
	if ls.UnmatchedCount != ls.TotalRecords {
		t.Errorf("expected all %d records unmatched, got %d", ls.TotalRecords, ls.UnmatchedCount)
	}
	if ls.WithoutProofCount != ls.TotalRecords {
		t.Errorf("expected all %d records without proof, got %d", ls.TotalRecords, ls.WithoutProofCount)
	}
}

func TestSumHelpers(t *testing.T) {
	lenders := []*models.LenderRecord{
		lenderRecord("100.00", "", ""),
		lenderRecord("", "", ""),
		lenderRecord("50.25", "", ""),
	}
	if got := SumCredits(lenders); !got.Equal(decimal.RequireFromString("150.25")) {
		t.Errorf("SumCredits = %s, want 150.25", got)
	}

	banks := []*models.BankRecord{
		bankRecord("02.01.2024 10:00:00", "10.00", "0", "a"),
		bankRecord("02.01.2024 10:00:00", "", "0", "b"),
		bankRecord("02.01.2024 10:00:00", "5.50", "0", "c"),
	}
	if got := SumDebits(banks); !got.Equal(decimal.RequireFromString("15.50")) {
		t.Errorf("SumDebits = %s, want 15.50", got)
	}
}
