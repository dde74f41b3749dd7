package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"monocle-reconciliation-service/internal/models"
)

// BankStats summarizes a parsed bank statement after filtering.
type BankStats struct {
	TotalRecords int `json:"total_records"`

	// DateFrom and DateTo span the posting dates. Rows whose posting
	// date failed to parse are excluded from the range; HasDateRange is
	// false when no row parsed.
	HasDateRange bool      `json:"has_date_range"`
	DateFrom     time.Time `json:"date_from,omitempty"`
	DateTo       time.Time `json:"date_to,omitempty"`

	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// ComputeBankStats derives summary statistics from bank records.
func ComputeBankStats(records []*models.BankRecord) *BankStats {
	bs := &BankStats{TotalRecords: len(records)}

	for _, r := range records {
		if r.Debit.Valid {
			bs.TotalDebit = bs.TotalDebit.Add(r.Debit.Decimal)
		}
		if r.Credit.Valid {
			bs.TotalCredit = bs.TotalCredit.Add(r.Credit.Decimal)
		}

		if !r.PostingDate.Parsed {
			continue
		}
		if !bs.HasDateRange {
			bs.HasDateRange = true
			bs.DateFrom = r.PostingDate.Time
			bs.DateTo = r.PostingDate.Time
			continue
		}
		if r.PostingDate.Time.Before(bs.DateFrom) {
			bs.DateFrom = r.PostingDate.Time
		}
		if r.PostingDate.Time.After(bs.DateTo) {
			bs.DateTo = r.PostingDate.Time
		}
	}

	return bs
}

// DateFromDisplay renders the range start as dd.mm.yyyy.
func (bs *BankStats) DateFromDisplay() string {
	if !bs.HasDateRange {
		return "n/a"
	}
	return bs.DateFrom.Format(models.DisplayDateFormat)
}

// DateToDisplay renders the range end as dd.mm.yyyy.
func (bs *BankStats) DateToDisplay() string {
	if !bs.HasDateRange {
		return "n/a"
	}
	return bs.DateTo.Format(models.DisplayDateFormat)
}

// LenderStats summarizes a lender ledger after default fill.
type LenderStats struct {
	TotalRecords int `json:"total_records"`

	MatchedCount   int `json:"matched_count"`
	UnmatchedCount int `json:"unmatched_count"`

	WithProofCount    int `json:"with_proof_count"`
	WithoutProofCount int `json:"without_proof_count"`

	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
}

// ComputeLenderStats derives summary statistics from lender records. It
// expects the match status and proof of payment defaults to already be
// applied; call models.ApplyLenderDefaults first.
func ComputeLenderStats(records []*models.LenderRecord) *LenderStats {
	ls := &LenderStats{TotalRecords: len(records)}

	for _, r := range records {
		if r.IsMatched() {
			ls.MatchedCount++
		}
		if r.IsNotChecked() {
			ls.UnmatchedCount++
		}
		if r.HasProofOfPayment() {
			ls.WithProofCount++
		} else {
			ls.WithoutProofCount++
		}

		if r.Credit.Valid {
			ls.TotalCredit = ls.TotalCredit.Add(r.Credit.Decimal)
		}
		if r.Debit.Valid {
			ls.TotalDebit = ls.TotalDebit.Add(r.Debit.Decimal)
		}
	}

	return ls
}

// SumCredits totals the valid credit amounts of the given lender records.
func SumCredits(records []*models.LenderRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Credit.Valid {
			total = total.Add(r.Credit.Decimal)
		}
	}
	return total
}

// SumDebits totals the valid debit amounts of the given bank records.
func SumDebits(records []*models.BankRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Debit.Valid {
			total = total.Add(r.Debit.Decimal)
		}
	}
	return total
}
