package reporter

import (
	"encoding/json"
	"io"

	"monocle-reconciliation-service/internal/models"
	"monocle-reconciliation-service/internal/reconciler"
)

// jsonReport is the machine-readable shape of a run. Amount totals are
// emitted both as plain decimals and as display strings.
type jsonReport struct {
	BankFile   string `json:"bank_file"`
	LenderFile string `json:"lender_file"`

	Bank struct {
		Records          int    `json:"records"`
		DateFrom         string `json:"date_from,omitempty"`
		DateTo           string `json:"date_to,omitempty"`
		TotalDebit       string `json:"total_debit"`
		TotalCredit      string `json:"total_credit"`
		DatePassthroughs int    `json:"date_passthroughs"`
	} `json:"bank"`

	Lender struct {
		Records      int    `json:"records"`
		Matched      int    `json:"matched"`
		Unmatched    int    `json:"unmatched"`
		WithProof    int    `json:"with_proof"`
		WithoutProof int    `json:"without_proof"`
		TotalCredit  string `json:"total_credit"`
		TotalDebit   string `json:"total_debit"`
	} `json:"lender"`

	Matching struct {
		MatchingRecords   int    `json:"matching_records"`
		MissingFromLender int    `json:"missing_from_lender"`
		MissingDebitTotal string `json:"missing_debit_total"`
	} `json:"matching"`

	Exceptions struct {
		NoProofCount     int    `json:"no_proof_count"`
		NoProofCredit    string `json:"no_proof_credit"`
		NotCheckedCount  int    `json:"not_checked_count"`
		NotCheckedCredit string `json:"not_checked_credit"`
	} `json:"exceptions"`

	MissingFromLender []*models.BankRecord   `json:"missing_from_lender"`
	NoProofRecords    []*models.LenderRecord `json:"no_proof_records"`
	NotCheckedRecords []*models.LenderRecord `json:"not_checked_records"`
}

func (r *Reporter) writeJSON(w io.Writer, result *reconciler.Result) error {
	report := &jsonReport{
		BankFile:   result.BankFile,
		LenderFile: result.LenderFile,
	}

	report.Bank.Records = result.BankStats.TotalRecords
	if result.BankStats.HasDateRange {
		report.Bank.DateFrom = result.BankStats.DateFromDisplay()
		report.Bank.DateTo = result.BankStats.DateToDisplay()
	}
	report.Bank.TotalDebit = r.formatter.Format(result.BankStats.TotalDebit)
	report.Bank.TotalCredit = r.formatter.Format(result.BankStats.TotalCredit)
	if result.BankParseStats != nil {
		report.Bank.DatePassthroughs = result.BankParseStats.DatePassthroughs
	}

	report.Lender.Records = result.LenderStats.TotalRecords
	report.Lender.Matched = result.LenderStats.MatchedCount
	report.Lender.Unmatched = result.LenderStats.UnmatchedCount
	report.Lender.WithProof = result.LenderStats.WithProofCount
	report.Lender.WithoutProof = result.LenderStats.WithoutProofCount
	report.Lender.TotalCredit = r.formatter.Format(result.LenderStats.TotalCredit)
	report.Lender.TotalDebit = r.formatter.Format(result.LenderStats.TotalDebit)

	report.Matching.MatchingRecords = len(result.Match.MatchingRecords)
	report.Matching.MissingFromLender = len(result.Match.MissingFromLender)
	report.Matching.MissingDebitTotal = r.formatter.Format(result.MissingDebitTotal)

	report.Exceptions.NoProofCount = len(result.NoPoPRecords)
	report.Exceptions.NoProofCredit = r.formatter.Format(result.NoPoPCreditTotal)
	report.Exceptions.NotCheckedCount = len(result.NotCheckedRecords)
	report.Exceptions.NotCheckedCredit = r.formatter.Format(result.NotCheckedTotal)

	report.MissingFromLender = result.Match.MissingFromLender
	report.NoProofRecords = result.NoPoPRecords
	report.NotCheckedRecords = result.NotCheckedRecords

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
