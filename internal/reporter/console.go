package reporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"monocle-reconciliation-service/internal/models"
	"monocle-reconciliation-service/internal/reconciler"
)

// writeConsole renders the human-readable report: dataset summaries first,
// then each exception section only when it has rows.
func (r *Reporter) writeConsole(w io.Writer, result *reconciler.Result) error {
	if err := r.writeBankSummary(w, result); err != nil {
		return err
	}
	if err := r.writeLenderSummary(w, result); err != nil {
		return err
	}

	if len(result.NoPoPRecords) > 0 {
		if err := writeLine(w, "\nMissing proof of payment (%d entries, credit %s)",
			len(result.NoPoPRecords), r.formatter.Format(result.NoPoPCreditTotal)); err != nil {
			return err
		}
		if err := r.writeLenderTable(w, result.NoPoPRecords); err != nil {
			return err
		}
	}

	if len(result.NotCheckedRecords) > 0 {
		if err := writeLine(w, "\nUnchecked ledger entries (%d entries, credit %s)",
			len(result.NotCheckedRecords), r.formatter.Format(result.NotCheckedTotal)); err != nil {
			return err
		}
		if err := r.writeLenderTable(w, result.NotCheckedRecords); err != nil {
			return err
		}
	}

	if len(result.Match.MissingFromLender) > 0 {
		if err := writeLine(w, "\nBank records missing from lender (%d entries, debit %s)",
			len(result.Match.MissingFromLender), r.formatter.Format(result.MissingDebitTotal)); err != nil {
			return err
		}
		if err := r.writeBankTable(w, result.Match.MissingFromLender); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reporter) writeBankSummary(w io.Writer, result *reconciler.Result) error {
	if err := writeLine(w, "Bank statement: %s", result.BankFile); err != nil {
		return err
	}

	bs := result.BankStats
	lines := []string{
		fmt.Sprintf("  Records:       %d", bs.TotalRecords),
		fmt.Sprintf("  Date range:    %s to %s", bs.DateFromDisplay(), bs.DateToDisplay()),
		fmt.Sprintf("  Total debit:   %s", r.formatter.Format(bs.TotalDebit)),
		fmt.Sprintf("  Total credit:  %s", r.formatter.Format(bs.TotalCredit)),
	}
	for _, line := range lines {
		if err := writeLine(w, "%s", line); err != nil {
			return err
		}
	}

	if result.BankParseStats != nil && result.BankParseStats.DatePassthroughs > 0 {
		if err := writeLine(w, "  Unparsed dates: %d kept verbatim",
			result.BankParseStats.DatePassthroughs); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) writeLenderSummary(w io.Writer, result *reconciler.Result) error {
	if err := writeLine(w, "\nLender ledger: %s", result.LenderFile); err != nil {
		return err
	}

	ls := result.LenderStats
	lines := []string{
		fmt.Sprintf("  Records:       %d", ls.TotalRecords),
		fmt.Sprintf("  Matched:       %d", ls.MatchedCount),
		fmt.Sprintf("  Unmatched:     %d", ls.UnmatchedCount),
		fmt.Sprintf("  With proof:    %d", ls.WithProofCount),
		fmt.Sprintf("  Without proof: %d", ls.WithoutProofCount),
		fmt.Sprintf("  Total credit:  %s", r.formatter.Format(ls.TotalCredit)),
		fmt.Sprintf("  Total debit:   %s", r.formatter.Format(ls.TotalDebit)),
	}
	for _, line := range lines {
		if err := writeLine(w, "%s", line); err != nil {
			return err
		}
	}
	return nil
}

// writeBankTable lists bank records without the normalized key, which is
// an internal matching artifact.
func (r *Reporter) writeBankTable(w io.Writer, records []*models.BankRecord) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  Posting Date\tValue Date\tDebit\tCredit\tDetails")
	for _, rec := range records {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			rec.PostingDate, rec.ValueDate,
			r.formatter.FormatNull(rec.Debit), r.formatter.FormatNull(rec.Credit),
			rec.Details)
	}
	return tw.Flush()
}

func (r *Reporter) writeLenderTable(w io.Writer, records []*models.LenderRecord) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  Created At\tCredit\tDebit\tDescription\tStatus\tProof")
	for _, rec := range records {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt,
			r.formatter.FormatNull(rec.Credit), r.formatter.FormatNull(rec.Debit),
			rec.Description, rec.Matched, rec.ProofOfPayment)
	}
	return tw.Flush()
}
