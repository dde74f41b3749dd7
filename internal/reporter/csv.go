package reporter

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"

	"monocle-reconciliation-service/internal/reconciler"
)

// writeCSV emits the exception rows as one flat table. The record_type
// column distinguishes bank rows missing from the lender from ledger rows
// lacking proof or review; amounts are plain decimals for downstream use.
func (r *Reporter) writeCSV(w io.Writer, result *reconciler.Result) error {
	writer := csv.NewWriter(w)

	header := []string{"record_type", "date", "debit", "credit", "description", "match_status", "proof_of_payment"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range result.Match.MissingFromLender {
		row := []string{
			"missing_from_lender",
			rec.PostingDate.String(),
			nullDecimalField(rec.Debit),
			nullDecimalField(rec.Credit),
			rec.Details,
			"",
			"",
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	for _, rec := range result.NoPoPRecords {
		row := []string{
			"no_proof_of_payment",
			rec.CreatedAt.String(),
			nullDecimalField(rec.Debit),
			nullDecimalField(rec.Credit),
			rec.Description,
			rec.Matched,
			rec.ProofOfPayment,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	for _, rec := range result.NotCheckedRecords {
		row := []string{
			"not_checked",
			rec.CreatedAt.String(),
			nullDecimalField(rec.Debit),
			nullDecimalField(rec.Credit),
			rec.Description,
			rec.Matched,
			rec.ProofOfPayment,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func nullDecimalField(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
