package matcher

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"monocle-reconciliation-service/internal/models"
	"monocle-reconciliation-service/pkg/errors"
)

// Lender ledger columns available for ad hoc filtering.
const (
	ColumnCreatedAt   = "created_at"
	ColumnCredit      = "credit"
	ColumnDebit       = "debit"
	ColumnDescription = "description"
	ColumnMatched     = "ismatched"
	ColumnPoP         = "POP"
)

// FilterableColumns lists the lender columns FilterLenderRecords accepts.
func FilterableColumns() []string {
	return []string{
		ColumnCreatedAt,
		ColumnCredit,
		ColumnDebit,
		ColumnDescription,
		ColumnMatched,
		ColumnPoP,
	}
}

// FilterLenderRecords returns the lender records whose column equals
// value, compared in the column's native type. Amount columns require the
// value to parse as a decimal; rows with null amounts never match. String
// columns compare exactly, including sentinel strings. Input order is
// preserved.
func FilterLenderRecords(records []*models.LenderRecord, column, value string) ([]*models.LenderRecord, error) {
	pred, err := columnPredicate(column, value)
	if err != nil {
		return nil, err
	}

	var filtered []*models.LenderRecord
	for _, r := range records {
		if pred(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func columnPredicate(column, value string) (func(*models.LenderRecord) bool, error) {
	switch {
	case strings.EqualFold(column, ColumnCreatedAt):
		return func(r *models.LenderRecord) bool {
			return r.CreatedAt.String() == value || r.CreatedAt.Raw == value
		}, nil

	case strings.EqualFold(column, ColumnCredit):
		target, err := parseAmountValue(column, value)
		if err != nil {
			return nil, err
		}
		return func(r *models.LenderRecord) bool {
			return r.Credit.Valid && r.Credit.Decimal.Equal(target)
		}, nil

	case strings.EqualFold(column, ColumnDebit):
		target, err := parseAmountValue(column, value)
		if err != nil {
			return nil, err
		}
		return func(r *models.LenderRecord) bool {
			return r.Debit.Valid && r.Debit.Decimal.Equal(target)
		}, nil

	case strings.EqualFold(column, ColumnDescription):
		return func(r *models.LenderRecord) bool {
			return r.Description == value
		}, nil

	case strings.EqualFold(column, ColumnMatched):
		return func(r *models.LenderRecord) bool {
			return r.Matched == value
		}, nil

	case strings.EqualFold(column, ColumnPoP):
		return func(r *models.LenderRecord) bool {
			return r.ProofOfPayment == value
		}, nil

	default:
		return nil, errors.ValidationError(errors.CodeUnknownColumn, column, value, nil).
			WithContext("available_columns", FilterableColumns()).
			WithSuggestion(fmt.Sprintf("use one of: %s", strings.Join(FilterableColumns(), ", ")))
	}
}

func parseAmountValue(column, value string) (decimal.Decimal, error) {
	target, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", ""))
	if err != nil {
		return decimal.Zero, errors.ValidationError(errors.CodeTypeMismatch, column, value, err)
	}
	return target, nil
}
