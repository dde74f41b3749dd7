// Package models defines the record types shared by the reconciliation
// pipeline: bank statement rows, lender ledger rows, and the normalized
// values derived from them (dates, nullable amounts, and the description
// key used for matching).
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Sentinel values for the lender-side status columns. The exact strings are
// a data contract with the upstream ledger export and must not be changed.
const (
	// MatchChecked marks a ledger row already reconciled upstream.
	MatchChecked = "checked"
	// MatchNotChecked marks a ledger row not yet reconciled.
	MatchNotChecked = "Not Checked"
	// PoPNotProvided marks a ledger row with no proof-of-payment evidence.
	PoPNotProvided = "No PoP Provided"
)

// NormalizeDescription derives the join key from a free-text description:
// lower-cased with every non-alphanumeric rune removed.
func NormalizeDescription(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DateValue holds the result of the cascading date parse. When parsing
// succeeds the value carries a time.Time and renders as DD.MM.YYYY; when
// every attempt fails the original string is passed through unchanged.
type DateValue struct {
	Raw    string
	Time   time.Time
	Parsed bool
}

// DisplayDateFormat is the canonical normalized date rendering.
const DisplayDateFormat = "02.01.2006"

// primaryDateFormat is the expected bank export format, with time-of-day.
const primaryDateFormat = "02.01.2006 15:04:05"

// dayFirstFormats are the permissive fallback layouts, tried in order.
// Day-first layouts come before ISO ones so ambiguous dates resolve the
// way the bank writes them.
var dayFirstFormats = []string{
	"02.01.2006",
	"02.01.2006 15:04",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate runs the cascading parse: primary format, then the permissive
// day-first layouts, then pass-through of the original string. It never
// fails; callers can detect pass-through via Parsed.
func ParseDate(s string) DateValue {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return DateValue{Raw: s}
	}

	if t, err := time.Parse(primaryDateFormat, trimmed); err == nil {
		return DateValue{Raw: s, Time: t, Parsed: true}
	}

	for _, layout := range dayFirstFormats {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return DateValue{Raw: s, Time: t, Parsed: true}
		}
	}

	return DateValue{Raw: s}
}

// String renders the normalized DD.MM.YYYY form, or the raw input when the
// date never parsed.
func (d DateValue) String() string {
	if d.Parsed {
		return d.Time.Format(DisplayDateFormat)
	}
	return d.Raw
}

// Before reports whether d sorts before other. Pass-through values sort
// after every parsed value so they never win a min comparison.
func (d DateValue) Before(other DateValue) bool {
	if !d.Parsed {
		return false
	}
	if !other.Parsed {
		return true
	}
	return d.Time.Before(other.Time)
}

// MarshalJSON renders the normalized string form.
func (d DateValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// CoerceDecimal converts a raw amount string to a nullable decimal. Thousands
// separators are stripped first. Invalid or empty input coerces to null
// rather than an error; downstream sums skip null values.
func CoerceDecimal(s string) decimal.NullDecimal {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// BankRecord is one normalized row of the bank statement export. Records are
// immutable after normalization and discarded at the end of the run.
type BankRecord struct {
	PostingDate           DateValue           `json:"posting_date"`
	ValueDate             DateValue           `json:"value_date"`
	Debit                 decimal.NullDecimal `json:"debit"`
	Credit                decimal.NullDecimal `json:"credit"`
	Details               string              `json:"details"`
	NormalizedDescription string              `json:"normalized_description"`
}

// NewBankRecord builds a BankRecord from raw field values, deriving the
// normalized description key.
func NewBankRecord(postingDate, valueDate, debit, credit, details string) *BankRecord {
	return &BankRecord{
		PostingDate:           ParseDate(postingDate),
		ValueDate:             ParseDate(valueDate),
		Debit:                 CoerceDecimal(debit),
		Credit:                CoerceDecimal(credit),
		Details:               details,
		NormalizedDescription: NormalizeDescription(details),
	}
}

// MatchesCounterparty reports whether the normalized description contains
// the counterparty marker.
func (br *BankRecord) MatchesCounterparty(marker string) bool {
	return strings.Contains(br.NormalizedDescription, marker)
}

// IsZeroCredit reports whether the credit amount is present and exactly
// zero. Null credit does not count as zero.
func (br *BankRecord) IsZeroCredit() bool {
	return br.Credit.Valid && br.Credit.Decimal.IsZero()
}

// String returns a short representation for logging.
func (br *BankRecord) String() string {
	return fmt.Sprintf("BankRecord{Posting: %s, Debit: %s, Key: %s}",
		br.PostingDate, nullDecimalString(br.Debit), br.NormalizedDescription)
}

// LenderRecord is one normalized row of the lending-partner payment ledger.
type LenderRecord struct {
	CreatedAt             DateValue           `json:"created_at"`
	Credit                decimal.NullDecimal `json:"credit"`
	Debit                 decimal.NullDecimal `json:"debit"`
	Description           string              `json:"description"`
	NormalizedDescription string              `json:"normalized_description"`

	// Matched and ProofOfPayment are free-form upstream values compared
	// against the sentinel constants. Empty values are filled with the
	// sentinels by ApplyLenderDefaults before any statistics run.
	Matched        string `json:"ismatched"`
	ProofOfPayment string `json:"pop"`
}

// NewLenderRecord builds a LenderRecord from raw field values, deriving the
// normalized description key.
func NewLenderRecord(createdAt, credit, debit, description, matched, pop string) *LenderRecord {
	return &LenderRecord{
		CreatedAt:             ParseDate(createdAt),
		Credit:                CoerceDecimal(credit),
		Debit:                 CoerceDecimal(debit),
		Description:           description,
		NormalizedDescription: NormalizeDescription(description),
		Matched:               strings.TrimSpace(matched),
		ProofOfPayment:        strings.TrimSpace(pop),
	}
}

// IsMatched reports whether the row was reconciled upstream.
func (lr *LenderRecord) IsMatched() bool {
	return lr.Matched == MatchChecked
}

// IsNotChecked reports whether the row carries the not-checked sentinel.
func (lr *LenderRecord) IsNotChecked() bool {
	return lr.Matched == MatchNotChecked
}

// HasProofOfPayment reports whether any proof-of-payment evidence is
// attached, i.e. the value differs from the sentinel.
func (lr *LenderRecord) HasProofOfPayment() bool {
	return lr.ProofOfPayment != PoPNotProvided
}

// String returns a short representation for logging.
func (lr *LenderRecord) String() string {
	return fmt.Sprintf("LenderRecord{Created: %s, Credit: %s, Key: %s}",
		lr.CreatedAt, nullDecimalString(lr.Credit), lr.NormalizedDescription)
}

// ApplyLenderDefaults fills empty match-status and proof-of-payment values
// with their sentinels. This runs after parsing so that files missing the
// optional columns behave as if every value were unset.
func ApplyLenderDefaults(records []*LenderRecord) {
	for _, r := range records {
		if r.Matched == "" {
			r.Matched = MatchNotChecked
		}
		if r.ProofOfPayment == "" {
			r.ProofOfPayment = PoPNotProvided
		}
	}
}

func nullDecimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return "null"
	}
	return d.Decimal.String()
}
