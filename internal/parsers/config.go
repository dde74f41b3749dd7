package parsers

import (
	"fmt"
	"strings"
)

// DefaultChunkSize bounds how many bank rows are normalized per chunk,
// keeping peak memory flat on large exports. Chunk order is preserved.
const DefaultChunkSize = 10000

// BankParserConfig holds configuration for parsing bank statement CSV files.
type BankParserConfig struct {
	PostingDateColumn string `json:"posting_date_column"`
	ValueDateColumn   string `json:"value_date_column"`
	DebitColumn       string `json:"debit_column"`
	CreditColumn      string `json:"credit_column"`
	DetailsColumn     string `json:"details_column"`

	// CounterpartyMarker filters normalized descriptions down to the
	// lending partner in scope. Compared against the normalized key, so
	// only its lower-cased alphanumeric form matters.
	CounterpartyMarker string `json:"counterparty_marker"`

	ChunkSize int  `json:"chunk_size"`
	HasHeader bool `json:"has_header"`
	Delimiter rune `json:"delimiter"`
}

// DefaultBankParserConfig returns the standard bank export schema with the
// historical counterparty marker.
func DefaultBankParserConfig() *BankParserConfig {
	return &BankParserConfig{
		PostingDateColumn:  "Posting Date",
		ValueDateColumn:    "Value Date",
		DebitColumn:        "Debit",
		CreditColumn:       "Credit",
		DetailsColumn:      "Details",
		CounterpartyMarker: "ramani",
		ChunkSize:          DefaultChunkSize,
		HasHeader:          true,
		Delimiter:          ',',
	}
}

// Validate checks if the bank parser configuration is valid.
func (bc *BankParserConfig) Validate() error {
	for name, value := range map[string]string{
		"posting date column": bc.PostingDateColumn,
		"value date column":   bc.ValueDateColumn,
		"debit column":        bc.DebitColumn,
		"credit column":       bc.CreditColumn,
		"details column":      bc.DetailsColumn,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}

	if strings.TrimSpace(bc.CounterpartyMarker) == "" {
		return fmt.Errorf("counterparty marker cannot be empty")
	}

	if bc.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", bc.ChunkSize)
	}

	return nil
}

// RequiredHeaders returns the headers the bank schema demands.
func (bc *BankParserConfig) RequiredHeaders() []string {
	return []string{
		bc.PostingDateColumn,
		bc.ValueDateColumn,
		bc.DebitColumn,
		bc.CreditColumn,
		bc.DetailsColumn,
	}
}

// LenderParserConfig holds configuration for parsing lender ledger CSV files.
type LenderParserConfig struct {
	CreatedAtColumn   string `json:"created_at_column"`
	CreditColumn      string `json:"credit_column"`
	DebitColumn       string `json:"debit_column"`
	DescriptionColumn string `json:"description_column"`

	// MatchedColumn and PoPColumn are optional in the export; when absent
	// every row is treated as unset and later default-filled.
	MatchedColumn string `json:"matched_column"`
	PoPColumn     string `json:"pop_column"`

	HasHeader bool `json:"has_header"`
	Delimiter rune `json:"delimiter"`
}

// DefaultLenderParserConfig returns the standard lender ledger schema.
func DefaultLenderParserConfig() *LenderParserConfig {
	return &LenderParserConfig{
		CreatedAtColumn:   "created_at",
		CreditColumn:      "credit",
		DebitColumn:       "debit",
		DescriptionColumn: "description",
		MatchedColumn:     "ismatched",
		PoPColumn:         "POP",
		HasHeader:         true,
		Delimiter:         ',',
	}
}

// Validate checks if the lender parser configuration is valid.
func (lc *LenderParserConfig) Validate() error {
	for name, value := range map[string]string{
		"created at column":  lc.CreatedAtColumn,
		"credit column":      lc.CreditColumn,
		"debit column":       lc.DebitColumn,
		"description column": lc.DescriptionColumn,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}

	return nil
}

// RequiredHeaders returns the headers the lender schema demands. The
// match-status and proof-of-payment columns are optional and excluded.
func (lc *LenderParserConfig) RequiredHeaders() []string {
	return []string{
		lc.CreatedAtColumn,
		lc.CreditColumn,
		lc.DebitColumn,
		lc.DescriptionColumn,
	}
}

// AllHeaders returns the full schema in file order, used as positional
// column names for headerless exports.
func (lc *LenderParserConfig) AllHeaders() []string {
	return []string{
		lc.CreatedAtColumn,
		lc.CreditColumn,
		lc.DebitColumn,
		lc.DescriptionColumn,
		lc.MatchedColumn,
		lc.PoPColumn,
	}
}
