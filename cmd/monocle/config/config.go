package config

import (
	"monocle-reconciliation-service/internal/parsers"
	"monocle-reconciliation-service/internal/reconciler"
)

// CreateReconcilerConfig builds a reconciliation configuration from CLI
// flag values, starting from the standard export schemas. Column override
// maps use the schema key names, e.g. {"details": "Narrative"}.
func CreateReconcilerConfig(counterpartyMarker, currencyCode string, chunkSize int, bankColumns, lenderColumns map[string]string) *reconciler.Config {
	config := reconciler.DefaultConfig()
	config.BankParser = CreateBankParserConfig(bankColumns)
	config.LenderParser = CreateLenderParserConfig(lenderColumns)

	if counterpartyMarker != "" {
		config.BankParser.CounterpartyMarker = counterpartyMarker
	}
	if chunkSize > 0 {
		config.BankParser.ChunkSize = chunkSize
	}
	if currencyCode != "" {
		config.CurrencyCode = currencyCode
	}

	return config
}

// CreateBankParserConfig builds a bank parser configuration with optional
// column overrides. Empty overrides keep the schema defaults.
func CreateBankParserConfig(overrides map[string]string) *parsers.BankParserConfig {
	config := parsers.DefaultBankParserConfig()

	apply := func(key string, dst *string) {
		if v, ok := overrides[key]; ok && v != "" {
			*dst = v
		}
	}
	apply("posting_date", &config.PostingDateColumn)
	apply("value_date", &config.ValueDateColumn)
	apply("debit", &config.DebitColumn)
	apply("credit", &config.CreditColumn)
	apply("details", &config.DetailsColumn)

	return config
}

// CreateLenderParserConfig builds a lender parser configuration with
// optional column overrides.
func CreateLenderParserConfig(overrides map[string]string) *parsers.LenderParserConfig {
	config := parsers.DefaultLenderParserConfig()

	apply := func(key string, dst *string) {
		if v, ok := overrides[key]; ok && v != "" {
			*dst = v
		}
	}
	apply("created_at", &config.CreatedAtColumn)
	apply("credit", &config.CreditColumn)
	apply("debit", &config.DebitColumn)
	apply("description", &config.DescriptionColumn)
	apply("ismatched", &config.MatchedColumn)
	apply("pop", &config.PoPColumn)

	return config
}
