package config

import (
	"testing"
)

func TestCreateReconcilerConfig_Defaults(t *testing.T) {
	config := CreateReconcilerConfig("", "", 0, nil, nil)

	if config.BankParser.CounterpartyMarker != "ramani" {
		t.Errorf("expected default marker ramani, got %q", config.BankParser.CounterpartyMarker)
	}
	if config.BankParser.ChunkSize != 10000 {
		t.Errorf("expected default chunk size 10000, got %d", config.BankParser.ChunkSize)
	}
	if config.CurrencyCode != "TSh" {
		t.Errorf("expected default currency TSh, got %q", config.CurrencyCode)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestCreateReconcilerConfig_Overrides(t *testing.T) {
	config := CreateReconcilerConfig("acme", "KES", 500,
		map[string]string{"details": "Narrative"},
		map[string]string{"description": "memo"})

	if config.BankParser.CounterpartyMarker != "acme" {
		t.Errorf("expected marker acme, got %q", config.BankParser.CounterpartyMarker)
	}
	if config.CurrencyCode != "KES" {
		t.Errorf("expected currency KES, got %q", config.CurrencyCode)
	}
	if config.BankParser.ChunkSize != 500 {
		t.Errorf("expected chunk size 500, got %d", config.BankParser.ChunkSize)
	}
	if config.BankParser.DetailsColumn != "Narrative" {
		t.Errorf("expected details column override, got %q", config.BankParser.DetailsColumn)
	}
	if config.LenderParser.DescriptionColumn != "memo" {
		t.Errorf("expected description column override, got %q", config.LenderParser.DescriptionColumn)
	}
}

func TestCreateBankParserConfig_IgnoresEmptyOverrides(t *testing.T) {
	config := CreateBankParserConfig(map[string]string{"details": ""})
	if config.DetailsColumn != "Details" {
		t.Errorf("empty override should keep the default, got %q", config.DetailsColumn)
	}
}

func TestCreateLenderParserConfig_OptionalColumns(t *testing.T) {
	config := CreateLenderParserConfig(map[string]string{
		"ismatched": "reviewed",
		"pop":       "proof",
	})
	if config.MatchedColumn != "reviewed" {
		t.Errorf("expected matched column override, got %q", config.MatchedColumn)
	}
	if config.PoPColumn != "proof" {
		t.Errorf("expected pop column override, got %q", config.PoPColumn)
	}
}
