package reconciler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"monocle-reconciliation-service/internal/models"
)

func createTempCSVFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create temp CSV file: %v", err)
	}
	return path
}

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	bank := createTempCSVFile(t, "bank.csv",
		"Posting Date,Value Date,Debit,Credit,Details\n"+
			"02.01.2024 10:00:00,02.01.2024 10:00:00,500.00,0,RAMANI PAYMENT 001\n"+
			"03.01.2024 11:00:00,03.01.2024 11:00:00,250.00,0,RAMANI PAYMENT 002\n"+
			"04.01.2024 12:00:00,04.01.2024 12:00:00,0,75.00,RAMANI REFUND 003\n"+
			"05.01.2024 13:00:00,05.01.2024 13:00:00,120.00,0,GROCERY STORE\n")
	lender := createTempCSVFile(t, "lender.csv",
		"created_at,credit,debit,description,ismatched,POP\n"+
			"02.01.2024 10:05:00,500.00,,Ramani Payment 001,checked,receipt-1.pdf\n"+
			"06.01.2024 09:00:00,90.00,,RAMANI PAYMENT 004,,\n")
	return bank, lender
}

func TestService_Reconcile(t *testing.T) {
	bankFile, lenderFile := writeFixtures(t)

	service, err := NewService(nil, nil)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	result, err := service.Reconcile(context.Background(), bankFile, lenderFile)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// Only the two zero-credit marker rows survive the bank filter.
	if result.BankStats.TotalRecords != 2 {
		t.Fatalf("expected 2 bank records, got %d", result.BankStats.TotalRecords)
	}
	if !result.BankStats.TotalDebit.Equal(decimal.NewFromInt(750)) {
		t.Errorf("expected bank debit total 750, got %s", result.BankStats.TotalDebit)
	}
	if got := result.BankStats.DateFromDisplay(); got != "02.01.2024" {
		t.Errorf("expected range start 02.01.2024, got %q", got)
	}
	if got := result.BankStats.DateToDisplay(); got != "03.01.2024" {
		t.Errorf("expected range end 03.01.2024, got %q", got)
	}

	// Payment 001 exists in the ledger, payment 002 does not.
	if len(result.Match.MatchingRecords) != 1 {
		t.Fatalf("expected 1 matching record, got %d", len(result.Match.MatchingRecords))
	}
	if len(result.Match.MissingFromLender) != 1 {
		t.Fatalf("expected 1 missing record, got %d", len(result.Match.MissingFromLender))
	}
	if result.Match.MissingFromLender[0].Details != "RAMANI PAYMENT 002" {
		t.Errorf("expected payment 002 missing, got %q", result.Match.MissingFromLender[0].Details)
	}
	if !result.MissingDebitTotal.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected missing debit total 250, got %s", result.MissingDebitTotal)
	}
}

func TestService_Reconcile_AppliesLedgerDefaults(t *testing.T) {
	bankFile, lenderFile := writeFixtures(t)

	service, err := NewService(nil, nil)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	result, err := service.Reconcile(context.Background(), bankFile, lenderFile)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// The second ledger row had empty status fields; the defaults land it
	// in both exception subsets.
	if len(result.NotCheckedRecords) != 1 {
		t.Fatalf("expected 1 not-checked record, got %d", len(result.NotCheckedRecords))
	}
	if result.NotCheckedRecords[0].Matched != models.MatchNotChecked {
		t.Errorf("expected default-filled status, got %q", result.NotCheckedRecords[0].Matched)
	}
	if !result.NotCheckedTotal.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected not-checked credit total 90, got %s", result.NotCheckedTotal)
	}

	if len(result.NoPoPRecords) != 1 {
		t.Fatalf("expected 1 record without proof, got %d", len(result.NoPoPRecords))
	}
	if !result.NoPoPCreditTotal.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected no-proof credit total 90, got %s", result.NoPoPCreditTotal)
	}

	if result.LenderStats.MatchedCount != 1 || result.LenderStats.UnmatchedCount != 1 {
		t.Errorf("expected 1 matched / 1 unmatched, got %d / %d",
			result.LenderStats.MatchedCount, result.LenderStats.UnmatchedCount)
	}
}

func TestService_Reconcile_MissingBankFile(t *testing.T) {
	_, lenderFile := writeFixtures(t)

	service, err := NewService(nil, nil)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	_, err = service.Reconcile(context.Background(),
		filepath.Join(t.TempDir(), "missing.csv"), lenderFile)
	if err == nil {
		t.Fatal("expected error for missing bank file")
	}
}

func TestService_FilterLedger(t *testing.T) {
	bankFile, lenderFile := writeFixtures(t)

	service, err := NewService(nil, nil)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	result, err := service.Reconcile(context.Background(), bankFile, lenderFile)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	filtered, err := service.FilterLedger(result, "credit", "90")
	if err != nil {
		t.Fatalf("FilterLedger failed: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 record with credit 90, got %d", len(filtered))
	}

	if _, err := service.FilterLedger(result, "nope", "x"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestConfig_Validate(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	config.BankParser = nil
	if err := config.Validate(); err == nil {
		t.Error("expected error for nil bank parser config")
	}

	config = DefaultConfig()
	config.BankParser.ChunkSize = -1
	if err := config.Validate(); err == nil {
		t.Error("expected error for invalid chunk size")
	}
}
