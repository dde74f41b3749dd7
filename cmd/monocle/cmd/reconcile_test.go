package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestValidateFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "valid.csv")
	if err := os.WriteFile(validFile, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name        string
		filePath    string
		description string
		expectError bool
	}{
		{
			name:        "valid file",
			filePath:    validFile,
			description: "test file",
			expectError: false,
		},
		{
			name:        "empty path",
			filePath:    "",
			description: "test file",
			expectError: true,
		},
		{
			name:        "non-existent file",
			filePath:    "/non/existent/file.csv",
			description: "test file",
			expectError: true,
		},
		{
			name:        "directory instead of file",
			filePath:    tmpDir,
			description: "test file",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFileExists(tt.filePath, tt.description)

			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateReconcileFlags(t *testing.T) {
	tmpDir := t.TempDir()
	bankPath := filepath.Join(tmpDir, "statement.csv")
	lenderPath := filepath.Join(tmpDir, "ledger.csv")

	if err := os.WriteFile(bankPath, []byte("Posting Date,Value Date,Debit,Credit,Details\n"), 0644); err != nil {
		t.Fatalf("failed to create bank file: %v", err)
	}
	if err := os.WriteFile(lenderPath, []byte("created_at,credit,debit,description\n"), 0644); err != nil {
		t.Fatalf("failed to create lender file: %v", err)
	}

	setDefaults := func() {
		viper.Set("bank-file", bankPath)
		viper.Set("lender-file", lenderPath)
		viper.Set("output-format", "console")
		viper.Set("output-file", "")
		viper.Set("counterparty-marker", "ramani")
		viper.Set("currency-code", "TSh")
		viper.Set("chunk-size", 10000)
		viper.Set("filter-column", "")
		viper.Set("filter-value", "")
	}

	tests := []struct {
		name          string
		setupFlags    func()
		expectError   bool
		errorContains string
	}{
		{
			name:        "valid flags",
			setupFlags:  setDefaults,
			expectError: false,
		},
		{
			name: "missing bank file",
			setupFlags: func() {
				setDefaults()
				viper.Set("bank-file", "")
			},
			expectError:   true,
			errorContains: "bank-file is required",
		},
		{
			name: "missing lender file",
			setupFlags: func() {
				setDefaults()
				viper.Set("lender-file", "")
			},
			expectError:   true,
			errorContains: "lender-file is required",
		},
		{
			name: "invalid output format",
			setupFlags: func() {
				setDefaults()
				viper.Set("output-format", "xml")
			},
			expectError:   true,
			errorContains: "invalid output format",
		},
		{
			name: "empty counterparty marker",
			setupFlags: func() {
				setDefaults()
				viper.Set("counterparty-marker", "")
			},
			expectError:   true,
			errorContains: "counterparty-marker",
		},
		{
			name: "non-positive chunk size",
			setupFlags: func() {
				setDefaults()
				viper.Set("chunk-size", 0)
			},
			expectError:   true,
			errorContains: "chunk-size",
		},
		{
			name: "filter column without value",
			setupFlags: func() {
				setDefaults()
				viper.Set("filter-column", "credit")
			},
			expectError:   true,
			errorContains: "filter-column and filter-value",
		},
		{
			name: "output directory does not exist",
			setupFlags: func() {
				setDefaults()
				viper.Set("output-file", "/non/existent/dir/report.json")
			},
			expectError:   true,
			errorContains: "output directory does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupFlags()
			defer viper.Reset()

			err := validateReconcileFlags(reconcileCmd, nil)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errorContains)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
