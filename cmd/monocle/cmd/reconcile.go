package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"monocle-reconciliation-service/cmd/monocle/config"
	"monocle-reconciliation-service/internal/reconciler"
	"monocle-reconciliation-service/internal/reporter"
	"monocle-reconciliation-service/pkg/logger"
)

// Flags for the reconcile command
var (
	bankFile           string
	lenderFile         string
	outputFormat       string
	outputFile         string
	counterpartyMarker string
	currencyCode       string
	chunkSize          int
	bankColumns        map[string]string
	lenderColumns      map[string]string
	filterColumn       string
	filterValue        string
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a bank statement with a lender ledger",
	Long: `Reconcile filters the bank statement down to the lending partner's
zero-credit entries, matches them against the ledger by normalized
description, and reports bank records missing from the ledger together
with ledger entries that are unreviewed or lack proof of payment.

This command requires:
- A bank statement file (CSV format)
- A lender ledger file (CSV format)

Examples:
  # Basic reconciliation
  monocle reconcile --bank-file statement.csv --lender-file ledger.csv

  # JSON report written to a file
  monocle reconcile --bank-file statement.csv --lender-file ledger.csv \
    --output-format json --output-file report.json

  # Different counterparty and currency
  monocle reconcile --bank-file statement.csv --lender-file ledger.csv \
    --counterparty-marker acme --currency-code KES

  # Ad hoc ledger filter printed after the report
  monocle reconcile --bank-file statement.csv --lender-file ledger.csv \
    --filter-column ismatched --filter-value "Not Checked"`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	// Required flags
	reconcileCmd.Flags().StringVarP(&bankFile, "bank-file", "b", "", "path to bank statement CSV file (required)")
	reconcileCmd.Flags().StringVarP(&lenderFile, "lender-file", "l", "", "path to lender ledger CSV file (required)")

	// Output flags
	reconcileCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	reconcileCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Reconciliation flags
	reconcileCmd.Flags().StringVarP(&counterpartyMarker, "counterparty-marker", "m", "ramani", "marker identifying the lending partner in bank details")
	reconcileCmd.Flags().StringVar(&currencyCode, "currency-code", "TSh", "currency code used in formatted amounts")
	reconcileCmd.Flags().IntVar(&chunkSize, "chunk-size", 10000, "bank rows normalized per chunk")

	// Schema override flags
	reconcileCmd.Flags().StringToStringVar(&bankColumns, "bank-column", nil, "bank column override, e.g. details=Narrative")
	reconcileCmd.Flags().StringToStringVar(&lenderColumns, "lender-column", nil, "lender column override, e.g. description=memo")

	// Ledger filter flags
	reconcileCmd.Flags().StringVar(&filterColumn, "filter-column", "", "lender column for an ad hoc filter")
	reconcileCmd.Flags().StringVar(&filterValue, "filter-value", "", "value the filtered column must equal")

	// Mark required flags
	reconcileCmd.MarkFlagRequired("bank-file")
	reconcileCmd.MarkFlagRequired("lender-file")

	// Bind flags to viper
	viper.BindPFlag("bank-file", reconcileCmd.Flags().Lookup("bank-file"))
	viper.BindPFlag("lender-file", reconcileCmd.Flags().Lookup("lender-file"))
	viper.BindPFlag("output-format", reconcileCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", reconcileCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("counterparty-marker", reconcileCmd.Flags().Lookup("counterparty-marker"))
	viper.BindPFlag("currency-code", reconcileCmd.Flags().Lookup("currency-code"))
	viper.BindPFlag("chunk-size", reconcileCmd.Flags().Lookup("chunk-size"))
	viper.BindPFlag("filter-column", reconcileCmd.Flags().Lookup("filter-column"))
	viper.BindPFlag("filter-value", reconcileCmd.Flags().Lookup("filter-value"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	bankFile = viper.GetString("bank-file")
	lenderFile = viper.GetString("lender-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	counterpartyMarker = viper.GetString("counterparty-marker")
	currencyCode = viper.GetString("currency-code")
	chunkSize = viper.GetInt("chunk-size")
	filterColumn = viper.GetString("filter-column")
	filterValue = viper.GetString("filter-value")

	if bankFile == "" {
		return fmt.Errorf("bank-file is required")
	}
	if lenderFile == "" {
		return fmt.Errorf("lender-file is required")
	}

	if err := validateFileExists(bankFile, "bank statement file"); err != nil {
		return err
	}
	if err := validateFileExists(lenderFile, "lender ledger file"); err != nil {
		return err
	}

	if _, err := reporter.ParseFormat(outputFormat); err != nil {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if counterpartyMarker == "" {
		return fmt.Errorf("counterparty-marker cannot be empty")
	}
	if chunkSize <= 0 {
		return fmt.Errorf("chunk-size must be positive")
	}

	if (filterColumn == "") != (filterValue == "") {
		return fmt.Errorf("filter-column and filter-value must be provided together")
	}

	// Validate output file directory exists if specified
	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting reconciliation...\n")
		fmt.Fprintf(os.Stderr, "Bank file: %s\n", bankFile)
		fmt.Fprintf(os.Stderr, "Lender file: %s\n", lenderFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	reconcilerConfig := config.CreateReconcilerConfig(counterpartyMarker, currencyCode, chunkSize, bankColumns, lenderColumns)

	service, err := reconciler.NewService(reconcilerConfig, logger.GetGlobalLogger())
	if err != nil {
		return err
	}

	result, err := service.Reconcile(ctx, bankFile, lenderFile)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	rep := reporter.New(format, service.Formatter(), logger.GetGlobalLogger())

	// Determine output destination
	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := rep.Write(output, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if filterColumn != "" {
		if err := writeLedgerFilter(output, service, result); err != nil {
			return err
		}
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nReconciliation completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d bank records and %d ledger entries in %v.\n",
			result.BankStats.TotalRecords, result.LenderStats.TotalRecords, result.Duration)
		fmt.Fprintf(os.Stderr, "Found %d matches and %d bank records missing from the ledger.\n",
			len(result.Match.MatchingRecords), len(result.Match.MissingFromLender))
	}

	return nil
}

func writeLedgerFilter(output *os.File, service *reconciler.Service, result *reconciler.Result) error {
	filtered, err := service.FilterLedger(result, filterColumn, filterValue)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "\nLedger entries where %s = %q: %d\n", filterColumn, filterValue, len(filtered))
	for _, rec := range filtered {
		fmt.Fprintf(output, "  %s  credit=%s  %s  %s  %s\n",
			rec.CreatedAt, nullAmount(rec.Credit), rec.Description, rec.Matched, rec.ProofOfPayment)
	}
	return nil
}

func nullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
