package reconciler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"monocle-reconciliation-service/internal/matcher"
	"monocle-reconciliation-service/internal/models"
	"monocle-reconciliation-service/internal/parsers"
	"monocle-reconciliation-service/internal/stats"
	"monocle-reconciliation-service/pkg/errors"
	"monocle-reconciliation-service/pkg/logger"
)

// Config holds the settings for one reconciliation run.
type Config struct {
	BankParser   *parsers.BankParserConfig   `json:"bank_parser"`
	LenderParser *parsers.LenderParserConfig `json:"lender_parser"`
	CurrencyCode string                      `json:"currency_code"`
}

// DefaultConfig returns a config with the standard schemas and currency.
func DefaultConfig() *Config {
	return &Config{
		BankParser:   parsers.DefaultBankParserConfig(),
		LenderParser: parsers.DefaultLenderParserConfig(),
		CurrencyCode: stats.DefaultCurrencyCode,
	}
}

// Validate checks the reconciliation configuration.
func (c *Config) Validate() error {
	if c.BankParser == nil {
		return errors.ConfigurationError(errors.CodeMissingConfig, "bank parser", nil, nil)
	}
	if c.LenderParser == nil {
		return errors.ConfigurationError(errors.CodeMissingConfig, "lender parser", nil, nil)
	}
	if err := c.BankParser.Validate(); err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "bank parser", err.Error(), err)
	}
	if err := c.LenderParser.Validate(); err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "lender parser", err.Error(), err)
	}
	return nil
}

// Result is the complete outcome of a reconciliation run.
type Result struct {
	BankFile   string `json:"bank_file"`
	LenderFile string `json:"lender_file"`

	BankRecords   []*models.BankRecord   `json:"-"`
	LenderRecords []*models.LenderRecord `json:"-"`

	BankStats   *stats.BankStats   `json:"bank_stats"`
	LenderStats *stats.LenderStats `json:"lender_stats"`

	BankParseStats   *parsers.ParseStats `json:"bank_parse_stats"`
	LenderParseStats *parsers.ParseStats `json:"lender_parse_stats"`

	Match *matcher.MatchResult `json:"match"`

	// NoPoPRecords are ledger entries carrying the missing-proof
	// sentinel; NotCheckedRecords carry the not-checked sentinel.
	NoPoPRecords      []*models.LenderRecord `json:"no_pop_records"`
	NoPoPCreditTotal  decimal.Decimal        `json:"no_pop_credit_total"`
	NotCheckedRecords []*models.LenderRecord `json:"not_checked_records"`
	NotCheckedTotal   decimal.Decimal        `json:"not_checked_credit_total"`

	// MissingDebitTotal sums the bank debits that have no ledger entry.
	MissingDebitTotal decimal.Decimal `json:"missing_debit_total"`

	Duration time.Duration `json:"duration"`
}

// Service wires the parsers, matcher and statistics into one pipeline.
type Service struct {
	config       *Config
	bankParser   *parsers.BankStatementParser
	lenderParser *parsers.LenderLedgerParser
	matcher      *matcher.Matcher
	logger       logger.Logger
}

// NewService creates a reconciliation service.
func NewService(config *Config, log logger.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	bankParser, err := parsers.NewBankStatementParser(config.BankParser, log)
	if err != nil {
		return nil, err
	}
	lenderParser, err := parsers.NewLenderLedgerParser(config.LenderParser, log)
	if err != nil {
		return nil, err
	}

	return &Service{
		config:       config,
		bankParser:   bankParser,
		lenderParser: lenderParser,
		matcher:      matcher.NewMatcher(log),
		logger:       log.WithComponent("reconciler"),
	}, nil
}

// Formatter returns a currency formatter for the configured currency.
func (s *Service) Formatter() *stats.CurrencyFormatter {
	return stats.NewCurrencyFormatter(s.config.CurrencyCode)
}

// Reconcile runs the full pipeline: parse both files, default-fill the
// ledger, compute statistics, match by key presence and derive the
// exception subsets.
func (s *Service) Reconcile(ctx context.Context, bankFile, lenderFile string) (*Result, error) {
	start := time.Now()

	s.logger.WithFields(logger.Fields{
		"bank_file":   bankFile,
		"lender_file": lenderFile,
	}).Info("Starting reconciliation")

	bankRecords, bankParseStats, err := s.bankParser.ParseFileWithContext(ctx, bankFile)
	if err != nil {
		return nil, err
	}

	lenderRecords, lenderParseStats, err := s.lenderParser.ParseFileWithContext(ctx, lenderFile)
	if err != nil {
		return nil, err
	}

	models.ApplyLenderDefaults(lenderRecords)

	result := &Result{
		BankFile:         bankFile,
		LenderFile:       lenderFile,
		BankRecords:      bankRecords,
		LenderRecords:    lenderRecords,
		BankParseStats:   bankParseStats,
		LenderParseStats: lenderParseStats,
		BankStats:        stats.ComputeBankStats(bankRecords),
		LenderStats:      stats.ComputeLenderStats(lenderRecords),
	}

	result.Match = s.matcher.Match(bankRecords, lenderRecords)
	result.MissingDebitTotal = stats.SumDebits(result.Match.MissingFromLender)

	result.NoPoPRecords, err = matcher.FilterLenderRecords(
		lenderRecords, matcher.ColumnPoP, models.PoPNotProvided)
	if err != nil {
		// Filtering on the built-in sentinel columns only fails if the
		// engine itself is broken.
		return nil, errors.InternalError(errors.CodeUnexpectedError,
			"proof of payment filtering", err)
	}
	result.NoPoPCreditTotal = stats.SumCredits(result.NoPoPRecords)

	result.NotCheckedRecords, err = matcher.FilterLenderRecords(
		lenderRecords, matcher.ColumnMatched, models.MatchNotChecked)
	if err != nil {
		return nil, errors.InternalError(errors.CodeUnexpectedError,
			"match status filtering", err)
	}
	result.NotCheckedTotal = stats.SumCredits(result.NotCheckedRecords)

	result.Duration = time.Since(start)

	s.logger.WithFields(logger.Fields{
		"bank_records":        len(bankRecords),
		"lender_records":      len(lenderRecords),
		"matching":            len(result.Match.MatchingRecords),
		"missing_from_lender": len(result.Match.MissingFromLender),
		"no_pop":              len(result.NoPoPRecords),
		"not_checked":         len(result.NotCheckedRecords),
		"duration":            result.Duration.String(),
	}).Info("Reconciliation complete")

	return result, nil
}

// FilterLedger exposes ad hoc lender filtering against the records of a
// completed run.
func (s *Service) FilterLedger(result *Result, column, value string) ([]*models.LenderRecord, error) {
	return matcher.FilterLenderRecords(result.LenderRecords, column, value)
}
