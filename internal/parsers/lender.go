package parsers

import (
	"context"
	"fmt"
	"io"

	"monocle-reconciliation-service/internal/models"
	"monocle-reconciliation-service/pkg/errors"
	"monocle-reconciliation-service/pkg/logger"
)

// LenderLedgerParser reads a lender ledger CSV. Unlike the bank side no
// rows are filtered out; every ledger entry participates in matching.
type LenderLedgerParser struct {
	*BaseParser
	config *LenderParserConfig
	logger logger.Logger
}

// NewLenderLedgerParser creates a lender ledger parser.
func NewLenderLedgerParser(config *LenderParserConfig, log logger.Logger) (*LenderLedgerParser, error) {
	if config == nil {
		config = DefaultLenderParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "lender parser", err.Error(), err)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	return &LenderLedgerParser{
		BaseParser: NewBaseParser(log),
		config:     config,
		logger:     log.WithComponent("lender-parser"),
	}, nil
}

type lenderColumns struct {
	createdAt   int
	credit      int
	debit       int
	description int
	// matched and pop are -1 when the optional column is absent.
	matched int
	pop     int
}

// ParseFile reads the lender ledger at path.
func (p *LenderLedgerParser) ParseFile(path string) ([]*models.LenderRecord, *ParseStats, error) {
	return p.ParseFileWithContext(context.Background(), path)
}

// ParseFileWithContext reads the lender ledger at path, honoring ctx
// cancellation between rows.
func (p *LenderLedgerParser) ParseFileWithContext(ctx context.Context, path string) ([]*models.LenderRecord, *ParseStats, error) {
	rc, usedLatin1, err := p.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	stats := &ParseStats{UsedLatin1: usedLatin1}
	pc := &ParseContext{FilePath: path}
	reader := p.NewCSVReader(rc, p.config.Delimiter)

	if err := p.ReadHeaders(reader, pc, p.config.HasHeader, p.config.AllHeaders()); err != nil {
		return nil, stats, err
	}
	if err := p.ValidateHeaders(pc, p.config.RequiredHeaders()); err != nil {
		return nil, stats, err
	}

	cols := p.resolveColumns(pc)

	var records []*models.LenderRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, errors.ReconciliationError(errors.CodeProcessingError,
				"lender ledger parsing", err)
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		pc.LineNumber++
		if err != nil {
			stats.AddRowError(&RowError{
				Line:    pc.LineNumber,
				Message: fmt.Sprintf("malformed CSV row: %v", err),
			})
			continue
		}

		stats.TotalRows++
		record := models.NewLenderRecord(
			FieldValue(row, cols.createdAt),
			FieldValue(row, cols.credit),
			FieldValue(row, cols.debit),
			FieldValue(row, cols.description),
			fieldValueOptional(row, cols.matched),
			fieldValueOptional(row, cols.pop),
		)
		stats.RecordsParsed++

		if record.CreatedAt.Raw != "" && !record.CreatedAt.Parsed {
			stats.DatePassthroughs++
		}

		records = append(records, record)
	}

	stats.RecordsKept = len(records)

	p.logger.WithFields(logger.Fields{
		"file":              path,
		"total_rows":        stats.TotalRows,
		"records_kept":      stats.RecordsKept,
		"skipped_rows":      stats.SkippedRows,
		"date_passthroughs": stats.DatePassthroughs,
	}).Info("Parsed lender ledger")

	return records, stats, nil
}

// resolveColumns looks up indexes for every configured column. Required
// columns are guaranteed present by ValidateHeaders; the optional match
// and proof-of-payment columns resolve to -1 when missing and are logged.
func (p *LenderLedgerParser) resolveColumns(pc *ParseContext) *lenderColumns {
	cols := &lenderColumns{matched: -1, pop: -1}

	cols.createdAt, _ = p.ColumnIndex(pc, p.config.CreatedAtColumn)
	cols.credit, _ = p.ColumnIndex(pc, p.config.CreditColumn)
	cols.debit, _ = p.ColumnIndex(pc, p.config.DebitColumn)
	cols.description, _ = p.ColumnIndex(pc, p.config.DescriptionColumn)

	if idx, ok := p.ColumnIndex(pc, p.config.MatchedColumn); ok {
		cols.matched = idx
	} else {
		p.logger.WithField("column", p.config.MatchedColumn).
			Info("Match status column absent, all rows treated as unchecked")
	}

	if idx, ok := p.ColumnIndex(pc, p.config.PoPColumn); ok {
		cols.pop = idx
	} else {
		p.logger.WithField("column", p.config.PoPColumn).
			Info("Proof of payment column absent, all rows treated as missing proof")
	}

	return cols
}

func fieldValueOptional(row []string, idx int) string {
	if idx < 0 {
		return ""
	}
	return FieldValue(row, idx)
}
