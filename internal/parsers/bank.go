package parsers

import (
	"context"
	"fmt"
	"io"

	"monocle-reconciliation-service/internal/models"
	"monocle-reconciliation-service/pkg/errors"
	"monocle-reconciliation-service/pkg/logger"
)

// BankStatementParser reads a bank statement CSV and keeps only the rows
// that belong to the lending partner: normalized description contains the
// counterparty marker and the credit amount is exactly zero.
type BankStatementParser struct {
	*BaseParser
	config *BankParserConfig
	logger logger.Logger
}

// NewBankStatementParser creates a bank statement parser.
func NewBankStatementParser(config *BankParserConfig, log logger.Logger) (*BankStatementParser, error) {
	if config == nil {
		config = DefaultBankParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "bank parser", err.Error(), err)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	return &BankStatementParser{
		BaseParser: NewBaseParser(log),
		config:     config,
		logger:     log.WithComponent("bank-parser"),
	}, nil
}

// bankColumns holds resolved column indexes for one file.
type bankColumns struct {
	postingDate int
	valueDate   int
	debit       int
	credit      int
	details     int
}

// ParseFile reads the bank statement at path.
func (p *BankStatementParser) ParseFile(path string) ([]*models.BankRecord, *ParseStats, error) {
	return p.ParseFileWithContext(context.Background(), path)
}

// ParseFileWithContext reads the bank statement at path, honoring ctx
// cancellation between chunks. Input order is preserved.
func (p *BankStatementParser) ParseFileWithContext(ctx context.Context, path string) ([]*models.BankRecord, *ParseStats, error) {
	rc, usedLatin1, err := p.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	stats := &ParseStats{UsedLatin1: usedLatin1}
	pc := &ParseContext{FilePath: path}
	reader := p.NewCSVReader(rc, p.config.Delimiter)

	if err := p.ReadHeaders(reader, pc, p.config.HasHeader, p.config.RequiredHeaders()); err != nil {
		return nil, stats, err
	}
	if err := p.ValidateHeaders(pc, p.config.RequiredHeaders()); err != nil {
		return nil, stats, err
	}

	cols, err := p.resolveColumns(pc)
	if err != nil {
		return nil, stats, err
	}

	markerKey := models.NormalizeDescription(p.config.CounterpartyMarker)

	var records []*models.BankRecord
	chunk := make([][]string, 0, p.config.ChunkSize)
	flush := func() {
		records = append(records, p.normalizeChunk(chunk, cols, markerKey, stats)...)
		chunk = chunk[:0]
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, errors.ReconciliationError(errors.CodeProcessingError,
				"bank statement parsing", err)
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
		chunk = append(chunk, row)
		if len(chunk) >= p.config.ChunkSize {
			flush()
		}
	}
	flush()

	stats.RecordsKept = len(records)

	p.logger.WithFields(logger.Fields{
		"file":              path,
		"total_rows":        stats.TotalRows,
		"records_kept":      stats.RecordsKept,
		"skipped_rows":      stats.SkippedRows,
		"date_passthroughs": stats.DatePassthroughs,
	}).Info("Parsed bank statement")

	return records, stats, nil
}

func (p *BankStatementParser) resolveColumns(pc *ParseContext) (*bankColumns, error) {
	cols := &bankColumns{}
	for _, binding := range []struct {
		name string
		dst  *int
	}{
		{p.config.PostingDateColumn, &cols.postingDate},
		{p.config.ValueDateColumn, &cols.valueDate},
		{p.config.DebitColumn, &cols.debit},
		{p.config.CreditColumn, &cols.credit},
		{p.config.DetailsColumn, &cols.details},
	} {
		idx, ok := p.ColumnIndex(pc, binding.name)
		if !ok {
			return nil, errors.ParseError(errors.CodeMissingColumn, pc.FilePath, 1, binding.name, "", nil)
		}
		*binding.dst = idx
	}
	return cols, nil
}

// normalizeChunk converts raw rows into bank records and applies the
// counterparty filter. A row survives only when its normalized details
// contain the marker and its credit is exactly zero.
func (p *BankStatementParser) normalizeChunk(chunk [][]string, cols *bankColumns, markerKey string, stats *ParseStats) []*models.BankRecord {
	kept := make([]*models.BankRecord, 0, len(chunk))
	for _, row := range chunk {
		record := models.NewBankRecord(
			FieldValue(row, cols.postingDate),
			FieldValue(row, cols.valueDate),
			FieldValue(row, cols.debit),
			FieldValue(row, cols.credit),
			FieldValue(row, cols.details),
		)
		stats.RecordsParsed++

		if record.PostingDate.Raw != "" && !record.PostingDate.Parsed {
			stats.DatePassthroughs++
		}
		if record.ValueDate.Raw != "" && !record.ValueDate.Parsed {
			stats.DatePassthroughs++
		}

		if record.MatchesCounterparty(markerKey) && record.IsZeroCredit() {
			kept = append(kept, record)
		}
	}
	return kept
}
