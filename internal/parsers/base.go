package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"monocle-reconciliation-service/pkg/errors"
	"monocle-reconciliation-service/pkg/logger"
)

// validateChunkSize bounds the buffer used to scan a file for UTF-8
// validity before parsing. The scan always covers the whole file; the
// chunk size only caps memory.
const validateChunkSize = 64 * 1024

// BaseParser provides shared CSV reading behavior for the bank and lender
// parsers: file access, a single encoding fallback, header validation and
// column resolution.
type BaseParser struct {
	logger logger.Logger
}

// NewBaseParser creates a base parser with the given logger.
func NewBaseParser(log logger.Logger) *BaseParser {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &BaseParser{logger: log}
}

// ParseContext carries per-file state across the row loop.
type ParseContext struct {
	FilePath  string
	Headers   []string
	HeaderMap map[string]int
	// LineNumber is 1-based and counts the header row when one exists.
	LineNumber int
}

// RowError records a recoverable problem on a single row. The row is
// skipped and parsing continues.
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (re *RowError) Error() string {
	if re.Field != "" {
		return fmt.Sprintf("line %d, field %q: %s", re.Line, re.Field, re.Message)
	}
	return fmt.Sprintf("line %d: %s", re.Line, re.Message)
}

// ParseStats summarizes one parse run.
type ParseStats struct {
	TotalRows        int         `json:"total_rows"`
	RecordsParsed    int         `json:"records_parsed"`
	RecordsKept      int         `json:"records_kept"`
	SkippedRows      int         `json:"skipped_rows"`
	DatePassthroughs int         `json:"date_passthroughs"`
	UsedLatin1       bool        `json:"used_latin1,omitempty"`
	RowErrors        []*RowError `json:"row_errors,omitempty"`
}

// AddRowError records a skipped row.
func (ps *ParseStats) AddRowError(err *RowError) {
	ps.SkippedRows++
	ps.RowErrors = append(ps.RowErrors, err)
}

// fallbackReadCloser keeps the underlying file reachable for Close while
// reads go through the transform reader.
type fallbackReadCloser struct {
	io.Reader
	file *os.File
}

func (f *fallbackReadCloser) Close() error {
	return f.file.Close()
}

// OpenFile opens path for CSV reading. The entire file content is scanned
// for UTF-8 validity; when any byte fails the scan the whole file is
// re-read through a Latin-1 decoder. Exactly one fallback is attempted.
func (bp *BaseParser) OpenFile(path string) (io.ReadCloser, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, false, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, false, errors.FileError(errors.CodeFileCorrupted, path, err)
	}

	valid, err := validUTF8Stream(file)
	if err != nil {
		file.Close()
		return nil, false, errors.ParseError(errors.CodeEncodingError, path, 0, "", "", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, false, errors.FileError(errors.CodeFileCorrupted, path, err)
	}

	if valid {
		return file, false, nil
	}

	bp.logger.WithFields(logger.Fields{
		"file":     path,
		"encoding": "ISO-8859-1",
	}).Warn("File is not valid UTF-8, retrying with Latin-1 decoding")

	return &fallbackReadCloser{
		Reader: transform.NewReader(file, charmap.ISO8859_1.NewDecoder()),
		file:   file,
	}, true, nil
}

// validUTF8Stream reports whether everything readable from r is valid
// UTF-8. Up to three trailing bytes of each chunk are carried into the
// next one so a multi-byte rune split at a chunk boundary is not counted
// as invalid.
func validUTF8Stream(r io.Reader) (bool, error) {
	buf := make([]byte, validateChunkSize)
	carry := 0
	for {
		n, err := r.Read(buf[carry:])
		data := buf[:carry+n]
		if err == io.EOF {
			return utf8.Valid(data), nil
		}
		if err != nil {
			return false, err
		}

		split := len(data)
		for i := 1; i <= utf8.UTFMax && i <= len(data); i++ {
			if utf8.RuneStart(data[len(data)-i]) {
				if !utf8.FullRune(data[len(data)-i:]) {
					split = len(data) - i
				}
				break
			}
		}
		if !utf8.Valid(data[:split]) {
			return false, nil
		}
		carry = copy(buf, data[split:])
	}
}

// NewCSVReader builds a csv.Reader with the delimiter applied.
func (bp *BaseParser) NewCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return reader
}

// ReadHeaders builds the column index map. When hasHeader is set the
// header row is consumed from the reader; otherwise positional supplies
// the column names in file order and no row is consumed.
func (bp *BaseParser) ReadHeaders(reader *csv.Reader, pc *ParseContext, hasHeader bool, positional []string) error {
	if !hasHeader {
		pc.Headers = positional
		pc.HeaderMap = make(map[string]int, len(positional))
		for i, h := range positional {
			pc.HeaderMap[h] = i
		}
		pc.LineNumber = 0
		return nil
	}

	headers, err := reader.Read()
	if err == io.EOF {
		return errors.ParseError(errors.CodeInvalidFormat, pc.FilePath, 1, "header", "", err).
			WithSuggestion("provide a CSV file with a header row")
	}
	if err != nil {
		return errors.ParseError(errors.CodeInvalidFormat, pc.FilePath, 1, "header", "", err)
	}

	pc.Headers = headers
	pc.HeaderMap = make(map[string]int, len(headers))
	for i, h := range headers {
		pc.HeaderMap[strings.TrimSpace(h)] = i
	}
	pc.LineNumber = 1
	return nil
}

// ValidateHeaders ensures every required column is present. Missing
// required columns are fatal.
func (bp *BaseParser) ValidateHeaders(pc *ParseContext, required []string) error {
	var missing []string
	for _, col := range required {
		if _, ok := bp.ColumnIndex(pc, col); !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.ParseError(errors.CodeMissingColumn, pc.FilePath, 1,
			strings.Join(missing, ", "), "", nil).
			WithContext("missing_columns", missing).
			WithContext("found_columns", pc.Headers)
	}
	return nil
}

// ColumnIndex resolves a column name to its index, trying an exact match
// first and a case-insensitive match second.
func (bp *BaseParser) ColumnIndex(pc *ParseContext, name string) (int, bool) {
	if idx, ok := pc.HeaderMap[name]; ok {
		return idx, true
	}
	for header, idx := range pc.HeaderMap {
		if strings.EqualFold(header, name) {
			return idx, true
		}
	}
	return 0, false
}

// FieldValue extracts the trimmed value of a column from a row. Rows
// shorter than the column index yield the empty string.
func FieldValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
