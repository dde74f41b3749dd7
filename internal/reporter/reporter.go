package reporter

import (
	"fmt"
	"io"
	"strings"

	"monocle-reconciliation-service/internal/reconciler"
	"monocle-reconciliation-service/internal/stats"
	"monocle-reconciliation-service/pkg/errors"
	"monocle-reconciliation-service/pkg/logger"
)

// Format selects the report output format.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatConsole:
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", errors.ConfigurationError(errors.CodeInvalidConfig, "output format", s, nil).
			WithSuggestion("use console, json or csv")
	}
}

// Reporter renders a reconciliation result to a writer.
type Reporter struct {
	format    Format
	formatter *stats.CurrencyFormatter
	logger    logger.Logger
}

// New creates a reporter for the given format.
func New(format Format, formatter *stats.CurrencyFormatter, log logger.Logger) *Reporter {
	if formatter == nil {
		formatter = stats.NewCurrencyFormatter("")
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Reporter{
		format:    format,
		formatter: formatter,
		logger:    log.WithComponent("reporter"),
	}
}

// Write renders the result to w.
func (r *Reporter) Write(w io.Writer, result *reconciler.Result) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(w, result)
	case FormatCSV:
		return r.writeCSV(w, result)
	case FormatConsole, "":
		return r.writeConsole(w, result)
	default:
		return errors.ConfigurationError(errors.CodeInvalidConfig, "output format", string(r.format), nil)
	}
}

func writeLine(w io.Writer, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
