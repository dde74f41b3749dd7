package stats

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencyCode prefixes formatted amounts. The exports this tool
// reconciles are denominated in Tanzanian shillings.
const DefaultCurrencyCode = "TSh"

// CurrencyFormatter renders decimal amounts as display strings with a
// currency code prefix, comma thousand grouping and two decimal places,
// e.g. "TSh 1,234.50".
type CurrencyFormatter struct {
	Code string
}

// NewCurrencyFormatter creates a formatter for the given currency code.
// An empty code falls back to the default.
func NewCurrencyFormatter(code string) *CurrencyFormatter {
	if strings.TrimSpace(code) == "" {
		code = DefaultCurrencyCode
	}
	return &CurrencyFormatter{Code: code}
}

// Format renders an amount as "<code> <grouped>.<2dp>". Negative amounts
// keep the sign after the code: "TSh -1,234.50".
func (cf *CurrencyFormatter) Format(amount decimal.Decimal) string {
	return cf.Code + " " + groupThousands(amount.StringFixed(2))
}

// FormatNull renders a nullable amount, treating null as zero.
func (cf *CurrencyFormatter) FormatNull(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return cf.Format(decimal.Zero)
	}
	return cf.Format(amount.Decimal)
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}

	var b strings.Builder
	b.Grow(len(intPart) + len(intPart)/3)
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + fracPart
}
