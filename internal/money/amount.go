package money

import (
	"math"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrencyPrefix is prepended to formatted amounts.
const DefaultCurrencyPrefix = "R"

var currencyStripper = regexp.MustCompile(`[^0-9,.\-]`)

// ParseAmount converts an optional free-text property value into a number.
// Nil, empty and malformed input all read as zero.
func ParseAmount(raw *string) float64 {
	if raw == nil {
		return 0
	}
	return ParseAmountString(*raw)
}

// ParseAmountString strips everything but digits, commas, periods and minus
// signs, drops the commas as thousands separators and parses the rest.
// Values too large for a float64 count as malformed.
func ParseAmountString(raw string) float64 {
	if raw == "" {
		return 0
	}
	cleaned := currencyStripper.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	f := d.InexactFloat64()
	if !isFinite(f) {
		return 0
	}
	return f
}

// Formatter renders amounts as grouped whole-currency strings.
type Formatter struct {
	prefix string
}

// NewFormatter builds a formatter for the given currency prefix.
func NewFormatter(prefix string) Formatter {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultCurrencyPrefix
	}
	return Formatter{prefix: prefix}
}

// Format renders amount as e.g. "R 1,200,501". Nil, NaN and infinite
// amounts render as zero. The zero Formatter uses DefaultCurrencyPrefix.
func (f Formatter) Format(amount *float64) string {
	prefix := f.prefix
	if prefix == "" {
		prefix = DefaultCurrencyPrefix
	}
	if amount == nil || !isFinite(*amount) {
		return prefix + " 0"
	}
	whole := decimal.NewFromFloat(*amount).RoundBank(0)
	return prefix + " " + humanize.BigComma(whole.BigInt())
}

// FormatAmount renders amount with the default currency prefix.
func FormatAmount(amount *float64) string {
	return NewFormatter(DefaultCurrencyPrefix).Format(amount)
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
