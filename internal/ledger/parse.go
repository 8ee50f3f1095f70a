package ledger

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// decimalPattern accepts an optionally signed decimal with an optional
// fractional part. Partial forms such as "12." and ".5" are valid so that
// half-typed input keeps its place in the field.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// IsNumeric reports whether text is a non-empty decimal number.
func IsNumeric(text string) bool {
	return decimalPattern.MatchString(text)
}

// IsNumericOrEmpty is the input-acceptance predicate for amount fields:
// text is acceptable if it is empty or parses fully as a decimal number.
func IsNumericOrEmpty(text string) bool {
	return text == "" || IsNumeric(text)
}

// ParseDecimalOrZero parses text as a decimal number. Empty or unparsable
// text yields zero.
func ParseDecimalOrZero(text string) decimal.Decimal {
	if !IsNumeric(text) {
		return decimal.Zero
	}

	normalized := strings.TrimPrefix(text, "+")
	negative := strings.HasPrefix(normalized, "-")
	normalized = strings.TrimPrefix(normalized, "-")

	if strings.HasPrefix(normalized, ".") {
		normalized = "0" + normalized
	}
	normalized = strings.TrimSuffix(normalized, ".")

	if negative {
		normalized = "-" + normalized
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}
	return d
}
