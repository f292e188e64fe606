package mapping

import (
	"strconv"
	"strings"
)

var currencyCleaner = strings.NewReplacer("$", "", ",", "", " ", "", "(", "", ")", "")

// ProcessValue cleans a raw cell value according to the field it was mapped
// to. Free-text fields come back as trimmed strings. Numeric fields are
// stripped of currency formatting; a value wrapped in parentheses is
// negative; values containing a decimal point parse as float64, everything
// else as int64. A value that still fails to parse is returned unchanged:
// zero-defaulting is owned by extraction's cleaning pass, not this layer.
func ProcessValue(field Field, raw string) any {
	trimmed := strings.TrimSpace(raw)
	if !field.IsNumeric() {
		return trimmed
	}

	negative := strings.Contains(trimmed, "(") && strings.Contains(trimmed, ")")
	clean := currencyCleaner.Replace(trimmed)
	if negative && !strings.HasPrefix(clean, "-") {
		clean = "-" + clean
	}

	if strings.Contains(clean, ".") {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return raw
		}
		return f
	}
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return raw
	}
	return n
}

// Numeric coerces a ProcessValue result to float64. ok is false for values
// that never parsed (the contract allows a numeric field to carry junk
// until the cleaning pass).
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// ParseAmount parses a cell directly as a cleaned number, without field
// context. Used by the extraction cascade when scanning columns for any
// parseable value.
func ParseAmount(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	negative := strings.Contains(trimmed, "(") && strings.Contains(trimmed, ")")
	clean := currencyCleaner.Replace(trimmed)
	if negative && !strings.HasPrefix(clean, "-") {
		clean = "-" + clean
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
