package domain

import (
	"strconv"
	"strings"
)

// FormatMoney renders a value as a whole number with thousands separators,
// the shared presentation for dollar amounts in summaries, SWOT messages,
// and reports. Callers prepend their own currency symbol.
func FormatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 0, 64)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
