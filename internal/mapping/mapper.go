package mapping

import (
	"log/slog"
	"strings"

	"bizval/internal/match"
)

// AcceptanceThreshold is the minimum similarity score at which a column is
// mapped onto a canonical field. Below it, no mapping is recorded.
const AcceptanceThreshold = 0.7

// Ledger-mode column names. A row whose schema is exactly {Item, Amount} is
// a two-column ledger and is mapped by label lookup instead of per-column
// similarity scoring.
const (
	ledgerKeyColumn   = "item"
	ledgerValueColumn = "amount"
)

// Mapper maps one row of arbitrary key/value data onto a partial canonical
// record. It is stateless apart from its logger and safe for concurrent use.
type Mapper struct {
	logger *slog.Logger
}

// NewMapper creates a row mapper. A nil logger falls back to slog.Default().
func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

// MapRow maps a single row onto canonical fields. cells is aligned to
// columns; ragged rows are tolerated. The result holds only confidently
// mapped fields, with values already passed through ProcessValue; it is
// never padded with defaults.
//
// When several columns win the same field, the later column overwrites the
// earlier one. That can drop data; it is logged and deliberately never
// surfaced as an error.
func (m *Mapper) MapRow(columns []string, cells []string) map[Field]any {
	if isLedgerSchema(columns) {
		return m.mapLedgerRow(columns, cells)
	}

	mapped := make(map[Field]any)
	for i, column := range columns {
		field, score, ok := BestField(column)
		if !ok {
			continue
		}
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		if prev, exists := mapped[field]; exists {
			m.logger.Warn("column mapping conflict, keeping later column",
				slog.String("column", column),
				slog.String("field", string(field)),
				slog.Any("dropped_value", prev),
			)
		}
		mapped[field] = ProcessValue(field, value)
		m.logger.Debug("mapped column",
			slog.String("column", column),
			slog.String("field", string(field)),
			slog.Float64("score", score),
		)
	}
	return mapped
}

// mapLedgerRow handles the Item/Amount table shape: the Item cell is the
// label, the Amount cell the value.
func (m *Mapper) mapLedgerRow(columns []string, cells []string) map[Field]any {
	mapped := make(map[Field]any)

	itemIdx, amountIdx := -1, -1
	for i, col := range columns {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case ledgerKeyColumn:
			itemIdx = i
		case ledgerValueColumn:
			amountIdx = i
		}
	}
	if itemIdx < 0 || amountIdx < 0 || itemIdx >= len(cells) || amountIdx >= len(cells) {
		return mapped
	}

	field, ok := MatchLabel(cells[itemIdx])
	if !ok {
		return mapped
	}
	mapped[field] = ProcessValue(field, cells[amountIdx])
	m.logger.Debug("mapped ledger row",
		slog.String("item", cells[itemIdx]),
		slog.String("field", string(field)),
	)
	return mapped
}

// BestField finds the canonical field whose patterns best match the column
// name. It returns ok=false when no (field, pattern) pair clears the
// acceptance threshold.
func BestField(column string) (Field, float64, bool) {
	name := strings.ToLower(strings.TrimSpace(column))
	var best Field
	bestScore := 0.0
	for _, field := range FieldOrder {
		for _, pattern := range fieldPatterns[field] {
			if score := match.Score(name, pattern); score > bestScore && score > AcceptanceThreshold {
				bestScore = score
				best = field
			}
		}
	}
	if bestScore == 0 {
		return "", 0, false
	}
	return best, bestScore, true
}

// MatchLabel maps a ledger label (an Item cell, a CSV Metric name, a text
// line prefix) onto a canonical field by substring containment against the
// pattern tables. The longest matching pattern wins so that "Net Income"
// lands on net_income rather than on revenue's generic "income" synonym;
// ties break by canonical field order.
func MatchLabel(label string) (Field, bool) {
	name := strings.ToLower(strings.TrimSpace(label))
	if name == "" {
		return "", false
	}
	var best Field
	bestLen := 0
	for _, field := range FieldOrder {
		for _, pattern := range fieldPatterns[field] {
			// Pattern tables use underscores; labels in ledgers use spaces.
			spaced := strings.ReplaceAll(pattern, "_", " ")
			if strings.Contains(name, spaced) || strings.Contains(name, pattern) {
				if len(pattern) > bestLen {
					bestLen = len(pattern)
					best = field
				}
			}
		}
	}
	if bestLen == 0 {
		return "", false
	}
	return best, true
}

// isLedgerSchema reports whether the row schema is exactly {Item, Amount}.
func isLedgerSchema(columns []string) bool {
	if len(columns) != 2 {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(columns[0]))
	b := strings.ToLower(strings.TrimSpace(columns[1]))
	return (a == ledgerKeyColumn && b == ledgerValueColumn) ||
		(a == ledgerValueColumn && b == ledgerKeyColumn)
}
