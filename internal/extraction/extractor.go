// Package extraction locates company identity and financial metrics inside
// parsed tabular documents and produces the canonical financial record.
// Extraction never fails a request: input that yields nothing produces the
// all-default record.
package extraction

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"bizval/internal/mapping"
	"bizval/pkg/contracts/domain"
)

// Cascade thresholds. Each tier only runs while the accumulated metric
// count is below its threshold (tier 1 always runs).
const (
	tier2Threshold = 5
	tier3Threshold = 3
	tier4Threshold = 2

	// bestSheetMinScore is the metric count at which a single sheet's data
	// is used alone instead of merging all sheets.
	bestSheetMinScore = 3

	// headerScanRows bounds how deep the company-name row scan looks.
	headerScanRows = 3
)

// Magnitude buckets for tier-2 classification. The thresholds are part of
// the extraction contract; callers depend on them for behavioral parity.
const (
	magnitudeRevenue   = 1_000_000
	magnitudeEBITDA    = 100_000
	magnitudeInventory = 10_000
)

var companySuffixKeywords = []string{"company", "corp", "inc", "llc", "ltd", "group", "holdings"}

var industryHeaderKeywords = []string{"industry", "sector", "business", "type", "category"}

var employeeHeaderKeywords = []string{"employees", "staff", "headcount", "fte", "full_time_equivalent"}

// genericFinancialKeywords mark columns worth magnitude-bucketing in tier 2.
var genericFinancialKeywords = []string{"amount", "value", "total", "sum", "balance"}

// columnKeywords drive the narrow header classification used by tiers 3
// and 4. Order matters: the first matching field claims the column.
var columnKeywords = []struct {
	field    mapping.Field
	keywords []string
}{
	{mapping.FieldRevenue, []string{"revenue", "sales", "income"}},
	{mapping.FieldEBITDA, []string{"ebitda", "operating"}},
	{mapping.FieldTotalAssets, []string{"assets", "asset"}},
	{mapping.FieldInventory, []string{"inventory", "stock"}},
	{mapping.FieldAccountsReceivable, []string{"receivable", "ar"}},
	{mapping.FieldCash, []string{"cash", "bank"}},
	{mapping.FieldTotalLiabilities, []string{"liabilities", "debt"}},
}

// metricFields is the cascade's field order for tier 1. Employees is
// handled by its own scan, company name and industry by theirs.
var metricFields = []mapping.Field{
	mapping.FieldRevenue,
	mapping.FieldEBITDA,
	mapping.FieldSDE,
	mapping.FieldNetIncome,
	mapping.FieldGrossProfit,
	mapping.FieldCostOfGoodsSold,
	mapping.FieldOperatingExpenses,
	mapping.FieldTotalAssets,
	mapping.FieldTotalLiabilities,
	mapping.FieldInventory,
	mapping.FieldAccountsReceivable,
	mapping.FieldCash,
	mapping.FieldEquipment,
}

// findings accumulates what one sheet (or the merge of several) yielded.
type findings struct {
	companyName string
	industry    string
	metrics     map[mapping.Field]float64
	employees   int
}

func newFindings() *findings {
	return &findings{metrics: make(map[mapping.Field]float64)}
}

// score is the count of distinct metrics found, employees included.
func (f *findings) score() int {
	n := len(f.metrics)
	if f.employees > 0 {
		n++
	}
	return n
}

// merge folds other into f; other wins on conflict.
func (f *findings) merge(other *findings) {
	if other.companyName != "" {
		f.companyName = other.companyName
	}
	if other.industry != "" {
		f.industry = other.industry
	}
	for field, v := range other.metrics {
		f.metrics[field] = v
	}
	if other.employees > 0 {
		f.employees = other.employees
	}
}

// Extractor turns parsed sheets or text into canonical financial records.
// It is stateless across calls and safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
	mapper *mapping.Mapper
}

// NewExtractor creates an extractor. A nil logger falls back to
// slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		logger: logger,
		mapper: mapping.NewMapper(logger),
	}
}

// ExtractSheets runs the per-sheet cascade over every sheet, scores them,
// and resolves to a cleaned canonical record. A best sheet scoring at
// least three metrics is used alone; otherwise all findings merge, later
// sheets overwriting earlier ones; when nothing was found the all-default
// record is returned. The result is deterministic for identical input.
func (e *Extractor) ExtractSheets(ctx context.Context, sheets []domain.Sheet) domain.FinancialRecord {
	var best *findings
	bestScore := 0
	combined := newFindings()
	anyFound := false

	for _, sheet := range sheets {
		if sheet.IsEmpty() {
			e.logger.DebugContext(ctx, "skipping empty sheet", slog.String("sheet", sheet.Name))
			continue
		}

		f := e.extractSheet(ctx, sheet)
		score := f.score()
		e.logger.InfoContext(ctx, "sheet scored",
			slog.String("sheet", sheet.Name),
			slog.Int("score", score),
		)
		if score == 0 && f.companyName == "" && f.industry == "" {
			continue
		}
		anyFound = true
		if score > bestScore {
			bestScore = score
			best = f
		}
		combined.merge(f)
	}

	switch {
	case bestScore >= bestSheetMinScore:
		e.logger.InfoContext(ctx, "using best sheet data", slog.Int("score", bestScore))
		return clean(best)
	case anyFound:
		e.logger.InfoContext(ctx, "merging data from all sheets")
		return clean(combined)
	default:
		e.logger.InfoContext(ctx, "no data found in any sheet")
		return domain.EmptyRecord()
	}
}

// extractSheet runs the full per-sheet pipeline: identity scans, the
// four-tier metric cascade, and the employee scan.
func (e *Extractor) extractSheet(ctx context.Context, sheet domain.Sheet) *findings {
	f := newFindings()
	f.companyName = findCompanyName(sheet)
	f.industry = findIndustry(sheet)

	// Ledger-shaped sheets map row by row instead of column scanning.
	if ledger := e.extractLedger(sheet); ledger != nil {
		f.merge(ledger)
	} else {
		e.extractMetrics(ctx, sheet, f)
	}

	if f.employees == 0 {
		f.employees = findEmployees(sheet)
	}
	return f
}

// extractLedger handles Item/Amount sheets through the row mapper. Returns
// nil when the sheet is not ledger-shaped.
func (e *Extractor) extractLedger(sheet domain.Sheet) *findings {
	cols := make([]string, len(sheet.Columns))
	for i, c := range sheet.Columns {
		cols[i] = strings.ToLower(strings.TrimSpace(c))
	}
	if len(cols) != 2 {
		return nil
	}
	if !(cols[0] == "item" && cols[1] == "amount") && !(cols[0] == "amount" && cols[1] == "item") {
		return nil
	}

	f := newFindings()
	for _, row := range sheet.Rows {
		for field, value := range e.mapper.MapRow(sheet.Columns, row) {
			switch field {
			case mapping.FieldCompanyName:
				if s, ok := value.(string); ok && s != "" {
					f.companyName = s
				}
			case mapping.FieldIndustry:
				if s, ok := value.(string); ok && s != "" {
					f.industry = s
				}
			case mapping.FieldEmployees:
				if n, ok := mapping.Numeric(value); ok && n > 0 {
					f.employees = int(n)
				}
			default:
				if n, ok := mapping.Numeric(value); ok {
					f.metrics[field] = n
				}
			}
		}
	}
	return f
}

// extractMetrics runs the tiered cascade over a column-oriented sheet.
func (e *Extractor) extractMetrics(ctx context.Context, sheet domain.Sheet, f *findings) {
	tier1HeaderPatterns(sheet, f)
	if len(f.metrics) < tier2Threshold {
		e.logger.DebugContext(ctx, "running column pattern analysis", slog.String("sheet", sheet.Name))
		tier2ColumnPatterns(sheet, f)
	}
	if len(f.metrics) < tier3Threshold {
		e.logger.DebugContext(ctx, "running data structure analysis", slog.String("sheet", sheet.Name))
		tier3DataStructure(sheet, f)
	}
	if len(f.metrics) < tier4Threshold {
		e.logger.DebugContext(ctx, "running numeric fallback scan", slog.String("sheet", sheet.Name))
		tier4AnyNumeric(sheet, f)
	}
}

// tier1HeaderPatterns claims columns whose lowercased header contains a
// canonical pattern substring, taking the first parseable value in the
// column. No similarity scoring here; containment is enough.
func tier1HeaderPatterns(sheet domain.Sheet, f *findings) {
	for _, field := range metricFields {
		if _, found := f.metrics[field]; found {
			continue
		}
	patterns:
		for _, pattern := range mapping.Patterns(field) {
			spaced := strings.ReplaceAll(pattern, "_", " ")
			for col, header := range sheet.Columns {
				h := strings.ToLower(header)
				if !strings.Contains(h, pattern) && !strings.Contains(h, spaced) {
					continue
				}
				for _, cell := range sheet.Column(col) {
					if v, ok := mapping.ParseAmount(cell); ok {
						f.metrics[field] = v
						break patterns
					}
				}
			}
		}
	}
}

// tier2ColumnPatterns magnitude-buckets columns with generic financial
// headers: the column maximum lands on revenue, ebitda, or inventory
// depending on size. Crude, and kept crude on purpose for parity with the
// rest of the pipeline's consumers.
func tier2ColumnPatterns(sheet domain.Sheet, f *findings) {
	for col, header := range sheet.Columns {
		h := strings.ToLower(header)
		if !containsAny(h, genericFinancialKeywords) {
			continue
		}
		max, ok := columnMax(sheet, col)
		if !ok {
			continue
		}
		switch {
		case max > magnitudeRevenue:
			setIfAbsent(f, mapping.FieldRevenue, max)
		case max > magnitudeEBITDA:
			setIfAbsent(f, mapping.FieldEBITDA, max)
		case max > magnitudeInventory:
			setIfAbsent(f, mapping.FieldInventory, max)
		}
	}
}

// tier3DataStructure claims columns by narrow header keywords, taking the
// first positive parseable value scanning down the column.
func tier3DataStructure(sheet domain.Sheet, f *findings) {
	for col, header := range sheet.Columns {
		h := strings.ToLower(header)
		for _, ck := range columnKeywords {
			if !containsAny(h, ck.keywords) {
				continue
			}
			if _, found := f.metrics[ck.field]; found {
				break
			}
			for _, cell := range sheet.Column(col) {
				if v, ok := mapping.ParseAmount(cell); ok && v > 0 {
					f.metrics[ck.field] = v
					break
				}
			}
			break
		}
	}
}

// tier4AnyNumeric is the last resort: every column with at least one
// positive value contributes its maximum, classified by header keyword
// when possible, otherwise parked on revenue first and total assets
// second.
func tier4AnyNumeric(sheet domain.Sheet, f *findings) {
	for col, header := range sheet.Columns {
		max, ok := columnMax(sheet, col)
		if !ok {
			continue
		}
		h := strings.ToLower(header)

		claimed := false
		for _, ck := range columnKeywords {
			if containsAny(h, ck.keywords) {
				setIfAbsent(f, ck.field, max)
				claimed = true
				break
			}
		}
		if claimed {
			continue
		}
		if containsAny(h, []string{"employee", "staff", "fte"}) {
			if f.employees == 0 {
				f.employees = int(max)
			}
			continue
		}
		if _, found := f.metrics[mapping.FieldRevenue]; !found {
			f.metrics[mapping.FieldRevenue] = max
		} else if _, found := f.metrics[mapping.FieldTotalAssets]; !found {
			f.metrics[mapping.FieldTotalAssets] = max
		}
	}
}

// findCompanyName applies the ordered company-name rules; the first rule
// that produces a value wins and later rules never run.
func findCompanyName(sheet domain.Sheet) string {
	// Rule 1: a header containing a company-suffix keyword; take the first
	// non-empty value in that column.
	for col, header := range sheet.Columns {
		if !containsAny(strings.ToLower(header), companySuffixKeywords) {
			continue
		}
		for _, cell := range sheet.Column(col) {
			if v := strings.TrimSpace(cell); len(v) > 3 {
				return v
			}
		}
	}

	// Rule 2: a cell in the first rows containing a suffix keyword.
	limit := min(headerScanRows, len(sheet.Rows))
	for row := 0; row < limit; row++ {
		for col := range sheet.Columns {
			v := strings.TrimSpace(sheet.Cell(row, col))
			if len(v) > 3 && containsAny(strings.ToLower(v), companySuffixKeywords) {
				return v
			}
		}
	}

	// Rule 3: any capitalized cell of at least 5 characters that mentions
	// a company suffix.
	for row := 0; row < limit; row++ {
		for col := range sheet.Columns {
			v := strings.TrimSpace(sheet.Cell(row, col))
			if len(v) >= 5 && startsUpper(v) &&
				containsAny(strings.ToLower(v), []string{"company", "corp", "inc", "llc", "ltd"}) {
				return v
			}
		}
	}
	return ""
}

// findIndustry takes the first non-empty value of the first column whose
// header mentions an industry keyword.
func findIndustry(sheet domain.Sheet) string {
	for col, header := range sheet.Columns {
		if !containsAny(strings.ToLower(header), industryHeaderKeywords) {
			continue
		}
		for _, cell := range sheet.Column(col) {
			if v := strings.TrimSpace(cell); v != "" {
				return v
			}
		}
	}
	return ""
}

// findEmployees takes the first parseable integer from an
// employee-keyword column.
func findEmployees(sheet domain.Sheet) int {
	for col, header := range sheet.Columns {
		if !containsAny(strings.ToLower(header), employeeHeaderKeywords) {
			continue
		}
		for _, cell := range sheet.Column(col) {
			if v, ok := mapping.ParseAmount(cell); ok && v > 0 {
				return int(v)
			}
		}
	}
	return 0
}

// clean converts findings into the canonical record, defaulting anything
// still missing: numeric fields to zero, identity fields to placeholders.
func clean(f *findings) domain.FinancialRecord {
	rec := domain.FinancialRecord{
		CompanyName:        strings.TrimSpace(f.companyName),
		Industry:           strings.TrimSpace(f.industry),
		Revenue:            f.metrics[mapping.FieldRevenue],
		EBITDA:             f.metrics[mapping.FieldEBITDA],
		SDE:                f.metrics[mapping.FieldSDE],
		NetIncome:          f.metrics[mapping.FieldNetIncome],
		GrossProfit:        f.metrics[mapping.FieldGrossProfit],
		CostOfGoodsSold:    f.metrics[mapping.FieldCostOfGoodsSold],
		OperatingExpenses:  f.metrics[mapping.FieldOperatingExpenses],
		TotalAssets:        f.metrics[mapping.FieldTotalAssets],
		TotalLiabilities:   f.metrics[mapping.FieldTotalLiabilities],
		Inventory:          f.metrics[mapping.FieldInventory],
		AccountsReceivable: f.metrics[mapping.FieldAccountsReceivable],
		Cash:               f.metrics[mapping.FieldCash],
		EquipmentValue:     f.metrics[mapping.FieldEquipment],
		Employees:          f.employees,
	}
	if rec.CompanyName == "" {
		rec.CompanyName = domain.DefaultCompanyName
	}
	if rec.Industry == "" {
		rec.Industry = domain.DefaultIndustry
	}
	return rec
}

func setIfAbsent(f *findings, field mapping.Field, v float64) {
	if _, found := f.metrics[field]; !found {
		f.metrics[field] = v
	}
}

// columnMax returns the maximum positive parseable value in a column.
func columnMax(sheet domain.Sheet, col int) (float64, bool) {
	max := 0.0
	found := false
	for _, cell := range sheet.Column(col) {
		if v, ok := mapping.ParseAmount(cell); ok && v > 0 {
			if !found || v > max {
				max = v
				found = true
			}
		}
	}
	return max, found
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
