package domain

// Default placeholders applied when extraction finds nothing usable.
const (
	DefaultCompanyName = "Extracted Company"
	DefaultIndustry    = "General Business"
)

// FinancialRecord is the canonical financial-metrics record produced by
// extraction and consumed by the valuation and SWOT engines. After cleaning,
// every numeric field holds a value; absent source data becomes zero and
// absent strings become the documented placeholders.
type FinancialRecord struct {
	CompanyName        string  `json:"company_name"`
	Industry           string  `json:"industry"`
	Revenue            float64 `json:"revenue" validate:"gte=0"`
	EBITDA             float64 `json:"ebitda"`
	SDE                float64 `json:"sde"`
	NetIncome          float64 `json:"net_income"`
	GrossProfit        float64 `json:"gross_profit" validate:"gte=0"`
	CostOfGoodsSold    float64 `json:"cost_of_goods_sold" validate:"gte=0"`
	OperatingExpenses  float64 `json:"operating_expenses" validate:"gte=0"`
	TotalAssets        float64 `json:"total_assets" validate:"gte=0"`
	TotalLiabilities   float64 `json:"total_liabilities" validate:"gte=0"`
	Inventory          float64 `json:"inventory" validate:"gte=0"`
	AccountsReceivable float64 `json:"accounts_receivable" validate:"gte=0"`
	Cash               float64 `json:"cash" validate:"gte=0"`
	EquipmentValue     float64 `json:"equipment_value" validate:"gte=0"`
	Employees          int     `json:"employees" validate:"gte=0"`
}

// EmptyRecord returns an all-default record: zero metrics and placeholder
// company name and industry. It is the "always succeed with best-effort
// data" fallback for unparseable input.
func EmptyRecord() FinancialRecord {
	return FinancialRecord{
		CompanyName: DefaultCompanyName,
		Industry:    DefaultIndustry,
	}
}

// Equity returns total assets minus total liabilities.
func (r FinancialRecord) Equity() float64 {
	return r.TotalAssets - r.TotalLiabilities
}

// Sheet is an ephemeral tabular view of one sheet (or table) of an uploaded
// document. Columns carry header names in source order; every row is aligned
// to Columns, cells already stringified by the file parser. Column order is
// preserved so that mapping conflicts resolve deterministically.
type Sheet struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// IsEmpty reports whether the sheet has no usable data.
func (s Sheet) IsEmpty() bool {
	return len(s.Columns) == 0 || len(s.Rows) == 0
}

// Cell returns the value at (row, col), or "" when the row is ragged.
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	if col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	return s.Rows[row][col]
}

// Column returns all cell values of the named column in row order.
func (s Sheet) Column(col int) []string {
	values := make([]string, 0, len(s.Rows))
	for i := range s.Rows {
		values = append(values, s.Cell(i, col))
	}
	return values
}
