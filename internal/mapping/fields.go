// Package mapping turns arbitrarily-named spreadsheet columns into canonical
// financial-record fields. It owns the closed field enumeration, the synonym
// pattern tables, and the fuzzy row mapper built on internal/match.
package mapping

// Field identifies one canonical financial-record field.
type Field string

// The closed canonical field set. All extraction output is expressed in
// these names.
const (
	FieldCompanyName        Field = "company_name"
	FieldIndustry           Field = "industry"
	FieldRevenue            Field = "revenue"
	FieldEBITDA             Field = "ebitda"
	FieldSDE                Field = "sde"
	FieldNetIncome          Field = "net_income"
	FieldGrossProfit        Field = "gross_profit"
	FieldCostOfGoodsSold    Field = "cost_of_goods_sold"
	FieldOperatingExpenses  Field = "operating_expenses"
	FieldTotalAssets        Field = "total_assets"
	FieldTotalLiabilities   Field = "total_liabilities"
	FieldInventory          Field = "inventory"
	FieldAccountsReceivable Field = "accounts_receivable"
	FieldCash               Field = "cash"
	FieldEquipment          Field = "equipment"
	FieldEmployees          Field = "employees"
)

// FieldOrder fixes the iteration order for pattern scans so that mapping is
// deterministic regardless of Go map iteration.
var FieldOrder = []Field{
	FieldCompanyName,
	FieldIndustry,
	FieldRevenue,
	FieldEBITDA,
	FieldSDE,
	FieldNetIncome,
	FieldGrossProfit,
	FieldCostOfGoodsSold,
	FieldOperatingExpenses,
	FieldTotalAssets,
	FieldTotalLiabilities,
	FieldInventory,
	FieldAccountsReceivable,
	FieldCash,
	FieldEquipment,
	FieldEmployees,
}

// fieldPatterns maps each canonical field to the header/label synonyms seen
// in the wild. Ordering within a list matters for label-contains matching:
// more specific synonyms come first.
var fieldPatterns = map[Field][]string{
	FieldCompanyName: {
		"company_name", "company", "business_name", "business", "entity",
		"organization", "client", "account_name", "name",
	},
	FieldIndustry: {
		"industry", "sector", "business_type", "business_sector",
		"business_category", "classification", "category",
	},
	FieldRevenue: {
		"total_revenue", "gross_revenue", "net_revenue", "annual_revenue",
		"operating_revenue", "revenue", "gross_sales", "net_sales", "sales",
		"turnover", "income",
	},
	FieldEBITDA: {
		"ebitda", "operating_income", "operating_profit", "operating_earnings",
		"earnings_before_interest", "ebit",
	},
	FieldSDE: {
		"seller_discretionary_earnings", "discretionary_earnings", "sde",
		"owner_benefit",
	},
	FieldNetIncome: {
		"net_income", "net_profit", "net_earnings", "profit_after_tax",
		"earnings_after_tax", "bottom_line", "profit", "earnings",
	},
	FieldGrossProfit: {
		"gross_profit", "gross_earnings",
	},
	FieldCostOfGoodsSold: {
		"cost_of_goods_sold", "cost_of_goods", "cost_of_sales", "cogs",
	},
	FieldOperatingExpenses: {
		"operating_expenses", "operating_costs", "opex", "overhead",
	},
	FieldTotalAssets: {
		"total_assets", "total_asset", "asset_base", "total_capital", "assets",
	},
	FieldTotalLiabilities: {
		"total_liabilities", "total_liability", "total_debt", "liabilities",
		"obligations", "debt",
	},
	FieldInventory: {
		"inventories", "inventory", "stock", "merchandise", "goods",
	},
	FieldAccountsReceivable: {
		"accounts_receivable", "trade_receivable", "receivables", "debtors",
		"ar",
	},
	FieldCash: {
		"cash_and_equivalents", "cash_and_cash_equivalents", "cash_balance",
		"bank_balance", "liquid_assets", "cash",
	},
	FieldEquipment: {
		"equipment_value", "equipment", "machinery", "fixtures", "fitout",
		"plant",
	},
	FieldEmployees: {
		"full_time_equivalent", "employee_count", "employees", "employee",
		"headcount", "staff", "workforce", "personnel", "fte",
	},
}

// Patterns returns the synonym list for a canonical field.
func Patterns(f Field) []string {
	return fieldPatterns[f]
}

// IsNumeric reports whether the field carries a numeric value. Company name
// and industry are the only free-text fields.
func (f Field) IsNumeric() bool {
	return f != FieldCompanyName && f != FieldIndustry
}

// IsMetric reports whether the field counts toward a sheet's metric score.
// Identity fields (company name, industry) do not.
func (f Field) IsMetric() bool {
	return f.IsNumeric()
}
