package domain

// AnalysisResult bundles the complete output of one analysis run: the
// extracted (or submitted) record, its valuation, the SWOT assessment, and
// a prose executive summary for reporting.
type AnalysisResult struct {
	Record           FinancialRecord `json:"company_data"`
	Valuation        ValuationResult `json:"valuation_results"`
	Swot             SwotResult      `json:"swot_analysis"`
	ExecutiveSummary string          `json:"executive_summary"`
}
