package domain

import (
	"time"
)

// Analysis type tags distinguishing the authoring path of a SwotResult.
const (
	AnalysisTypeRuleBased   = "Rule-Based"
	AnalysisTypeAIGenerated = "AI-Generated"
)

// FinancialRatios is the computed ratio set backing a SWOT analysis.
// Margins and return figures are percentages; turnover figures are plain
// multiples. Every ratio with a zero denominator is reported as zero.
type FinancialRatios struct {
	EBITDAMargin       float64 `json:"ebitda_margin"`
	NetMargin          float64 `json:"net_margin"`
	GrossMargin        float64 `json:"gross_margin"`
	OperatingMargin    float64 `json:"operating_margin"`
	DebtToAssets       float64 `json:"debt_to_assets"`
	DebtToEquity       float64 `json:"debt_to_equity"`
	RevenuePerEmployee float64 `json:"revenue_per_employee"`
	CurrentRatio       float64 `json:"current_ratio"`
	QuickRatio         float64 `json:"quick_ratio"`
	InventoryTurnover  float64 `json:"inventory_turnover"`
	AssetTurnover      float64 `json:"asset_turnover"`
	ROA                float64 `json:"roa"`
	ROE                float64 `json:"roe"`
}

// SwotResult carries the four SWOT categories (each capped at 8 entries and
// guaranteed non-empty) plus the ratio set they were derived from. The
// strategy fields are only populated on the AI-generated path.
type SwotResult struct {
	CompanyName   string          `json:"company_name"`
	Industry      string          `json:"industry"`
	Strengths     []string        `json:"strengths"`
	Weaknesses    []string        `json:"weaknesses"`
	Opportunities []string        `json:"opportunities"`
	Threats       []string        `json:"threats"`
	Ratios        FinancialRatios `json:"financial_metrics"`
	AnalysisType  string          `json:"analysis_type"`
	GeneratedAt   time.Time       `json:"generated_at"`

	StrategicRecommendations []string `json:"strategic_recommendations,omitempty"`
	KeyRisks                 []string `json:"key_risks,omitempty"`
	CompetitivePositioning   string   `json:"competitive_positioning,omitempty"`
	GrowthPotential          string   `json:"growth_potential,omitempty"`
	ModelUsed                string   `json:"model_used,omitempty"`
}
