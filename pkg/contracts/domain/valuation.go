package domain

import (
	"time"
)

// IndustryMultiples holds the revenue/EBITDA/SDE multiples for one industry.
type IndustryMultiples struct {
	Revenue float64 `json:"revenue"`
	EBITDA  float64 `json:"ebitda"`
	SDE     float64 `json:"sde"`
}

// IncomeValuation is the income-based method output: a five-year DCF plus
// a capitalization-of-earnings figure.
type IncomeValuation struct {
	DCFValue            float64   `json:"dcf_value"`
	CapitalizationValue float64   `json:"capitalization_value"`
	ProjectedFlows      []float64 `json:"projected_flows"`
	TerminalValue       float64   `json:"terminal_value"`
}

// MarketValuation is the market-based method output. EBITDA and SDE
// multiples are zero when the underlying earnings figure is not positive.
type MarketValuation struct {
	RevenueMultiple float64           `json:"revenue_multiple"`
	EBITDAMultiple  float64           `json:"ebitda_multiple"`
	SDEMultiple     float64           `json:"sde_multiple"`
	MultiplesUsed   IndustryMultiples `json:"multiples_used"`
}

// ValuationRange brackets the positive method estimates.
// Low = min x 0.85, High = max x 1.15, Mid = arithmetic mean.
type ValuationRange struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// MethodologyNotes documents the assumptions behind a valuation run.
type MethodologyNotes struct {
	AssetBased      string   `json:"asset_based"`
	DCF             string   `json:"dcf"`
	MarketMultiples string   `json:"market_multiples"`
	Assumptions     []string `json:"assumptions"`
}

// ValuationResult is one complete valuation of a FinancialRecord. It is a
// request-scoped value object; callers may persist it but the engine never
// does.
type ValuationResult struct {
	AssetBased       float64          `json:"asset_based"`
	IncomeBased      IncomeValuation  `json:"income_based"`
	MarketBased      MarketValuation  `json:"market_based"`
	ValuationRange   ValuationRange   `json:"valuation_range"`
	AllEstimates     []float64        `json:"all_estimates"`
	Anomalies        []string         `json:"anomalies"`
	LowConfidence    bool             `json:"low_confidence"`
	MethodologyNotes MethodologyNotes `json:"methodology_notes"`
	ValuationDate    time.Time        `json:"valuation_date"`
}
