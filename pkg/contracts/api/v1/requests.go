// Package api contains the request contracts for the analysis HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"bizval/pkg/contracts/domain"
)

// AnalysisRequest is the JSON body accepted by the valuation, SWOT,
// analyze, and report endpoints. Zero rates select the engine defaults
// (3% growth, 12% discount).
type AnalysisRequest struct {
	CompanyData  domain.FinancialRecord `json:"company_data"`
	GrowthRate   float64                `json:"growth_rate" validate:"gte=0,lt=1"`
	DiscountRate float64                `json:"discount_rate" validate:"gte=0,lt=1"`
}

// ExtractResponse wraps an extracted record together with the name of the
// file it came from.
type ExtractResponse struct {
	Filename    string                 `json:"filename"`
	CompanyData domain.FinancialRecord `json:"company_data"`
}
