// Package swot derives a strengths/weaknesses/opportunities/threats
// analysis from a canonical financial record, either through the
// deterministic rule tables or an optional AI generation path with a
// silent rule-based fallback.
package swot

import (
	"bizval/pkg/contracts/domain"
)

// ComputeRatios derives the full ratio set from a record. Any ratio whose
// denominator is zero or negative reports as zero; ratios never error.
func ComputeRatios(rec domain.FinancialRecord) domain.FinancialRatios {
	var r domain.FinancialRatios

	if rec.Revenue > 0 {
		r.EBITDAMargin = rec.EBITDA / rec.Revenue * 100
		r.NetMargin = rec.NetIncome / rec.Revenue * 100
		r.GrossMargin = rec.GrossProfit / rec.Revenue * 100
		r.OperatingMargin = (rec.Revenue - rec.CostOfGoodsSold - rec.OperatingExpenses) / rec.Revenue * 100
	}

	equity := rec.Equity()
	if rec.TotalAssets > 0 {
		r.DebtToAssets = rec.TotalLiabilities / rec.TotalAssets * 100
		r.AssetTurnover = rec.Revenue / rec.TotalAssets
		r.ROA = rec.NetIncome / rec.TotalAssets * 100
	}
	if equity > 0 {
		r.DebtToEquity = rec.TotalLiabilities / equity * 100
		r.ROE = rec.NetIncome / equity * 100
	}

	if rec.Employees > 0 {
		r.RevenuePerEmployee = rec.Revenue / float64(rec.Employees)
	}
	if rec.TotalLiabilities > 0 {
		r.CurrentRatio = (rec.Cash + rec.AccountsReceivable) / rec.TotalLiabilities
		r.QuickRatio = r.CurrentRatio
	}
	if rec.Inventory > 0 {
		r.InventoryTurnover = rec.CostOfGoodsSold / rec.Inventory
	}

	return r
}
