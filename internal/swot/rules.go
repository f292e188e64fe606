package swot

import (
	"fmt"
	"strings"
	"time"

	"bizval/pkg/contracts/domain"
)

// categoryCap bounds each SWOT category to its first entries in
// evaluation order.
const categoryCap = 8

// industryEntry is the fixed opportunity/threat pair contributed when a
// record's industry matches one of the entry's keywords.
type industryEntry struct {
	keywords    []string
	opportunity string
	threat      string
}

var industryEntries = []industryEntry{
	{
		keywords:    []string{"technology", "software"},
		opportunity: "Digital transformation trends create opportunities for technology adoption",
		threat:      "Rapid technology shifts risk product obsolescence without sustained R&D investment",
	},
	{
		keywords:    []string{"healthcare", "medical"},
		opportunity: "Aging population and healthcare digitization create growth opportunities",
		threat:      "Regulatory and reimbursement changes may compress healthcare margins",
	},
	{
		keywords:    []string{"manufacturing", "industrial"},
		opportunity: "Industry 4.0 and automation trends present efficiency improvement opportunities",
		threat:      "Supply chain disruptions and input cost inflation pressure manufacturing margins",
	},
	{
		keywords:    []string{"retail"},
		opportunity: "Omnichannel and e-commerce expansion open new revenue channels",
		threat:      "E-commerce competition and shifting consumer behavior pressure store traffic",
	},
	{
		keywords:    []string{"financial", "banking"},
		opportunity: "Digital banking adoption creates opportunities for new product offerings",
		threat:      "Fintech disruption and regulatory tightening threaten established revenue streams",
	},
}

var generalThreats = []string{
	"Economic uncertainty and market volatility pose ongoing risks",
	"Competitive pressure and market saturation in key segments",
	"Regulatory changes and compliance requirements may impact operations",
}

// Category fillers guaranteeing non-empty output.
const (
	fillerStrength    = "Company shows potential for operational improvements"
	fillerWeakness    = "Limited financial data available for comprehensive weakness analysis"
	fillerOpportunity = "Market conditions present various growth opportunities"
	fillerThreat      = "General market and economic risks apply to all businesses"
)

// RuleBased produces the deterministic SWOT analysis from the rule
// tables. Every rule evaluates independently; each category keeps its
// first eight entries and receives a filler when no rule fired.
func RuleBased(rec domain.FinancialRecord, ratios domain.FinancialRatios) domain.SwotResult {
	result := domain.SwotResult{
		CompanyName:   rec.CompanyName,
		Industry:      rec.Industry,
		Strengths:     strengths(ratios),
		Weaknesses:    weaknesses(ratios),
		Opportunities: opportunities(rec.Industry, ratios),
		Threats:       threats(rec.Industry, ratios),
		Ratios:        ratios,
		AnalysisType:  domain.AnalysisTypeRuleBased,
		GeneratedAt:   time.Now().UTC(),
	}

	result.Strengths = capped(result.Strengths, fillerStrength)
	result.Weaknesses = capped(result.Weaknesses, fillerWeakness)
	result.Opportunities = capped(result.Opportunities, fillerOpportunity)
	result.Threats = capped(result.Threats, fillerThreat)
	return result
}

func strengths(r domain.FinancialRatios) []string {
	var out []string

	if r.EBITDAMargin > 15 {
		out = append(out, fmt.Sprintf("Strong EBITDA margin of %.1f%% indicates efficient operations", r.EBITDAMargin))
	} else if r.EBITDAMargin > 10 {
		out = append(out, fmt.Sprintf("Healthy EBITDA margin of %.1f%% shows good operational efficiency", r.EBITDAMargin))
	}

	if r.NetMargin > 10 {
		out = append(out, fmt.Sprintf("Excellent net profit margin of %.1f%% demonstrates strong profitability", r.NetMargin))
	} else if r.NetMargin > 5 {
		out = append(out, fmt.Sprintf("Good net profit margin of %.1f%% shows solid financial performance", r.NetMargin))
	}

	if r.GrossMargin > 40 {
		out = append(out, fmt.Sprintf("Strong gross margin of %.1f%% indicates effective cost management", r.GrossMargin))
	} else if r.GrossMargin > 30 {
		out = append(out, fmt.Sprintf("Healthy gross margin of %.1f%% shows good pricing power", r.GrossMargin))
	}

	if r.DebtToAssets < 30 {
		out = append(out, fmt.Sprintf("Low debt-to-assets ratio of %.1f%% indicates strong financial stability", r.DebtToAssets))
	} else if r.DebtToAssets < 50 {
		out = append(out, fmt.Sprintf("Moderate debt-to-assets ratio of %.1f%% shows manageable leverage", r.DebtToAssets))
	}

	if r.RevenuePerEmployee > 200_000 {
		out = append(out, fmt.Sprintf("High revenue per employee of $%s indicates efficient workforce", domain.FormatMoney(r.RevenuePerEmployee)))
	} else if r.RevenuePerEmployee > 100_000 {
		out = append(out, fmt.Sprintf("Good revenue per employee of $%s shows productive operations", domain.FormatMoney(r.RevenuePerEmployee)))
	}

	if r.CurrentRatio > 2 {
		out = append(out, fmt.Sprintf("Strong liquidity position with current ratio of %.1f", r.CurrentRatio))
	} else if r.CurrentRatio > 1.5 {
		out = append(out, fmt.Sprintf("Good liquidity position with current ratio of %.1f", r.CurrentRatio))
	}

	if r.ROA > 10 {
		out = append(out, fmt.Sprintf("Strong return on assets of %.1f%% indicates efficient asset utilization", r.ROA))
	} else if r.ROA > 5 {
		out = append(out, fmt.Sprintf("Good return on assets of %.1f%% shows effective asset management", r.ROA))
	}

	return out
}

func weaknesses(r domain.FinancialRatios) []string {
	var out []string

	if r.EBITDAMargin < 5 {
		out = append(out, fmt.Sprintf("Low EBITDA margin of %.1f%% indicates operational inefficiencies", r.EBITDAMargin))
	} else if r.EBITDAMargin < 10 {
		out = append(out, fmt.Sprintf("Below-average EBITDA margin of %.1f%% suggests room for improvement", r.EBITDAMargin))
	}

	if r.NetMargin < 2 {
		out = append(out, fmt.Sprintf("Low net profit margin of %.1f%% indicates profitability challenges", r.NetMargin))
	} else if r.NetMargin < 5 {
		out = append(out, fmt.Sprintf("Below-average net profit margin of %.1f%% suggests cost management issues", r.NetMargin))
	}

	if r.DebtToAssets > 70 {
		out = append(out, fmt.Sprintf("High debt-to-assets ratio of %.1f%% indicates significant financial risk", r.DebtToAssets))
	} else if r.DebtToAssets > 50 {
		out = append(out, fmt.Sprintf("Elevated debt-to-assets ratio of %.1f%% suggests financial stress", r.DebtToAssets))
	}

	if r.RevenuePerEmployee < 50_000 {
		out = append(out, fmt.Sprintf("Low revenue per employee of $%s indicates operational inefficiency", domain.FormatMoney(r.RevenuePerEmployee)))
	} else if r.RevenuePerEmployee < 100_000 {
		out = append(out, fmt.Sprintf("Below-average revenue per employee of $%s suggests productivity issues", domain.FormatMoney(r.RevenuePerEmployee)))
	}

	if r.CurrentRatio < 1 {
		out = append(out, fmt.Sprintf("Low current ratio of %.1f indicates liquidity concerns", r.CurrentRatio))
	} else if r.CurrentRatio < 1.5 {
		out = append(out, fmt.Sprintf("Below-average current ratio of %.1f suggests cash flow challenges", r.CurrentRatio))
	}

	return out
}

func opportunities(industry string, r domain.FinancialRatios) []string {
	var out []string

	if r.EBITDAMargin > 10 {
		out = append(out, "Strong operational efficiency provides foundation for expansion and growth")
	}
	if r.DebtToAssets < 40 {
		out = append(out, "Low debt levels provide capacity for strategic investments and acquisitions")
	}
	if r.RevenuePerEmployee > 150_000 {
		out = append(out, "High productivity enables scaling operations without proportional headcount increases")
	}
	if r.CurrentRatio > 2 {
		out = append(out, "Strong liquidity position enables opportunistic investments and market expansion")
	}

	if entry, ok := industryFor(industry); ok {
		out = append(out, entry.opportunity)
	}
	return out
}

func threats(industry string, r domain.FinancialRatios) []string {
	var out []string

	if r.DebtToAssets > 60 {
		out = append(out, "High debt levels increase vulnerability to interest rate changes and economic downturns")
	}
	if r.CurrentRatio < 1.2 {
		out = append(out, "Low liquidity position increases risk during economic uncertainty or market disruptions")
	}
	if r.EBITDAMargin < 8 {
		out = append(out, "Low operational efficiency makes the company vulnerable to competitive pressure")
	}

	if entry, ok := industryFor(industry); ok {
		out = append(out, entry.threat)
	}
	out = append(out, generalThreats...)
	return out
}

func industryFor(industry string) (industryEntry, bool) {
	lower := strings.ToLower(industry)
	for _, entry := range industryEntries {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry, true
			}
		}
	}
	return industryEntry{}, false
}

func capped(items []string, filler string) []string {
	if len(items) == 0 {
		return []string{filler}
	}
	if len(items) > categoryCap {
		items = items[:categoryCap]
	}
	return items
}
