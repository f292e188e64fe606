package swot

import (
	"fmt"
	"strings"

	"bizval/pkg/contracts/domain"
)

// industryContext carries the benchmark figures and qualitative context
// injected into the generation prompt.
type industryContext struct {
	AvgEBITDAMargin  int
	AvgRevenueGrowth int
	KeyMetrics       []string
	Trends           []string
}

var industryContexts = []struct {
	keywords []string
	ctx      industryContext
}{
	{
		keywords: []string{"technology", "software"},
		ctx: industryContext{
			AvgEBITDAMargin:  15,
			AvgRevenueGrowth: 20,
			KeyMetrics:       []string{"R&D investment", "user acquisition cost", "churn rate"},
			Trends:           []string{"AI/ML adoption", "cloud migration", "cybersecurity focus"},
		},
	},
	{
		keywords: []string{"manufacturing", "industrial"},
		ctx: industryContext{
			AvgEBITDAMargin:  12,
			AvgRevenueGrowth: 5,
			KeyMetrics:       []string{"production efficiency", "supply chain optimization", "quality control"},
			Trends:           []string{"Industry 4.0", "sustainability", "automation"},
		},
	},
	{
		keywords: []string{"healthcare", "medical"},
		ctx: industryContext{
			AvgEBITDAMargin:  18,
			AvgRevenueGrowth: 8,
			KeyMetrics:       []string{"patient outcomes", "regulatory compliance", "cost per patient"},
			Trends:           []string{"telemedicine", "AI diagnostics", "personalized medicine"},
		},
	},
	{
		keywords: []string{"retail"},
		ctx: industryContext{
			AvgEBITDAMargin:  8,
			AvgRevenueGrowth: 3,
			KeyMetrics:       []string{"inventory turnover", "customer acquisition", "same-store sales"},
			Trends:           []string{"e-commerce growth", "omnichannel", "sustainability"},
		},
	},
	{
		keywords: []string{"financial", "banking"},
		ctx: industryContext{
			AvgEBITDAMargin:  25,
			AvgRevenueGrowth: 6,
			KeyMetrics:       []string{"net interest margin", "loan loss provisions", "capital adequacy"},
			Trends:           []string{"fintech disruption", "digital banking", "regulatory changes"},
		},
	},
}

var defaultIndustryContext = industryContext{
	AvgEBITDAMargin:  10,
	AvgRevenueGrowth: 5,
	KeyMetrics:       []string{"operational efficiency", "market share", "customer satisfaction"},
	Trends:           []string{"digital transformation", "sustainability", "innovation"},
}

func contextFor(industry string) industryContext {
	lower := strings.ToLower(industry)
	for _, entry := range industryContexts {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.ctx
			}
		}
	}
	return defaultIndustryContext
}

const generationSystemPrompt = "You are a senior business analyst specializing in strategic analysis and SWOT assessments. Provide detailed, data-driven insights."

// buildPrompt assembles the structured generation prompt: company data,
// computed ratios, industry benchmarks, and the required JSON response
// schema.
func buildPrompt(rec domain.FinancialRecord, ratios domain.FinancialRatios) string {
	ic := contextFor(rec.Industry)

	var b strings.Builder
	b.WriteString("You are a senior business analyst and strategic consultant. ")
	b.WriteString("Analyze the following company data and provide a comprehensive, actionable SWOT analysis.\n\n")

	b.WriteString("COMPANY INFORMATION:\n")
	fmt.Fprintf(&b, "- Company Name: %s\n", rec.CompanyName)
	fmt.Fprintf(&b, "- Industry: %s\n", rec.Industry)
	fmt.Fprintf(&b, "- Revenue: $%s\n", domain.FormatMoney(rec.Revenue))
	fmt.Fprintf(&b, "- EBITDA: $%s\n", domain.FormatMoney(rec.EBITDA))
	fmt.Fprintf(&b, "- Net Income: $%s\n", domain.FormatMoney(rec.NetIncome))
	fmt.Fprintf(&b, "- Total Assets: $%s\n", domain.FormatMoney(rec.TotalAssets))
	fmt.Fprintf(&b, "- Total Liabilities: $%s\n", domain.FormatMoney(rec.TotalLiabilities))
	fmt.Fprintf(&b, "- Employees: %d\n\n", rec.Employees)

	b.WriteString("FINANCIAL METRICS:\n")
	fmt.Fprintf(&b, "- EBITDA Margin: %.1f%%\n", ratios.EBITDAMargin)
	fmt.Fprintf(&b, "- Net Margin: %.1f%%\n", ratios.NetMargin)
	fmt.Fprintf(&b, "- Gross Margin: %.1f%%\n", ratios.GrossMargin)
	fmt.Fprintf(&b, "- Operating Margin: %.1f%%\n", ratios.OperatingMargin)
	fmt.Fprintf(&b, "- Debt-to-Assets: %.1f%%\n", ratios.DebtToAssets)
	fmt.Fprintf(&b, "- Debt-to-Equity: %.1f%%\n", ratios.DebtToEquity)
	fmt.Fprintf(&b, "- Revenue per Employee: $%s\n", domain.FormatMoney(ratios.RevenuePerEmployee))
	fmt.Fprintf(&b, "- Current Ratio: %.1f\n", ratios.CurrentRatio)
	fmt.Fprintf(&b, "- Return on Assets: %.1f%%\n", ratios.ROA)
	fmt.Fprintf(&b, "- Return on Equity: %.1f%%\n", ratios.ROE)
	fmt.Fprintf(&b, "- Asset Turnover: %.1fx\n\n", ratios.AssetTurnover)

	b.WriteString("INDUSTRY CONTEXT:\n")
	fmt.Fprintf(&b, "- Industry Average EBITDA Margin: %d%%\n", ic.AvgEBITDAMargin)
	fmt.Fprintf(&b, "- Industry Average Revenue Growth: %d%%\n", ic.AvgRevenueGrowth)
	fmt.Fprintf(&b, "- Key Industry Metrics: %s\n", strings.Join(ic.KeyMetrics, ", "))
	fmt.Fprintf(&b, "- Industry Trends: %s\n\n", strings.Join(ic.Trends, ", "))

	b.WriteString(`Please provide a detailed SWOT analysis in the following JSON format:

{
    "strengths": ["Specific strength with supporting data/metrics"],
    "weaknesses": ["Specific weakness with supporting data/metrics"],
    "opportunities": ["Specific opportunity with market context"],
    "threats": ["Specific threat with risk assessment"],
    "strategic_recommendations": ["Actionable recommendation"],
    "key_risks": ["Primary risk with mitigation strategy"],
    "competitive_positioning": "Overall competitive position assessment",
    "growth_potential": "Growth potential analysis with supporting factors"
}

Requirements:
1. Be specific and data-driven in your analysis
2. Compare metrics against industry benchmarks
3. Consider current market trends and conditions
4. Provide actionable insights, not generic statements
5. Focus on strategic implications for business decisions
6. Ensure each point is supported by the financial data provided
7. Consider both internal capabilities and external market factors

Respond ONLY with valid JSON. Do not include any explanatory text outside the JSON structure.
`)

	return b.String()
}
