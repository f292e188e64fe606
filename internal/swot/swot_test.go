package swot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizval/pkg/contracts/domain"
)

func healthyRecord() domain.FinancialRecord {
	return domain.FinancialRecord{
		CompanyName:        "Alard Machine Products",
		Industry:           "manufacturing",
		Revenue:            10_900_000,
		GrossProfit:        4_500_000,
		EBITDA:             1_800_000,
		NetIncome:          1_200_000,
		CostOfGoodsSold:    6_400_000,
		OperatingExpenses:  2_700_000,
		TotalAssets:        6_593_882,
		TotalLiabilities:   1_500_000,
		Inventory:          900_000,
		AccountsReceivable: 1_300_000,
		Cash:               2_000_000,
		Employees:          40,
	}
}

func TestComputeRatios(t *testing.T) {
	r := ComputeRatios(healthyRecord())

	assert.InDelta(t, 1_800_000.0/10_900_000*100, r.EBITDAMargin, 0.001)
	assert.InDelta(t, 1_200_000.0/10_900_000*100, r.NetMargin, 0.001)
	assert.InDelta(t, 4_500_000.0/10_900_000*100, r.GrossMargin, 0.001)
	assert.InDelta(t, (10_900_000.0-6_400_000-2_700_000)/10_900_000*100, r.OperatingMargin, 0.001)
	assert.InDelta(t, 1_500_000.0/6_593_882*100, r.DebtToAssets, 0.001)
	assert.InDelta(t, 10_900_000.0/40, r.RevenuePerEmployee, 0.001)
	assert.InDelta(t, (2_000_000.0+1_300_000)/1_500_000, r.CurrentRatio, 0.001)
	assert.Equal(t, r.CurrentRatio, r.QuickRatio)
	assert.InDelta(t, 6_400_000.0/900_000, r.InventoryTurnover, 0.001)
}

func TestComputeRatiosZeroDenominators(t *testing.T) {
	// All-zero record: every ratio must be zero, never NaN or Inf.
	r := ComputeRatios(domain.FinancialRecord{})

	assert.Zero(t, r.EBITDAMargin)
	assert.Zero(t, r.NetMargin)
	assert.Zero(t, r.DebtToAssets)
	assert.Zero(t, r.DebtToEquity)
	assert.Zero(t, r.RevenuePerEmployee)
	assert.Zero(t, r.CurrentRatio)
	assert.Zero(t, r.InventoryTurnover)
	assert.Zero(t, r.AssetTurnover)
	assert.Zero(t, r.ROA)
	assert.Zero(t, r.ROE)
}

func TestComputeRatiosNegativeEquity(t *testing.T) {
	rec := domain.FinancialRecord{
		NetIncome:        100_000,
		TotalAssets:      1_000_000,
		TotalLiabilities: 1_500_000,
	}
	r := ComputeRatios(rec)
	assert.Zero(t, r.DebtToEquity)
	assert.Zero(t, r.ROE)
}

func TestRuleBasedStrengths(t *testing.T) {
	result := RuleBased(healthyRecord(), ComputeRatios(healthyRecord()))

	assert.Equal(t, domain.AnalysisTypeRuleBased, result.AnalysisType)
	assert.Contains(t, result.Strengths[0], "Strong EBITDA margin of 16.5%")
	assert.NotEmpty(t, result.Weaknesses)
	assert.NotEmpty(t, result.Opportunities)
	assert.NotEmpty(t, result.Threats)
	assert.LessOrEqual(t, len(result.Strengths), 8)
	assert.LessOrEqual(t, len(result.Threats), 8)
}

func TestRuleBasedFillers(t *testing.T) {
	// Highly leveraged, unprofitable record: no strength or opportunity
	// rule fires, fillers step in.
	rec := domain.FinancialRecord{
		CompanyName:      "X",
		Industry:         "General Business",
		Revenue:          1_000_000,
		TotalAssets:      1_000_000,
		TotalLiabilities: 600_000,
	}
	result := RuleBased(rec, ComputeRatios(rec))

	assert.Equal(t, []string{fillerStrength}, result.Strengths)
	assert.Contains(t, result.Opportunities, fillerOpportunity)
	assert.NotEmpty(t, result.Weaknesses)
	assert.NotEmpty(t, result.Threats)
}

func TestRuleBasedIndustryPair(t *testing.T) {
	rec := healthyRecord()
	rec.Industry = "Technology"
	result := RuleBased(rec, ComputeRatios(rec))

	assert.Contains(t, result.Opportunities,
		"Digital transformation trends create opportunities for technology adoption")
	assert.Contains(t, result.Threats,
		"Rapid technology shifts risk product obsolescence without sustained R&D investment")
}

func TestRuleBasedGeneralThreatsAlwaysPresent(t *testing.T) {
	result := RuleBased(healthyRecord(), ComputeRatios(healthyRecord()))
	assert.Contains(t, result.Threats, "Economic uncertainty and market volatility pose ongoing risks")
}

type stubGenerator struct {
	response string
	err      error
	model    string
	waitOn   bool
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if s.waitOn {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.response, s.err
}

func (s *stubGenerator) Model() string {
	if s.model == "" {
		return "stub-model"
	}
	return s.model
}

const validAIResponse = `{
	"strengths": ["Operational margins beat the industry benchmark"],
	"weaknesses": ["Customer concentration in two accounts"],
	"opportunities": ["Adjacent service lines"],
	"threats": ["Input cost inflation"],
	"strategic_recommendations": ["Diversify the customer base"],
	"key_risks": ["Key person dependency"],
	"competitive_positioning": "Strong regional operator",
	"growth_potential": "Moderate organic growth"
}`

func TestAnalyzeAIPath(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{response: validAIResponse}, time.Second, nil)
	result := a.Analyze(context.Background(), healthyRecord())

	assert.Equal(t, domain.AnalysisTypeAIGenerated, result.AnalysisType)
	assert.Equal(t, "stub-model", result.ModelUsed)
	assert.Equal(t, []string{"Operational margins beat the industry benchmark"}, result.Strengths)
	assert.Equal(t, "Strong regional operator", result.CompetitivePositioning)
	assert.NotZero(t, result.Ratios.EBITDAMargin, "ratios are computed locally even on the AI path")
}

func TestAnalyzeAIMarkdownFences(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{response: "```json\n" + validAIResponse + "\n```"}, time.Second, nil)
	result := a.Analyze(context.Background(), healthyRecord())
	assert.Equal(t, domain.AnalysisTypeAIGenerated, result.AnalysisType)
}

func TestAnalyzeFallbackOnError(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{err: errors.New("service unavailable")}, time.Second, nil)
	result := a.Analyze(context.Background(), healthyRecord())

	assert.Equal(t, domain.AnalysisTypeRuleBased, result.AnalysisType)
	assert.Empty(t, result.ModelUsed)
	assert.NotEmpty(t, result.Strengths)
}

func TestAnalyzeFallbackOnMalformedResponse(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{response: "I cannot produce JSON today."}, time.Second, nil)
	result := a.Analyze(context.Background(), healthyRecord())
	assert.Equal(t, domain.AnalysisTypeRuleBased, result.AnalysisType)
}

func TestAnalyzeFallbackOnMissingCategories(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{response: `{"strengths": ["only one category"]}`}, time.Second, nil)
	result := a.Analyze(context.Background(), healthyRecord())
	assert.Equal(t, domain.AnalysisTypeRuleBased, result.AnalysisType)
}

func TestAnalyzeFallbackOnTimeout(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{waitOn: true}, 10*time.Millisecond, nil)

	done := make(chan domain.SwotResult, 1)
	go func() {
		done <- a.Analyze(context.Background(), healthyRecord())
	}()

	select {
	case result := <-done:
		assert.Equal(t, domain.AnalysisTypeRuleBased, result.AnalysisType)
	case <-time.After(2 * time.Second):
		t.Fatal("analysis did not fall back after generator timeout")
	}
}

func TestAnalyzeNoGenerator(t *testing.T) {
	a := NewAnalyzer(nil, 0, nil)
	result := a.Analyze(context.Background(), healthyRecord())
	assert.Equal(t, domain.AnalysisTypeRuleBased, result.AnalysisType)
}

func TestBuildPrompt(t *testing.T) {
	rec := healthyRecord()
	prompt := buildPrompt(rec, ComputeRatios(rec))

	assert.Contains(t, prompt, "Alard Machine Products")
	assert.Contains(t, prompt, "Revenue: $10,900,000")
	assert.Contains(t, prompt, "Industry Average EBITDA Margin: 12%")
	assert.Contains(t, prompt, "Respond ONLY with valid JSON")
}

func TestParseResponseRepairsLooseJSON(t *testing.T) {
	// Trailing commas and single quotes are repairable.
	loose := `{'strengths': ['a'], 'weaknesses': ['b'], 'opportunities': ['c'], 'threats': ['d'],}`
	parsed, err := parseResponse(loose)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, parsed.Strengths)
	assert.Equal(t, []string{"d"}, parsed.Threats)
}
