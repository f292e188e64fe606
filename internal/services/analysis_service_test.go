package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizval/internal/dataprocessing"
	"bizval/internal/extraction"
	"bizval/internal/swot"
	"bizval/internal/valuation"
	"bizval/pkg/contracts/domain"
)

func newTestService(t *testing.T) *AnalysisService {
	t.Helper()
	return NewAnalysisService(
		dataprocessing.NewParser(nil),
		extraction.NewExtractor(nil),
		valuation.NewEngine(nil),
		swot.NewAnalyzer(nil, time.Second, nil),
		nil,
	)
}

func testRecord() domain.FinancialRecord {
	return domain.FinancialRecord{
		CompanyName:        "Alard Industries",
		Industry:           "Manufacturing",
		Revenue:            10_900_000,
		EBITDA:             1_800_000,
		SDE:                1_100_000,
		GrossProfit:        2_835_009,
		TotalAssets:        8_500_000,
		TotalLiabilities:   3_200_000,
		Inventory:          1_200_000,
		AccountsReceivable: 900_000,
		Cash:               700_000,
		EquipmentValue:     2_500_000,
		Employees:          85,
	}
}

func TestExtractFromCSV(t *testing.T) {
	svc := newTestService(t)

	csvData := []byte("Metric,Value\nRevenue,5000000\nEBITDA,750000\n")
	rec := svc.Extract(context.Background(), "upload.csv", csvData)

	assert.Equal(t, float64(5_000_000), rec.Revenue)
	assert.Equal(t, float64(750_000), rec.EBITDA)
}

func TestExtractUnusableInputYieldsDefaults(t *testing.T) {
	svc := newTestService(t)

	rec := svc.Extract(context.Background(), "photo.bin", []byte{0x00, 0x01})
	assert.Equal(t, domain.EmptyRecord(), rec)
}

func TestValueDefaultsRates(t *testing.T) {
	svc := newTestService(t)

	explicit, err := svc.Value(context.Background(), testRecord(), 0.03, 0.12)
	require.NoError(t, err)

	defaulted, err := svc.Value(context.Background(), testRecord(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, explicit.ValuationRange, defaulted.ValuationRange)
	assert.Equal(t, explicit.IncomeBased.DCFValue, defaulted.IncomeBased.DCFValue)
}

func TestValueInvalidRates(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Value(context.Background(), testRecord(), 0.12, 0.12)
	require.Error(t, err)
	assert.ErrorIs(t, err, valuation.ErrInvalidRates)
}

func TestAnalyzeComposesAllParts(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Analyze(context.Background(), testRecord(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "Alard Industries", result.Record.CompanyName)
	assert.Positive(t, result.Valuation.ValuationRange.Mid)
	assert.Equal(t, domain.AnalysisTypeRuleBased, result.Swot.AnalysisType)
	assert.NotEmpty(t, result.Swot.Strengths)
	assert.Contains(t, result.ExecutiveSummary, "Alard Industries")
	assert.Contains(t, result.ExecutiveSummary, "Asset-based approach")
}

func TestAnalyzeSurfacesValuationError(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Analyze(context.Background(), testRecord(), 0.15, 0.10)
	require.Error(t, err)
	assert.ErrorIs(t, err, valuation.ErrInvalidRates)
}

func TestAnalyzeFile(t *testing.T) {
	svc := newTestService(t)

	csvData := []byte("Metric,Value\nRevenue,10900000\nEBITDA,1800000\nTotal Assets,8500000\n")
	result, err := svc.AnalyzeFile(context.Background(), "company.csv", csvData, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, float64(10_900_000), result.Record.Revenue)
	assert.Positive(t, result.Valuation.ValuationRange.High)
	assert.NotEmpty(t, result.ExecutiveSummary)
}

func TestExecutiveSummaryMentionsAnomalies(t *testing.T) {
	svc := newTestService(t)

	rec := testRecord()
	rec.Revenue = 0
	rec.GrossProfit = 0

	result, err := svc.Analyze(context.Background(), rec, 0, 0)
	require.NoError(t, err)
	assert.Contains(t, result.ExecutiveSummary, "Data quality notes")
}
