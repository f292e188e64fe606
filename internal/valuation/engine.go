// Package valuation implements the deterministic business valuation
// methods: asset-based, income-based (DCF and capitalization), and
// market multiples, combined into a bracketed estimate range.
package valuation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"bizval/pkg/contracts/domain"
)

// Default income-method rates. Callers may override both, subject to the
// discount rate strictly exceeding the growth rate.
const (
	DefaultGrowthRate   = 0.03
	DefaultDiscountRate = 0.12
)

const (
	projectionYears = 5

	// equipmentRecoveryRate discounts equipment book value in the
	// asset-based method.
	equipmentRecoveryRate = 0.6

	rangeLowFactor  = 0.85
	rangeHighFactor = 1.15
)

// ErrInvalidRates rejects income-method rate pairs where the discount
// rate does not exceed the growth rate; the terminal value divides by
// their difference.
var ErrInvalidRates = errors.New("discount rate must exceed growth rate")

// FallbackIndustry receives any record whose industry matches no entry in
// the multiples table.
const FallbackIndustry = "services"

var industryMultiples = map[string]domain.IndustryMultiples{
	"manufacturing": {Revenue: 0.8, EBITDA: 4.5, SDE: 3.2},
	"technology":    {Revenue: 3.0, EBITDA: 12.0, SDE: 4.5},
	"retail":        {Revenue: 0.5, EBITDA: 6.0, SDE: 2.8},
	"services":      {Revenue: 1.2, EBITDA: 8.0, SDE: 3.5},
	"construction":  {Revenue: 0.6, EBITDA: 5.5, SDE: 3.0},
}

// multiplesKeys fixes lookup order so substring matching is
// deterministic.
var multiplesKeys = []string{"manufacturing", "technology", "retail", "services", "construction"}

// MultiplesFor resolves the multiples row for an industry name. Matching
// is case-insensitive substring containment, so "Tech Manufacturing"
// resolves to the first key it contains. Unrecognized industries fall
// back to services.
func MultiplesFor(industry string) (domain.IndustryMultiples, string) {
	lower := strings.ToLower(industry)
	for _, key := range multiplesKeys {
		if strings.Contains(lower, key) {
			return industryMultiples[key], key
		}
	}
	return industryMultiples[FallbackIndustry], FallbackIndustry
}

// Engine computes valuations over canonical financial records. It holds
// no per-request state and is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a valuation engine. A nil logger falls back to
// slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// AssetBased values the business from its tangible assets: inventory,
// receivables, and cash at book, equipment at its recovery rate, less
// total liabilities. Never negative.
func (e *Engine) AssetBased(rec domain.FinancialRecord) float64 {
	tangible := rec.Inventory + rec.AccountsReceivable + rec.Cash
	equipment := rec.EquipmentValue * equipmentRecoveryRate
	return math.Max(0, tangible+equipment-rec.TotalLiabilities)
}

// IncomeBased computes a five-year discounted cash flow with a Gordon
// terminal value, plus a straight capitalization of the base earnings.
// Base earnings are EBITDA, or SDE when EBITDA is not positive; if both
// are non-positive the method legitimately yields zeros. Returns
// ErrInvalidRates when discountRate <= growthRate.
func (e *Engine) IncomeBased(rec domain.FinancialRecord, growthRate, discountRate float64) (domain.IncomeValuation, error) {
	if discountRate <= growthRate {
		return domain.IncomeValuation{}, fmt.Errorf("%w: discount=%.4f growth=%.4f", ErrInvalidRates, discountRate, growthRate)
	}

	base := rec.EBITDA
	if base <= 0 {
		base = rec.SDE
	}
	if base <= 0 {
		return domain.IncomeValuation{ProjectedFlows: make([]float64, projectionYears)}, nil
	}

	flows := make([]float64, projectionYears)
	dcf := 0.0
	for t := 1; t <= projectionYears; t++ {
		flow := base * math.Pow(1+growthRate, float64(t))
		flows[t-1] = flow
		dcf += flow / math.Pow(1+discountRate, float64(t))
	}

	terminal := flows[projectionYears-1] * (1 + growthRate) / (discountRate - growthRate)
	dcf += terminal / math.Pow(1+discountRate, projectionYears)

	return domain.IncomeValuation{
		DCFValue:            dcf,
		CapitalizationValue: base / discountRate,
		ProjectedFlows:      flows,
		TerminalValue:       terminal,
	}, nil
}

// MarketBased applies the industry multiples. The revenue multiple is
// always computed; the EBITDA and SDE multiples require positive
// earnings.
func (e *Engine) MarketBased(rec domain.FinancialRecord) domain.MarketValuation {
	multiples, key := MultiplesFor(rec.Industry)
	e.logger.Debug("resolved industry multiples",
		slog.String("industry", rec.Industry),
		slog.String("multiples_key", key),
	)

	v := domain.MarketValuation{
		RevenueMultiple: rec.Revenue * multiples.Revenue,
		MultiplesUsed:   multiples,
	}
	if rec.EBITDA > 0 {
		v.EBITDAMultiple = rec.EBITDA * multiples.EBITDA
	}
	if rec.SDE > 0 {
		v.SDEMultiple = rec.SDE * multiples.SDE
	}
	return v
}

// DetectAnomalies runs the fixed-order data quality checks and returns
// their messages. Checks are independent; several can fire at once.
func (e *Engine) DetectAnomalies(rec domain.FinancialRecord) []string {
	anomalies := []string{}

	if rec.Revenue <= 0 {
		anomalies = append(anomalies, "Zero or negative revenue detected")
	}
	if rec.EBITDA < 0 && rec.SDE < 0 {
		anomalies = append(anomalies, "Negative profitability (EBITDA and SDE)")
	}
	if rec.Revenue > 0 {
		grossMargin := rec.GrossProfit / rec.Revenue
		if grossMargin < 0.1 {
			anomalies = append(anomalies, "Very low gross margin (<10%)")
		} else if grossMargin > 0.8 {
			anomalies = append(anomalies, "Unusually high gross margin (>80%) - verify data")
		}
		if rec.Inventory > rec.Revenue {
			anomalies = append(anomalies, "Inventory exceeds annual revenue - potential overstock")
		}
		if rec.AccountsReceivable > 0.25*rec.Revenue {
			anomalies = append(anomalies, "High accounts receivable (>25% of revenue) - collection issues?")
		}
	}
	return anomalies
}

// Comprehensive runs all three methods and brackets the positive
// estimates into a valuation range: low is the minimum scaled down by
// 15%, high the maximum scaled up by 15%, mid the arithmetic mean of the
// estimates themselves. When no method produced a positive estimate the
// range is all zeros and the result is flagged low confidence.
func (e *Engine) Comprehensive(rec domain.FinancialRecord, growthRate, discountRate float64) (domain.ValuationResult, error) {
	assetBased := e.AssetBased(rec)

	income, err := e.IncomeBased(rec, growthRate, discountRate)
	if err != nil {
		return domain.ValuationResult{}, err
	}
	market := e.MarketBased(rec)

	estimates := []float64{}
	for _, v := range []float64{
		assetBased,
		income.DCFValue,
		income.CapitalizationValue,
		market.RevenueMultiple,
		market.EBITDAMultiple,
		market.SDEMultiple,
	} {
		if v > 0 {
			estimates = append(estimates, v)
		}
	}

	result := domain.ValuationResult{
		AssetBased:       assetBased,
		IncomeBased:      income,
		MarketBased:      market,
		AllEstimates:     estimates,
		Anomalies:        e.DetectAnomalies(rec),
		MethodologyNotes: methodologyNotes(rec, growthRate, discountRate),
		ValuationDate:    time.Now().UTC(),
	}

	if len(estimates) == 0 {
		result.LowConfidence = true
		e.logger.Warn("no positive valuation estimates",
			slog.String("company", rec.CompanyName),
		)
		return result, nil
	}

	low, high, sum := estimates[0], estimates[0], 0.0
	for _, v := range estimates {
		low = math.Min(low, v)
		high = math.Max(high, v)
		sum += v
	}
	result.ValuationRange = domain.ValuationRange{
		Low:  low * rangeLowFactor,
		Mid:  sum / float64(len(estimates)),
		High: high * rangeHighFactor,
	}
	return result, nil
}

func methodologyNotes(rec domain.FinancialRecord, growthRate, discountRate float64) domain.MethodologyNotes {
	_, key := MultiplesFor(rec.Industry)
	return domain.MethodologyNotes{
		AssetBased: "Book value adjusted for market conditions, equipment at 60% of book",
		DCF: fmt.Sprintf("Discounted Cash Flow with %.0f%% growth, %.0f%% discount rate",
			growthRate*100, discountRate*100),
		MarketMultiples: fmt.Sprintf("Industry multiples for %s applied to revenue, EBITDA, and SDE", key),
		Assumptions: []string{
			"Historical financials are representative of future performance",
			"Equipment realizes 60% of book value on sale",
			"No major capital expenditure requirements",
			"Market multiples reflect current transaction conditions",
		},
	}
}
