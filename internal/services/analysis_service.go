// Package services implements the business logic layer: it composes the
// file parser, metric extractor, valuation engine, and SWOT analyzer into
// the operations the HTTP handlers expose.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"bizval/internal/dataprocessing"
	"bizval/internal/extraction"
	"bizval/internal/swot"
	"bizval/internal/valuation"
	"bizval/pkg/contracts/domain"
)

// AnalysisService orchestrates extraction, valuation, and SWOT analysis.
type AnalysisService struct {
	parser    *dataprocessing.Parser
	extractor *extraction.Extractor
	engine    *valuation.Engine
	analyzer  *swot.Analyzer
	logger    *slog.Logger
}

// NewAnalysisService creates the service with its collaborators. A nil
// logger falls back to slog.Default().
func NewAnalysisService(parser *dataprocessing.Parser, extractor *extraction.Extractor, engine *valuation.Engine, analyzer *swot.Analyzer, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		parser:    parser,
		extractor: extractor,
		engine:    engine,
		analyzer:  analyzer,
		logger:    logger,
	}
}

// Extract parses an uploaded file and extracts a financial record from it.
// Extraction never fails: unusable input yields the default record.
func (s *AnalysisService) Extract(ctx context.Context, filename string, data []byte) domain.FinancialRecord {
	s.logger.InfoContext(ctx, "extracting financial record",
		slog.String("filename", filename),
		slog.Int("bytes", len(data)))

	return s.extractor.ExtractFile(ctx, s.parser, filename, data)
}

// Value runs the comprehensive valuation over a record. Zero rates are
// replaced with the engine defaults (3% growth, 12% discount).
func (s *AnalysisService) Value(ctx context.Context, rec domain.FinancialRecord, growthRate, discountRate float64) (domain.ValuationResult, error) {
	growthRate, discountRate = normalizeRates(growthRate, discountRate)

	result, err := s.engine.Comprehensive(rec, growthRate, discountRate)
	if err != nil {
		return domain.ValuationResult{}, fmt.Errorf("valuation for %s: %w", rec.CompanyName, err)
	}
	return result, nil
}

// Swot runs the SWOT analysis over a record. The analyzer handles the
// AI-versus-rule-based decision internally and never fails.
func (s *AnalysisService) Swot(ctx context.Context, rec domain.FinancialRecord) domain.SwotResult {
	return s.analyzer.Analyze(ctx, rec)
}

// Analyze composes valuation and SWOT over an already-extracted record.
// The two analyses are independent, so they run concurrently.
func (s *AnalysisService) Analyze(ctx context.Context, rec domain.FinancialRecord, growthRate, discountRate float64) (domain.AnalysisResult, error) {
	var (
		valResult  domain.ValuationResult
		swotResult domain.SwotResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		valResult, err = s.Value(gctx, rec, growthRate, discountRate)
		return err
	})
	g.Go(func() error {
		swotResult = s.Swot(gctx, rec)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.AnalysisResult{}, err
	}

	s.logger.InfoContext(ctx, "analysis complete",
		slog.String("company", rec.CompanyName),
		slog.Float64("mid_estimate", valResult.ValuationRange.Mid),
		slog.String("analysis_type", swotResult.AnalysisType))

	return domain.AnalysisResult{
		Record:           rec,
		Valuation:        valResult,
		Swot:             swotResult,
		ExecutiveSummary: executiveSummary(rec, valResult),
	}, nil
}

// AnalyzeFile extracts a record from an uploaded file and runs the full
// analysis over it.
func (s *AnalysisService) AnalyzeFile(ctx context.Context, filename string, data []byte, growthRate, discountRate float64) (domain.AnalysisResult, error) {
	rec := s.Extract(ctx, filename, data)
	return s.Analyze(ctx, rec, growthRate, discountRate)
}

func normalizeRates(growthRate, discountRate float64) (float64, float64) {
	if growthRate == 0 {
		growthRate = valuation.DefaultGrowthRate
	}
	if discountRate == 0 {
		discountRate = valuation.DefaultDiscountRate
	}
	return growthRate, discountRate
}

// executiveSummary renders the prose summary carried into reports.
func executiveSummary(rec domain.FinancialRecord, val domain.ValuationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Based on the provided financial data, %s has an estimated value range of $%s to $%s, with a mid-point estimate of $%s.\n\n",
		rec.CompanyName,
		domain.FormatMoney(val.ValuationRange.Low),
		domain.FormatMoney(val.ValuationRange.High),
		domain.FormatMoney(val.ValuationRange.Mid))

	fmt.Fprintf(&b, "The valuation considers:\n")
	fmt.Fprintf(&b, "- Asset-based approach: $%s\n", domain.FormatMoney(val.AssetBased))
	fmt.Fprintf(&b, "- Income-based approach (DCF): $%s\n", domain.FormatMoney(val.IncomeBased.DCFValue))
	fmt.Fprintf(&b, "- Market-based approach: $%s\n\n", domain.FormatMoney(val.MarketBased.RevenueMultiple))

	if len(val.Anomalies) > 0 {
		fmt.Fprintf(&b, "Data quality notes: %s.\n\n", strings.Join(val.Anomalies, "; "))
	}

	b.WriteString("This represents a comprehensive assessment using industry-standard methodologies.")
	return b.String()
}
