package swot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"bizval/pkg/contracts/domain"
)

// DefaultAITimeout bounds the external generation call when the caller
// does not configure one.
const DefaultAITimeout = 30 * time.Second

// Analyzer produces SWOT analyses. With a generator configured it
// attempts the AI path first and falls back to the rule tables on any
// failure; the fallback is silent apart from the analysis_type tag.
type Analyzer struct {
	generator Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewAnalyzer creates an analyzer. The generator may be nil, in which
// case every analysis is rule-based. A non-positive timeout uses
// DefaultAITimeout; a nil logger falls back to slog.Default().
func NewAnalyzer(generator Generator, timeout time.Duration, logger *slog.Logger) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Analyze runs the SWOT analysis for a record. The AI result, when
// obtained, supersedes the rule-based one entirely; the two are never
// merged.
func (a *Analyzer) Analyze(ctx context.Context, rec domain.FinancialRecord) domain.SwotResult {
	ratios := ComputeRatios(rec)

	if a.generator != nil {
		result, err := a.aiAnalysis(ctx, rec, ratios)
		if err == nil {
			a.logger.InfoContext(ctx, "AI analysis complete",
				slog.String("company", rec.CompanyName),
				slog.String("model", a.generator.Model()),
			)
			return result
		}
		a.logger.WarnContext(ctx, "AI analysis failed, falling back to rule-based analysis",
			slog.String("company", rec.CompanyName),
			slog.String("error", err.Error()),
		)
	}

	return RuleBased(rec, ratios)
}

// aiResponse is the JSON schema the generator is prompted to produce.
type aiResponse struct {
	Strengths                []string `json:"strengths"`
	Weaknesses               []string `json:"weaknesses"`
	Opportunities            []string `json:"opportunities"`
	Threats                  []string `json:"threats"`
	StrategicRecommendations []string `json:"strategic_recommendations"`
	KeyRisks                 []string `json:"key_risks"`
	CompetitivePositioning   string   `json:"competitive_positioning"`
	GrowthPotential          string   `json:"growth_potential"`
}

func (a *Analyzer) aiAnalysis(ctx context.Context, rec domain.FinancialRecord, ratios domain.FinancialRatios) (domain.SwotResult, error) {
	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.generator.Generate(genCtx, buildPrompt(rec, ratios))
	if err != nil {
		return domain.SwotResult{}, err
	}

	parsed, err := parseResponse(raw)
	if err != nil {
		return domain.SwotResult{}, err
	}

	return domain.SwotResult{
		CompanyName:              rec.CompanyName,
		Industry:                 rec.Industry,
		Strengths:                parsed.Strengths,
		Weaknesses:               parsed.Weaknesses,
		Opportunities:            parsed.Opportunities,
		Threats:                  parsed.Threats,
		Ratios:                   ratios,
		AnalysisType:             domain.AnalysisTypeAIGenerated,
		GeneratedAt:              time.Now().UTC(),
		StrategicRecommendations: parsed.StrategicRecommendations,
		KeyRisks:                 parsed.KeyRisks,
		CompetitivePositioning:   parsed.CompetitivePositioning,
		GrowthPotential:          parsed.GrowthPotential,
		ModelUsed:                a.generator.Model(),
	}, nil
}

// parseResponse decodes model output: markdown fences are stripped, then
// the JSON is repaired before unmarshalling. A response missing any of
// the four categories is rejected so the caller can fall back.
func parseResponse(raw string) (aiResponse, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return aiResponse{}, fmt.Errorf("failed to repair response JSON: %w", err)
	}

	var parsed aiResponse
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return aiResponse{}, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	if len(parsed.Strengths) == 0 || len(parsed.Weaknesses) == 0 ||
		len(parsed.Opportunities) == 0 || len(parsed.Threats) == 0 {
		return aiResponse{}, fmt.Errorf("response missing required categories")
	}
	return parsed, nil
}
