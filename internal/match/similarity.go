// Package match scores how closely an arbitrary column or field name
// resembles a canonical field pattern. Scores come from a fixed ladder of
// rules evaluated strongest-first; the first rule that fires returns its
// fixed score with no blending, which keeps mapping decisions reproducible.
package match

import (
	"strings"
)

// Fixed rule scores. Exact matches always win; substring containment is
// treated as near-certain; abbreviations outrank token overlap but are
// checked after it.
const (
	ScoreExact        = 1.0
	ScoreSubstring    = 0.9
	ScoreAbbreviation = 0.85
	ScoreTokenOverlap = 0.8

	// JaccardThreshold is the minimum token-set Jaccard similarity for the
	// token-overlap rule to fire.
	JaccardThreshold = 0.5
)

// abbreviations maps a canonical word to the short forms commonly seen in
// spreadsheet headers. Matching is symmetric: either side may be the
// abbreviation.
var abbreviations = map[string][]string{
	"revenue":     {"rev", "sales", "income"},
	"ebitda":      {"ebit", "operating"},
	"assets":      {"asset"},
	"liabilities": {"liab", "debt"},
	"receivable":  {"ar", "receivable"},
	"employees":   {"emp", "staff", "fte"},
}

// Score computes a fuzzy match score in [0,1] between a candidate name and
// a canonical pattern. Both inputs are lowercased and trimmed before the
// rule ladder runs.
func Score(candidate, pattern string) float64 {
	a := normalize(candidate)
	b := normalize(pattern)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return ScoreExact
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return ScoreSubstring
	}
	if jaccard(tokens(a), tokens(b)) > JaccardThreshold {
		return ScoreTokenOverlap
	}
	if isAbbreviation(a, b) || isAbbreviation(b, a) {
		return ScoreAbbreviation
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// tokens splits a normalized name on the word-boundary characters that
// appear in spreadsheet headers.
func tokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	}) {
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

// jaccard returns |A∩B| / |A∪B| for two token sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// isAbbreviation reports whether short is a known abbreviation of full.
func isAbbreviation(short, full string) bool {
	abbrevs, ok := abbreviations[full]
	if !ok {
		return false
	}
	for _, abbr := range abbrevs {
		if short == abbr {
			return true
		}
	}
	return false
}
