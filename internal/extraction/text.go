package extraction

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"bizval/internal/mapping"
	"bizval/pkg/contracts/domain"
)

// textMetricLabels are the label alternatives searched for each field in
// free text, in priority order. The first label with a match wins.
var textMetricLabels = []struct {
	field  mapping.Field
	labels []string
}{
	{mapping.FieldRevenue, []string{"revenue", "sales", "income"}},
	{mapping.FieldEBITDA, []string{"ebitda", "operating income", "operating profit"}},
	{mapping.FieldTotalAssets, []string{"total assets", "assets"}},
	{mapping.FieldInventory, []string{"inventory", "stock"}},
	{mapping.FieldAccountsReceivable, []string{"accounts receivable", "receivables"}},
	{mapping.FieldCash, []string{"cash", "bank balance"}},
	{mapping.FieldTotalLiabilities, []string{"total liabilities", "liabilities", "debt"}},
	{mapping.FieldNetIncome, []string{"net income", "net profit", "profit"}},
}

// amountAfterLabel captures a currency amount following a label: an
// optional colon or whitespace, an optional dollar sign, then digits with
// thousands separators and an optional cents part.
const amountAfterLabel = `[:\s]*\$?([0-9,]+(?:\.[0-9]{2})?)`

var textMetricRes = buildTextMetricRes()

func buildTextMetricRes() map[mapping.Field][]*regexp.Regexp {
	res := make(map[mapping.Field][]*regexp.Regexp, len(textMetricLabels))
	for _, tm := range textMetricLabels {
		for _, label := range tm.labels {
			res[tm.field] = append(res[tm.field],
				regexp.MustCompile(`(?i)`+regexp.QuoteMeta(label)+amountAfterLabel))
		}
	}
	return res
}

var (
	textCompanyRe = regexp.MustCompile(
		`\b([A-Z][A-Za-z&\.\' ]+?)\s+(Company|Corp|Corporation|Inc|LLC|Ltd|Enterprises|Group|Holdings|Industries|Solutions|Technologies|Services)\b`)

	textIndustryRe = regexp.MustCompile(
		`(?i)\b(industry|sector|business type)[:\s]+([A-Za-z][A-Za-z\- ]+)`)

	textEmployeeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s+employees?`),
		regexp.MustCompile(`(?i)employees?[:\s]+(\d+)`),
		regexp.MustCompile(`(?i)staff\s+of\s+(\d+)`),
		regexp.MustCompile(`(?i)headcount[:\s]+(\d+)`),
	}
)

// ExtractText pulls the canonical record out of unstructured text, such as
// a PDF's extracted content. Label-anchored amount patterns feed the
// metrics; company, industry, and employee counts come from their own
// patterns. Missing fields default exactly like the sheet path.
func (e *Extractor) ExtractText(ctx context.Context, text string) domain.FinancialRecord {
	f := newFindings()

	for _, tm := range textMetricLabels {
		for _, re := range textMetricRes[tm.field] {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if v, ok := mapping.ParseAmount(m[1]); ok {
				f.metrics[tm.field] = v
				break
			}
		}
	}

	if m := textCompanyRe.FindStringSubmatch(text); m != nil {
		f.companyName = strings.TrimSpace(m[1] + " " + m[2])
	}
	if m := textIndustryRe.FindStringSubmatch(text); m != nil {
		f.industry = strings.TrimSpace(m[2])
	}
	for _, re := range textEmployeeRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := mapping.ParseAmount(m[1]); ok && v > 0 {
				f.employees = int(v)
				break
			}
		}
	}

	e.logger.InfoContext(ctx, "text extraction complete",
		slog.Int("metrics_found", len(f.metrics)),
		slog.Bool("company_found", f.companyName != ""),
	)
	return clean(f)
}
