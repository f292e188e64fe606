// Package reports renders a completed analysis into downloadable report
// documents: PDF, XLSX, and plain text.
package reports

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bizval/pkg/contracts/domain"
)

// Format identifies a report output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatText Format = "txt"
)

// ErrUnsupportedFormat is returned for formats the renderer cannot produce.
var ErrUnsupportedFormat = fmt.Errorf("unsupported report format")

// Renderer produces report documents from an analysis result.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a report renderer. A nil logger falls back to
// slog.Default().
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// Render produces the report in the requested format and returns the
// document bytes along with its content type.
func (r *Renderer) Render(result domain.AnalysisResult, format Format) ([]byte, string, error) {
	switch format {
	case FormatPDF:
		data, err := r.renderPDF(result)
		return data, "application/pdf", err
	case FormatXLSX:
		data, err := r.renderXLSX(result)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	case FormatText:
		return []byte(r.renderText(result)), "text/plain; charset=utf-8", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Filename suggests a download filename for the report.
func (r *Renderer) Filename(result domain.AnalysisResult, format Format) string {
	company := strings.ReplaceAll(result.Record.CompanyName, " ", "_")
	return fmt.Sprintf("valuation_report_%s_%s.%s",
		company, time.Now().Format("20060102_150405"), format)
}

// renderText produces the plain-text report.
func (r *Renderer) renderText(result domain.AnalysisResult) string {
	rec := result.Record
	val := result.Valuation

	var b strings.Builder
	rule := strings.Repeat("=", 80)

	writeHeading := func(title string) {
		b.WriteString(rule + "\n")
		pad := (80 - len(title)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad) + title + "\n")
		b.WriteString(rule + "\n\n")
	}
	writeList := func(items []string) {
		if len(items) == 0 {
			b.WriteString("- Not available\n")
		}
		for _, item := range items {
			b.WriteString("- " + item + "\n")
		}
		b.WriteString("\n")
	}

	writeHeading("BUSINESS VALUATION REPORT")
	fmt.Fprintf(&b, "Company: %s\n", rec.CompanyName)
	fmt.Fprintf(&b, "Industry: %s\n", rec.Industry)
	fmt.Fprintf(&b, "Report Date: %s\n", time.Now().Format("January 2, 2006"))
	fmt.Fprintf(&b, "Valuation Date: %s\n\n", val.ValuationDate.Format("January 2, 2006"))

	writeHeading("EXECUTIVE SUMMARY")
	b.WriteString(result.ExecutiveSummary + "\n\n")

	writeHeading("COMPANY OVERVIEW")
	b.WriteString("Financial Metrics:\n")
	for _, m := range metricLines(rec) {
		b.WriteString("- " + m + "\n")
	}
	b.WriteString("\n")

	writeHeading("VALUATION RESULTS")
	fmt.Fprintf(&b, "Asset-Based Valuation:   $%s\n", domain.FormatMoney(val.AssetBased))
	fmt.Fprintf(&b, "DCF Valuation:           $%s\n", domain.FormatMoney(val.IncomeBased.DCFValue))
	fmt.Fprintf(&b, "Capitalization Value:    $%s\n", domain.FormatMoney(val.IncomeBased.CapitalizationValue))
	fmt.Fprintf(&b, "Revenue Multiple Value:  $%s\n", domain.FormatMoney(val.MarketBased.RevenueMultiple))
	fmt.Fprintf(&b, "EBITDA Multiple Value:   $%s\n", domain.FormatMoney(val.MarketBased.EBITDAMultiple))
	fmt.Fprintf(&b, "SDE Multiple Value:      $%s\n\n", domain.FormatMoney(val.MarketBased.SDEMultiple))
	b.WriteString("FINAL VALUATION RANGE:\n")
	fmt.Fprintf(&b, "- Low Estimate:  $%s\n", domain.FormatMoney(val.ValuationRange.Low))
	fmt.Fprintf(&b, "- Mid Estimate:  $%s\n", domain.FormatMoney(val.ValuationRange.Mid))
	fmt.Fprintf(&b, "- High Estimate: $%s\n\n", domain.FormatMoney(val.ValuationRange.High))

	if len(val.Anomalies) > 0 {
		writeHeading("DATA ANOMALIES")
		writeList(val.Anomalies)
	}

	writeHeading("SWOT ANALYSIS")
	b.WriteString("Strengths:\n")
	writeList(result.Swot.Strengths)
	b.WriteString("Weaknesses:\n")
	writeList(result.Swot.Weaknesses)
	b.WriteString("Opportunities:\n")
	writeList(result.Swot.Opportunities)
	b.WriteString("Threats:\n")
	writeList(result.Swot.Threats)

	writeHeading("METHODOLOGY & ASSUMPTIONS")
	fmt.Fprintf(&b, "Asset-Based: %s\n", val.MethodologyNotes.AssetBased)
	fmt.Fprintf(&b, "Income-Based: %s\n", val.MethodologyNotes.DCF)
	fmt.Fprintf(&b, "Market-Based: %s\n\n", val.MethodologyNotes.MarketMultiples)
	b.WriteString("Key Assumptions:\n")
	writeList(val.MethodologyNotes.Assumptions)

	return b.String()
}

// metricLines renders the company-overview metric bullet values.
func metricLines(rec domain.FinancialRecord) []string {
	lines := []string{
		fmt.Sprintf("Annual Revenue: $%s", domain.FormatMoney(rec.Revenue)),
		fmt.Sprintf("EBITDA: $%s", domain.FormatMoney(rec.EBITDA)),
		fmt.Sprintf("SDE: $%s", domain.FormatMoney(rec.SDE)),
		fmt.Sprintf("Net Income: $%s", domain.FormatMoney(rec.NetIncome)),
		fmt.Sprintf("Total Assets: $%s", domain.FormatMoney(rec.TotalAssets)),
		fmt.Sprintf("Total Liabilities: $%s", domain.FormatMoney(rec.TotalLiabilities)),
		fmt.Sprintf("Inventory: $%s", domain.FormatMoney(rec.Inventory)),
		fmt.Sprintf("Accounts Receivable: $%s", domain.FormatMoney(rec.AccountsReceivable)),
		fmt.Sprintf("Cash: $%s", domain.FormatMoney(rec.Cash)),
	}
	if rec.Employees > 0 {
		lines = append(lines, fmt.Sprintf("Employees: %d", rec.Employees))
	}
	return lines
}
