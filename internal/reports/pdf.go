package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"bizval/pkg/contracts/domain"
)

// renderPDF produces the PDF report.
func (r *Renderer) renderPDF(result domain.AnalysisResult) ([]byte, error) {
	rec := result.Record
	val := result.Valuation

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	heading := func(text string) {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}
	body := func(text string) {
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, text, "", "L", false)
		pdf.Ln(1)
	}
	bullets := func(items []string) {
		pdf.SetFont("Arial", "", 10)
		if len(items) == 0 {
			items = []string{"Not available"}
		}
		for _, item := range items {
			pdf.MultiCell(0, 5, "- "+item, "", "L", false)
		}
		pdf.Ln(2)
	}
	valueRow := func(label string, value float64) {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(90, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, "$"+domain.FormatMoney(value), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Business Valuation Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s  |  %s  |  %s",
		rec.CompanyName, rec.Industry, time.Now().Format("January 2, 2006")),
		"", 1, "C", false, 0, "")
	pdf.Ln(6)

	heading("Executive Summary")
	body(result.ExecutiveSummary)

	heading("Company Profile")
	bullets(metricLines(rec))

	heading("Valuation Results")
	valueRow("Asset-Based Valuation", val.AssetBased)
	valueRow("DCF Valuation", val.IncomeBased.DCFValue)
	valueRow("Capitalization of Earnings", val.IncomeBased.CapitalizationValue)
	valueRow("Revenue Multiple", val.MarketBased.RevenueMultiple)
	valueRow("EBITDA Multiple", val.MarketBased.EBITDAMultiple)
	valueRow("SDE Multiple", val.MarketBased.SDEMultiple)
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Final Valuation Range", "", 1, "L", false, 0, "")
	valueRow("Low Estimate", val.ValuationRange.Low)
	valueRow("Mid Estimate", val.ValuationRange.Mid)
	valueRow("High Estimate", val.ValuationRange.High)
	pdf.Ln(4)

	if len(val.Anomalies) > 0 {
		heading("Data Anomalies")
		bullets(val.Anomalies)
	}

	heading("SWOT Analysis")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Strengths", "", 1, "L", false, 0, "")
	bullets(result.Swot.Strengths)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Weaknesses", "", 1, "L", false, 0, "")
	bullets(result.Swot.Weaknesses)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Opportunities", "", 1, "L", false, 0, "")
	bullets(result.Swot.Opportunities)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Threats", "", 1, "L", false, 0, "")
	bullets(result.Swot.Threats)

	heading("Methodology & Assumptions")
	body("Asset-Based: " + val.MethodologyNotes.AssetBased)
	body("Income-Based: " + val.MethodologyNotes.DCF)
	body("Market-Based: " + val.MethodologyNotes.MarketMultiples)
	bullets(val.MethodologyNotes.Assumptions)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	r.logger.Debug("PDF report generated",
		"company", rec.CompanyName,
		"bytes", buf.Len())
	return buf.Bytes(), nil
}
