package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"bizval/pkg/contracts/domain"
)

// renderXLSX produces the Excel workbook report: a summary sheet, a
// valuation breakdown sheet, and a SWOT sheet.
func (r *Renderer) renderXLSX(result domain.AnalysisResult) ([]byte, error) {
	rec := result.Record
	val := result.Valuation

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)

	rows := [][]interface{}{
		{"Business Valuation Report"},
		{},
		{"Company", rec.CompanyName},
		{"Industry", rec.Industry},
		{"Report Date", time.Now().Format("2006-01-02")},
		{},
		{"Executive Summary"},
		{result.ExecutiveSummary},
		{},
		{"Financial Metrics"},
		{"Annual Revenue", rec.Revenue},
		{"EBITDA", rec.EBITDA},
		{"SDE", rec.SDE},
		{"Net Income", rec.NetIncome},
		{"Total Assets", rec.TotalAssets},
		{"Total Liabilities", rec.TotalLiabilities},
		{"Inventory", rec.Inventory},
		{"Accounts Receivable", rec.AccountsReceivable},
		{"Cash", rec.Cash},
		{"Employees", rec.Employees},
	}
	if err := writeRows(f, summary, rows); err != nil {
		return nil, err
	}

	const valuationSheet = "Valuation"
	if _, err := f.NewSheet(valuationSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", valuationSheet, err)
	}
	valRows := [][]interface{}{
		{"Method", "Estimate"},
		{"Asset-Based", val.AssetBased},
		{"DCF", val.IncomeBased.DCFValue},
		{"Capitalization of Earnings", val.IncomeBased.CapitalizationValue},
		{"Revenue Multiple", val.MarketBased.RevenueMultiple},
		{"EBITDA Multiple", val.MarketBased.EBITDAMultiple},
		{"SDE Multiple", val.MarketBased.SDEMultiple},
		{},
		{"Low Estimate", val.ValuationRange.Low},
		{"Mid Estimate", val.ValuationRange.Mid},
		{"High Estimate", val.ValuationRange.High},
		{},
		{"Anomalies"},
	}
	for _, a := range val.Anomalies {
		valRows = append(valRows, []interface{}{a})
	}
	if err := writeRows(f, valuationSheet, valRows); err != nil {
		return nil, err
	}

	const swotSheet = "SWOT"
	if _, err := f.NewSheet(swotSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", swotSheet, err)
	}
	swotRows := [][]interface{}{{"Category", "Item"}}
	appendCategory := func(category string, items []string) {
		for _, item := range items {
			swotRows = append(swotRows, []interface{}{category, item})
		}
	}
	appendCategory("Strength", result.Swot.Strengths)
	appendCategory("Weakness", result.Swot.Weaknesses)
	appendCategory("Opportunity", result.Swot.Opportunities)
	appendCategory("Threat", result.Swot.Threats)
	if err := writeRows(f, swotSheet, swotRows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	r.logger.Debug("XLSX report generated",
		"company", rec.CompanyName,
		"bytes", buf.Len())
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
