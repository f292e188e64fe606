package extraction

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"bizval/internal/mapping"
	"bizval/pkg/contracts/domain"
)

// FileParser converts raw file bytes into the intermediate shapes the
// extractor consumes. Implemented by the dataprocessing package.
type FileParser interface {
	// ParseWorkbook decodes a spreadsheet into its sheets.
	ParseWorkbook(ctx context.Context, data []byte) ([]domain.Sheet, error)
	// ParseCSV decodes a CSV file into a single sheet.
	ParseCSV(ctx context.Context, data []byte) (domain.Sheet, error)
	// ParseText pulls plain text out of a document such as a PDF.
	ParseText(ctx context.Context, data []byte) (string, error)
}

// ExtractFile dispatches on file extension and runs the matching
// extraction path. Unsupported extensions and parse failures both resolve
// to the all-default record rather than an error; the caller always gets
// a usable record.
func (e *Extractor) ExtractFile(ctx context.Context, parser FileParser, filename string, data []byte) domain.FinancialRecord {
	ext := strings.ToLower(filepath.Ext(filename))
	e.logger.InfoContext(ctx, "extracting file",
		slog.String("filename", filename),
		slog.String("extension", ext),
		slog.Int("size_bytes", len(data)),
	)

	switch ext {
	case ".xlsx", ".xls":
		sheets, err := parser.ParseWorkbook(ctx, data)
		if err != nil {
			e.logger.WarnContext(ctx, "workbook parse failed, returning defaults",
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
			return domain.EmptyRecord()
		}
		return e.ExtractSheets(ctx, sheets)

	case ".csv":
		sheet, err := parser.ParseCSV(ctx, data)
		if err != nil {
			e.logger.WarnContext(ctx, "csv parse failed, returning defaults",
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
			return domain.EmptyRecord()
		}
		if rec, ok := e.extractMetricValueCSV(sheet); ok {
			return rec
		}
		return e.ExtractSheets(ctx, []domain.Sheet{sheet})

	case ".pdf":
		text, err := parser.ParseText(ctx, data)
		if err != nil {
			e.logger.WarnContext(ctx, "pdf text extraction failed, returning defaults",
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
			return domain.EmptyRecord()
		}
		return e.ExtractText(ctx, text)

	default:
		e.logger.WarnContext(ctx, "unsupported file extension, returning defaults",
			slog.String("extension", ext),
		)
		return domain.EmptyRecord()
	}
}

// extractMetricValueCSV handles the exact two-column Metric/Value ledger
// layout by direct label lookup. Returns false when the sheet does not
// have that shape so the caller can fall through to the sheet cascade.
func (e *Extractor) extractMetricValueCSV(sheet domain.Sheet) (domain.FinancialRecord, bool) {
	if len(sheet.Columns) != 2 {
		return domain.FinancialRecord{}, false
	}
	c0 := strings.ToLower(strings.TrimSpace(sheet.Columns[0]))
	c1 := strings.ToLower(strings.TrimSpace(sheet.Columns[1]))
	if c0 != "metric" || c1 != "value" {
		return domain.FinancialRecord{}, false
	}

	f := newFindings()
	for _, row := range sheet.Rows {
		if len(row) < 2 {
			continue
		}
		label := strings.TrimSpace(row[0])
		raw := strings.TrimSpace(row[1])
		field, ok := mapping.MatchLabel(label)
		if !ok {
			continue
		}
		switch field {
		case mapping.FieldCompanyName:
			f.companyName = raw
		case mapping.FieldIndustry:
			f.industry = raw
		case mapping.FieldEmployees:
			if v, ok := mapping.ParseAmount(raw); ok && v > 0 {
				f.employees = int(v)
			}
		default:
			if v, ok := mapping.ParseAmount(raw); ok {
				f.metrics[field] = v
			}
		}
	}
	return clean(f), true
}
