// Package dataprocessing decodes uploaded documents into the intermediate
// shapes the extraction pipeline consumes: workbooks and CSV files become
// ordered sheets, PDFs become plain text.
package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/xuri/excelize/v2"

	apperrors "bizval/internal/errors"
	"bizval/pkg/contracts/domain"
)

// Parser converts raw document bytes into sheets and text. Safe for
// concurrent use.
type Parser struct {
	logger  *slog.Logger
	tempDir string
}

// NewParser creates a parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger:  logger,
		tempDir: os.TempDir(),
	}
}

// ParseWorkbook decodes an Excel workbook into ordered sheets, one per
// worksheet, in workbook order. The first row of each worksheet becomes
// the column headers; remaining rows become data rows.
func (p *Parser) ParseWorkbook(ctx context.Context, data []byte) ([]domain.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeParsing, "failed to open workbook", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			p.logger.WarnContext(ctx, "failed to close workbook", slog.String("error", cerr.Error()))
		}
	}()

	names := f.GetSheetList()
	sheets := make([]domain.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		sheets = append(sheets, sheetFromRows(name, rows))
	}

	p.logger.InfoContext(ctx, "workbook parsed", slog.Int("sheets", len(sheets)))
	return sheets, nil
}

// ParseCSV decodes a CSV file into a single sheet. Records may have
// varying field counts; short rows are kept as-is and the extraction
// layer tolerates them.
func (p *Parser) ParseCSV(ctx context.Context, data []byte) (domain.Sheet, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Sheet{}, apperrors.NewAppError(apperrors.ErrTypeParsing, "failed to parse csv", err)
		}
		records = append(records, record)
	}

	sheet := sheetFromRows("csv", records)
	p.logger.InfoContext(ctx, "csv parsed",
		slog.Int("columns", len(sheet.Columns)),
		slog.Int("rows", len(sheet.Rows)),
	)
	return sheet, nil
}

// ParseText extracts plain text from a PDF. pdfcpu works on files, so the
// bytes round-trip through a temp file and the per-page content files are
// concatenated in page order.
func (p *Parser) ParseText(ctx context.Context, data []byte) (string, error) {
	tempFile, err := os.CreateTemp(p.tempDir, "bizval-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp pdf: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return "", fmt.Errorf("failed to write temp pdf: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp pdf: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(tempPath)
	if err != nil {
		return "", apperrors.NewAppError(apperrors.ErrTypeParsing, "failed to read pdf", err)
	}
	pageCount := pdfCtx.PageCount

	outDir, err := os.MkdirTemp(p.tempDir, "bizval-pages-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempPath, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract pdf content: %w", err)
	}

	pageTexts := make(map[int]string)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted content: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(entry.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if page, ok := pageTexts[pageNum]; ok {
			if text.Len() > 0 {
				text.WriteString("\n\n")
			}
			text.WriteString(page)
		}
	}

	p.logger.InfoContext(ctx, "pdf text extracted",
		slog.Int("pages", pageCount),
		slog.Int("chars", text.Len()),
	)
	return text.String(), nil
}

// sheetFromRows splits raw rows into headers plus data rows. An input
// with no rows produces an empty sheet, which extraction treats as
// parsed-but-empty rather than a failure.
func sheetFromRows(name string, rows [][]string) domain.Sheet {
	sheet := domain.Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}
	sheet.Columns = rows[0]
	if len(rows) > 1 {
		sheet.Rows = rows[1:]
	}
	return sheet
}
