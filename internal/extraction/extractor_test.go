package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizval/pkg/contracts/domain"
)

func TestExtractSheetsHeaderPatterns(t *testing.T) {
	sheet := domain.Sheet{
		Name:    "Financials",
		Columns: []string{"Company", "Total Revenue", "EBITDA", "Total Assets", "Employees"},
		Rows: [][]string{
			{"Alard Manufacturing Ltd", "5000000", "800000", "6200000", "42"},
		},
	}

	e := NewExtractor(nil)
	rec := e.ExtractSheets(context.Background(), []domain.Sheet{sheet})

	assert.Equal(t, "Alard Manufacturing Ltd", rec.CompanyName)
	assert.InDelta(t, 5000000, rec.Revenue, 0.01)
	assert.InDelta(t, 800000, rec.EBITDA, 0.01)
	assert.InDelta(t, 6200000, rec.TotalAssets, 0.01)
	assert.Equal(t, 42, rec.Employees)
}

func TestExtractSheetsBestSheetWins(t *testing.T) {
	// Five metrics versus one: the richer sheet must be used alone and the
	// sparse sheet's value must not leak into the result.
	rich := domain.Sheet{
		Name:    "Detail",
		Columns: []string{"Revenue", "EBITDA", "Inventory", "Cash", "Total Liabilities"},
		Rows: [][]string{
			{"5000000", "800000", "400000", "250000", "1900000"},
		},
	}
	sparse := domain.Sheet{
		Name:    "Summary",
		Columns: []string{"Revenue"},
		Rows:    [][]string{{"9999999"}},
	}

	e := NewExtractor(nil)
	rec := e.ExtractSheets(context.Background(), []domain.Sheet{sparse, rich})

	assert.InDelta(t, 5000000, rec.Revenue, 0.01, "rich sheet revenue must win")
	assert.InDelta(t, 800000, rec.EBITDA, 0.01)
	assert.InDelta(t, 400000, rec.Inventory, 0.01)
	assert.InDelta(t, 250000, rec.Cash, 0.01)
	assert.InDelta(t, 1900000, rec.TotalLiabilities, 0.01)
}

func TestExtractSheetsMergeWhenNoBestSheet(t *testing.T) {
	// Both sheets score below three metrics, so findings merge with later
	// sheets overwriting earlier ones.
	first := domain.Sheet{
		Name:    "A",
		Columns: []string{"Revenue", "EBITDA"},
		Rows:    [][]string{{"1000000", "100000"}},
	}
	second := domain.Sheet{
		Name:    "B",
		Columns: []string{"Revenue"},
		Rows:    [][]string{{"2000000"}},
	}

	e := NewExtractor(nil)
	rec := e.ExtractSheets(context.Background(), []domain.Sheet{first, second})

	assert.InDelta(t, 2000000, rec.Revenue, 0.01, "later sheet overwrites on merge")
	assert.InDelta(t, 100000, rec.EBITDA, 0.01, "earlier sheet's unique metric survives")
}

func TestExtractSheetsDefaultsWhenNothingFound(t *testing.T) {
	e := NewExtractor(nil)
	rec := e.ExtractSheets(context.Background(), []domain.Sheet{
		{Name: "Empty"},
		{Name: "Blank", Columns: []string{"Notes"}, Rows: [][]string{{"n/a"}}},
	})

	assert.Equal(t, domain.DefaultCompanyName, rec.CompanyName)
	assert.Equal(t, domain.DefaultIndustry, rec.Industry)
	assert.Zero(t, rec.Revenue)
	assert.Zero(t, rec.Employees)
}

func TestExtractSheetsIdempotent(t *testing.T) {
	sheets := []domain.Sheet{
		{
			Name:    "Mix",
			Columns: []string{"Company Name", "Sector", "Revenue", "Total Debt", "Staff"},
			Rows: [][]string{
				{"Brightworks LLC", "manufacturing", "3200000", "700000", "18"},
			},
		},
	}

	e := NewExtractor(nil)
	first := e.ExtractSheets(context.Background(), sheets)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.ExtractSheets(context.Background(), sheets))
	}
}

func TestExtractSheetLedgerMode(t *testing.T) {
	sheet := domain.Sheet{
		Name:    "Ledger",
		Columns: []string{"Item", "Amount"},
		Rows: [][]string{
			{"Company Name", "Harbor Freight Ltd"},
			{"Revenue", "2500000"},
			{"EBITDA", "410000"},
			{"Total Liabilities", "900000"},
			{"Employees", "12"},
		},
	}

	e := NewExtractor(nil)
	rec := e.ExtractSheets(context.Background(), []domain.Sheet{sheet})

	assert.Equal(t, "Harbor Freight Ltd", rec.CompanyName)
	assert.InDelta(t, 2500000, rec.Revenue, 0.01)
	assert.InDelta(t, 410000, rec.EBITDA, 0.01)
	assert.InDelta(t, 900000, rec.TotalLiabilities, 0.01)
	assert.Equal(t, 12, rec.Employees)
}

func TestTier2MagnitudeBuckets(t *testing.T) {
	// Generic "Amount" headers give tier 1 nothing to match, so the
	// magnitude buckets classify the column maxima.
	sheet := domain.Sheet{
		Name:    "Amounts",
		Columns: []string{"Amount A", "Amount B", "Amount C"},
		Rows: [][]string{
			{"2500000", "350000", "45000"},
			{"1200000", "120000", "22000"},
		},
	}

	f := newFindings()
	tier2ColumnPatterns(sheet, f)

	assert.InDelta(t, 2500000, f.metrics["revenue"], 0.01)
	assert.InDelta(t, 350000, f.metrics["ebitda"], 0.01)
	assert.InDelta(t, 45000, f.metrics["inventory"], 0.01)
}

func TestTier4FallbackClassification(t *testing.T) {
	// Headers with no financial keywords at all: the first unclaimed
	// column parks on revenue, the second on total assets.
	sheet := domain.Sheet{
		Name:    "Raw",
		Columns: []string{"Col1", "Col2"},
		Rows: [][]string{
			{"750000", "1250000"},
		},
	}

	f := newFindings()
	tier4AnyNumeric(sheet, f)

	assert.InDelta(t, 750000, f.metrics["revenue"], 0.01)
	assert.InDelta(t, 1250000, f.metrics["total_assets"], 0.01)
}

func TestFindCompanyNameRuleOrder(t *testing.T) {
	tests := []struct {
		name  string
		sheet domain.Sheet
		want  string
	}{
		{
			name: "header column wins",
			sheet: domain.Sheet{
				Columns: []string{"Company", "Revenue"},
				Rows:    [][]string{{"Acme Widgets", "100"}},
			},
			want: "Acme Widgets",
		},
		{
			name: "suffix keyword in early row",
			sheet: domain.Sheet{
				Columns: []string{"A", "B"},
				Rows:    [][]string{{"foo", "Northern Lights Inc"}},
			},
			want: "Northern Lights Inc",
		},
		{
			name: "nothing found",
			sheet: domain.Sheet{
				Columns: []string{"A"},
				Rows:    [][]string{{"foo"}},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findCompanyName(tt.sheet))
		})
	}
}

func TestExtractText(t *testing.T) {
	text := `Pinehill Logistics Group

Industry: transportation

Revenue: $5,000,000
EBITDA: $800,000
Total Liabilities: $1,900,000
Cash: $250,000

The business operates with 35 employees across two depots.`

	e := NewExtractor(nil)
	rec := e.ExtractText(context.Background(), text)

	assert.Equal(t, "Pinehill Logistics Group", rec.CompanyName)
	assert.Equal(t, "transportation", rec.Industry)
	assert.InDelta(t, 5000000, rec.Revenue, 0.01)
	assert.InDelta(t, 800000, rec.EBITDA, 0.01)
	assert.InDelta(t, 1900000, rec.TotalLiabilities, 0.01)
	assert.InDelta(t, 250000, rec.Cash, 0.01)
	assert.Equal(t, 35, rec.Employees)
}

func TestExtractTextEmpty(t *testing.T) {
	e := NewExtractor(nil)
	rec := e.ExtractText(context.Background(), "nothing useful here")

	assert.Equal(t, domain.DefaultCompanyName, rec.CompanyName)
	assert.Equal(t, domain.DefaultIndustry, rec.Industry)
	assert.Zero(t, rec.Revenue)
}

type stubParser struct {
	sheets []domain.Sheet
	sheet  domain.Sheet
	text   string
	err    error
}

func (s *stubParser) ParseWorkbook(context.Context, []byte) ([]domain.Sheet, error) {
	return s.sheets, s.err
}

func (s *stubParser) ParseCSV(context.Context, []byte) (domain.Sheet, error) {
	return s.sheet, s.err
}

func (s *stubParser) ParseText(context.Context, []byte) (string, error) {
	return s.text, s.err
}

func TestExtractFileDispatch(t *testing.T) {
	e := NewExtractor(nil)
	ctx := context.Background()

	t.Run("workbook", func(t *testing.T) {
		parser := &stubParser{sheets: []domain.Sheet{{
			Name:    "S",
			Columns: []string{"Revenue"},
			Rows:    [][]string{{"1000000"}},
		}}}
		rec := e.ExtractFile(ctx, parser, "book.xlsx", []byte("x"))
		assert.InDelta(t, 1000000, rec.Revenue, 0.01)
	})

	t.Run("metric value csv", func(t *testing.T) {
		parser := &stubParser{sheet: domain.Sheet{
			Columns: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Revenue", "2000000"},
				{"Net Income", "300000"},
			},
		}}
		rec := e.ExtractFile(ctx, parser, "data.csv", []byte("x"))
		assert.InDelta(t, 2000000, rec.Revenue, 0.01)
		assert.InDelta(t, 300000, rec.NetIncome, 0.01)
	})

	t.Run("pdf", func(t *testing.T) {
		parser := &stubParser{text: "Revenue: $1,500,000"}
		rec := e.ExtractFile(ctx, parser, "report.pdf", []byte("x"))
		assert.InDelta(t, 1500000, rec.Revenue, 0.01)
	})

	t.Run("parse failure returns defaults", func(t *testing.T) {
		parser := &stubParser{err: errors.New("corrupt file")}
		rec := e.ExtractFile(ctx, parser, "bad.xlsx", []byte("x"))
		require.Equal(t, domain.EmptyRecord(), rec)
	})

	t.Run("unsupported extension returns defaults", func(t *testing.T) {
		rec := e.ExtractFile(ctx, &stubParser{}, "notes.docx", []byte("x"))
		require.Equal(t, domain.EmptyRecord(), rec)
	})
}
