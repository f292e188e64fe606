package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRowLedgerMode(t *testing.T) {
	m := NewMapper(nil)

	t.Run("ebitda item maps only ebitda", func(t *testing.T) {
		mapped := m.MapRow([]string{"Item", "Amount"}, []string{"EBITDA", "800000"})
		require.Len(t, mapped, 1)
		assert.Equal(t, int64(800000), mapped[FieldEBITDA])
	})

	t.Run("net income beats revenue's income synonym", func(t *testing.T) {
		mapped := m.MapRow([]string{"Item", "Amount"}, []string{"Net Income", "120000"})
		require.Len(t, mapped, 1)
		assert.Equal(t, int64(120000), mapped[FieldNetIncome])
	})

	t.Run("reversed column order still recognized", func(t *testing.T) {
		mapped := m.MapRow([]string{"Amount", "Item"}, []string{"500000", "Cash"})
		require.Len(t, mapped, 1)
		assert.Equal(t, int64(500000), mapped[FieldCash])
	})

	t.Run("unknown label maps nothing", func(t *testing.T) {
		mapped := m.MapRow([]string{"Item", "Amount"}, []string{"Weather", "42"})
		assert.Empty(t, mapped)
	})
}

func TestMapRowGeneralMode(t *testing.T) {
	m := NewMapper(nil)

	t.Run("column names map by similarity", func(t *testing.T) {
		columns := []string{"Company", "Total_Revenue", "EBITDA", "Staff"}
		cells := []string{"Acme Corp", "$1,500,000", "300000", "25"}
		mapped := m.MapRow(columns, cells)

		assert.Equal(t, "Acme Corp", mapped[FieldCompanyName])
		assert.Equal(t, int64(1500000), mapped[FieldRevenue])
		assert.Equal(t, int64(300000), mapped[FieldEBITDA])
		assert.Equal(t, int64(25), mapped[FieldEmployees])
	})

	t.Run("unmatched columns are omitted, never defaulted", func(t *testing.T) {
		mapped := m.MapRow([]string{"zzz", "qqq"}, []string{"1", "2"})
		assert.Empty(t, mapped)
	})

	t.Run("last writer wins on field conflicts", func(t *testing.T) {
		columns := []string{"revenue", "total_revenue"}
		cells := []string{"100", "200"}
		mapped := m.MapRow(columns, cells)
		require.Len(t, mapped, 1)
		assert.Equal(t, int64(200), mapped[FieldRevenue])
	})

	t.Run("ragged row tolerated", func(t *testing.T) {
		mapped := m.MapRow([]string{"revenue", "cash"}, []string{"100"})
		assert.Equal(t, int64(100), mapped[FieldRevenue])
		// cash column had no cell; an unparseable empty string comes back raw
		assert.Equal(t, "", mapped[FieldCash])
	})
}

func TestBestField(t *testing.T) {
	tests := []struct {
		column   string
		expected Field
		found    bool
	}{
		{"revenue", FieldRevenue, true},
		{"Total_Revenue", FieldRevenue, true},
		{"ar", FieldAccountsReceivable, true},
		{"fte", FieldEmployees, true},
		{"net_income", FieldNetIncome, true},
		{"xyz123", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			field, score, ok := BestField(tt.column)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, field)
				assert.Greater(t, score, AcceptanceThreshold)
			}
		})
	}
}

func TestProcessValue(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		raw      string
		expected any
	}{
		{"plain integer", FieldRevenue, "1500000", int64(1500000)},
		{"currency formatting stripped", FieldRevenue, "$1,500,000", int64(1500000)},
		{"decimal parses as float", FieldCash, "1234.56", 1234.56},
		{"parentheses mean negative", FieldNetIncome, "(25,000)", int64(-25000)},
		{"junk returned unchanged", FieldRevenue, "n/a", "n/a"},
		{"company name trimmed only", FieldCompanyName, "  Acme Corp  ", "Acme Corp"},
		{"industry untouched numerically", FieldIndustry, "Manufacturing", "Manufacturing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProcessValue(tt.field, tt.raw))
		})
	}
}

func TestParseAmount(t *testing.T) {
	v, ok := ParseAmount("$2,500.75")
	require.True(t, ok)
	assert.InDelta(t, 2500.75, v, 1e-9)

	v, ok = ParseAmount("(1,000)")
	require.True(t, ok)
	assert.InDelta(t, -1000, v, 1e-9)

	_, ok = ParseAmount("hello")
	assert.False(t, ok)

	_, ok = ParseAmount("")
	assert.False(t, ok)
}
