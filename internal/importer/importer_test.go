package importer

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/stock-screener/internal/metric"
	"github.com/sells-group/stock-screener/internal/model"
	"github.com/sells-group/stock-screener/internal/store"
)

func TestReadFixtureFile(t *testing.T) {
	snap, err := ReadFixtureFile(filepath.Join("testdata", "vnm.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "VNM", snap.Company.Symbol)
	assert.Equal(t, 60369.0, *snap.YearlyMetrics[metric.CodeRevenueNet]["2023"])
	assert.Equal(t, 8890.0, *snap.YearlyMetrics[metric.CodeNetProfit]["2023"])
	assert.Equal(t, 15.8, *snap.YearlyMetrics[metric.CodePE]["2023"])
	assert.Equal(t, 1934.0, *snap.QuarterlyMetrics[metric.CodeNetProfit]["2023_Q1"])
	v, ok := snap.QuarterlyMetrics[metric.CodePE]["2024_Q1"]
	assert.True(t, ok)
	assert.Nil(t, v)

	require.NotNil(t, snap.Trading)
	assert.Equal(t, time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC), snap.Trading.TradingDate)
	require.NotNil(t, snap.Analysis)
	assert.Equal(t, []float64{14, 16, 18}, snap.Analysis.PEAssumptions)

	// 2022, 2023, 2023 Q1-Q4, 2024 Q1, plus the listed 2024 forecast.
	require.Len(t, snap.Periods, 8)
	assert.Equal(t, model.Period{Year: 2022}, snap.Periods[0].Period)
	last := snap.Periods[len(snap.Periods)-1]
	assert.Equal(t, model.Period{Year: 2024, Quarter: 1}, last.Period)
	assert.Equal(t, "quarter", last.Source)
	forecast := snap.Periods[len(snap.Periods)-2]
	assert.Equal(t, model.Period{Year: 2024}, forecast.Period)
	assert.True(t, forecast.IsForecast)
}

func TestReadFixture_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no symbol", "company:\n  name: X\n", "no company symbol"},
		{"unknown field", "company:\n  symbol: X\nbogus: 1\n", "decode fixture"},
		{"bad period", "company:\n  symbol: X\nyearly_metrics:\n  PE:\n    \"23\": 1\n", "metric"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFixture(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadFixture_DropsUnknownMetric(t *testing.T) {
	snap, err := ReadFixture(strings.NewReader("company:\n  symbol: X\nyearly_metrics:\n  Chi phí bán hàng:\n    \"2023\": 1\n"))
	require.NoError(t, err)
	assert.Empty(t, snap.YearlyMetrics)
	assert.Empty(t, snap.Periods)
}

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("metrics")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "metrics.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadMetricWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"metric", "period", "value", "forecast"},
		{"Doanh thu thuần", "2023", "60,369"},
		{"REVENUE_NET", "2023_Q1", "13901"},
		{"NET_PROFIT", "2024_Q1", "", "x"},
		{"Unknown line", "2023", "1"},
		{"PE", "FY23", "1"},
		{"", "", ""},
	})

	tbl, err := ReadMetricWorkbook(path, XLSXOptions{SkipRows: 1})
	require.NoError(t, err)

	assert.Equal(t, 60369.0, *tbl.Yearly[metric.CodeRevenueNet]["2023"])
	assert.Equal(t, 13901.0, *tbl.Quarterly[metric.CodeRevenueNet]["2023_Q1"])
	v, ok := tbl.Quarterly[metric.CodeNetProfit]["2024_Q1"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, 2, tbl.Skipped)

	require.Len(t, tbl.Periods, 3)
	assert.Equal(t, model.PeriodRecord{Period: model.Period{Year: 2023}, Source: "year"}, tbl.Periods[0])
	assert.Equal(t, model.PeriodRecord{Period: model.Period{Year: 2024, Quarter: 1}, Source: "quarter", IsForecast: true}, tbl.Periods[2])
}

func TestReadMetricWorkbook_Errors(t *testing.T) {
	_, err := ReadMetricWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), XLSXOptions{})
	require.Error(t, err)

	path := writeWorkbook(t, [][]string{{"PE", "2023", "abc"}})
	_, err = ReadMetricWorkbook(path, XLSXOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")

	_, err = ReadMetricWorkbook(path, XLSXOptions{SheetName: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "nope" not found`)

	_, err = ReadMetricWorkbook(path, XLSXOptions{SheetIndex: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestImport_FixtureRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	snap, err := ReadFixtureFile(filepath.Join("testdata", "vnm.yaml"))
	require.NoError(t, err)

	res, err := New(st).Import(ctx, snap)
	require.NoError(t, err)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, "VNM", res.Symbol)
	assert.Equal(t, 16, res.Metrics)
	assert.Equal(t, 8, res.Periods)
	assert.True(t, res.Trading)
	assert.True(t, res.Saved)

	loaded, err := st.LoadStock(ctx, "VNM")
	require.NoError(t, err)
	assert.Equal(t, snap.YearlyMetrics, loaded.YearlyMetrics)
	assert.Equal(t, snap.QuarterlyMetrics, loaded.QuarterlyMetrics)
	assert.Equal(t, snap.Periods, loaded.Periods)
	assert.Equal(t, *snap.Trading, *loaded.Trading)
	assert.Equal(t, []float64{14, 16, 18}, loaded.Analysis.PEAssumptions)
}

func TestImportTable(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	path := writeWorkbook(t, [][]string{
		{"PE", "2023", "12.5"},
		{"EPS_TTM", "2023_Q4", "4100"},
	})
	tbl, err := ReadMetricWorkbook(path, XLSXOptions{})
	require.NoError(t, err)

	res, err := New(st).ImportTable(ctx, "fpt", tbl)
	require.NoError(t, err)
	assert.Equal(t, "FPT", res.Symbol)
	assert.Equal(t, 2, res.Metrics)
	assert.False(t, res.Trading)

	syms, err := st.ListSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"FPT"}, syms)

	_, err = New(st).ImportTable(ctx, "fpt", nil)
	require.Error(t, err)
	_, err = New(st).Import(ctx, nil)
	require.Error(t, err)
}
