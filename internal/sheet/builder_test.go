package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/layout"
	"github.com/sells-group/stock-screener/internal/model"
)

const testYear = 2024

var testToday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{CurrentYear: testYear, Today: testToday}
}

// industrialData has a fully reported 2023 and a caller-designated 2024 forecast.
func industrialData() *model.SeriesData {
	a := model.AnnualSeries{}
	a.Set(model.MetricNetRevenue, "2023", model.Float(460))
	a.Set(model.MetricGrossProfit, "2023", model.Float(140))
	a.Set(model.MetricOperatingProfit, "2023", model.Float(60))
	a.Set(model.MetricNetProfit, "2023", model.Float(46))
	a.Set(model.MetricEPS, "2023", model.Float(4600))
	a.Set(model.MetricPE, "2023", model.Float(12.5))
	a.Set(model.MetricROS, "2023", model.Float(10))
	a.Set(model.MetricROE, "2023", model.Float(18))
	a.Set(model.MetricROA, "2023", model.Float(9))

	q := model.QuarterlySeries{}
	for i, ql := range model.QuarterLabels {
		f := float64(i)
		q.Set(model.MetricNetRevenue, "2023", ql, model.Float(100+10*f))
		q.Set(model.MetricGrossProfit, "2023", ql, model.Float(30+f))
		q.Set(model.MetricNetProfit, "2023", ql, model.Float(10+f))
		q.Set(model.MetricEPS, "2023", ql, model.Float(4000+100*f))
		q.Set(model.MetricPE, "2023", ql, model.Float(11+f))
	}

	return &model.SeriesData{
		Symbol:        "VNM",
		Annual:        a,
		Quarterly:     q,
		ForecastYears: []string{"2024"},
		Inputs: model.Inputs{
			CurrentPrice:      65000,
			OutstandingShares: 1000,
			Max52W:            72000,
			Min52W:            58000,
			RevenueGrowth:     0.1,
			GrossMargin:       0.3,
			NetProfitGrowth:   0.12,
		},
	}
}

func build(t *testing.T, data *model.SeriesData) (*grid.Memory, *Result) {
	t.Helper()
	m := grid.NewMemory()
	res, err := Build(m, data, testOptions())
	require.NoError(t, err)
	return m, res
}

func TestBuild_RejectsMissingArguments(t *testing.T) {
	_, err := Build(nil, industrialData(), testOptions())
	require.Error(t, err)

	_, err = Build(grid.NewMemory(), nil, testOptions())
	require.Error(t, err)

	_, err = Build(grid.NewMemory(), industrialData(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current year")
}

func TestBuild_DetectsVariantOnce(t *testing.T) {
	_, res := build(t, industrialData())
	assert.Equal(t, model.VariantIndustrial, res.Variant)

	data := industrialData()
	data.Symbol = "VCB"
	_, res = build(t, data)
	assert.Equal(t, model.VariantBank, res.Variant)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	data := &model.SeriesData{Symbol: "HPG"}
	_, err := Build(grid.NewMemory(), data, testOptions())
	require.NoError(t, err)
	assert.Nil(t, data.Annual)
	assert.Nil(t, data.Quarterly)
	assert.Empty(t, data.Variant)
}

func TestBuild_Idempotent(t *testing.T) {
	m1, r1 := build(t, industrialData())
	m2, r2 := build(t, industrialData())
	assert.Equal(t, m1, m2)
	assert.Equal(t, r1, r2)
}

func TestBuild_TitleAndInputs(t *testing.T) {
	data := industrialData()
	data.Inputs.TradingDate = "2024-06-30"
	m, res := build(t, data)

	assert.Equal(t, "VNM", m.Value(0, 0))
	assert.Equal(t, "TẦM SOÁT CỔ PHIẾU", m.Value(0, 2))
	assert.Equal(t, "NGÀY", m.Value(0, 4))
	assert.Equal(t, "19/10/2026", m.Value(0, 5))
	assert.Equal(t, layout.ColorSymbol, m.StyleAt(0, 0).Color)

	assert.Equal(t, "Ngày: 30/06/2024", m.Value(3, 10))
	assert.Equal(t, InputRefs{
		CurrentPrice:      "M5",
		OutstandingShares: "M6",
		RevenueGrowth:     "M9",
		GrossMargin:       "M10",
		NetProfitGrowth:   "M11",
	}, res.Inputs)
	assert.Equal(t, 65000.0, m.Value(4, 12))
	assert.Equal(t, FormatPercent, m.Format(8, 12))
	assert.Equal(t, layout.ColorInput, m.StyleAt(4, 12).Bg)
	assert.Equal(t, layout.ColorDisplay, m.StyleAt(6, 12).Bg)
}

func TestReadInputs_RoundTrip(t *testing.T) {
	data := industrialData()
	m, _ := build(t, data)

	got := ReadInputs(m)
	want := data.Inputs
	want.TradingDate = ""
	assert.Equal(t, want, got)
}

func TestBuild_FinalLayout(t *testing.T) {
	m, _ := build(t, industrialData())
	assert.Equal(t, 1, m.Frozen())
	assert.Equal(t, float64(layout.LabelColumnWidth), m.ColumnWidth(0))
}

func TestBuild_NeverWritesUnusedRows(t *testing.T) {
	for _, symbol := range []string{"VNM", "VCB", "SSI"} {
		data := industrialData()
		data.Symbol = symbol
		m, _ := build(t, data)
		for _, k := range m.Coords() {
			assert.Less(t, k.Row, 100, "%s wrote placeholder row %d", symbol, k.Row)
		}
	}
}

func TestBuild_EmptyData(t *testing.T) {
	m, res := build(t, &model.SeriesData{Symbol: "XYZ"})
	assert.Empty(t, res.Annual.Years)
	assert.Empty(t, res.Quarterly.Columns)
	assert.Equal(t, 1, res.Quarterly.ColumnCount)
	assert.Equal(t, "Chỉ số", m.Value(layout.AnnualStartRow, 0))
	// Padding alone fills the scenario list.
	assert.Equal(t, []float64{9, 11, 12, 13, 14, 5, 4}, res.Valuation.Scenarios)
}
