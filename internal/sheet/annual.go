package sheet

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/layout"
	"github.com/sells-group/stock-screener/internal/model"
	"github.com/sells-group/stock-screener/internal/period"
)

// AnnualTable is the placement of the annual table.
type AnnualTable struct {
	// Columns maps a visible year to its 1-based column.
	Columns map[string]int
	Rows    layout.AnnualRows
	Years   []string
}

// BuildTable lays out the annual table starting at layout.AnnualStartRow.
func (b *Builder) BuildTable(g grid.Grid, in InputRefs) AnnualTable {
	c := cells{g}
	start := layout.AnnualStartRow
	rows := b.schema.AnnualRows(start)
	metrics := b.schema.DetectionMetrics()

	years := b.classifier.VisibleYears(period.MergeYears(
		period.ExtractYears(b.data.Annual, metrics),
		b.data.ForecastYears,
	))
	cols := make(map[string]int, len(years))
	for i, y := range years {
		cols[y] = i + 1
	}

	g.SetRowHeight(start, 60)
	c.text(start, 0, "Chỉ số", bandStyle())
	for _, l := range b.schema.AnnualLabels() {
		c.rowLabel(rows.Of(l.Row), l)
	}

	for _, year := range years {
		col := cols[year]
		forecast := b.classifier.IsForecastYear(year)
		g.SetColumnWidth(col, layout.ColumnWidth)
		c.text(start, col, year+forecastSuffix(forecast)+"\n"+layout.YearDateRange, headerStyle(forecast))

		prevCol, hasPrev := cols[prevYear(year)]
		b.fillAnnualColumn(c, rows, year, col, prevCol, hasPrev, forecast, in)
	}

	b.log.Debug("sheet: annual table", zap.Strings("years", years))
	return AnnualTable{Columns: cols, Rows: rows, Years: years}
}

func (b *Builder) fillAnnualColumn(c cells, rows layout.AnnualRows, year string, col, prevCol int, hasPrev, forecast bool, in InputRefs) {
	s := b.schema
	value := func(r layout.Row) (float64, bool) {
		return b.data.Annual.Value(s.Source(r), year)
	}
	has := s.HasAnnual

	// Revenue and net profit extrapolate from the prior year only when no
	// reported figure exists.
	extrapolated := func(r layout.Row, row int, rate string) {
		v, ok := value(r)
		if forecast && !ok && hasPrev {
			c.formula(row, col, extrapolate(c.addr(row, prevCol), rate), FormatAmount)
			return
		}
		c.number(row, col, v, ok, FormatAmount)
	}
	literal := func(r layout.Row, row int, format string) {
		if !has(r) {
			return
		}
		v, ok := value(r)
		c.number(row, col, v, ok, format)
	}
	ratio := func(r layout.Row, row int) {
		if !has(r) {
			return
		}
		v, ok := percent(value(r))
		c.number(row, col, v, ok, FormatPercent)
	}

	extrapolated(layout.RowNetRevenue, rows.NetRevenue, in.RevenueGrowth)
	literal(layout.RowGrossProfit, rows.GrossProfit, FormatAmount)
	literal(layout.RowOperatingProfit, rows.OperatingProfit, FormatAmount)
	extrapolated(layout.RowNetProfit, rows.NetProfit, in.NetProfitGrowth)

	// Reported EPS, P/E and ROS stay even in a forecast year. The linker
	// replaces them only for years with a forecast quarter.
	literal(layout.RowEPS, rows.EPS, FormatAmount)
	literal(layout.RowPE, rows.PE, FormatRatio)
	ratio(layout.RowROS, rows.ROS)
	ratio(layout.RowROE, rows.ROE)
	ratio(layout.RowROA, rows.ROA)

	if has(layout.RowGrossMargin) {
		c.formula(rows.GrossMargin, col, divide(c.addr(rows.GrossProfit, col), c.addr(rows.NetRevenue, col)), FormatPercent)
	}
	if has(layout.RowNetProfitMargin) {
		c.formula(rows.NetProfitMargin, col, divide(c.addr(rows.NetProfit, col), c.addr(rows.NetRevenue, col)), FormatPercent)
	}
	if has(layout.RowNetMargin) {
		if s.ROAProxy() {
			assets, hasAssets := b.data.Annual.Value(model.MetricTotalAssets, year)
			roa, hasROA := b.data.Annual.Value(model.MetricROA, year)
			b.roaProxy(c, rows.NetMargin, col, c.addr(rows.NetProfit, col), assets, hasAssets, roa, hasROA)
		} else {
			c.formula(rows.NetMargin, col, divide(c.addr(rows.NetProfit, col), c.addr(rows.NetRevenue, col)), FormatPercent)
		}
	}

	if hasPrev {
		c.formula(rows.RevGrowth, col, growth(c.addr(rows.NetRevenue, col), c.addr(rows.NetRevenue, prevCol)), FormatPercent)
		c.formula(rows.ProfitGrowth, col, growth(c.addr(rows.NetProfit, col), c.addr(rows.NetProfit, prevCol)), FormatPercent)
	} else {
		c.border(rows.RevGrowth, col)
		c.border(rows.ProfitGrowth, col)
	}
}

// roaProxy fills a bank's return-on-assets margin cell: net profit over
// total assets when assets are known, else the reported ROA as a fraction.
func (b *Builder) roaProxy(c cells, row, col int, profitAddr string, assets float64, hasAssets bool, roa float64, hasROA bool) {
	switch {
	case hasAssets && assets > 0:
		c.formula(row, col, divide(profitAddr, formatNumber(assets)), FormatPercent)
	case hasROA:
		c.formula(row, col, formatNumber(roa)+"/100", FormatPercent)
	default:
		c.number(row, col, 0, false, FormatPercent)
	}
}

func prevYear(year string) string {
	y, err := model.ParseYear(year)
	if err != nil {
		return ""
	}
	return strconv.Itoa(y - 1)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
