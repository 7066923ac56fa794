package sheet

import (
	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/layout"
	"github.com/sells-group/stock-screener/internal/model"
	"github.com/sells-group/stock-screener/internal/period"
)

// ColumnInfo is one quarter column of the quarterly table.
type ColumnInfo struct {
	Year       string
	Quarter    string
	Col        int
	IsForecast bool
}

// QuarterlyTable is the placement of the quarterly table.
type QuarterlyTable struct {
	Columns []ColumnInfo
	Rows    layout.QuarterlyRows
	// ColumnCount is the first column to the right of the table.
	ColumnCount int
}

// YearColumns groups the table's columns by year, keeping first-seen order.
func (t QuarterlyTable) YearColumns() ([]string, map[string][]ColumnInfo) {
	var years []string
	byYear := make(map[string][]ColumnInfo)
	for _, ci := range t.Columns {
		if _, ok := byYear[ci.Year]; !ok {
			years = append(years, ci.Year)
		}
		byYear[ci.Year] = append(byYear[ci.Year], ci)
	}
	return years, byYear
}

// BuildQuarterlyTable lays out the quarterly table below the annual one.
// Every visible year contributes a contiguous block of four columns.
func (b *Builder) BuildQuarterlyTable(g grid.Grid, in InputRefs, annualRows layout.AnnualRows) QuarterlyTable {
	c := cells{g}
	start := annualRows.ProfitGrowth + layout.QuarterlyGap
	rows := b.schema.QuarterlyRows(start)
	metrics := b.schema.DetectionMetrics()

	years := b.classifier.VisibleYears(period.MergeYears(
		period.ExtractYears(b.data.Annual, metrics),
		period.ExtractYears(b.data.Quarterly, metrics),
		b.data.ForecastYears,
	))

	g.SetRowHeight(rows.YearHeader, 30)
	g.SetRowHeight(rows.QuarterHeader, 50)
	c.text(rows.YearHeader, 0, "Niên độ \nChỉ số", bandStyle())
	g.MergeRange(rows.YearHeader, 0, 2, 1)

	var cols []ColumnInfo
	col := 1
	for _, year := range years {
		yearForecast := b.classifier.IsForecastYear(year)
		c.text(rows.YearHeader, col, year, headerStyle(yearForecast))
		g.MergeRange(rows.YearHeader, col, 1, 4)
		grid.StyleRange(g, rows.YearHeader, col, 1, 4, thinBorder)

		for i, q := range model.QuarterLabels {
			forecast := b.classifier.IsForecastQuarter(year, q, b.hasActual(year, q))
			g.SetColumnWidth(col, layout.ColumnWidth)
			c.text(rows.QuarterHeader, col, q+forecastSuffix(forecast)+"\n"+layout.QuarterDateRanges[i], headerStyle(forecast))
			cols = append(cols, ColumnInfo{Year: year, Quarter: q, Col: col, IsForecast: forecast})
			col++
		}
	}

	for _, l := range b.schema.QuarterlyLabels() {
		c.rowLabel(rows.Of(l.Row), l)
	}

	for _, ci := range cols {
		b.fillQuarterColumn(c, rows, ci, in)
		if ci.Quarter == "Q4" {
			grid.StyleRange(g, start, ci.Col, rows.ProfitGrowth-start+1, 1, doubleRight)
		}
	}
	grid.StyleRange(g, rows.ProfitGrowth, 0, 1, col, doubleBottom)

	b.log.Debug("sheet: quarterly table", zap.Strings("years", years), zap.Int("columns", len(cols)))
	return QuarterlyTable{Columns: cols, Rows: rows, ColumnCount: col}
}

// hasActual reports whether a quarter carries reported data in any of the
// variant's actual-data metrics.
func (b *Builder) hasActual(year, quarter string) bool {
	for _, m := range b.schema.ActualMetrics() {
		if _, ok := b.data.Quarterly.Value(m, year, quarter); ok {
			return true
		}
	}
	return false
}

func (b *Builder) fillQuarterColumn(c cells, rows layout.QuarterlyRows, ci ColumnInfo, in InputRefs) {
	s := b.schema
	col := ci.Col
	prevCol := col - 4
	hasPrev := prevCol >= 1
	value := func(metric string) (float64, bool) {
		return b.data.Quarterly.Value(metric, ci.Year, ci.Quarter)
	}
	has := s.HasQuarterly

	extrapolated := func(r layout.Row, row int, rate string) {
		v, ok := value(s.Source(r))
		if ci.IsForecast && !ok && hasPrev {
			c.formula(row, col, extrapolate(c.addr(row, prevCol), rate), FormatAmount)
			return
		}
		c.number(row, col, v, ok, FormatAmount)
	}
	ratio := func(r layout.Row, row int) {
		if !has(r) {
			return
		}
		v, ok := percent(value(s.Source(r)))
		c.number(row, col, v, ok, FormatPercent)
	}

	extrapolated(layout.RowNetRevenue, rows.Revenue, in.RevenueGrowth)

	gross, hasGross := value(s.Source(layout.RowGrossProfit))
	if ci.IsForecast && !hasGross && s.GrossFromMargin() {
		c.formula(rows.GrossProfit, col, product(c.addr(rows.Revenue, col), in.GrossMargin), FormatAmount)
	} else {
		c.number(rows.GrossProfit, col, gross, hasGross, FormatAmount)
	}

	if has(layout.RowOperatingProfit) {
		v, ok := value(s.Source(layout.RowOperatingProfit))
		c.number(rows.OperatingProfit, col, v, ok, FormatAmount)
	}

	extrapolated(layout.RowNetProfit, rows.NetProfit, in.NetProfitGrowth)

	shares, ok := value(model.MetricOutstandingShares)
	if !ok {
		shares = b.data.Inputs.OutstandingShares
	}
	c.number(rows.Shares, col, shares, true, FormatAmount)

	revAddr := c.addr(rows.Revenue, col)
	profitAddr := c.addr(rows.NetProfit, col)
	if has(layout.RowGrossMargin) {
		c.formula(rows.GrossMargin, col, divide(c.addr(rows.GrossProfit, col), revAddr), FormatPercent)
	}
	if has(layout.RowNetProfitMargin) {
		c.formula(rows.NetProfitMargin, col, divide(profitAddr, revAddr), FormatPercent)
	}
	if has(layout.RowNetMargin) {
		if s.ROAProxy() {
			assets, hasAssets := value(model.MetricTotalAssets)
			roa, hasROA := value(model.MetricROA)
			b.roaProxy(c, rows.NetMargin, col, profitAddr, assets, hasAssets, roa, hasROA)
		} else {
			c.formula(rows.NetMargin, col, divide(profitAddr, revAddr), FormatPercent)
		}
	}

	// Upstream EPS is trailing, so single-quarter EPS is always derived.
	c.formula(rows.EPS, col, quarterEPS(profitAddr, c.addr(rows.Shares, col)), FormatAmount)

	ttm, hasTTM := b.reportedTTM(ci)
	trailing := ""
	if col >= 4 {
		trailing = c.span(rows.EPS, col-3, 1, 4)
	}
	switch {
	case !ci.IsForecast && hasTTM:
		c.number(rows.EPSTTM, col, ttm, true, FormatAmount)
	case trailing != "":
		c.formula(rows.EPSTTM, col, sum(trailing), FormatAmount)
	default:
		c.border(rows.EPSTTM, col)
	}

	pe, hasPE := value(s.Source(layout.RowPE))
	switch {
	case !ci.IsForecast && hasPE:
		c.number(rows.PE, col, pe, true, FormatRatio)
	case ci.IsForecast && trailing != "":
		c.formula(rows.PE, col, trailingPE(in.CurrentPrice, trailing), FormatRatio)
	default:
		c.border(rows.PE, col)
	}

	ratio(layout.RowROE, rows.ROE)
	ratio(layout.RowROA, rows.ROA)

	if hasPrev {
		c.formula(rows.RevGrowth, col, growth(revAddr, c.addr(rows.Revenue, prevCol)), FormatPercent)
		c.formula(rows.ProfitGrowth, col, growth(profitAddr, c.addr(rows.NetProfit, prevCol)), FormatPercent)
	} else {
		c.border(rows.RevGrowth, col)
		c.border(rows.ProfitGrowth, col)
	}
}

// reportedTTM returns the first trailing EPS the upstream reported for a quarter.
func (b *Builder) reportedTTM(ci ColumnInfo) (float64, bool) {
	for _, m := range b.schema.TTMSources() {
		if v, ok := b.data.Quarterly.Value(m, ci.Year, ci.Quarter); ok {
			return v, true
		}
	}
	return 0, false
}
