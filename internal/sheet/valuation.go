package sheet

import (
	"math"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/layout"
	"github.com/sells-group/stock-screener/internal/model"
)

const (
	fallbackPE       = 10.0
	highlightTol     = 0.01
	scenarioQuarters = 3
	minScenarios     = 6
	paddedScenarios  = 7
)

// paddingPE fills scenario lists that came up short, indexed by list length.
var paddingPE = [paddedScenarios]float64{9, 11, 12, 13, 14, 5, 4}

// Valuation is the placement of the P/E scenario grid.
type Valuation struct {
	StartRow int
	// FirstScenarioRow is the row of the first P/E literal in column 0.
	FirstScenarioRow int
	RowCount         int
	Scenarios        []float64
	DefaultPE        float64
	// HighlightRows are the rows matching DefaultPE.
	HighlightRows []int
}

// DefaultPE is the prior year's annual P/E, else the year before's, else 10.
// Zero counts as absent.
func DefaultPE(annual model.AnnualSeries, currentYear int) float64 {
	for _, y := range []int{currentYear - 1, currentYear - 2} {
		v, ok := annual.Value(model.MetricPE, strconv.Itoa(y))
		if ok && v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	}
	return fallbackPE
}

// Scenarios returns the P/E rows of the valuation grid. Saved assumptions are
// used verbatim. Otherwise: the last three historical quarterly P/E values in
// ascending order, then up to three forecast P/E cells read back from g
// (defaultPE when not a positive number), padded to seven entries when fewer
// than six were found.
func (b *Builder) Scenarios(g grid.Grid, quarterly QuarterlyTable, defaultPE float64) []float64 {
	if len(b.data.PEAssumptions) > 0 {
		return append([]float64(nil), b.data.PEAssumptions...)
	}

	var historical, forecast []ColumnInfo
	for _, ci := range quarterly.Columns {
		if ci.IsForecast {
			forecast = append(forecast, ci)
		} else {
			historical = append(historical, ci)
		}
	}
	sortColumns(historical)
	sortColumns(forecast)
	if len(historical) > scenarioQuarters {
		historical = historical[len(historical)-scenarioQuarters:]
	}
	if len(forecast) > scenarioQuarters {
		forecast = forecast[:scenarioQuarters]
	}

	var values []float64
	for _, ci := range historical {
		v, ok := b.data.Quarterly.Value(b.schema.Source(layout.RowPE), ci.Year, ci.Quarter)
		if ok && v > 0 {
			values = append(values, round2(v))
		}
	}
	for _, ci := range forecast {
		v, ok := numeric(g.ReadValue(quarterly.Rows.PE, ci.Col))
		if ok && v > 0 {
			values = append(values, round2(v))
		} else {
			values = append(values, defaultPE)
		}
	}

	if len(values) < minScenarios {
		for len(values) < paddedScenarios {
			values = append(values, paddingPE[len(values)])
		}
	}
	return values
}

// BuildValuationGrid writes the P/E x trailing-EPS scenario grid below the
// quarterly table and returns its placement.
func (b *Builder) BuildValuationGrid(g grid.Grid, quarterly QuarterlyTable) Valuation {
	c := cells{g}
	qr := quarterly.Rows
	start := qr.ProfitGrowth + layout.ValuationGap
	defaultPE := DefaultPE(b.data.Annual, b.opts.CurrentYear)
	scenarios := b.Scenarios(g, quarterly, defaultPE)
	rowCount := max(b.opts.ValuationRows, len(scenarios))
	lastCol := max(quarterly.ColumnCount, 1)

	g.SetRowHeight(start, 30)
	g.SetRowHeight(start+1, 50)
	years, byYear := quarterly.YearColumns()
	for _, year := range years {
		yc := byYear[year]
		first := yc[0].Col
		c.text(start, first, year, headerStyle(b.classifier.IsForecastYear(year)))
		if len(yc) > 1 {
			g.MergeRange(start, first, 1, len(yc))
		}
		grid.StyleRange(g, start, first, 1, len(yc), thinBorder)
	}
	for _, ci := range quarterly.Columns {
		q, _ := model.ParseQuarter(ci.Quarter)
		c.text(start+1, ci.Col, ci.Quarter+forecastSuffix(ci.IsForecast)+"\n"+layout.QuarterDateRanges[q-1], headerStyle(ci.IsForecast))
	}
	c.text(start, 0, "Niên độ:", bandStyle())
	c.text(start+1, 0, "Giả sử P/E:", bandStyle())

	first := start + 2
	var highlighted []int
	for i := 0; i < rowCount; i++ {
		row := first + i
		peStyle := grid.Style{Border: grid.Thin(), Align: grid.AlignCenter}
		if i < len(scenarios) {
			pe := scenarios[i]
			g.SetValue(row, 0, pe)
			if math.Abs(pe-defaultPE) < highlightTol {
				grid.StyleRange(g, row, 0, 1, lastCol, grid.Style{Bg: layout.ColorDefaultHighlight})
				highlighted = append(highlighted, row)
			}
		}
		g.SetFormat(row, 0, FormatRatio)
		g.StyleCell(row, 0, peStyle)

		peAddr := c.addr(row, 0)
		for _, ci := range quarterly.Columns {
			c.formula(row, ci.Col, scenarioValue(peAddr, c.addr(qr.EPSTTM, ci.Col)), FormatAmount)
			g.StyleCell(row, ci.Col, grid.Style{Align: grid.AlignRight})
		}
	}

	for _, ci := range quarterly.Columns {
		if ci.Quarter == "Q4" {
			grid.StyleRange(g, start, ci.Col, rowCount+2, 1, doubleRight)
		}
	}

	b.log.Debug("sheet: valuation grid",
		zap.Int("start_row", start),
		zap.Float64("default_pe", defaultPE),
		zap.Float64s("scenarios", scenarios),
	)
	return Valuation{
		StartRow:         start,
		FirstScenarioRow: first,
		RowCount:         rowCount,
		Scenarios:        scenarios,
		DefaultPE:        defaultPE,
		HighlightRows:    highlighted,
	}
}

// ReadPEScenarios reads the editable P/E column of a valuation grid. Blank and
// non-numeric cells are skipped.
func ReadPEScenarios(g grid.Grid, v Valuation) []float64 {
	var out []float64
	for i := 0; i < v.RowCount; i++ {
		if pe, ok := numeric(g.ReadValue(v.FirstScenarioRow+i, 0)); ok {
			out = append(out, pe)
		}
	}
	return out
}

// ReadSharesPerQuarter reads the shares row of a quarterly table as
// year -> quarter -> shares.
func ReadSharesPerQuarter(g grid.Grid, t QuarterlyTable) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for _, ci := range t.Columns {
		v, ok := numeric(g.ReadValue(t.Rows.Shares, ci.Col))
		if !ok {
			continue
		}
		if out[ci.Year] == nil {
			out[ci.Year] = make(map[string]float64)
		}
		out[ci.Year][ci.Quarter] = v
	}
	return out
}

func sortColumns(cols []ColumnInfo) {
	sort.SliceStable(cols, func(i, j int) bool {
		if cols[i].Year != cols[j].Year {
			return cols[i].Year < cols[j].Year
		}
		return cols[i].Quarter < cols[j].Quarter
	})
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// numeric interprets a read-back cell value as a number.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
