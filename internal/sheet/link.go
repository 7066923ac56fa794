package sheet

import (
	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/layout"
	"github.com/sells-group/stock-screener/internal/model"
)

// LinkAnnualToQuarterly rewrites annual cells as roll-ups of the quarterly
// table. Only years with all four quarters present are linked. Gross profit is
// always summed; forecast years also get summed net profit and EPS, and P/E
// and ROS derived from those sums.
func (b *Builder) LinkAnnualToQuarterly(g grid.Grid, annual AnnualTable, quarterly QuarterlyTable, in InputRefs) {
	c := cells{g}
	ar, qr := annual.Rows, quarterly.Rows
	years, byYear := quarterly.YearColumns()

	linked := 0
	for _, year := range years {
		annualCol, ok := annual.Columns[year]
		if !ok {
			continue
		}
		qcols, ok := quarterOrder(byYear[year])
		if !ok {
			b.log.Debug("sheet: skip partial year link", zap.String("year", year))
			continue
		}

		forecast := false
		for _, ci := range byYear[year] {
			forecast = forecast || ci.IsForecast
		}

		c.formula(ar.GrossProfit, annualCol, quarterSum(c, qr.GrossProfit, qcols), FormatAmount)
		linked++
		if !forecast {
			continue
		}

		c.formula(ar.NetProfit, annualCol, quarterSum(c, qr.NetProfit, qcols), FormatAmount)
		c.formula(ar.EPS, annualCol, quarterSum(c, qr.EPS, qcols), FormatAmount)

		epsAddr := c.addr(ar.EPS, annualCol)
		c.formula(ar.PE, annualCol, divide(in.CurrentPrice, epsAddr), FormatRatio)
		if b.schema.HasAnnual(layout.RowROS) {
			c.formula(ar.ROS, annualCol, divide(c.addr(ar.NetProfit, annualCol), c.addr(ar.NetRevenue, annualCol)), FormatPercent)
		}
	}
	b.log.Debug("sheet: linked annual to quarterly", zap.Int("years", linked))
}

// quarterOrder returns the Q1..Q4 columns of a year, or false unless exactly
// one column exists for each quarter.
func quarterOrder(cols []ColumnInfo) ([4]int, bool) {
	var out [4]int
	if len(cols) != 4 {
		return out, false
	}
	for _, ci := range cols {
		q, err := model.ParseQuarter(ci.Quarter)
		if err != nil || out[q-1] != 0 {
			return out, false
		}
		out[q-1] = ci.Col
	}
	return out, true
}

func quarterSum(c cells, row int, cols [4]int) string {
	refs := make([]string, 0, 4)
	for _, col := range cols {
		refs = append(refs, c.addr(row, col))
	}
	return sum(refs...)
}
