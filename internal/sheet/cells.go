package sheet

import (
	"math"

	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/layout"
)

// Number formats, fixed per row semantic.
const (
	FormatAmount  = "#,##0"
	FormatPercent = "0.00%"
	FormatRatio   = "0.00"
)

var (
	thinBorder   = grid.Style{Border: grid.Thin()}
	doubleRight  = grid.Style{Border: grid.Borders{Right: grid.LineDouble}}
	doubleBottom = grid.Style{Border: grid.Borders{Bottom: grid.LineDouble}}
)

// cells wraps a grid with the write patterns shared by every table.
type cells struct {
	g grid.Grid
}

func (c cells) addr(row, col int) string {
	return c.g.CellAddress(row, col, 1, 1)
}

func (c cells) span(row, col, rowSpan, colSpan int) string {
	return c.g.CellAddress(row, col, rowSpan, colSpan)
}

// text writes a literal string with a style.
func (c cells) text(row, col int, s string, st grid.Style) {
	c.g.SetValue(row, col, s)
	c.g.StyleCell(row, col, st)
}

// number writes v when ok and always applies the format and a thin border.
// A missing value leaves the cell without value or formula.
func (c cells) number(row, col int, v float64, ok bool, format string) {
	if ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
		c.g.SetValue(row, col, v)
	}
	c.g.SetFormat(row, col, format)
	c.g.StyleCell(row, col, thinBorder)
}

func (c cells) formula(row, col int, f, format string) {
	c.g.SetFormula(row, col, f)
	c.g.SetFormat(row, col, format)
	c.g.StyleCell(row, col, thinBorder)
}

func (c cells) border(row, col int) {
	c.g.StyleCell(row, col, thinBorder)
}

// rowLabel writes a row caption into the label column.
func (c cells) rowLabel(row int, l layout.RowLabel) {
	st := thinBorder
	if l.Red {
		st.Color = layout.ColorTextRed
	}
	c.text(row, 0, l.Label, st)
}

func headerStyle(forecast bool) grid.Style {
	bg := layout.ColorHistorical
	if forecast {
		bg = layout.ColorForecast
	}
	return grid.Style{Bold: true, Align: grid.AlignCenter, Border: grid.Thin(), Bg: bg, Wrap: true}
}

func bandStyle() grid.Style {
	return grid.Style{Bold: true, Align: grid.AlignCenter, Border: grid.Thin(), Bg: layout.ColorHeader, Wrap: true}
}

// percent converts a percentage-point source value to a sheet fraction.
func percent(v float64, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	return v / 100, true
}

func forecastSuffix(forecast bool) string {
	if forecast {
		return " (F)"
	}
	return ""
}
