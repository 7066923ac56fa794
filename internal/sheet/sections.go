package sheet

import (
	"strings"

	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/layout"
	"github.com/sells-group/stock-screener/internal/model"
)

// Input block rows, relative to layout.InputStartRow.
const (
	inputHeader = iota
	inputPrice
	inputShares
	inputMax52W
	inputMin52W
	inputRevenueGrowth
	inputGrossMargin
	inputProfitGrowth
)

// InputRefs are formula addresses of the editable inputs. Forecast formulas
// reference these so edits cascade through the sheet.
type InputRefs struct {
	CurrentPrice      string
	OutstandingShares string
	RevenueGrowth     string
	GrossMargin       string
	NetProfitGrowth   string
}

// BuildTitle writes row 0: ticker, sheet title and build date.
func (b *Builder) BuildTitle(g grid.Grid) {
	c := cells{g}
	g.SetRowHeight(0, 50)
	c.text(0, 2, b.schema.Title, grid.Style{Bold: true, Color: layout.ColorTitle, Align: grid.AlignCenter})
	c.text(0, 0, b.data.Symbol, grid.Style{Bold: true, Color: layout.ColorSymbol, Align: grid.AlignCenter, Border: grid.Thin()})
	c.text(0, 4, "NGÀY", grid.Style{Bold: true})
	if !b.opts.Today.IsZero() {
		g.SetValue(0, 5, b.opts.Today.Format("02/01/2006"))
	}
}

// BuildInputs writes the input block at column K and returns its references.
func (b *Builder) BuildInputs(g grid.Grid) InputRefs {
	c := cells{g}
	col := layout.InputColumn
	valueCol := col + layout.InputValueColOffset
	start := layout.InputStartRow
	in := b.data.Inputs
	labels := b.schema.InputLabels()

	g.SetColumnWidth(col, 180)
	g.SetColumnWidth(col+1, 100)
	g.SetColumnWidth(valueCol, 120)

	c.text(start+inputHeader, col, "Ngày: "+displayDate(in.TradingDate),
		grid.Style{Bold: true, Align: grid.AlignLeft, Bg: layout.ColorInputHeader})
	g.MergeRange(start+inputHeader, col, 1, 3)

	row := func(offset int, label string, v float64, format, bg string) {
		r := start + offset
		c.text(r, col, label, grid.Style{Bold: true, Align: grid.AlignLeft})
		g.MergeRange(r, col, 1, 2)
		grid.StyleRange(g, r, col, 1, 2, thinBorder)
		g.SetValue(r, valueCol, v)
		g.SetFormat(r, valueCol, format)
		g.StyleCell(r, valueCol, grid.Style{Border: grid.Thin(), Bg: bg})
	}
	row(inputPrice, labels.CurrentPrice, in.CurrentPrice, FormatAmount, layout.ColorInput)
	row(inputShares, labels.OutstandingShares, in.OutstandingShares, FormatAmount, layout.ColorInput)
	row(inputMax52W, labels.Max52W, in.Max52W, FormatAmount, layout.ColorDisplay)
	row(inputMin52W, labels.Min52W, in.Min52W, FormatAmount, layout.ColorDisplay)
	row(inputRevenueGrowth, labels.RevenueGrowth, in.RevenueGrowth, FormatPercent, layout.ColorInput)
	row(inputGrossMargin, labels.GrossMargin, in.GrossMargin, FormatPercent, layout.ColorInput)
	row(inputProfitGrowth, labels.NetProfitGrowth, in.NetProfitGrowth, FormatPercent, layout.ColorInput)

	return InputRefs{
		CurrentPrice:      c.addr(start+inputPrice, valueCol),
		OutstandingShares: c.addr(start+inputShares, valueCol),
		RevenueGrowth:     c.addr(start+inputRevenueGrowth, valueCol),
		GrossMargin:       c.addr(start+inputGrossMargin, valueCol),
		NetProfitGrowth:   c.addr(start+inputProfitGrowth, valueCol),
	}
}

// ReadInputs reads the input block back out of a grid, so user edits can be
// saved. Non-numeric cells read as zero.
func ReadInputs(g grid.Grid) model.Inputs {
	valueCol := layout.InputColumn + layout.InputValueColOffset
	at := func(offset int) float64 {
		v, _ := numeric(g.ReadValue(layout.InputStartRow+offset, valueCol))
		return v
	}
	return model.Inputs{
		CurrentPrice:      at(inputPrice),
		OutstandingShares: at(inputShares),
		Max52W:            at(inputMax52W),
		Min52W:            at(inputMin52W),
		RevenueGrowth:     at(inputRevenueGrowth),
		GrossMargin:       at(inputGrossMargin),
		NetProfitGrowth:   at(inputProfitGrowth),
	}
}

// displayDate turns "2024-06-30" into "30/06/2024".
func displayDate(iso string) string {
	if iso == "" {
		return ""
	}
	parts := strings.Split(iso, "-")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
