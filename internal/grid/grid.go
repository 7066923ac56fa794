// Package grid abstracts the spreadsheet engine the sheet builder writes to.
package grid

import (
	"strings"

	"github.com/tealeg/xlsx/v2"
)

// Align is a horizontal cell alignment.
type Align string

const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Line is a border line style.
type Line string

const (
	LineNone   Line = ""
	LineThin   Line = "thin"
	LineDouble Line = "double"
)

// Borders describes the four edges of a cell. Empty edges are left unchanged.
type Borders struct {
	Left, Right, Top, Bottom Line
}

// Thin returns a thin border on every edge.
func Thin() Borders {
	return Borders{Left: LineThin, Right: LineThin, Top: LineThin, Bottom: LineThin}
}

// Style is a partial cell style. Zero fields leave the existing style alone,
// so repeated StyleCell calls accumulate.
type Style struct {
	Bold   bool
	Align  Align
	Color  string // font colour, RGB hex
	Bg     string // fill colour, RGB hex
	Border Borders
	Wrap   bool
}

// Merge overlays the non-zero fields of o onto s.
func (s Style) Merge(o Style) Style {
	if o.Bold {
		s.Bold = true
	}
	if o.Align != AlignNone {
		s.Align = o.Align
	}
	if o.Color != "" {
		s.Color = o.Color
	}
	if o.Bg != "" {
		s.Bg = o.Bg
	}
	if o.Border.Left != LineNone {
		s.Border.Left = o.Border.Left
	}
	if o.Border.Right != LineNone {
		s.Border.Right = o.Border.Right
	}
	if o.Border.Top != LineNone {
		s.Border.Top = o.Border.Top
	}
	if o.Border.Bottom != LineNone {
		s.Border.Bottom = o.Border.Bottom
	}
	if o.Wrap {
		s.Wrap = true
	}
	return s
}

// Grid is the cell-grid API the builder depends on. Rows and columns are
// zero-based. Values are float64, string or nil.
type Grid interface {
	SetValue(row, col int, v any)
	SetFormula(row, col int, formula string)
	SetFormat(row, col int, format string)
	StyleCell(row, col int, s Style)
	MergeRange(row, col, rowSpan, colSpan int)
	SetColumnWidth(col int, width float64)
	SetRowHeight(row int, height float64)
	FreezeColumns(n int)
	// CellAddress resolves a cell or range to text usable inside a formula.
	CellAddress(row, col, rowSpan, colSpan int) string
	// ReadValue returns the literal value of a cell, or nil for blank and
	// formula cells.
	ReadValue(row, col int) any
}

// StyleRange applies s to every cell of a rectangle.
func StyleRange(g Grid, row, col, rowSpan, colSpan int, s Style) {
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			g.StyleCell(r, c, s)
		}
	}
}

// A1 formats a cell or range in A1 notation ("B4", "B4:E4").
func A1(row, col, rowSpan, colSpan int) string {
	start := xlsx.GetCellIDStringFromCoords(col, row)
	if rowSpan <= 1 && colSpan <= 1 {
		return start
	}
	end := xlsx.GetCellIDStringFromCoords(col+max(colSpan, 1)-1, row+max(rowSpan, 1)-1)
	var b strings.Builder
	b.WriteString(start)
	b.WriteByte(':')
	b.WriteString(end)
	return b.String()
}
