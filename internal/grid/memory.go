package grid

import (
	"sort"
)

// Coord is a zero-based cell position.
type Coord struct {
	Row, Col int
}

// Cell is the recorded state of one Memory cell.
type Cell struct {
	Value   any
	Formula string
	Format  string
	Style   Style
}

// Span is a merged rectangle.
type Span struct {
	Row, Col, RowSpan, ColSpan int
}

// Memory is a headless Grid. It records every call so tests can assert on the
// resulting cell contents without a spreadsheet engine.
type Memory struct {
	cells      map[Coord]*Cell
	merges     []Span
	colWidths  map[int]float64
	rowHeights map[int]float64
	frozen     int
}

// NewMemory returns an empty headless grid.
func NewMemory() *Memory {
	return &Memory{
		cells:      make(map[Coord]*Cell),
		colWidths:  make(map[int]float64),
		rowHeights: make(map[int]float64),
	}
}

func (m *Memory) cell(row, col int) *Cell {
	k := Coord{row, col}
	c, ok := m.cells[k]
	if !ok {
		c = &Cell{}
		m.cells[k] = c
	}
	return c
}

// SetValue stores a literal and clears any formula.
func (m *Memory) SetValue(row, col int, v any) {
	c := m.cell(row, col)
	c.Value = normalize(v)
	c.Formula = ""
}

// SetFormula stores a formula and clears any literal.
func (m *Memory) SetFormula(row, col int, formula string) {
	c := m.cell(row, col)
	c.Formula = formula
	c.Value = nil
}

func (m *Memory) SetFormat(row, col int, format string) {
	m.cell(row, col).Format = format
}

func (m *Memory) StyleCell(row, col int, s Style) {
	c := m.cell(row, col)
	c.Style = c.Style.Merge(s)
}

func (m *Memory) MergeRange(row, col, rowSpan, colSpan int) {
	m.merges = append(m.merges, Span{Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan})
}

func (m *Memory) SetColumnWidth(col int, width float64) { m.colWidths[col] = width }

func (m *Memory) SetRowHeight(row int, height float64) { m.rowHeights[row] = height }

func (m *Memory) FreezeColumns(n int) { m.frozen = n }

func (m *Memory) CellAddress(row, col, rowSpan, colSpan int) string {
	return A1(row, col, rowSpan, colSpan)
}

func (m *Memory) ReadValue(row, col int) any {
	c, ok := m.cells[Coord{row, col}]
	if !ok || c.Formula != "" {
		return nil
	}
	return c.Value
}

// Cell returns a copy of the cell at row/col and whether it was ever touched.
func (m *Memory) Cell(row, col int) (Cell, bool) {
	c, ok := m.cells[Coord{row, col}]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// Formula returns the formula at row/col, or "".
func (m *Memory) Formula(row, col int) string {
	c, _ := m.Cell(row, col)
	return c.Formula
}

// Value returns the literal at row/col, or nil.
func (m *Memory) Value(row, col int) any {
	c, _ := m.Cell(row, col)
	return c.Value
}

// Format returns the number format at row/col, or "".
func (m *Memory) Format(row, col int) string {
	c, _ := m.Cell(row, col)
	return c.Format
}

// StyleAt returns the accumulated style at row/col.
func (m *Memory) StyleAt(row, col int) Style {
	c, _ := m.Cell(row, col)
	return c.Style
}

func (m *Memory) ColumnWidth(col int) float64 { return m.colWidths[col] }

func (m *Memory) RowHeight(row int) float64 { return m.rowHeights[row] }

func (m *Memory) Frozen() int { return m.frozen }

// Merges returns the merged ranges in call order.
func (m *Memory) Merges() []Span { return append([]Span(nil), m.merges...) }

// Coords returns every touched cell position, sorted by row then column.
func (m *Memory) Coords() []Coord {
	out := make([]Coord, 0, len(m.cells))
	for k := range m.cells {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Replay copies the recorded cells, merges and sizing onto another grid.
func (m *Memory) Replay(dst Grid) {
	for _, k := range m.Coords() {
		c := m.cells[k]
		switch {
		case c.Formula != "":
			dst.SetFormula(k.Row, k.Col, c.Formula)
		case c.Value != nil:
			dst.SetValue(k.Row, k.Col, c.Value)
		}
		if c.Format != "" {
			dst.SetFormat(k.Row, k.Col, c.Format)
		}
		if c.Style != (Style{}) {
			dst.StyleCell(k.Row, k.Col, c.Style)
		}
	}
	for _, s := range m.merges {
		dst.MergeRange(s.Row, s.Col, s.RowSpan, s.ColSpan)
	}
	for _, col := range sortedInts(m.colWidths) {
		dst.SetColumnWidth(col, m.colWidths[col])
	}
	for _, row := range sortedInts(m.rowHeights) {
		dst.SetRowHeight(row, m.rowHeights[row])
	}
	if m.frozen > 0 {
		dst.FreezeColumns(m.frozen)
	}
}

// normalize widens integer literals to float64 so reads are uniform.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}

func sortedInts(m map[int]float64) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
