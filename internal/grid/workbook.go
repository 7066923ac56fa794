package grid

import (
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Pixel sizes used by the builder are converted to xlsx units.
const (
	pixelsPerChar  = 7.0
	pointsPerPixel = 0.75
)

// Workbook is a Grid backed by a single xlsx worksheet.
type Workbook struct {
	file   *xlsx.File
	sheet  *xlsx.Sheet
	styles map[Coord]Style
}

// NewWorkbook creates a workbook with one empty sheet.
func NewWorkbook(sheetName string) (*Workbook, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: add sheet %q", sheetName)
	}
	return &Workbook{file: f, sheet: sheet, styles: make(map[Coord]Style)}, nil
}

// OpenWorkbook parses xlsx bytes and selects a sheet by name, or the first
// sheet when name is empty.
func OpenWorkbook(data []byte, sheetName string) (*Workbook, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}
	var sheet *xlsx.Sheet
	if sheetName != "" {
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", sheetName)
		}
		sheet = s
	} else {
		if len(f.Sheets) == 0 {
			return nil, eris.New("xlsx: workbook has no sheets")
		}
		sheet = f.Sheets[0]
	}
	return &Workbook{file: f, sheet: sheet, styles: make(map[Coord]Style)}, nil
}

// SetValue writes a literal. An existing non-general number format survives.
func (w *Workbook) SetValue(row, col int, v any) {
	cell := w.sheet.Cell(row, col)
	prevFmt := cell.NumFmt
	switch n := normalize(v).(type) {
	case nil:
		cell.SetString("")
	case float64:
		cell.SetFloat(n)
	case string:
		cell.SetString(n)
	case bool:
		cell.SetBool(n)
	default:
		cell.SetValue(n)
	}
	if prevFmt != "" && prevFmt != "general" {
		cell.NumFmt = prevFmt
	}
}

func (w *Workbook) SetFormula(row, col int, formula string) {
	w.sheet.Cell(row, col).SetFormula(formula)
}

func (w *Workbook) SetFormat(row, col int, format string) {
	w.sheet.Cell(row, col).NumFmt = format
}

// StyleCell merges s into the cell's accumulated style and rewrites the xlsx style.
func (w *Workbook) StyleCell(row, col int, s Style) {
	k := Coord{row, col}
	merged := w.styles[k].Merge(s)
	w.styles[k] = merged
	w.sheet.Cell(row, col).SetStyle(toXLSXStyle(merged))
}

func (w *Workbook) MergeRange(row, col, rowSpan, colSpan int) {
	w.sheet.Cell(row, col).Merge(max(colSpan-1, 0), max(rowSpan-1, 0))
}

func (w *Workbook) SetColumnWidth(col int, width float64) {
	// xlsx column ranges are 1-based.
	w.sheet.SetColWidth(col+1, col+1, width/pixelsPerChar)
}

func (w *Workbook) SetRowHeight(row int, height float64) {
	w.sheet.Row(row).SetHeight(height * pointsPerPixel)
}

func (w *Workbook) FreezeColumns(n int) {
	if n <= 0 {
		w.sheet.SheetViews = nil
		return
	}
	w.sheet.SheetViews = []xlsx.SheetView{{
		Pane: &xlsx.Pane{
			XSplit:      float64(n),
			TopLeftCell: xlsx.GetCellIDStringFromCoords(n, 0),
			ActivePane:  "topRight",
			State:       "frozen",
		},
	}}
}

func (w *Workbook) CellAddress(row, col, rowSpan, colSpan int) string {
	return A1(row, col, rowSpan, colSpan)
}

// ReadValue returns float64 for numeric cells, string for text and nil for
// blank or formula cells. Cells past the sheet's extent read as nil.
func (w *Workbook) ReadValue(row, col int) any {
	if row >= len(w.sheet.Rows) || w.sheet.Rows[row] == nil || col >= len(w.sheet.Rows[row].Cells) {
		return nil
	}
	cell := w.sheet.Rows[row].Cells[col]
	if cell.Formula() != "" || cell.Value == "" {
		return nil
	}
	if cell.Type() == xlsx.CellTypeNumeric {
		if f, err := cell.Float(); err == nil {
			return f
		}
	}
	if f, err := strconv.ParseFloat(cell.Value, 64); err == nil && cell.Type() != xlsx.CellTypeString {
		return f
	}
	return cell.Value
}

// Save writes the workbook to path.
func (w *Workbook) Save(path string) error {
	if err := w.file.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

// Write streams the workbook to out.
func (w *Workbook) Write(out io.Writer) error {
	if err := w.file.Write(out); err != nil {
		return eris.Wrap(err, "xlsx: write workbook")
	}
	return nil
}

func toXLSXStyle(s Style) *xlsx.Style {
	st := xlsx.NewStyle()
	st.Font = *xlsx.NewFont(11, "Calibri")
	st.Font.Bold = s.Bold
	if s.Color != "" {
		st.Font.Color = argb(s.Color)
	}
	st.ApplyFont = true

	if s.Bg != "" {
		st.Fill = *xlsx.NewFill("solid", argb(s.Bg), argb(s.Bg))
		st.ApplyFill = true
	}

	if s.Border != (Borders{}) {
		st.Border = *xlsx.NewBorder(string(s.Border.Left), string(s.Border.Right), string(s.Border.Top), string(s.Border.Bottom))
		st.ApplyBorder = true
	}

	if s.Align != AlignNone || s.Wrap {
		st.Alignment.Horizontal = string(s.Align)
		st.Alignment.WrapText = s.Wrap
		st.ApplyAlignment = true
	}
	return st
}

func argb(rgb string) string {
	if len(rgb) == 6 {
		return "FF" + rgb
	}
	return rgb
}
