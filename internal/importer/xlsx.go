package importer

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/metric"
	"github.com/sells-group/stock-screener/internal/model"
)

// XLSXOptions configures the metric workbook reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // number of header rows to skip
}

// MetricTable is the content of a metric workbook.
type MetricTable struct {
	Quarterly model.MetricValues
	Yearly    model.MetricValues
	Periods   []model.PeriodRecord
	// Skipped counts rows whose metric name or period key did not resolve.
	Skipped int
}

// ReadMetricWorkbook reads a workbook whose rows are
// (metric code or display name, period key, value[, "forecast"]).
// Blank values are stored as nulls. A fourth column that is truthy marks the
// period as a forecast.
func ReadMetricWorkbook(path string, opts XLSXOptions) (*MetricTable, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	return readMetricFile(f, opts)
}

// ReadMetricWorkbookBytes is ReadMetricWorkbook for an in-memory file.
func ReadMetricWorkbookBytes(data []byte, opts XLSXOptions) (*MetricTable, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open binary")
	}
	return readMetricFile(f, opts)
}

func readMetricFile(f *xlsx.File, opts XLSXOptions) (*MetricTable, error) {
	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	t := &MetricTable{Quarterly: model.MetricValues{}, Yearly: model.MetricValues{}}
	forecast := make(map[model.Period]bool)
	for i, row := range sheet.Rows {
		if i < opts.SkipRows {
			continue
		}
		cells := rowToStrings(row)
		if blankRow(cells) {
			continue
		}
		if len(cells) < 3 {
			t.Skipped++
			continue
		}

		code, ok := metric.ResolveCode(cells[0])
		if !ok {
			zap.L().Warn("xlsx: unknown metric", zap.Int("row", i+1), zap.String("name", cells[0]))
			t.Skipped++
			continue
		}
		p, err := model.ParsePeriodKey(cells[1])
		if err != nil {
			zap.L().Warn("xlsx: bad period key", zap.Int("row", i+1), zap.String("period", cells[1]))
			t.Skipped++
			continue
		}
		v, err := parseValue(cells[2])
		if err != nil {
			return nil, eris.Wrapf(err, "xlsx: row %d", i+1)
		}

		if p.IsAnnual() {
			t.Yearly.Set(code, p.Key(), v)
		} else {
			t.Quarterly.Set(code, p.Key(), v)
		}
		if len(cells) > 3 && truthy(cells[3]) {
			forecast[p] = true
		} else if _, seen := forecast[p]; !seen {
			forecast[p] = false
		}
	}

	for p, isForecast := range forecast {
		source := "quarter"
		if p.IsAnnual() {
			source = "year"
		}
		t.Periods = append(t.Periods, model.PeriodRecord{Period: p, Source: source, IsForecast: isForecast})
	}
	t.Periods = completePeriods(t.Periods)
	return t, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = strings.TrimSpace(cell.String())
	}
	return cells
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// parseValue accepts plain numbers and thousands-separated numbers.
func parseValue(s string) (*float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, eris.Errorf("invalid value %q", s)
	}
	return &v, nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "x", "forecast", "f":
		return true
	}
	return false
}
