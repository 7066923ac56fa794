// Package sheet compiles a company's financial series into a spreadsheet
// model: annual and quarterly tables, forecast formulas, annual roll-ups of
// quarterly figures and a P/E valuation grid.
package sheet

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/layout"
	"github.com/sells-group/stock-screener/internal/model"
	"github.com/sells-group/stock-screener/internal/period"
)

// Options carries the only inputs a build takes from outside its data. Both
// are injected so identical inputs always produce identical sheets.
type Options struct {
	CurrentYear int
	Today       time.Time
	// ValuationRows is the minimum number of scenario rows. Zero means layout.ValuationRows.
	ValuationRows int
}

// Builder holds the per-build state shared by the table builders. The variant
// is resolved once, when the builder is created.
type Builder struct {
	data       *model.SeriesData
	schema     *layout.Schema
	classifier *period.Classifier
	opts       Options
	log        *zap.Logger
}

// NewBuilder prepares a build of data. An empty data.Variant is detected from
// the symbol and series.
func NewBuilder(src *model.SeriesData, opts Options) *Builder {
	data := *src
	variant := data.Variant
	if variant == "" {
		variant = model.DetectVariant(data.Symbol, data.Annual, data.Quarterly)
	}
	if data.Annual == nil {
		data.Annual = model.AnnualSeries{}
	}
	if data.Quarterly == nil {
		data.Quarterly = model.QuarterlySeries{}
	}
	if opts.ValuationRows <= 0 {
		opts.ValuationRows = layout.ValuationRows
	}
	schema := layout.For(variant)
	return &Builder{
		data:   &data,
		schema: schema,
		classifier: &period.Classifier{
			Quarterly:        data.Quarterly,
			Metrics:          schema.DetectionMetrics(),
			ForecastYears:    data.ForecastYears,
			ForecastQuarters: data.ForecastQuarters,
			CurrentYear:      opts.CurrentYear,
		},
		opts: opts,
		log:  zap.L().With(zap.String("symbol", data.Symbol), zap.String("variant", string(schema.Variant))),
	}
}

// Variant returns the schema variant the builder lays out.
func (b *Builder) Variant() model.Variant { return b.schema.Variant }

// Result describes where everything landed in the grid.
type Result struct {
	Variant   model.Variant
	Inputs    InputRefs
	Annual    AnnualTable
	Quarterly QuarterlyTable
	Valuation Valuation
}

// Build runs the whole pipeline against g: title, inputs, annual table,
// quarterly table, cross-table links, valuation grid and final layout. Data
// problems never fail a build; only missing arguments do.
func Build(g grid.Grid, data *model.SeriesData, opts Options) (*Result, error) {
	if g == nil {
		return nil, eris.New("sheet: nil grid")
	}
	if data == nil {
		return nil, eris.New("sheet: nil series data")
	}
	if opts.CurrentYear == 0 {
		return nil, eris.New("sheet: current year not set")
	}

	b := NewBuilder(data, opts)
	b.BuildTitle(g)
	in := b.BuildInputs(g)
	annual := b.BuildTable(g, in)
	quarterly := b.BuildQuarterlyTable(g, in, annual.Rows)
	b.LinkAnnualToQuarterly(g, annual, quarterly, in)
	val := b.BuildValuationGrid(g, quarterly)
	b.applyFinalLayout(g)

	b.log.Debug("sheet: built",
		zap.Int("annual_years", len(annual.Years)),
		zap.Int("quarter_columns", len(quarterly.Columns)),
		zap.Int("valuation_start", val.StartRow),
	)

	return &Result{
		Variant:   b.schema.Variant,
		Inputs:    in,
		Annual:    annual,
		Quarterly: quarterly,
		Valuation: val,
	}, nil
}

func (b *Builder) applyFinalLayout(g grid.Grid) {
	g.SetColumnWidth(0, layout.LabelColumnWidth)
	g.FreezeColumns(1)
}
