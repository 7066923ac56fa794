// Package layout defines the fixed row layout of the annual and quarterly
// tables for each company type.
package layout

import (
	"github.com/sells-group/stock-screener/internal/model"
)

// Row names a semantic row shared by all variants.
type Row string

const (
	RowHeader          Row = "header"
	RowYearHeader      Row = "yearHeader"
	RowQuarterHeader   Row = "quarterHeader"
	RowNetRevenue      Row = "netRevenue"
	RowGrossProfit     Row = "grossProfit"
	RowOperatingProfit Row = "operatingProfit"
	RowNetProfit       Row = "netProfit"
	RowShares          Row = "shares"
	RowGrossMargin     Row = "grossMargin"
	RowNetProfitMargin Row = "netProfitMargin"
	RowNetMargin       Row = "netMargin"
	RowEPS             Row = "eps"
	RowEPSTTM          Row = "epsTtm"
	RowPE              Row = "pe"
	RowROS             Row = "ros"
	RowROE             Row = "roe"
	RowROA             Row = "roa"
	RowRevGrowth       Row = "revGrowth"
	RowProfitGrowth    Row = "profitGrowth"
)

// Table geometry shared by every variant.
const (
	AnnualStartRow      = 3
	QuarterlyGap        = 4 // rows between the annual table's last row and the quarterly table
	ValuationGap        = 4 // rows between the quarterly table's last row and the valuation grid
	ValuationRows       = 10
	ColumnWidth         = 110
	LabelColumnWidth    = 150
	InputColumn         = 10 // column K
	InputStartRow       = 3
	InputValueColOffset = 2

	// unusedOffset places rows a variant does not render far below any real
	// content. Each unused row gets its own slot so none collide.
	unusedOffset = 99
)

// QuarterDateRanges are the day/month spans printed under quarter headers.
var QuarterDateRanges = [4]string{
	"01/01-31/03",
	"01/04-30/06",
	"01/07-30/09",
	"01/10-31/12",
}

// YearDateRange is printed under annual headers.
const YearDateRange = "01/01-31/12"

// Colors used across the sheet, as RGB hex.
const (
	ColorHeader           = "CFFC03"
	ColorForecast         = "FF1493"
	ColorHistorical       = "70AD47"
	ColorInput            = "FFF2CC"
	ColorDisplay          = "E2EFDA"
	ColorInputHeader      = "D9E1F2"
	ColorDefaultHighlight = "FFE4E1"
	ColorTextRed          = "E02926"
	ColorTitle            = "0000FF"
	ColorSymbol           = "FF0000"
)

// RowLabel is a displayed row with its styling hint.
type RowLabel struct {
	Row   Row
	Label string
	Red   bool
}

// InputLabels are the captions of the input block.
type InputLabels struct {
	CurrentPrice      string
	OutstandingShares string
	Max52W            string
	Min52W            string
	RevenueGrowth     string
	GrossMargin       string
	NetProfitGrowth   string
}

// Schema is the immutable layout description of one variant.
type Schema struct {
	Variant model.Variant
	Title   string

	annualOffsets    map[Row]int
	quarterlyOffsets map[Row]int
	annualLabels     []RowLabel
	quarterlyLabels  []RowLabel
	inputLabels      InputLabels

	// sources maps a row to the upstream metric key that feeds it.
	sources map[Row]string
	// ttmSources are checked in order for a reported trailing EPS.
	ttmSources []string
	// detectionMetrics are unioned for year discovery and completeness checks.
	detectionMetrics []string
	// actualMetrics decide whether a quarter carries reported data.
	actualMetrics []string
	// grossFromMargin enables the revenue x margin forecast for the gross-profit row.
	grossFromMargin bool
	// roaProxy fills the net-margin row with net profit / total assets.
	roaProxy bool
}

// AnnualRows returns absolute row indexes of the annual table.
func (s *Schema) AnnualRows(start int) AnnualRows {
	p := positioner{start: start, offsets: s.annualOffsets}
	return AnnualRows{
		Header:          p.at(RowHeader),
		NetRevenue:      p.at(RowNetRevenue),
		GrossProfit:     p.at(RowGrossProfit),
		OperatingProfit: p.at(RowOperatingProfit),
		NetProfit:       p.at(RowNetProfit),
		GrossMargin:     p.at(RowGrossMargin),
		NetProfitMargin: p.at(RowNetProfitMargin),
		NetMargin:       p.at(RowNetMargin),
		EPS:             p.at(RowEPS),
		PE:              p.at(RowPE),
		ROS:             p.at(RowROS),
		ROE:             p.at(RowROE),
		ROA:             p.at(RowROA),
		RevGrowth:       p.at(RowRevGrowth),
		ProfitGrowth:    p.at(RowProfitGrowth),
	}
}

// QuarterlyRows returns absolute row indexes of the quarterly table. The first
// two rows are the year and quarter header bands.
func (s *Schema) QuarterlyRows(start int) QuarterlyRows {
	p := positioner{start: start, offsets: s.quarterlyOffsets}
	return QuarterlyRows{
		YearHeader:      p.at(RowYearHeader),
		QuarterHeader:   p.at(RowQuarterHeader),
		Revenue:         p.at(RowNetRevenue),
		GrossProfit:     p.at(RowGrossProfit),
		OperatingProfit: p.at(RowOperatingProfit),
		GrossMargin:     p.at(RowGrossMargin),
		NetProfit:       p.at(RowNetProfit),
		Shares:          p.at(RowShares),
		NetProfitMargin: p.at(RowNetProfitMargin),
		NetMargin:       p.at(RowNetMargin),
		EPS:             p.at(RowEPS),
		EPSTTM:          p.at(RowEPSTTM),
		PE:              p.at(RowPE),
		ROE:             p.at(RowROE),
		ROA:             p.at(RowROA),
		RevGrowth:       p.at(RowRevGrowth),
		ProfitGrowth:    p.at(RowProfitGrowth),
	}
}

// HasAnnual reports whether the annual table renders row r.
func (s *Schema) HasAnnual(r Row) bool {
	_, ok := s.annualOffsets[r]
	return ok
}

// HasQuarterly reports whether the quarterly table renders row r.
func (s *Schema) HasQuarterly(r Row) bool {
	_, ok := s.quarterlyOffsets[r]
	return ok
}

// AnnualLabels returns the annual row captions in display order.
func (s *Schema) AnnualLabels() []RowLabel { return append([]RowLabel(nil), s.annualLabels...) }

// QuarterlyLabels returns the quarterly row captions in display order.
func (s *Schema) QuarterlyLabels() []RowLabel {
	return append([]RowLabel(nil), s.quarterlyLabels...)
}

// InputLabels returns the captions of the input block.
func (s *Schema) InputLabels() InputLabels { return s.inputLabels }

// Source returns the metric key feeding row r, or "" when the row has no
// upstream series.
func (s *Schema) Source(r Row) string { return s.sources[r] }

// TTMSources returns the metric keys holding reported trailing EPS, by preference.
func (s *Schema) TTMSources() []string { return append([]string(nil), s.ttmSources...) }

// DetectionMetrics returns the metric keys used for year discovery.
func (s *Schema) DetectionMetrics() []string {
	return append([]string(nil), s.detectionMetrics...)
}

// ActualMetrics returns the metric keys whose presence marks a quarter as reported.
func (s *Schema) ActualMetrics() []string { return append([]string(nil), s.actualMetrics...) }

// GrossFromMargin reports whether forecast gross profit is revenue x margin input.
func (s *Schema) GrossFromMargin() bool { return s.grossFromMargin }

// ROAProxy reports whether the net-margin row holds net profit / total assets.
func (s *Schema) ROAProxy() bool { return s.roaProxy }

// For returns the schema of variant v. Unknown variants get the industrial schema.
func For(v model.Variant) *Schema {
	switch v {
	case model.VariantBank:
		return bankSchema
	case model.VariantSecurities:
		return securitiesSchema
	default:
		return industrialSchema
	}
}

type positioner struct {
	start   int
	offsets map[Row]int
}

// at resolves a row. Rows missing from the offset table land on a unique
// out-of-range slot derived from the row's position in allRows.
func (p positioner) at(r Row) int {
	if off, ok := p.offsets[r]; ok {
		return p.start + off
	}
	for i, known := range allRows {
		if known == r {
			return p.start + unusedOffset + i
		}
	}
	return p.start + unusedOffset + len(allRows)
}

var allRows = []Row{
	RowHeader, RowYearHeader, RowQuarterHeader, RowNetRevenue, RowGrossProfit,
	RowOperatingProfit, RowNetProfit, RowShares, RowGrossMargin, RowNetProfitMargin,
	RowNetMargin, RowEPS, RowEPSTTM, RowPE, RowROS, RowROE, RowROA, RowRevGrowth,
	RowProfitGrowth,
}
