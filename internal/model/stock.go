package model

import (
	"strings"
	"time"
)

// Inputs are the editable assumptions shown in the sheet's input block.
// Growth and margin values are fractions (0.15 = 15%).
type Inputs struct {
	TradingDate       string  `json:"trading_date" yaml:"trading_date"`
	CurrentPrice      float64 `json:"current_price" yaml:"current_price"`
	OutstandingShares float64 `json:"outstanding_shares" yaml:"outstanding_shares"`
	Max52W            float64 `json:"max_52w" yaml:"max_52w"`
	Min52W            float64 `json:"min_52w" yaml:"min_52w"`
	RevenueGrowth     float64 `json:"revenue_growth" yaml:"revenue_growth"`
	GrossMargin       float64 `json:"gross_margin" yaml:"gross_margin"`
	NetProfitGrowth   float64 `json:"net_profit_growth" yaml:"net_profit_growth"`
}

// SeriesData is everything a single sheet build consumes.
type SeriesData struct {
	Symbol           string          `json:"symbol"`
	Variant          Variant         `json:"variant"`
	Annual           AnnualSeries    `json:"annual"`
	Quarterly        QuarterlySeries `json:"quarterly"`
	ForecastYears    []string        `json:"forecast_years"`
	ForecastQuarters []string        `json:"forecast_quarters"` // "{year}_Q{n}"
	Inputs           Inputs          `json:"inputs"`
	PEAssumptions    []float64       `json:"pe_assumptions,omitempty"`
}

// NormalizeSymbol trims and uppercases a ticker symbol.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Company is a listed company known to the store.
type Company struct {
	ID     int64  `json:"id" yaml:"-"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Name   string `json:"name" yaml:"name"`
}

// PeriodRecord is a stored period with its provenance.
type PeriodRecord struct {
	Period     `yaml:",inline"`
	Source     string `json:"source" yaml:"source"`
	IsForecast bool   `json:"is_forecast" yaml:"is_forecast"`
}

// MetricValues maps metric code -> period key ("2024" or "2024_Q1") -> value.
type MetricValues map[string]map[string]*float64

// Set stores a value, creating the inner map as needed.
func (m MetricValues) Set(code, periodKey string, v *float64) {
	if m[code] == nil {
		m[code] = make(map[string]*float64)
	}
	m[code][periodKey] = v
}

// TradingSnapshot is the latest market data for a company.
type TradingSnapshot struct {
	LastPrice         float64   `json:"last_price" yaml:"last_price"`
	OutstandingShares float64   `json:"outstanding_shares" yaml:"outstanding_shares"`
	MarketCap         float64   `json:"market_cap" yaml:"market_cap"`
	PE                float64   `json:"pe" yaml:"pe"`
	EPS               float64   `json:"eps" yaml:"eps"`
	Max52W            float64   `json:"max_52w" yaml:"max_52w"`
	Min52W            float64   `json:"min_52w" yaml:"min_52w"`
	TradingDate       time.Time `json:"trading_date" yaml:"trading_date"`
}

// Analysis holds the user's saved edits for a company.
type Analysis struct {
	PEAssumptions []float64                     `json:"pe_assumptions,omitempty" yaml:"pe_assumptions,omitempty"`
	Inputs        *Inputs                       `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Shares        map[string]map[string]float64 `json:"shares,omitempty" yaml:"shares,omitempty"` // year -> quarter -> shares
	UpdatedAt     time.Time                     `json:"updated_at" yaml:"-"`
}

// StockSnapshot is the stored state of one company, as loaded for a build.
type StockSnapshot struct {
	Company          Company          `json:"company" yaml:"company"`
	Periods          []PeriodRecord   `json:"periods" yaml:"periods"`
	QuarterlyMetrics MetricValues     `json:"quarterly_metrics" yaml:"quarterly_metrics"`
	YearlyMetrics    MetricValues     `json:"yearly_metrics" yaml:"yearly_metrics"`
	Trading          *TradingSnapshot `json:"trading,omitempty" yaml:"trading,omitempty"`
	Analysis         *Analysis        `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}
