package model

import (
	"sort"
)

// QuarterLabels are the four quarter symbols used as keys in quarterly series.
var QuarterLabels = [4]string{"Q1", "Q2", "Q3", "Q4"}

// Metric keys shared across company types. Variant-specific keys live next to
// the layout schema that consumes them.
const (
	MetricNetRevenue        = "netRevenue"
	MetricGrossProfit       = "grossProfit"
	MetricOperatingProfit   = "operatingProfit"
	MetricNetProfit         = "netProfit"
	MetricEPS               = "eps"
	MetricEPSTTM            = "epsTtm"
	MetricPE                = "pe"
	MetricROS               = "ros"
	MetricROE               = "roe"
	MetricROA               = "roa"
	MetricTotalAssets       = "totalAssets"
	MetricOutstandingShares = "outstandingShares"

	// Bank-only keys.
	MetricNetInterestIncome    = "netInterestIncome"
	MetricOperatingExpenses    = "operatingExpenses"
	MetricTotalOperatingIncome = "totalOperatingIncome"
)

// YearIndex is implemented by both series shapes so year discovery can run
// over either one.
type YearIndex interface {
	YearsOf(metric string) []string
}

// AnnualSeries maps metric key -> year -> value. A nil value means the
// upstream reported the period without a number.
type AnnualSeries map[string]map[string]*float64

// Value returns the value for metric/year and whether it is present and non-null.
func (s AnnualSeries) Value(metric, year string) (float64, bool) {
	byYear, ok := s[metric]
	if !ok {
		return 0, false
	}
	v, ok := byYear[year]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Set stores a value, creating intermediate maps as needed.
func (s AnnualSeries) Set(metric, year string, v *float64) {
	if s[metric] == nil {
		s[metric] = make(map[string]*float64)
	}
	s[metric][year] = v
}

// YearsOf returns the sorted year keys recorded for metric.
func (s AnnualSeries) YearsOf(metric string) []string {
	return sortedKeys(s[metric])
}

// QuarterlySeries maps metric key -> year -> quarter label -> value.
type QuarterlySeries map[string]map[string]map[string]*float64

// Value returns the value for metric/year/quarter and whether it is present and non-null.
func (s QuarterlySeries) Value(metric, year, quarter string) (float64, bool) {
	byYear, ok := s[metric]
	if !ok {
		return 0, false
	}
	byQuarter, ok := byYear[year]
	if !ok {
		return 0, false
	}
	v, ok := byQuarter[quarter]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Set stores a value, creating intermediate maps as needed.
func (s QuarterlySeries) Set(metric, year, quarter string, v *float64) {
	if s[metric] == nil {
		s[metric] = make(map[string]map[string]*float64)
	}
	if s[metric][year] == nil {
		s[metric][year] = make(map[string]*float64)
	}
	s[metric][year][quarter] = v
}

// YearsOf returns the sorted year keys recorded for metric.
func (s QuarterlySeries) YearsOf(metric string) []string {
	return sortedKeys(s[metric])
}

// Float returns a pointer to v. Handy for building series literals.
func Float(v float64) *float64 {
	return &v
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
