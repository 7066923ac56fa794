// Package period decides which years and quarters a sheet shows and which of
// them are forecasts.
package period

import (
	"slices"
	"sort"
	"strconv"

	"github.com/sells-group/stock-screener/internal/model"
)

// Classifier answers period questions for one build. CurrentYear is injected
// so the result is a pure function of its fields.
type Classifier struct {
	Quarterly        model.QuarterlySeries
	Metrics          []string // year-detection metrics, in preference order
	ForecastYears    []string
	ForecastQuarters []string // "{year}_{quarter}"
	CurrentYear      int
}

// ExtractYears returns the sorted union of years recorded under any of the
// given metrics. Malformed year keys are skipped.
func ExtractYears(series model.YearIndex, metrics []string) []string {
	set := make(map[string]struct{})
	for _, m := range metrics {
		for _, y := range series.YearsOf(m) {
			if _, err := model.ParseYear(y); err != nil {
				continue
			}
			set[y] = struct{}{}
		}
	}
	return sortedSet(set)
}

// MergeYears returns the sorted union of several year lists, dropping malformed entries.
func MergeYears(lists ...[]string) []string {
	set := make(map[string]struct{})
	for _, l := range lists {
		for _, y := range l {
			if _, err := model.ParseYear(y); err != nil {
				continue
			}
			set[y] = struct{}{}
		}
	}
	return sortedSet(set)
}

// HasQuarterData reports whether any tracked metric has a value for year/quarter.
func (c *Classifier) HasQuarterData(year, quarter string) bool {
	for _, m := range c.Metrics {
		if _, ok := c.Quarterly.Value(m, year, quarter); ok {
			return true
		}
	}
	return false
}

// hasFullYear reports whether all four quarters carry data in some tracked metric.
func (c *Classifier) hasFullYear(year string) bool {
	for _, q := range model.QuarterLabels {
		if !c.HasQuarterData(year, q) {
			return false
		}
	}
	return true
}

// IsForecastYear applies the forecast rule: the current year and later are
// always forecast; the previous year is forecast when its Q4 is missing or it
// is listed in ForecastYears; anything older is never forecast.
func (c *Classifier) IsForecastYear(year string) bool {
	y, err := model.ParseYear(year)
	if err != nil {
		return false
	}
	switch {
	case y >= c.CurrentYear:
		return true
	case y < c.CurrentYear-1:
		return false
	default:
		return !c.HasQuarterData(year, "Q4") || slices.Contains(c.ForecastYears, year)
	}
}

// IsForecastQuarter decides the forecast flag of one quarter column. A quarter
// with reported data is never a forecast.
func (c *Classifier) IsForecastQuarter(year, quarter string, hasActual bool) bool {
	if hasActual {
		return false
	}
	return slices.Contains(c.ForecastQuarters, model.QuarterKey(year, quarter)) ||
		slices.Contains(c.ForecastYears, year) ||
		c.IsForecastYear(year)
}

// FilterIncompleteYears drops years older than the previous year that lack a
// full set of four quarters. Malformed year keys are dropped as well.
func (c *Classifier) FilterIncompleteYears(years []string) []string {
	out := make([]string, 0, len(years))
	for _, year := range years {
		y, err := model.ParseYear(year)
		if err != nil {
			continue
		}
		if y >= c.CurrentYear-1 || c.hasFullYear(year) {
			out = append(out, year)
		}
	}
	return out
}

// FillYearGaps returns every year between the smallest and largest valid
// entries, inclusive and ascending.
func FillYearGaps(years []string) []string {
	lo, hi, ok := bounds(years)
	if !ok {
		return nil
	}
	out := make([]string, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		out = append(out, strconv.Itoa(y))
	}
	return out
}

// VisibleYears runs filter -> fill -> filter over candidate years. The second
// filter removes stale gap years the fill step reintroduced without data.
func (c *Classifier) VisibleYears(candidates []string) []string {
	years := c.FilterIncompleteYears(MergeYears(candidates))
	if len(years) == 0 {
		return years
	}
	return c.FilterIncompleteYears(FillYearGaps(years))
}

func bounds(years []string) (lo, hi int, ok bool) {
	for _, s := range years {
		y, err := model.ParseYear(s)
		if err != nil {
			continue
		}
		if !ok {
			lo, hi, ok = y, y, true
			continue
		}
		lo = min(lo, y)
		hi = max(hi, y)
	}
	return lo, hi, ok
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for y := range set {
		out = append(out, y)
	}
	sort.Strings(out)
	return out
}
