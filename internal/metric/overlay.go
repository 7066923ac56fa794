package metric

import (
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/model"
)

// fallbackCodes share a series key with a more specific code and lose to it
// when both report the same period.
var fallbackCodes = map[string]bool{
	CodeProfitAfterTax: true,
	CodeEPSBasic:       true,
}

// overlayOrder applies fallback codes first so the specific code overwrites them.
func overlayOrder(metrics model.MetricValues) []string {
	codes := make([]string, 0, len(metrics))
	for code := range metrics {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		fi, fj := fallbackCodes[codes[i]], fallbackCodes[codes[j]]
		if fi != fj {
			return fi
		}
		return codes[i] < codes[j]
	})
	return codes
}

// OverlayQuarterly writes stored quarterly metric values onto dst. Keys must
// look like "2024_Q1"; anything else is skipped and logged. Codes with no
// indicator for variant v are ignored. Returns the number of values written.
func OverlayQuarterly(dst model.QuarterlySeries, metrics model.MetricValues, v model.Variant) int {
	n := 0
	for _, code := range overlayOrder(metrics) {
		key, ok := IndicatorKey(v, Quarterly, code)
		if !ok {
			continue
		}
		for periodKey, val := range metrics[code] {
			p, err := model.ParsePeriodKey(periodKey)
			if err != nil || p.IsAnnual() {
				zap.L().Warn("metric: skip malformed quarterly key",
					zap.String("code", code),
					zap.String("period", periodKey),
				)
				continue
			}
			if val == nil && hasQuarter(dst, key, p) {
				continue
			}
			dst.Set(key, p.YearLabel(), p.QuarterLabel(), copyFloat(val))
			n++
		}
	}
	return n
}

// OverlayAnnual writes stored yearly metric values onto dst. Keys must be a
// four-digit year. Returns the number of values written.
func OverlayAnnual(dst model.AnnualSeries, metrics model.MetricValues, v model.Variant) int {
	n := 0
	for _, code := range overlayOrder(metrics) {
		key, ok := IndicatorKey(v, Annual, code)
		if !ok {
			continue
		}
		for periodKey, val := range metrics[code] {
			p, err := model.ParsePeriodKey(periodKey)
			if err != nil || !p.IsAnnual() {
				zap.L().Warn("metric: skip malformed annual key",
					zap.String("code", code),
					zap.String("period", periodKey),
				)
				continue
			}
			if val == nil {
				if _, present := dst.Value(key, p.YearLabel()); present {
					continue
				}
			}
			dst.Set(key, p.YearLabel(), copyFloat(val))
			n++
		}
	}
	return n
}

// SyncYearsToQuarterly adds every year present in annual but missing from
// quarterly to each quarterly indicator, with four null quarters.
func SyncYearsToQuarterly(annual model.AnnualSeries, quarterly model.QuarterlySeries) []string {
	have := make(map[string]bool)
	for _, byYear := range quarterly {
		for y := range byYear {
			have[y] = true
		}
	}
	missing := make(map[string]bool)
	for _, byYear := range annual {
		for y := range byYear {
			if !have[y] {
				missing[y] = true
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}

	added := make([]string, 0, len(missing))
	for y := range missing {
		added = append(added, y)
	}
	sort.Strings(added)
	for key := range quarterly {
		for _, y := range added {
			for _, q := range model.QuarterLabels {
				quarterly.Set(key, y, q, nil)
			}
		}
	}
	return added
}

// ProcessForecasts splits forecast period records into forecast years and
// "{year}_Q{n}" forecast quarters, both sorted and de-duplicated.
func ProcessForecasts(periods []model.PeriodRecord) (years, quarters []string) {
	ys := make(map[string]bool)
	qs := make(map[string]bool)
	for _, p := range periods {
		if !p.IsForecast {
			continue
		}
		if p.Source == "year" || p.IsAnnual() {
			ys[strconv.Itoa(p.Year)] = true
		} else {
			qs[p.Key()] = true
		}
	}
	return setToSorted(ys), setToSorted(qs)
}

func hasQuarter(s model.QuarterlySeries, key string, p model.Period) bool {
	_, ok := s.Value(key, p.YearLabel(), p.QuarterLabel())
	return ok
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return model.Float(*v)
}

func setToSorted(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
