// Package importer loads stock data from YAML fixtures and XLSX metric tables
// and writes it to a store.
package importer

import (
	"io"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/stock-screener/internal/metric"
	"github.com/sells-group/stock-screener/internal/model"
)

// ReadFixtureFile decodes a YAML stock fixture from path.
func ReadFixtureFile(path string) (*model.StockSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: open fixture %s", path)
	}
	defer f.Close() //nolint:errcheck
	return ReadFixture(f)
}

// ReadFixture decodes a YAML stock fixture. Metric names may be internal codes
// or upstream display names; unresolvable names are dropped with a warning.
// Periods referenced by metric keys but not listed are added as reported
// periods.
func ReadFixture(r io.Reader) (*model.StockSnapshot, error) {
	var snap model.StockSnapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		return nil, eris.Wrap(err, "importer: decode fixture")
	}
	if snap.Company.Symbol == "" {
		return nil, eris.New("importer: fixture has no company symbol")
	}

	var err error
	if snap.YearlyMetrics, err = resolveCodes(snap.YearlyMetrics); err != nil {
		return nil, err
	}
	if snap.QuarterlyMetrics, err = resolveCodes(snap.QuarterlyMetrics); err != nil {
		return nil, err
	}
	snap.Periods = completePeriods(snap.Periods, snap.YearlyMetrics, snap.QuarterlyMetrics)
	return &snap, nil
}

// resolveCodes rewrites metric names to internal codes and validates period keys.
func resolveCodes(in model.MetricValues) (model.MetricValues, error) {
	out := model.MetricValues{}
	for name, byPeriod := range in {
		code, ok := metric.ResolveCode(name)
		if !ok {
			zap.L().Warn("importer: unknown metric", zap.String("name", name))
			continue
		}
		for key, v := range byPeriod {
			p, err := model.ParsePeriodKey(key)
			if err != nil {
				return nil, eris.Wrapf(err, "importer: metric %q", name)
			}
			out.Set(code, p.Key(), v)
		}
	}
	return out, nil
}

// completePeriods adds a period record for every metric key not already listed.
func completePeriods(periods []model.PeriodRecord, sets ...model.MetricValues) []model.PeriodRecord {
	seen := make(map[model.Period]bool, len(periods))
	for _, p := range periods {
		seen[p.Period] = true
	}
	for _, set := range sets {
		for _, byPeriod := range set {
			for key := range byPeriod {
				p, err := model.ParsePeriodKey(key)
				if err != nil || seen[p] {
					continue
				}
				seen[p] = true
				source := "quarter"
				if p.IsAnnual() {
					source = "year"
				}
				periods = append(periods, model.PeriodRecord{Period: p, Source: source})
			}
		}
	}
	sort.SliceStable(periods, func(i, j int) bool {
		if periods[i].Year != periods[j].Year {
			return periods[i].Year < periods[j].Year
		}
		return periods[i].Quarter < periods[j].Quarter
	})
	return periods
}
