package store

import (
	"context"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/stock-screener/internal/model"
)

// ErrNotFound is returned when a symbol has no stored company.
var ErrNotFound = eris.New("store: not found")

// Store persists companies, their reported and forecast metrics, market data
// and the user's saved analysis.
type Store interface {
	// Companies
	UpsertCompany(ctx context.Context, c model.Company) (*model.Company, error)
	ListSymbols(ctx context.Context) ([]string, error)

	// Metrics. Period keys are "2024" for years and "2024_Q1" for quarters.
	SaveMetrics(ctx context.Context, symbol string, periods []model.PeriodRecord, metrics model.MetricValues) (int, error)
	SaveTradingSnapshot(ctx context.Context, symbol string, t model.TradingSnapshot) error

	// Analysis
	SaveAnalysis(ctx context.Context, symbol string, a model.Analysis) error

	// LoadStock returns everything stored for symbol, or ErrNotFound.
	LoadStock(ctx context.Context, symbol string) (*model.StockSnapshot, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// normalizeSymbol is applied to every symbol on the way in.
func normalizeSymbol(s string) string {
	return model.NormalizeSymbol(s)
}

// splitMetrics separates stored values into quarterly and yearly maps by
// period key shape.
func splitMetrics(snap *model.StockSnapshot, code, periodKey string, v *float64) {
	if strings.Contains(periodKey, "_") {
		snap.QuarterlyMetrics.Set(code, periodKey, v)
		return
	}
	snap.YearlyMetrics.Set(code, periodKey, v)
}

func newSnapshot(c model.Company) *model.StockSnapshot {
	return &model.StockSnapshot{
		Company:          c,
		QuarterlyMetrics: model.MetricValues{},
		YearlyMetrics:    model.MetricValues{},
	}
}

// metricRows flattens metrics into (code, period_key, value) rows sorted for
// stable writes.
func metricRows(metrics model.MetricValues) [][3]any {
	codes := make([]string, 0, len(metrics))
	for code := range metrics {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var out [][3]any
	for _, code := range codes {
		keys := make([]string, 0, len(metrics[code]))
		for k := range metrics[code] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			var v any
			if p := metrics[code][k]; p != nil {
				v = *p
			}
			out = append(out, [3]any{code, k, v})
		}
	}
	return out
}

// validateMetrics rejects metric keys that are not period keys.
func validateMetrics(metrics model.MetricValues) error {
	for code, byPeriod := range metrics {
		if strings.TrimSpace(code) == "" {
			return eris.New("store: empty metric code")
		}
		for k := range byPeriod {
			if _, err := model.ParsePeriodKey(k); err != nil {
				return eris.Wrapf(err, "store: metric %s", code)
			}
		}
	}
	return nil
}
