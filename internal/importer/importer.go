package importer

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/model"
	"github.com/sells-group/stock-screener/internal/store"
)

// Result summarizes one import.
type Result struct {
	BatchID string `json:"batch_id"`
	Symbol  string `json:"symbol"`
	Metrics int    `json:"metrics"`
	Periods int    `json:"periods"`
	Trading bool   `json:"trading"`
	Saved   bool   `json:"analysis"`
}

// Importer writes snapshots to a store.
type Importer struct {
	store store.Store
}

// New returns an Importer writing to st.
func New(st store.Store) *Importer {
	return &Importer{store: st}
}

// Import upserts the company and writes every part of snap that is present.
func (im *Importer) Import(ctx context.Context, snap *model.StockSnapshot) (*Result, error) {
	if snap == nil {
		return nil, eris.New("importer: nil snapshot")
	}
	res := &Result{BatchID: uuid.New().String()}
	log := zap.L().With(zap.String("batch_id", res.BatchID))

	c, err := im.store.UpsertCompany(ctx, snap.Company)
	if err != nil {
		return nil, eris.Wrap(err, "importer: upsert company")
	}
	res.Symbol = c.Symbol

	metrics := model.MetricValues{}
	for _, set := range []model.MetricValues{snap.YearlyMetrics, snap.QuarterlyMetrics} {
		for code, byPeriod := range set {
			for key, v := range byPeriod {
				metrics.Set(code, key, v)
			}
		}
	}
	if len(metrics) > 0 || len(snap.Periods) > 0 {
		n, err := im.store.SaveMetrics(ctx, c.Symbol, snap.Periods, metrics)
		if err != nil {
			return nil, eris.Wrapf(err, "importer: save metrics %s", c.Symbol)
		}
		res.Metrics = n
		res.Periods = len(snap.Periods)
	}

	if snap.Trading != nil {
		if err := im.store.SaveTradingSnapshot(ctx, c.Symbol, *snap.Trading); err != nil {
			return nil, eris.Wrapf(err, "importer: save trading %s", c.Symbol)
		}
		res.Trading = true
	}
	if snap.Analysis != nil {
		if err := im.store.SaveAnalysis(ctx, c.Symbol, *snap.Analysis); err != nil {
			return nil, eris.Wrapf(err, "importer: save analysis %s", c.Symbol)
		}
		res.Saved = true
	}

	log.Info("importer: imported stock",
		zap.String("symbol", res.Symbol),
		zap.Int("metrics", res.Metrics),
		zap.Int("periods", res.Periods),
	)
	return res, nil
}

// ImportTable writes a metric workbook for an existing or new symbol.
func (im *Importer) ImportTable(ctx context.Context, symbol string, t *MetricTable) (*Result, error) {
	if t == nil {
		return nil, eris.New("importer: nil metric table")
	}
	return im.Import(ctx, &model.StockSnapshot{
		Company:          model.Company{Symbol: symbol},
		Periods:          t.Periods,
		QuarterlyMetrics: t.Quarterly,
		YearlyMetrics:    t.Yearly,
	})
}
