package metric

import (
	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/model"
)

// Assemble turns a stored snapshot into the series a sheet build consumes.
// An empty variant is detected from the symbol and the stored metric codes.
func Assemble(snap *model.StockSnapshot, variant model.Variant) *model.SeriesData {
	if snap == nil {
		return nil
	}
	symbol := snap.Company.Symbol
	if variant == "" {
		variant = detect(snap)
	}

	annual := model.AnnualSeries{}
	quarterly := model.QuarterlySeries{}
	na := OverlayAnnual(annual, snap.YearlyMetrics, variant)
	nq := OverlayQuarterly(quarterly, snap.QuarterlyMetrics, variant)
	synced := SyncYearsToQuarterly(annual, quarterly)
	forecastYears, forecastQuarters := ProcessForecasts(snap.Periods)

	data := &model.SeriesData{
		Symbol:           symbol,
		Variant:          variant,
		Annual:           annual,
		Quarterly:        quarterly,
		ForecastYears:    forecastYears,
		ForecastQuarters: forecastQuarters,
		Inputs:           inputsFrom(snap.Trading),
	}
	if a := snap.Analysis; a != nil {
		applyAnalysis(data, a)
	}

	zap.L().Debug("metric: assembled series",
		zap.String("symbol", symbol),
		zap.String("variant", string(variant)),
		zap.Int("annual_values", na),
		zap.Int("quarterly_values", nq),
		zap.Strings("synced_years", synced),
		zap.Strings("forecast_years", forecastYears),
	)
	return data
}

func detect(snap *model.StockSnapshot) model.Variant {
	v := model.DetectVariant(snap.Company.Symbol, nil, nil)
	if v != model.VariantIndustrial {
		return v
	}
	if len(snap.YearlyMetrics[CodeNetInterestIncome]) > 0 || len(snap.QuarterlyMetrics[CodeNetInterestIncome]) > 0 {
		return model.VariantBank
	}
	return v
}

func inputsFrom(t *model.TradingSnapshot) model.Inputs {
	if t == nil {
		return model.Inputs{}
	}
	in := model.Inputs{
		CurrentPrice:      t.LastPrice,
		OutstandingShares: t.OutstandingShares,
		Max52W:            t.Max52W,
		Min52W:            t.Min52W,
	}
	if !t.TradingDate.IsZero() {
		in.TradingDate = t.TradingDate.Format("2006-01-02")
	}
	return in
}

// applyAnalysis layers saved user edits over the stored data. Saved inputs
// replace the assumptions but keep market data the user left at zero.
func applyAnalysis(data *model.SeriesData, a *model.Analysis) {
	if len(a.PEAssumptions) > 0 {
		data.PEAssumptions = append([]float64(nil), a.PEAssumptions...)
	}
	if in := a.Inputs; in != nil {
		data.Inputs.RevenueGrowth = in.RevenueGrowth
		data.Inputs.GrossMargin = in.GrossMargin
		data.Inputs.NetProfitGrowth = in.NetProfitGrowth
		if in.CurrentPrice != 0 {
			data.Inputs.CurrentPrice = in.CurrentPrice
		}
		if in.OutstandingShares != 0 {
			data.Inputs.OutstandingShares = in.OutstandingShares
		}
		if in.Max52W != 0 {
			data.Inputs.Max52W = in.Max52W
		}
		if in.Min52W != 0 {
			data.Inputs.Min52W = in.Min52W
		}
	}
	for year, byQuarter := range a.Shares {
		for quarter, shares := range byQuarter {
			data.Quarterly.Set(model.MetricOutstandingShares, year, quarter, model.Float(shares))
		}
	}
}
