package metric

import "github.com/sells-group/stock-screener/internal/model"

// Frequency selects the annual or quarterly indicator map.
type Frequency int

const (
	Annual Frequency = iota
	Quarterly
)

type indicatorMaps struct {
	annual    map[string]string
	quarterly map[string]string
}

// Annual EPS reported by the provider is already a four-quarter figure, so
// both EPS codes land on the plain eps key there.
var indicators = map[model.Variant]indicatorMaps{
	model.VariantIndustrial: {
		annual: map[string]string{
			CodeRevenueNet:      model.MetricNetRevenue,
			CodeGrossProfit:     model.MetricGrossProfit,
			CodeOperatingProfit: model.MetricOperatingProfit,
			CodeNetProfit:       model.MetricNetProfit,
			CodeProfitAfterTax:  model.MetricNetProfit,
			CodeEPSTTM:          model.MetricEPS,
			CodePE:              model.MetricPE,
			CodeROS:             model.MetricROS,
			CodeROE:             model.MetricROE,
			CodeROA:             model.MetricROA,
			CodeTotalAssets:     model.MetricTotalAssets,
		},
		quarterly: map[string]string{
			CodeRevenueNet:        model.MetricNetRevenue,
			CodeGrossProfit:       model.MetricGrossProfit,
			CodeOperatingProfit:   model.MetricOperatingProfit,
			CodeNetProfit:         model.MetricNetProfit,
			CodeProfitAfterTax:    model.MetricNetProfit,
			CodeEPSBasic:          model.MetricEPS,
			CodeEPSTTM:            model.MetricEPSTTM,
			CodePE:                model.MetricPE,
			CodeROS:               model.MetricROS,
			CodeROE:               model.MetricROE,
			CodeROA:               model.MetricROA,
			CodeTotalAssets:       model.MetricTotalAssets,
			CodeOutstandingShares: model.MetricOutstandingShares,
		},
	},
	model.VariantBank: {
		annual: map[string]string{
			CodeNetInterestIncome:    model.MetricNetInterestIncome,
			CodeOperatingExpenses:    model.MetricOperatingExpenses,
			CodeTotalOperatingIncome: model.MetricTotalOperatingIncome,
			CodeNetProfit:            model.MetricNetProfit,
			CodeProfitAfterTax:       model.MetricNetProfit,
			CodeTotalAssets:          model.MetricTotalAssets,
			CodeEPSBasic:             model.MetricEPS,
			CodeEPSTTM:               model.MetricEPS,
			CodePE:                   model.MetricPE,
			CodeROE:                  model.MetricROE,
			CodeROA:                  model.MetricROA,
		},
		quarterly: map[string]string{
			CodeNetInterestIncome:    model.MetricNetInterestIncome,
			CodeOperatingExpenses:    model.MetricOperatingExpenses,
			CodeTotalOperatingIncome: model.MetricTotalOperatingIncome,
			CodeNetProfit:            model.MetricNetProfit,
			CodeProfitAfterTax:       model.MetricNetProfit,
			CodeTotalAssets:          model.MetricTotalAssets,
			CodeEPSBasic:             model.MetricEPS,
			CodeEPSTTM:               model.MetricEPSTTM,
			CodePE:                   model.MetricPE,
			CodeROE:                  model.MetricROE,
			CodeROA:                  model.MetricROA,
			CodeOutstandingShares:    model.MetricOutstandingShares,
		},
	},
	model.VariantSecurities: {
		annual: map[string]string{
			CodeRevenueNet:      model.MetricNetRevenue,
			CodeGrossProfit:     model.MetricGrossProfit,
			CodeOperatingProfit: model.MetricOperatingProfit,
			CodeNetProfit:       model.MetricNetProfit,
			CodeTotalAssets:     model.MetricTotalAssets,
			CodeEPSBasic:        model.MetricEPS,
			CodeEPSTTM:          model.MetricEPS,
			CodePE:              model.MetricPE,
			CodeROS:             model.MetricROS,
			CodeROE:             model.MetricROE,
			CodeROA:             model.MetricROA,
		},
		quarterly: map[string]string{
			CodeRevenueNet:        model.MetricNetRevenue,
			CodeGrossProfit:       model.MetricGrossProfit,
			CodeOperatingProfit:   model.MetricOperatingProfit,
			CodeNetProfit:         model.MetricNetProfit,
			CodeTotalAssets:       model.MetricTotalAssets,
			CodeEPSBasic:          model.MetricEPS,
			CodeEPSTTM:            model.MetricEPSTTM,
			CodePE:                model.MetricPE,
			CodeROS:               model.MetricROS,
			CodeROE:               model.MetricROE,
			CodeROA:               model.MetricROA,
			CodeOutstandingShares: model.MetricOutstandingShares,
		},
	},
}

// IndicatorKey returns the series key a metric code feeds for variant v.
// Unknown variants use the industrial maps.
func IndicatorKey(v model.Variant, f Frequency, code string) (string, bool) {
	maps, ok := indicators[v]
	if !ok {
		maps = indicators[model.VariantIndustrial]
	}
	m := maps.annual
	if f == Quarterly {
		m = maps.quarterly
	}
	key, ok := m[code]
	return key, ok
}
