package layout

import "github.com/sells-group/stock-screener/internal/model"

var industrialSchema = &Schema{
	Variant: model.VariantIndustrial,
	Title:   "TẦM SOÁT CỔ PHIẾU",
	annualOffsets: map[Row]int{
		RowHeader:          0,
		RowNetRevenue:      1,
		RowGrossProfit:     2,
		RowOperatingProfit: 3,
		RowNetProfit:       4,
		RowGrossMargin:     5,
		RowNetMargin:       6,
		RowEPS:             7,
		RowPE:              8,
		RowROS:             9,
		RowROE:             10,
		RowROA:             11,
		RowRevGrowth:       12,
		RowProfitGrowth:    13,
	},
	quarterlyOffsets: map[Row]int{
		RowYearHeader:      0,
		RowQuarterHeader:   1,
		RowNetRevenue:      2,
		RowGrossProfit:     3,
		RowOperatingProfit: 4,
		RowGrossMargin:     5,
		RowNetProfit:       6,
		RowShares:          7,
		RowNetMargin:       8,
		RowEPS:             9,
		RowEPSTTM:          10,
		RowPE:              11,
		RowRevGrowth:       12,
		RowProfitGrowth:    13,
	},
	annualLabels: []RowLabel{
		{Row: RowNetRevenue, Label: "Doanh thu thuần"},
		{Row: RowGrossProfit, Label: "Lợi nhuận gộp"},
		{Row: RowOperatingProfit, Label: "LN từ HĐKD"},
		{Row: RowNetProfit, Label: "LNST công ty mẹ"},
		{Row: RowGrossMargin, Label: "Biên LN gộp (%)"},
		{Row: RowNetMargin, Label: "Biên LN ròng (%)"},
		{Row: RowEPS, Label: "EPS (Vietstock)"},
		{Row: RowPE, Label: "P/E (Vietstock)"},
		{Row: RowROS, Label: "ROS (%)"},
		{Row: RowROE, Label: "ROE (%)"},
		{Row: RowROA, Label: "ROA (%)"},
		{Row: RowRevGrowth, Label: "TT tăng trưởng DT", Red: true},
		{Row: RowProfitGrowth, Label: "TT tăng trưởng LNST", Red: true},
	},
	quarterlyLabels: []RowLabel{
		{Row: RowNetRevenue, Label: "Doanh thu thuần"},
		{Row: RowGrossProfit, Label: "Lợi nhuận gộp"},
		{Row: RowOperatingProfit, Label: "LN từ HĐKD"},
		{Row: RowGrossMargin, Label: "Biên lợi nhuận gộp"},
		{Row: RowNetProfit, Label: "LNST công ty mẹ", Red: true},
		{Row: RowShares, Label: "KL CP lưu hành"},
		{Row: RowNetMargin, Label: "Biên lợi nhuận ròng"},
		{Row: RowEPS, Label: "EPS quý"},
		{Row: RowEPSTTM, Label: "EPS lũy kế"},
		{Row: RowPE, Label: "P/E"},
		{Row: RowRevGrowth, Label: "TT DT (%)", Red: true},
		{Row: RowProfitGrowth, Label: "TT LNST (%)", Red: true},
	},
	inputLabels: InputLabels{
		CurrentPrice:      "Giá cổ phiếu",
		OutstandingShares: "Số lượng CP lưu hành",
		Max52W:            "Giá cao nhất 52T",
		Min52W:            "Giá thấp nhất 52T",
		RevenueGrowth:     "% TT Doanh thu",
		GrossMargin:       "% Biên LN gộp",
		NetProfitGrowth:   "% TT LNST",
	},
	sources: map[Row]string{
		RowNetRevenue:      model.MetricNetRevenue,
		RowGrossProfit:     model.MetricGrossProfit,
		RowOperatingProfit: model.MetricOperatingProfit,
		RowNetProfit:       model.MetricNetProfit,
		RowEPS:             model.MetricEPS,
		RowPE:              model.MetricPE,
		RowROS:             model.MetricROS,
		RowROE:             model.MetricROE,
		RowROA:             model.MetricROA,
	},
	ttmSources:       []string{model.MetricEPSTTM, model.MetricEPS},
	detectionMetrics: []string{model.MetricNetRevenue, model.MetricNetProfit, model.MetricGrossProfit, model.MetricEPS},
	actualMetrics:    []string{model.MetricNetRevenue},
	grossFromMargin:  true,
}

var bankSchema = &Schema{
	Variant: model.VariantBank,
	Title:   "TẦM SOÁT CỔ PHIẾU NGÂN HÀNG",
	annualOffsets: map[Row]int{
		RowHeader:          0,
		RowNetRevenue:      1,
		RowGrossProfit:     2,
		RowNetProfit:       3,
		RowNetProfitMargin: 4,
		RowNetMargin:       5,
		RowEPS:             6,
		RowPE:              7,
		RowROE:             8,
		RowROA:             9,
		RowRevGrowth:       10,
		RowProfitGrowth:    11,
	},
	quarterlyOffsets: map[Row]int{
		RowYearHeader:      0,
		RowQuarterHeader:   1,
		RowNetRevenue:      2,
		RowGrossProfit:     3,
		RowNetProfit:       4,
		RowShares:          5,
		RowNetProfitMargin: 6,
		RowNetMargin:       7,
		RowEPS:             8,
		RowEPSTTM:          9,
		RowPE:              10,
		RowROE:             11,
		RowROA:             12,
		RowRevGrowth:       13,
		RowProfitGrowth:    14,
	},
	annualLabels: []RowLabel{
		{Row: RowNetRevenue, Label: "Thu nhập lãi thuần"},
		{Row: RowGrossProfit, Label: "Chi phí hoạt động"},
		{Row: RowNetProfit, Label: "LNST"},
		{Row: RowNetProfitMargin, Label: "Biên LN ròng (%)"},
		{Row: RowNetMargin, Label: "ROA (%)"},
		{Row: RowEPS, Label: "EPS (Vietstock)"},
		{Row: RowPE, Label: "P/E (Vietstock)"},
		{Row: RowROE, Label: "ROE (%)"},
		{Row: RowROA, Label: "ROA (%)"},
		{Row: RowRevGrowth, Label: "TT Thu nhập lãi (%)", Red: true},
		{Row: RowProfitGrowth, Label: "TT LNST (%)", Red: true},
	},
	quarterlyLabels: []RowLabel{
		{Row: RowNetRevenue, Label: "Thu nhập lãi thuần"},
		{Row: RowGrossProfit, Label: "Chi phí hoạt động"},
		{Row: RowNetProfit, Label: "LNST", Red: true},
		{Row: RowShares, Label: "KL CP lưu hành"},
		{Row: RowNetProfitMargin, Label: "Biên LN ròng (%)"},
		{Row: RowNetMargin, Label: "ROA (%)"},
		{Row: RowEPS, Label: "EPS quý"},
		{Row: RowEPSTTM, Label: "EPS lũy kế"},
		{Row: RowPE, Label: "P/E"},
		{Row: RowROE, Label: "ROE (%)"},
		{Row: RowROA, Label: "ROA (%)"},
		{Row: RowRevGrowth, Label: "TT Thu nhập lãi (%)", Red: true},
		{Row: RowProfitGrowth, Label: "TT LNST (%)", Red: true},
	},
	inputLabels: InputLabels{
		CurrentPrice:      "Giá cổ phiếu",
		OutstandingShares: "Số lượng CP lưu hành",
		Max52W:            "Giá cao nhất 52T",
		Min52W:            "Giá thấp nhất 52T",
		RevenueGrowth:     "% TT Thu nhập lãi",
		GrossMargin:       "% NIM",
		NetProfitGrowth:   "% TT LNST",
	},
	sources: map[Row]string{
		RowNetRevenue:  model.MetricNetInterestIncome,
		RowGrossProfit: model.MetricOperatingExpenses,
		RowNetProfit:   model.MetricNetProfit,
		RowEPS:         model.MetricEPS,
		RowPE:          model.MetricPE,
		RowROE:         model.MetricROE,
		RowROA:         model.MetricROA,
	},
	ttmSources:       []string{model.MetricEPSTTM, model.MetricEPS},
	detectionMetrics: []string{model.MetricNetInterestIncome, model.MetricNetProfit, model.MetricTotalAssets, model.MetricEPS},
	actualMetrics:    []string{model.MetricNetInterestIncome, model.MetricTotalAssets},
	roaProxy:         true,
}

var securitiesSchema = &Schema{
	Variant: model.VariantSecurities,
	Title:   "TẦM SOÁT CỔ PHIẾU CHỨNG KHOÁN",
	annualOffsets: map[Row]int{
		RowHeader:          0,
		RowNetRevenue:      1,
		RowGrossProfit:     2,
		RowOperatingProfit: 3,
		RowNetProfit:       4,
		RowGrossMargin:     5,
		RowNetProfitMargin: 6,
		RowEPS:             7,
		RowPE:              8,
		RowROS:             9,
		RowROE:             10,
		RowROA:             11,
		RowRevGrowth:       12,
		RowProfitGrowth:    13,
	},
	quarterlyOffsets: map[Row]int{
		RowYearHeader:      0,
		RowQuarterHeader:   1,
		RowNetRevenue:      2,
		RowGrossProfit:     3,
		RowOperatingProfit: 4,
		RowNetProfit:       5,
		RowShares:          6,
		RowGrossMargin:     7,
		RowNetProfitMargin: 8,
		RowEPS:             9,
		RowEPSTTM:          10,
		RowPE:              11,
		RowROE:             12,
		RowROA:             13,
		RowRevGrowth:       14,
		RowProfitGrowth:    15,
	},
	annualLabels: []RowLabel{
		{Row: RowNetRevenue, Label: "DT từ KD chứng khoán"},
		{Row: RowGrossProfit, Label: "Lợi nhuận gộp"},
		{Row: RowOperatingProfit, Label: "LNT từ KD chứng khoán"},
		{Row: RowNetProfit, Label: "LNST"},
		{Row: RowGrossMargin, Label: "Biên LN gộp (%)"},
		{Row: RowNetProfitMargin, Label: "Biên LN ròng (%)"},
		{Row: RowEPS, Label: "EPS (Vietstock)"},
		{Row: RowPE, Label: "P/E (Vietstock)"},
		{Row: RowROS, Label: "ROS (%)"},
		{Row: RowROE, Label: "ROE (%)"},
		{Row: RowROA, Label: "ROA (%)"},
		{Row: RowRevGrowth, Label: "TT Doanh thu (%)", Red: true},
		{Row: RowProfitGrowth, Label: "TT LNST (%)", Red: true},
	},
	quarterlyLabels: []RowLabel{
		{Row: RowNetRevenue, Label: "DT từ KD chứng khoán"},
		{Row: RowGrossProfit, Label: "Lợi nhuận gộp"},
		{Row: RowOperatingProfit, Label: "LNT từ KD chứng khoán"},
		{Row: RowNetProfit, Label: "LNST", Red: true},
		{Row: RowShares, Label: "KL CP lưu hành"},
		{Row: RowGrossMargin, Label: "Biên LN gộp (%)"},
		{Row: RowNetProfitMargin, Label: "Biên LN ròng (%)"},
		{Row: RowEPS, Label: "EPS quý"},
		{Row: RowEPSTTM, Label: "EPS lũy kế"},
		{Row: RowPE, Label: "P/E"},
		{Row: RowROE, Label: "ROE (%)"},
		{Row: RowROA, Label: "ROA (%)"},
		{Row: RowRevGrowth, Label: "TT Doanh thu (%)", Red: true},
		{Row: RowProfitGrowth, Label: "TT LNST (%)", Red: true},
	},
	inputLabels: InputLabels{
		CurrentPrice:      "Giá cổ phiếu",
		OutstandingShares: "Số lượng CP lưu hành",
		Max52W:            "Giá cao nhất 52T",
		Min52W:            "Giá thấp nhất 52T",
		RevenueGrowth:     "% TT Doanh thu",
		GrossMargin:       "% Biên LN gộp",
		NetProfitGrowth:   "% TT LNST",
	},
	sources: map[Row]string{
		RowNetRevenue:      model.MetricNetRevenue,
		RowGrossProfit:     model.MetricGrossProfit,
		RowOperatingProfit: model.MetricOperatingProfit,
		RowNetProfit:       model.MetricNetProfit,
		RowEPS:             model.MetricEPS,
		RowPE:              model.MetricPE,
		RowROS:             model.MetricROS,
		RowROE:             model.MetricROE,
		RowROA:             model.MetricROA,
	},
	ttmSources:       []string{model.MetricEPSTTM, model.MetricEPS},
	detectionMetrics: []string{model.MetricNetRevenue, model.MetricNetProfit, model.MetricOperatingProfit, model.MetricEPS},
	actualMetrics:    []string{model.MetricNetRevenue, model.MetricNetProfit},
	grossFromMargin:  true,
}
