package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/stock-screener/internal/model"
)

func TestFor_ReturnsVariantSchema(t *testing.T) {
	tests := []struct {
		variant model.Variant
		want    model.Variant
	}{
		{model.VariantIndustrial, model.VariantIndustrial},
		{model.VariantBank, model.VariantBank},
		{model.VariantSecurities, model.VariantSecurities},
		{model.Variant("unknown"), model.VariantIndustrial},
	}
	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			assert.Equal(t, tt.want, For(tt.variant).Variant)
		})
	}
}

func TestAnnualRows_Industrial(t *testing.T) {
	rows := For(model.VariantIndustrial).AnnualRows(3)
	assert.Equal(t, 3, rows.Header)
	assert.Equal(t, 4, rows.NetRevenue)
	assert.Equal(t, 7, rows.NetProfit)
	assert.Equal(t, 10, rows.EPS)
	assert.Equal(t, 16, rows.ProfitGrowth)
}

func TestAnnualRows_StartRowShiftsEverything(t *testing.T) {
	s := For(model.VariantSecurities)
	a := s.AnnualRows(3)
	b := s.AnnualRows(10)
	assert.Equal(t, a.NetRevenue+7, b.NetRevenue)
	assert.Equal(t, a.ProfitGrowth+7, b.ProfitGrowth)
	assert.Equal(t, a.NetMargin+7, b.NetMargin)
}

func TestQuarterlyRows_ReserveTwoHeaderRows(t *testing.T) {
	for _, v := range []model.Variant{model.VariantIndustrial, model.VariantBank, model.VariantSecurities} {
		rows := For(v).QuarterlyRows(20)
		assert.Equal(t, 20, rows.YearHeader, v)
		assert.Equal(t, 21, rows.QuarterHeader, v)
		assert.Equal(t, 22, rows.Revenue, v)
	}
}

func TestUnusedRows_AreOutOfRangeAndDistinct(t *testing.T) {
	tests := []struct {
		variant model.Variant
		unused  []Row
	}{
		{model.VariantIndustrial, []Row{RowNetProfitMargin}},
		{model.VariantBank, []Row{RowOperatingProfit, RowGrossMargin, RowROS}},
		{model.VariantSecurities, []Row{RowNetMargin}},
	}
	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			s := For(tt.variant)
			rows := s.AnnualRows(3)
			seen := map[int]bool{}
			for _, r := range tt.unused {
				assert.False(t, s.HasAnnual(r))
				idx := rows.Of(r)
				assert.Greater(t, idx, rows.ProfitGrowth)
				assert.False(t, seen[idx], "unused rows collide")
				seen[idx] = true
			}
		})
	}
}

func TestQuarterlyRows_NoCollisionsAmongUsedRows(t *testing.T) {
	for _, v := range []model.Variant{model.VariantIndustrial, model.VariantBank, model.VariantSecurities} {
		s := For(v)
		rows := s.QuarterlyRows(0)
		seen := map[int]Row{}
		for _, r := range allRows {
			if !s.HasQuarterly(r) {
				continue
			}
			idx := rows.Of(r)
			prev, dup := seen[idx]
			assert.False(t, dup, "%s: %s collides with %s", v, r, prev)
			seen[idx] = r
		}
	}
}

func TestLabels_CoverOnlyRenderedRows(t *testing.T) {
	for _, v := range []model.Variant{model.VariantIndustrial, model.VariantBank, model.VariantSecurities} {
		s := For(v)
		for _, l := range s.AnnualLabels() {
			assert.True(t, s.HasAnnual(l.Row), "%s annual label %s", v, l.Row)
		}
		for _, l := range s.QuarterlyLabels() {
			assert.True(t, s.HasQuarterly(l.Row), "%s quarterly label %s", v, l.Row)
		}
	}
}

func TestBankSchema_RelabelsRevenueRow(t *testing.T) {
	s := For(model.VariantBank)
	assert.Equal(t, model.MetricNetInterestIncome, s.Source(RowNetRevenue))
	assert.Equal(t, model.MetricOperatingExpenses, s.Source(RowGrossProfit))
	assert.True(t, s.ROAProxy())
	assert.False(t, s.GrossFromMargin())
	assert.Equal(t, "Thu nhập lãi thuần", s.AnnualLabels()[0].Label)
	assert.Equal(t, "% NIM", s.InputLabels().GrossMargin)
}

func TestAccessors_ReturnCopies(t *testing.T) {
	s := For(model.VariantIndustrial)
	m := s.DetectionMetrics()
	m[0] = "mutated"
	assert.Equal(t, model.MetricNetRevenue, s.DetectionMetrics()[0])
}
