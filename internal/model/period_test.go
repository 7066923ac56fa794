package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriodKey(t *testing.T) {
	tests := []struct {
		key     string
		want    Period
		wantErr bool
	}{
		{key: "2024", want: Period{Year: 2024}},
		{key: " 2023_Q3 ", want: Period{Year: 2023, Quarter: 3}},
		{key: "2023_q1", want: Period{Year: 2023, Quarter: 1}},
		{key: "2023_4", want: Period{Year: 2023, Quarter: 4}},
		{key: "2023_Q5", wantErr: true},
		{key: "FY23", wantErr: true},
		{key: "", wantErr: true},
		{key: "20234", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := ParsePeriodKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriod_Labels(t *testing.T) {
	annual := Period{Year: 2022}
	assert.True(t, annual.IsAnnual())
	assert.Equal(t, "2022", annual.Key())
	assert.Empty(t, annual.QuarterLabel())

	q := Period{Year: 2022, Quarter: 2}
	assert.False(t, q.IsAnnual())
	assert.Equal(t, "Q2", q.QuarterLabel())
	assert.Equal(t, "2022_Q2", q.Key())
	assert.Equal(t, q.Key(), QuarterKey("2022", "Q2"))
}

func TestSeries_ValueDistinguishesNull(t *testing.T) {
	a := AnnualSeries{}
	a.Set(MetricNetProfit, "2022", Float(12))
	a.Set(MetricNetProfit, "2023", nil)

	v, ok := a.Value(MetricNetProfit, "2022")
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)
	_, ok = a.Value(MetricNetProfit, "2023")
	assert.False(t, ok)
	_, ok = a.Value(MetricPE, "2022")
	assert.False(t, ok)
	assert.Equal(t, []string{"2022", "2023"}, a.YearsOf(MetricNetProfit))
	assert.Nil(t, a.YearsOf("missing"))

	q := QuarterlySeries{}
	q.Set(MetricEPS, "2023", "Q4", Float(1500))
	v, ok = q.Value(MetricEPS, "2023", "Q4")
	assert.True(t, ok)
	assert.Equal(t, 1500.0, v)
	_, ok = q.Value(MetricEPS, "2023", "Q3")
	assert.False(t, ok)
	_, ok = q.Value(MetricEPS, "2024", "Q1")
	assert.False(t, ok)
}

func TestMetricValues_Set(t *testing.T) {
	m := MetricValues{}
	m.Set("NET_PROFIT", "2023_Q1", Float(1))
	m.Set("NET_PROFIT", "2023_Q2", nil)
	assert.Len(t, m["NET_PROFIT"], 2)
}
