package layout

// AnnualRows holds absolute row indexes of the annual table.
type AnnualRows struct {
	Header          int
	NetRevenue      int
	GrossProfit     int
	OperatingProfit int
	NetProfit       int
	GrossMargin     int
	NetProfitMargin int
	NetMargin       int
	EPS             int
	PE              int
	ROS             int
	ROE             int
	ROA             int
	RevGrowth       int
	ProfitGrowth    int
}

// Of returns the index of a semantic row, or -1 for rows the annual table lacks.
func (r AnnualRows) Of(row Row) int {
	switch row {
	case RowHeader:
		return r.Header
	case RowNetRevenue:
		return r.NetRevenue
	case RowGrossProfit:
		return r.GrossProfit
	case RowOperatingProfit:
		return r.OperatingProfit
	case RowNetProfit:
		return r.NetProfit
	case RowGrossMargin:
		return r.GrossMargin
	case RowNetProfitMargin:
		return r.NetProfitMargin
	case RowNetMargin:
		return r.NetMargin
	case RowEPS:
		return r.EPS
	case RowPE:
		return r.PE
	case RowROS:
		return r.ROS
	case RowROE:
		return r.ROE
	case RowROA:
		return r.ROA
	case RowRevGrowth:
		return r.RevGrowth
	case RowProfitGrowth:
		return r.ProfitGrowth
	}
	return -1
}

// QuarterlyRows holds absolute row indexes of the quarterly table.
type QuarterlyRows struct {
	YearHeader      int
	QuarterHeader   int
	Revenue         int
	GrossProfit     int
	OperatingProfit int
	GrossMargin     int
	NetProfit       int
	Shares          int
	NetProfitMargin int
	NetMargin       int
	EPS             int
	EPSTTM          int
	PE              int
	ROE             int
	ROA             int
	RevGrowth       int
	ProfitGrowth    int
}

// Of returns the index of a semantic row, or -1 for rows the quarterly table lacks.
func (r QuarterlyRows) Of(row Row) int {
	switch row {
	case RowYearHeader:
		return r.YearHeader
	case RowQuarterHeader:
		return r.QuarterHeader
	case RowNetRevenue:
		return r.Revenue
	case RowGrossProfit:
		return r.GrossProfit
	case RowOperatingProfit:
		return r.OperatingProfit
	case RowGrossMargin:
		return r.GrossMargin
	case RowNetProfit:
		return r.NetProfit
	case RowShares:
		return r.Shares
	case RowNetProfitMargin:
		return r.NetProfitMargin
	case RowNetMargin:
		return r.NetMargin
	case RowEPS:
		return r.EPS
	case RowEPSTTM:
		return r.EPSTTM
	case RowPE:
		return r.PE
	case RowROE:
		return r.ROE
	case RowROA:
		return r.ROA
	case RowRevGrowth:
		return r.RevGrowth
	case RowProfitGrowth:
		return r.ProfitGrowth
	}
	return -1
}
